package graph

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/logger"
)

// ============================================================================
// Recommendation Operations
// ============================================================================

// Recommender answers "users who liked this post also liked" queries
type Recommender struct {
	exec   Executor
	limit  int
	logger *zap.Logger
}

// NewRecommender creates a recommender returning at most limit posts
func NewRecommender(exec Executor, limit int) *Recommender {
	if limit < 1 {
		limit = constants.DefaultRecommendationLimit
	}
	return &Recommender{
		exec:   exec,
		limit:  limit,
		logger: logger.Named("recommendations"),
	}
}

// RecommendFromLikers returns other posts liked by the likers of postID, not
// counting excludeUserID, ranked by shared likers and then by recency
func (r *Recommender) RecommendFromLikers(ctx context.Context, postID, excludeUserID string) ([]Recommendation, error) {
	query := `
		MATCH (target:Post {postId: $postId})<-[:LIKED]-(liker:User)
		WHERE liker.userId <> $excludeUserId
		MATCH (liker)-[:LIKED]->(other:Post)
		WHERE other <> target
		WITH other, count(DISTINCT liker) AS commonLikersCount
		MATCH (author:User)-[:POSTED]->(other)
		OPTIONAL MATCH (other)-[:HAS_TAG]->(t:Tag)
		WITH other, author, commonLikersCount, collect(DISTINCT t.name) AS tags
		RETURN other.postId AS postId, other.content AS content, other.createdAt AS createdAt,
		       author.username AS authorUsername, commonLikersCount, tags
		ORDER BY commonLikersCount DESC, createdAt DESC
		LIMIT $limit
	`

	records, err := r.exec.RunRead(ctx, "recommend_from_likers", query, map[string]any{
		"postId":        postID,
		"excludeUserId": excludeUserID,
		"limit":         r.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	recommendations := make([]Recommendation, 0, len(records))
	for _, record := range records {
		recommendations = append(recommendations, Recommendation{
			PostID:            getStringFromRecord(record, "postId"),
			Content:           getStringFromRecord(record, "content"),
			AuthorUsername:    getStringFromRecord(record, "authorUsername"),
			CommonLikersCount: getInt64FromRecord(record, "commonLikersCount"),
			Tags:              getStringSliceFromRecord(record, "tags"),
			CreatedAt:         getTimeFromRecord(record, "createdAt"),
		})
	}

	recommendations = rankRecommendations(recommendations, r.limit)

	r.logger.Debug("Recommendations computed",
		zap.String("post_id", postID),
		zap.String("exclude_user_id", excludeUserID),
		zap.Int("count", len(recommendations)),
	)
	return recommendations, nil
}

// rankRecommendations orders by shared likers then recency and keeps the top limit
func rankRecommendations(recs []Recommendation, limit int) []Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].CommonLikersCount != recs[j].CommonLikersCount {
			return recs[i].CommonLikersCount > recs[j].CommonLikersCount
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
