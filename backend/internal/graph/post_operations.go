package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// ============================================================================
// Post Operations
// ============================================================================

// PostStore handles Post and Tag nodes and the POSTED, HAS_TAG and LIKED edges
type PostStore struct {
	exec   Executor
	logger *zap.Logger
}

// NewPostStore creates a new post store
func NewPostStore(exec Executor) *PostStore {
	return &PostStore{
		exec:   exec,
		logger: logger.Named("posts"),
	}
}

// CreatePost creates a post, its POSTED edge and its tags in one transaction.
// If the author does not exist nothing is written.
func (s *PostStore) CreatePost(ctx context.Context, content, authorID string, tags []string) (*CreatedPost, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewInvalidArgument("content", "must not be empty")
	}

	postID := uuid.New().String()
	now := nowParam()
	tagNames := NormalizeTags(tags)

	post, err := InTransaction(ctx, s.exec, "create_post", func(ctx context.Context, tx Tx) (*CreatedPost, error) {
		records, err := tx.Query(ctx, "create_post", `
			MATCH (author:User {userId: $authorId})
			CREATE (post:Post {
				postId: $postId,
				content: $content,
				createdAt: datetime($createdAt)
			})
			CREATE (author)-[:POSTED]->(post)
			RETURN post.postId AS postId, post.content AS content, post.createdAt AS createdAt,
			       author.username AS authorUsername
		`, map[string]any{
			"authorId":  authorID,
			"postId":    postID,
			"content":   content,
			"createdAt": now,
		})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, apperrors.NewUserNotFound(authorID)
		}

		record := records[0]
		created := &CreatedPost{
			PostID:         getStringFromRecord(record, "postId"),
			Content:        getStringFromRecord(record, "content"),
			CreatedAt:      getTimeFromRecord(record, "createdAt"),
			AuthorUsername: getStringFromRecord(record, "authorUsername"),
			Tags:           make([]string, 0, len(tagNames)),
		}

		for _, tagName := range tagNames {
			tagRecords, err := tx.Query(ctx, "merge_post_tag", `
				MATCH (p:Post {postId: $postId})
				MERGE (t:Tag {name: $tagName})
				MERGE (p)-[:HAS_TAG]->(t)
				RETURN t.name AS tagName
			`, map[string]any{
				"postId":  postID,
				"tagName": tagName,
			})
			if err != nil {
				return nil, err
			}
			if len(tagRecords) > 0 {
				created.Tags = append(created.Tags, getStringFromRecord(tagRecords[0], "tagName"))
			}
		}

		return created, nil
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("Failed to create post", zap.String("author_id", authorID), zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Post created",
		zap.String("post_id", post.PostID),
		zap.String("author_id", authorID),
		zap.Strings("tags", post.Tags),
	)
	return post, nil
}

// FindPostByID looks a post up with its author and tags. A missing post is (nil, nil).
func (s *PostStore) FindPostByID(ctx context.Context, postID string) (*Post, error) {
	query := `
		MATCH (p:Post {postId: $postId})<-[:POSTED]-(author:User)
		OPTIONAL MATCH (p)-[:HAS_TAG]->(t:Tag)
		RETURN p.postId AS postId, p.content AS content, p.createdAt AS createdAt,
		       author.userId AS authorId, author.username AS authorUsername,
		       collect(DISTINCT t.name) AS tags
	`

	records, err := s.exec.RunRead(ctx, "find_post", query, map[string]any{
		"postId": postID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	record := records[0]
	tags := getStringSliceFromRecord(record, "tags")
	sort.Strings(tags)

	return &Post{
		PostID:    getStringFromRecord(record, "postId"),
		Content:   getStringFromRecord(record, "content"),
		CreatedAt: getTimeFromRecord(record, "createdAt"),
		Author: UserSummary{
			UserID:   getStringFromRecord(record, "authorId"),
			Username: getStringFromRecord(record, "authorUsername"),
		},
		Tags: tags,
	}, nil
}

// LikePost records that userID liked postID. Liking twice is a no-op.
func (s *PostStore) LikePost(ctx context.Context, userID, postID string) error {
	query := `
		OPTIONAL MATCH (u:User {userId: $userId})
		OPTIONAL MATCH (p:Post {postId: $postId})
		FOREACH (_ IN CASE WHEN u IS NOT NULL AND p IS NOT NULL THEN [1] ELSE [] END |
			MERGE (u)-[:LIKED]->(p)
		)
		RETURN u IS NOT NULL AS userExists, p IS NOT NULL AS postExists
	`

	records, err := s.exec.RunWrite(ctx, "like_post", query, map[string]any{
		"userId": userID,
		"postId": postID,
	})
	if err != nil {
		s.logger.Error("Failed to like post", zap.Error(err))
		return fmt.Errorf("failed to like post: %w", err)
	}

	if err := missingEndpoint(records, "userExists", "postExists",
		apperrors.NewUserNotFound(userID), apperrors.NewPostNotFound(postID)); err != nil {
		s.logger.Warn("Like not created, endpoint missing",
			zap.String("user_id", userID),
			zap.String("post_id", postID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Post liked",
		zap.String("user_id", userID),
		zap.String("post_id", postID),
	)
	return nil
}

// GetLikesForPost lists the users who liked postID
func (s *PostStore) GetLikesForPost(ctx context.Context, postID string) ([]UserSummary, error) {
	query := `
		MATCH (u:User)-[:LIKED]->(:Post {postId: $postId})
		RETURN u.userId AS userId, u.username AS username
	`

	records, err := s.exec.RunRead(ctx, "get_post_likes", query, map[string]any{
		"postId": postID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get likes: %w", err)
	}

	return userSummariesFromRecords(records), nil
}
