package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialgraph/backend/internal/constants"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// ============================================================================
// User Operations
// ============================================================================

// UserStore handles User nodes and FOLLOWS edges
type UserStore struct {
	exec   Executor
	logger *zap.Logger
}

// NewUserStore creates a new user store
func NewUserStore(exec Executor) *UserStore {
	return &UserStore{
		exec:   exec,
		logger: logger.Named("users"),
	}
}

// CreateUser creates a user with a fresh id. Duplicate usernames are rejected by
// the user_username_unique constraint, which is the only conflict signal.
func (s *UserStore) CreateUser(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < constants.MinUsernameLength {
		return nil, apperrors.NewInvalidArgument("username",
			fmt.Sprintf("must be at least %d characters", constants.MinUsernameLength))
	}

	userID := uuid.New().String()
	now := nowParam()

	query := `
		CREATE (u:User {
			userId: $userId,
			username: $username,
			createdAt: datetime($createdAt)
		})
		RETURN u.userId AS userId, u.username AS username, u.createdAt AS createdAt
	`

	records, err := s.exec.RunWrite(ctx, "create_user", query, map[string]any{
		"userId":    userID,
		"username":  username,
		"createdAt": now,
	})
	if err != nil {
		if isConstraintViolation(err) {
			return nil, apperrors.NewUsernameTaken(username, err)
		}
		s.logger.Error("Failed to create user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if len(records) == 0 {
		return nil, apperrors.NewGraphQueryFailed("create_user", errors.New("create returned no rows"))
	}

	record := records[0]
	user := &User{
		UserID:    getStringFromRecord(record, "userId"),
		Username:  getStringFromRecord(record, "username"),
		CreatedAt: getTimeFromRecord(record, "createdAt"),
	}

	s.logger.Info("User created",
		zap.String("user_id", user.UserID),
		zap.String("username", user.Username),
	)
	return user, nil
}

// FindUserByID looks a user up by id. A missing user is (nil, nil).
func (s *UserStore) FindUserByID(ctx context.Context, userID string) (*User, error) {
	query := `
		MATCH (u:User {userId: $userId})
		RETURN u.userId AS userId, u.username AS username, u.createdAt AS createdAt
	`

	records, err := s.exec.RunRead(ctx, "find_user", query, map[string]any{
		"userId": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	record := records[0]
	return &User{
		UserID:    getStringFromRecord(record, "userId"),
		Username:  getStringFromRecord(record, "username"),
		CreatedAt: getTimeFromRecord(record, "createdAt"),
	}, nil
}

// FollowUser makes followerID follow followedID. Following twice is a no-op.
func (s *UserStore) FollowUser(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return apperrors.NewSelfFollow(followerID)
	}

	for _, id := range []string{followerID, followedID} {
		user, err := s.FindUserByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return apperrors.NewUserNotFound(id)
		}
	}

	query := `
		OPTIONAL MATCH (follower:User {userId: $followerId})
		OPTIONAL MATCH (followed:User {userId: $followedId})
		FOREACH (_ IN CASE WHEN follower IS NOT NULL AND followed IS NOT NULL THEN [1] ELSE [] END |
			MERGE (follower)-[:FOLLOWS]->(followed)
		)
		RETURN follower IS NOT NULL AS followerExists, followed IS NOT NULL AS followedExists
	`

	records, err := s.exec.RunWrite(ctx, "follow_user", query, map[string]any{
		"followerId": followerID,
		"followedId": followedID,
	})
	if err != nil {
		s.logger.Error("Failed to create follow relationship", zap.Error(err))
		return fmt.Errorf("failed to follow user: %w", err)
	}

	if err := missingEndpoint(records, "followerExists", "followedExists",
		apperrors.NewUserNotFound(followerID), apperrors.NewUserNotFound(followedID)); err != nil {
		s.logger.Warn("Follow relationship not created, endpoint missing",
			zap.String("follower_id", followerID),
			zap.String("followed_id", followedID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("User followed",
		zap.String("follower_id", followerID),
		zap.String("followed_id", followedID),
	)
	return nil
}

// GetFollowers lists the users following userID
func (s *UserStore) GetFollowers(ctx context.Context, userID string) ([]UserSummary, error) {
	query := `
		MATCH (follower:User)-[:FOLLOWS]->(:User {userId: $userId})
		RETURN follower.userId AS userId, follower.username AS username
	`

	records, err := s.exec.RunRead(ctx, "get_followers", query, map[string]any{
		"userId": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}

	return userSummariesFromRecords(records), nil
}

// GetFollowing lists the users userID follows
func (s *UserStore) GetFollowing(ctx context.Context, userID string) ([]UserSummary, error) {
	query := `
		MATCH (:User {userId: $userId})-[:FOLLOWS]->(followed:User)
		RETURN followed.userId AS userId, followed.username AS username
	`

	records, err := s.exec.RunRead(ctx, "get_following", query, map[string]any{
		"userId": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}

	return userSummariesFromRecords(records), nil
}
