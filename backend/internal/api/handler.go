package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"socialgraph/backend/internal/graph"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// UserService is the identity store as seen by the HTTP layer
type UserService interface {
	CreateUser(ctx context.Context, username string) (*graph.User, error)
	FindUserByID(ctx context.Context, userID string) (*graph.User, error)
	FollowUser(ctx context.Context, followerID, followedID string) error
	GetFollowers(ctx context.Context, userID string) ([]graph.UserSummary, error)
	GetFollowing(ctx context.Context, userID string) ([]graph.UserSummary, error)
}

// PostService is the content store as seen by the HTTP layer
type PostService interface {
	CreatePost(ctx context.Context, content, authorID string, tags []string) (*graph.CreatedPost, error)
	FindPostByID(ctx context.Context, postID string) (*graph.Post, error)
	LikePost(ctx context.Context, userID, postID string) error
	GetLikesForPost(ctx context.Context, postID string) ([]graph.UserSummary, error)
}

// RecommendationService ranks posts liked by the likers of a post
type RecommendationService interface {
	RecommendFromLikers(ctx context.Context, postID, excludeUserID string) ([]graph.Recommendation, error)
}

// Handler serves the /api routes
type Handler struct {
	users    UserService
	posts    PostService
	recs     RecommendationService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates a handler over the given stores
func NewHandler(users UserService, posts PostService, recs RecommendationService) *Handler {
	return &Handler{
		users:    users,
		posts:    posts,
		recs:     recs,
		validate: validator.New(),
		logger:   logger.Named("api"),
	}
}

// Register mounts the API routes on r
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("/:id", h.getUser)
		users.POST("/:id/follow/:followedId", h.followUser)
		users.GET("/:id/followers", h.getFollowers)
		users.GET("/:id/following", h.getFollowing)
	}

	posts := api.Group("/posts")
	{
		posts.POST("", h.createPost)
		posts.POST("/like", h.likePost)
		posts.GET("/:id", h.getPost)
		posts.GET("/:id/likers", h.getLikers)
		posts.GET("/:id/recommendations/:userIdToExclude", h.getRecommendations)
	}
}

// pathUUID reads a path parameter and rejects anything that is not a UUID
func (h *Handler) pathUUID(c *gin.Context, name string) (string, bool) {
	value := c.Param(name)
	if err := h.validate.Var(value, "required,uuid"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   string(apperrors.ErrorTypeValidation),
			"message": "Validation failed (uuid is expected) for " + name,
		})
		return "", false
	}
	return value, true
}

// bind decodes the JSON body into req and runs its validate tags
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": string(apperrors.ErrorTypeValidation), "message": err.Error()})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": string(apperrors.ErrorTypeValidation), "message": validationMessage(err)})
		return false
	}
	return true
}

// writeError maps an error kind onto a status code
func (h *Handler) writeError(c *gin.Context, operation string, err error) {
	kind := apperrors.TypeOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("operation", operation),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": string(kind), "message": "Could not " + operation})
		return
	}

	c.JSON(status, gin.H{"error": string(kind), "message": err.Error()})
}

func statusFor(kind apperrors.ErrorType) int {
	switch kind {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeContext:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	if fe.Param() != "" {
		return fe.Field() + " failed " + fe.Tag() + "=" + fe.Param()
	}
	return fe.Field() + " failed " + fe.Tag()
}
