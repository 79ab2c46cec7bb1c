package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "socialgraph/backend/pkg/errors"
)

type createPostRequest struct {
	Content  string   `json:"content" validate:"required"`
	AuthorID string   `json:"authorId" validate:"required,uuid"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=64"`
}

type likePostRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	PostID string `json:"postId" validate:"required,uuid"`
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if !h.bind(c, &req) {
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), req.Content, req.AuthorID, req.Tags)
	if err != nil {
		h.writeError(c, "create post", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	post, err := h.posts.FindPostByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get post", err)
		return
	}
	if post == nil {
		h.writeError(c, "get post", apperrors.NewPostNotFound(id))
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) likePost(c *gin.Context) {
	var req likePostRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.posts.LikePost(c.Request.Context(), req.UserID, req.PostID); err != nil {
		h.writeError(c, "like post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User " + req.UserID + " liked post " + req.PostID})
}

func (h *Handler) getLikers(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	likers, err := h.posts.GetLikesForPost(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get likes", err)
		return
	}

	c.JSON(http.StatusOK, likers)
}

func (h *Handler) getRecommendations(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	exclude, ok := h.pathUUID(c, "userIdToExclude")
	if !ok {
		return
	}

	recs, err := h.recs.RecommendFromLikers(c.Request.Context(), id, exclude)
	if err != nil {
		h.writeError(c, "get recommendations", err)
		return
	}

	c.JSON(http.StatusOK, recs)
}
