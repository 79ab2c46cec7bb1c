package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "socialgraph/backend/pkg/errors"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		h.writeError(c, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.FindUserByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get user", err)
		return
	}
	if user == nil {
		h.writeError(c, "get user", apperrors.NewUserNotFound(id))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) followUser(c *gin.Context) {
	followerID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	followedID, ok := h.pathUUID(c, "followedId")
	if !ok {
		return
	}

	if err := h.users.FollowUser(c.Request.Context(), followerID, followedID); err != nil {
		h.writeError(c, "follow user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User " + followerID + " successfully followed " + followedID})
}

func (h *Handler) getFollowers(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	followers, err := h.users.GetFollowers(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get followers", err)
		return
	}

	c.JSON(http.StatusOK, followers)
}

func (h *Handler) getFollowing(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	following, err := h.users.GetFollowing(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get following", err)
		return
	}

	c.JSON(http.StatusOK, following)
}
