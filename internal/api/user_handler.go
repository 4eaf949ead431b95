package api

import (
	"fmt"
	"net/http"

	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler serves profiles, search and the follow graph.
type UserHandler struct {
	userService   service.UserService
	socialService service.SocialService
	log           logrus.FieldLogger
}

func NewUserHandler(userService service.UserService, socialService service.SocialService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{userService: userService, socialService: socialService, log: log}
}

type UpdateProfileRequest struct {
	Name          string `json:"name" binding:"required"`
	Bio           string `json:"bio"`
	ProfilePicURL string `json:"profilePicUrl" binding:"omitempty,url"`
}

type ProfileResponse struct {
	UserResponse
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	IsFollowing    bool  `json:"isFollowing"`
}

type FollowListResponse struct {
	UserIDs []string `json:"userIds"`
	Count   int64    `json:"count"`
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	h.respondProfile(c, userID, userID)
}

// GetProfile godoc
// @Summary Get a user's profile
// @Description Returns the profile with follower counts and whether the caller follows the user.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	callerID, ok := mustUserID(c)
	if !ok {
		return
	}
	h.respondProfile(c, callerID, c.Param("id"))
}

func (h *UserHandler) respondProfile(c *gin.Context, callerID, userID string) {
	ctx := c.Request.Context()
	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	followers, err := h.socialService.FollowersCount(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	following, err := h.socialService.FollowingCount(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := ProfileResponse{
		UserResponse:   MapUserToResponse(user),
		FollowersCount: followers,
		FollowingCount: following,
	}
	if callerID != userID {
		resp.IsFollowing, err = h.socialService.IsFollowing(ctx, callerID, userID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.Name, req.Bio, req.ProfilePicURL)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// SearchUsers returns users whose name starts with ?q.
// @Router /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	users, err := h.userService.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *UserHandler) ListPosts(c *gin.Context) {
	posts, err := h.socialService.ListPostsByUser(c.Request.Context(), c.Param("id"))
	respondPosts(c, h.log, posts, err)
}

func (h *UserHandler) Follow(c *gin.Context) {
	followerID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.socialService.Follow(c.Request.Context(), followerID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	followerID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.socialService.Unfollow(c.Request.Context(), followerID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Followers(c *gin.Context) {
	ids, err := h.socialService.Followers(c.Request.Context(), c.Param("id"))
	respondFollowList(c, h.log, ids, err)
}

func (h *UserHandler) Following(c *gin.Context) {
	ids, err := h.socialService.Following(c.Request.Context(), c.Param("id"))
	respondFollowList(c, h.log, ids, err)
}

func respondFollowList(c *gin.Context, log logrus.FieldLogger, ids []string, err error) {
	if err != nil {
		respondError(c, log, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, FollowListResponse{UserIDs: ids, Count: int64(len(ids))})
}
