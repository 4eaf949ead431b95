package api

import (
	"fmt"
	"net/http"
	"strconv"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository"
	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PostHandler serves posts, likes, comments and both feeds.
type PostHandler struct {
	socialService service.SocialService
	feedService   service.FeedService
	log           logrus.FieldLogger
}

func NewPostHandler(socialService service.SocialService, feedService service.FeedService, log logrus.FieldLogger) *PostHandler {
	return &PostHandler{socialService: socialService, feedService: feedService, log: log}
}

type CreatePostRequest struct {
	Content          string `json:"content" binding:"required"`
	ImageURL         string `json:"imageUrl" binding:"omitempty,url"`
	WorkoutReference string `json:"workoutReference"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type FeedResponse struct {
	Posts      []domain.Post `json:"posts"`
	NextCursor string        `json:"nextCursor,omitempty"`
	HasMore    bool          `json:"hasMore"`
}

type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// Feed godoc
// @Summary Global feed
// @Description Returns posts newest first. Pass nextCursor back as cursor to continue.
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Cursor from the previous page"
// @Param pageSize query int false "Posts per page"
// @Success 200 {object} FeedResponse
// @Failure 400 {object} gin.H "Invalid cursor or page size"
// @Router /feed [get]
func (h *PostHandler) Feed(c *gin.Context) {
	pageSize := 0
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "pageSize must be a positive integer")
			return
		}
		pageSize = n
	}

	page, err := h.feedService.ListPage(c.Request.Context(), pageSize, repository.Cursor(c.Query("cursor")))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	posts := page.Posts
	if posts == nil {
		posts = []domain.Post{}
	}
	c.JSON(http.StatusOK, FeedResponse{Posts: posts, NextCursor: string(page.NextCursor), HasMore: page.HasMore})
}

// FollowingFeed returns recent posts by the users the caller follows.
// @Router /feed/following [get]
func (h *PostHandler) FollowingFeed(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	posts, err := h.feedService.FollowingFeed(c.Request.Context(), userID)
	respondPosts(c, h.log, posts, err)
}

// CreatePost godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body CreatePostRequest true "Post content"
// @Success 201 {object} domain.Post
// @Failure 400 {object} gin.H "Invalid input"
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	post, err := h.socialService.CreatePost(c.Request.Context(), userID, service.PostInput{
		Content:          req.Content,
		ImageURL:         req.ImageURL,
		WorkoutReference: req.WorkoutReference,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.socialService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	post, err := h.socialService.UpdatePost(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.socialService.DeletePost(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLike godoc
// @Summary Like or unlike a post
// @Description Flips the caller's like on the post and returns the new state.
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} LikeResponse
// @Failure 404 {object} gin.H "Post not found"
// @Router /posts/{id}/like/toggle [post]
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	liked, err := h.socialService.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondLikeState(c, postID, liked)
}

func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	if err := h.socialService.LikePost(c.Request.Context(), postID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondLikeState(c, postID, true)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	if err := h.socialService.UnlikePost(c.Request.Context(), postID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondLikeState(c, postID, false)
}

// LikeStatus reports whether the caller likes the post.
func (h *PostHandler) LikeStatus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	liked, err := h.socialService.HasLiked(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondLikeState(c, postID, liked)
}

func (h *PostHandler) respondLikeState(c *gin.Context, postID string, liked bool) {
	count, err := h.socialService.LikeCount(c.Request.Context(), postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, LikeResponse{Liked: liked, LikeCount: count})
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	comment, err := h.socialService.AddComment(c.Request.Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.socialService.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.socialService.DeleteComment(c.Request.Context(), userID, c.Param("commentId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondPosts(c *gin.Context, log logrus.FieldLogger, posts []domain.Post, err error) {
	if err != nil {
		respondError(c, log, err)
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	c.JSON(http.StatusOK, posts)
}
