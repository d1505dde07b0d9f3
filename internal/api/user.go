package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// UserHandler serves profiles, registration, avatars and the follow
// directory.
type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// RegisterRoutes registers the user routes
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
		users.PUT("/me/avatar", middleware.AuthMiddleware(h.authService), h.SetAvatar)
		users.DELETE("/me/avatar", middleware.AuthMiddleware(h.authService), h.ClearAvatar)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.authService), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}
}

// Register creates a new account and returns a token.
func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"auth_token": token})
}

// ListUsers returns a paginated user listing.
func (h *UserHandler) ListUsers(c *gin.Context) {
	viewer := optionalViewer(c)

	resp, err := h.userService.List(c.Request.Context(), viewer, paginationFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	resp, err := h.userService.Get(c.Request.Context(), userID, &userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser returns a single public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid user id"})
		return
	}

	resp, err := h.userService.Get(c.Request.Context(), id, optionalViewer(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetAvatar stores an inline base64 avatar payload.
func (h *UserHandler) SetAvatar(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req types.SetAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	url, err := h.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

// ClearAvatar removes the user's avatar.
func (h *UserHandler) ClearAvatar(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := h.userService.ClearAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscribe creates a follow edge to the target author.
func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid user id"})
		return
	}

	resp, err := h.userService.Subscribe(c.Request.Context(), userID, authorID, recipesLimitFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Unsubscribe removes a follow edge.
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid user id"})
		return
	}

	if err := h.userService.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the user follows.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	resp, err := h.userService.Subscriptions(c.Request.Context(), userID, paginationFrom(c), recipesLimitFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func optionalViewer(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}
	return nil
}

func paginationFrom(c *gin.Context) service.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return service.Pagination{Page: page, Limit: limit}
}

func recipesLimitFrom(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.Query("recipes_limit"))
	return limit
}
