package handlers

import (
	"net/http"

	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	authService services.AuthService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, authService services.AuthService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		authService: authService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := rg.Group("/users", requireAuth)
	{
		users.GET("", h.List)
		users.GET("/me", h.Me)
		users.PUT("/me", h.UpdateMe)
		users.PUT("/me/password", h.ChangePassword)
	}
}

// List godoc
// @Summary Пользователи для выбора related users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(identity.User))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(h.GetDB(c), identity.User, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword - все остальные токены пользователя отзываются
func (h *UserHandler) ChangePassword(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(h.GetDB(c), identity, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
