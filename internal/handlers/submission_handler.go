package handlers

import (
	"net/http"

	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	*BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(base *BaseHandler, submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       base,
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	submissions := rg.Group("/task-submissions", requireAuth)
	{
		submissions.GET("", h.List)
		submissions.POST("", h.Create)
		submissions.GET("/follow-up-summary", h.FollowUpSummary)
		submissions.PUT("/:id", h.Update)
		submissions.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary Все заявки с пользователями, тегами и follow-up
// @Tags task-submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubmissionResponse
// @Router /task-submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	list, err := h.submissionService.List(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create godoc
// @Summary Создать заявку
// @Tags task-submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmissionRequest true "Заявка"
// @Success 201 {object} dto.SubmissionCreatedResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /task-submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}
	var req dto.SubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	created, err := h.submissionService.Create(h.GetDB(c), &req, identity.User)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Перезаписать заявку целиком
// @Tags task-submissions
// @Accept json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.SubmissionRequest true "Заявка"
// @Success 200
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /task-submissions/{id} [put]
func (h *SubmissionHandler) Update(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	var req dto.SubmissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.submissionService.Update(h.GetDB(c), id, &req, identity.User); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Router /task-submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.submissionService.Delete(h.GetDB(c), id, identity.User); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FollowUpSummary - счетчики follow-up по дням для текущего пользователя
func (h *SubmissionHandler) FollowUpSummary(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}

	summary, err := h.submissionService.FollowUpSummary(h.GetDB(c), identity.User.Mail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
