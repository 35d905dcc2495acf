package handlers

import (
	"net/http"

	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// OptionHandler - справочники и статусы follow-up
type OptionHandler struct {
	*BaseHandler
	optionService services.OptionService
}

func NewOptionHandler(base *BaseHandler, optionService services.OptionService) *OptionHandler {
	return &OptionHandler{
		BaseHandler:   base,
		optionService: optionService,
	}
}

// RegisterRoutes - чтение справочников открыто, запись только с токеном
func (h *OptionHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("/options/:type", h.List)
	rg.POST("/options/:type", requireAuth, h.Create)
	rg.GET("/follow-up-statuses", h.ListStatuses)
}

// List godoc
// @Summary Отсортированный список имен справочника
// @Tags options
// @Produce json
// @Param type path string true "client, vendor, product или tag"
// @Success 200 {array} string
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /options/{type} [get]
func (h *OptionHandler) List(c *gin.Context) {
	var param dto.OptionTypeParam
	if !h.BindAndValidate_URI(c, &param) {
		return
	}

	names, err := h.optionService.List(h.GetDB(c), param.Type)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// Create godoc
// @Summary Добавить значение в справочник
// @Tags options
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "client, vendor, product или tag"
// @Param request body dto.OptionRequest true "Имя"
// @Success 201 {object} dto.OptionResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /options/{type} [post]
func (h *OptionHandler) Create(c *gin.Context) {
	var param dto.OptionTypeParam
	if !h.BindAndValidate_URI(c, &param) {
		return
	}
	var req dto.OptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	created, err := h.optionService.Create(h.GetDB(c), param.Type, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *OptionHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.optionService.ListStatuses(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
