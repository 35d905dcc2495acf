package handlers

import (
	"mime"
	"net/http"

	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	*BaseHandler
	meetingService services.MeetingService
}

func NewMeetingHandler(base *BaseHandler, meetingService services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		BaseHandler:    base,
		meetingService: meetingService,
	}
}

func (h *MeetingHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	meetings := rg.Group("/meeting-records", requireAuth)
	{
		meetings.GET("", h.ListTree)
		meetings.POST("", h.CreateFolder)
		meetings.GET("/files/:id", h.DownloadFile)
	}
}

// ListTree godoc
// @Summary Дерево client -> vendor -> product -> meeting -> records
// @Tags meeting-records
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ClientNode
// @Router /meeting-records [get]
func (h *MeetingHandler) ListTree(c *gin.Context) {
	tree, err := h.meetingService.ListTree(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// CreateFolder godoc
// @Summary Загрузить папку встречи с файлами (base64)
// @Tags meeting-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MeetingFolderRequest true "Папка"
// @Success 201 {object} dto.MeetingFolderCreatedResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /meeting-records [post]
func (h *MeetingHandler) CreateFolder(c *gin.Context) {
	identity, ok := h.CurrentIdentity(c)
	if !ok {
		return
	}
	var req dto.MeetingFolderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	created, err := h.meetingService.CreateFolder(h.GetDB(c), &req, identity.User)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DownloadFile godoc
// @Summary Скачать файл записи
// @Tags meeting-records
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "ID записи"
// @Success 200 {file} binary
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /meeting-records/files/{id} [get]
func (h *MeetingHandler) DownloadFile(c *gin.Context) {
	id, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	record, err := h.meetingService.GetRecordFile(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	contentType := record.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": record.FileName}))
	c.Data(http.StatusOK, contentType, record.FileContent)
}
