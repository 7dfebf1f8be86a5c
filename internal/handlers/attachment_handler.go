package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"subtrackr_backend/internal/middleware"
	"subtrackr_backend/internal/services"
	"subtrackr_backend/pkg/apperrors"
)

type AttachmentHandler struct {
	*BaseHandler
	attachmentService services.AttachmentService
	maxUploadSize     int64
}

func NewAttachmentHandler(base *BaseHandler, attachmentService services.AttachmentService, maxUploadSize int64) *AttachmentHandler {
	return &AttachmentHandler{
		BaseHandler:       base,
		attachmentService: attachmentService,
		maxUploadSize:     maxUploadSize,
	}
}

func (h *AttachmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	subscriptions := r.Group("/subscriptions")
	subscriptions.Use(middleware.AuthMiddleware())
	{
		subscriptions.POST("/:id/attachments", h.Upload)
		subscriptions.GET("/:id/attachments", h.List)
	}

	attachments := r.Group("/attachments")
	attachments.Use(middleware.AuthMiddleware())
	{
		attachments.GET("/:attachmentId/download", h.Download)
		attachments.DELETE("/:attachmentId", h.Delete)
	}
}

// Upload accepts a multipart form with a "file" part and an optional
// "type" field. The whole file is buffered; oversized bodies are cut
// off by the request-size limit before the service sees them.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+4096)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file in multipart form"))
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	upload := &services.AttachmentUpload{
		Name:     fileHeader.Filename,
		Type:     c.PostForm("type"),
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}

	resp, err := h.attachmentService.Upload(h.GetDB(c), userID, c.Param("id"), upload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AttachmentHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	attachments, err := h.attachmentService.List(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attachments": attachments,
		"total":       len(attachments),
	})
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	attachment, err := h.attachmentService.Download(h.GetDB(c), userID, c.Param("attachmentId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))
	c.Data(http.StatusOK, attachment.MimeType, attachment.Data)
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(h.GetDB(c), userID, c.Param("attachmentId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
