package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/api/middleware"
	"github.com/fyerfyer/doc-analyzer/api/model"
	"github.com/fyerfyer/doc-analyzer/internal/document"
	"github.com/fyerfyer/doc-analyzer/internal/services"
)

// DocumentHandler 处理文档相关的API请求
type DocumentHandler struct {
	documentService *services.DocumentService // 文档服务
	maxUploadSize   int64                     // 上传文件大小上限（字节）
	logger          *logrus.Logger            // 日志记录器
}

// NewDocumentHandler 创建新的文档处理器
func NewDocumentHandler(documentService *services.DocumentService, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadSize:   maxUploadSize,
		logger:          middleware.GetLogger(),
	}
}

// UploadDocument 处理文档上传请求
// POST /api/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	var req model.DocumentUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("file is required", err.Error()))
		return
	}

	filename := filepath.Base(req.File.Filename)
	if !isValidFileType(filepath.Ext(filename)) {
		middleware.HandleError(c, middleware.NewUnsupportedError(
			"unsupported file type, expected one of "+strings.Join(supportedExtensions, ", ")))
		return
	}

	if h.maxUploadSize > 0 && req.File.Size > h.maxUploadSize {
		middleware.HandleError(c, middleware.NewTooLargeError(
			fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadSize)))
		return
	}

	file, err := req.File.Open()
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to open uploaded file", err.Error()))
		return
	}
	defer file.Close()

	info, err := h.documentService.Upload(c.Request.Context(), filename, file)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedType) {
			middleware.HandleError(c, middleware.NewUnsupportedError("unsupported file type"))
			return
		}
		h.logger.WithFields(logrus.Fields{
			"error":    err.Error(),
			"filename": filename,
		}).Error("Failed to process uploaded document")
		middleware.HandleError(c, middleware.NewValidationError("could not read document", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentUploadResponse{
		DocumentID: info.ID,
		FileName:   info.Filename,
		Characters: info.Characters,
		Blocks:     info.Blocks,
	}))
}

// DeleteDocument 删除文档会话
// DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	var req model.DocumentIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid document id", err.Error()))
		return
	}

	if err := h.documentService.Remove(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			middleware.HandleError(c, middleware.NewNotFoundError("document not found"))
			return
		}
		middleware.HandleError(c, middleware.NewInternalError("failed to delete document", err.Error()))
		return
	}

	h.logger.WithField("document_id", req.ID).Info("Document deleted")

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentDeleteResponse{
		Success:    true,
		DocumentID: req.ID,
	}))
}

var supportedExtensions = []string{".pdf", ".docx", ".md", ".markdown", ".txt", ".text"}

// isValidFileType 检查文件类型是否有效
func isValidFileType(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
