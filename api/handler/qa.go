package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/api/middleware"
	"github.com/fyerfyer/doc-analyzer/api/model"
	"github.com/fyerfyer/doc-analyzer/internal/services"
)

// QAHandler 处理问答相关的API请求
type QAHandler struct {
	documentService *services.DocumentService // 文档服务
	logger          *logrus.Logger            // 日志记录器
}

// NewQAHandler 创建新的问答处理器
func NewQAHandler(documentService *services.DocumentService) *QAHandler {
	return &QAHandler{
		documentService: documentService,
		logger:          middleware.GetLogger(),
	}
}

// AnswerQuestion 处理问答请求
// POST /api/qa
func (h *QAHandler) AnswerQuestion(c *gin.Context) {
	var req model.QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid question request", err.Error()))
		return
	}

	ctx := c.Request.Context()
	var answer string

	if req.DocumentID != "" {
		h.logger.WithFields(logrus.Fields{
			"question":    req.Question,
			"document_id": req.DocumentID,
		}).Info("Question about uploaded document")

		var err error
		answer, err = h.documentService.Ask(ctx, req.DocumentID, req.Question)
		if err != nil {
			if errors.Is(err, services.ErrDocumentNotFound) {
				middleware.HandleError(c, middleware.NewNotFoundError("document not found or expired"))
				return
			}
			middleware.HandleError(c, middleware.NewInternalError("failed to load document", err.Error()))
			return
		}
	} else {
		h.logger.WithFields(logrus.Fields{
			"question":   req.Question,
			"characters": len(req.Text),
		}).Info("Question about inline text")

		answer = h.documentService.AskText(ctx, req.Text, req.Question)
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.QAResponse{
		Question:   req.Question,
		Answer:     answer,
		DocumentID: req.DocumentID,
	}))
}
