package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/doc-analyzer/api/middleware"
	"github.com/fyerfyer/doc-analyzer/api/model"
	"github.com/fyerfyer/doc-analyzer/internal/services"
)

// HealthHandler 健康检查与就绪检查
type HealthHandler struct {
	documentService *services.DocumentService
	warmTimeout     time.Duration
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(documentService *services.DocumentService, warmTimeout time.Duration) *HealthHandler {
	return &HealthHandler{
		documentService: documentService,
		warmTimeout:     warmTimeout,
	}
}

// Health 进程存活检查
// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 推理后端就绪检查
// GET /api/ready?warm=true 会触发模型加载并等待完成
func (h *HealthHandler) Ready(c *gin.Context) {
	var req model.ReadyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid query", err.Error()))
		return
	}

	resp := model.ReadyResponse{}
	if req.Warm {
		ctx := c.Request.Context()
		if h.warmTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.warmTimeout)
			defer cancel()
		}
		if err := h.documentService.Warmup(ctx); err != nil {
			resp.Error = err.Error()
		}
	}
	resp.Ready = h.documentService.Ready()

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, model.NewSuccessResponse(resp))
}
