// Package http 负责处理周度分析相关的 HTTP 请求。
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/merchantrisk/internal/analytics/application"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
	"github.com/wyfcoding/merchantrisk/pkg/response"
)

// AnalyticsHandler 周度分析 HTTP 处理器
type AnalyticsHandler struct {
	svc *application.AnalyticsService
}

// NewAnalyticsHandler 创建 HTTP 处理器
func NewAnalyticsHandler(svc *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/analytics")
	{
		api.GET("/weekly", h.GetWeekly)
	}
}

// GetWeekly 返回按 (周, 状态) 分组的审核计数
func (h *AnalyticsHandler) GetWeekly(c *gin.Context) {
	counts, err := h.svc.LoadWeeklyAnalytics(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load weekly analytics", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, counts)
}
