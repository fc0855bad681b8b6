// Package http 负责处理审核队列相关的 HTTP 请求。
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/merchantrisk/internal/review/application"
	"github.com/wyfcoding/merchantrisk/internal/review/domain"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
	"github.com/wyfcoding/merchantrisk/pkg/middleware"
	"github.com/wyfcoding/merchantrisk/pkg/response"
)

// ReviewHandler 审核队列 HTTP 处理器
type ReviewHandler struct {
	svc *application.ReviewService
}

// NewReviewHandler 创建 HTTP 处理器
func NewReviewHandler(svc *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/review")
	{
		api.GET("/queue", h.GetQueue)
		api.GET("/queue/:merchant", h.GetMerchantDetail)
		api.POST("/submit", h.SubmitReview)
	}
}

// GetQueue 返回当前审核队列。空队列返回空列表，与错误可区分。
func (h *ReviewHandler) GetQueue(c *gin.Context) {
	entries, err := h.svc.LoadReviewQueue(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load review queue", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, entries)
}

// GetMerchantDetail 返回队列中单个商户的详情
func (h *ReviewHandler) GetMerchantDetail(c *gin.Context) {
	merchant := c.Param("merchant")
	entry, err := h.svc.GetMerchantDetail(c.Request.Context(), merchant)
	if err != nil {
		if errors.Is(err, domain.ErrNotInQueue) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to get merchant detail", "merchant", merchant, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, entry)
}

type submitReviewRequest struct {
	MerchantDescription string `json:"merchant_description" binding:"required"`
	Status              string `json:"status"`
	Notes               string `json:"notes"`
}

// SubmitReview 提交一次审核处置。审核人身份来自认证中间件，不接受请求体字段。
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	reviewer := middleware.Reviewer(c)
	if reviewer == "" {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "reviewer identity could not be resolved")
		return
	}

	result, err := h.svc.SubmitReview(c.Request.Context(), application.SubmitReviewCommand{
		MerchantDescription: req.MerchantDescription,
		Status:              req.Status,
		Notes:               req.Notes,
		Reviewer:            reviewer,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStatusRequired),
			errors.Is(err, domain.ErrInvalidStatus),
			errors.Is(err, domain.ErrNotInQueue):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		default:
			// 写入失败不自动重试，完整上报给操作者
			logger.Error(c.Request.Context(), "Failed to submit review",
				"merchant", req.MerchantDescription, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.Success(c, result)
}
