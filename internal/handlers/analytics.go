// internal/handlers/analytics.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stackmarket/sm-backend/internal/services"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GET /seller/dashboard
func (h *AnalyticsHandler) GetSellerDashboard(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetSellerDashboard(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /seller/products/performance
func (h *AnalyticsHandler) GetProductPerformance(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	performance, err := h.analyticsService.GetProductPerformance(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"products": performance})
}

// GET /admin/stats
func (h *AnalyticsHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.analyticsService.GetPlatformStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}
