// internal/handlers/analysis.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stackmarket/sm-backend/internal/i18n"
	"github.com/stackmarket/sm-backend/internal/services"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type AnalysisHandler struct {
	scoreService      *services.ScoreService
	competitorService *services.CompetitorService
}

func NewAnalysisHandler(scoreService *services.ScoreService, competitorService *services.CompetitorService) *AnalysisHandler {
	return &AnalysisHandler{
		scoreService:      scoreService,
		competitorService: competitorService,
	}
}

// GET /products/:id/scores
//
// Authenticated buyers get fit and integration scores personalized to their
// company size and interest categories; everyone else gets the stored generic
// scores.
func (h *AnalysisHandler) GetScores(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if userType, _ := utils.GetUserTypeFromContext(c); userType == "buyer" {
			if buyerID, err := uuid.Parse(userIDStr); err == nil {
				score, err := h.scoreService.CalculateScoresForBuyer(c.Request.Context(), id, buyerID)
				if err == nil {
					utils.SuccessResponse(c, gin.H{"score": score, "personalized": true})
					return
				}
			}
		}
	}

	score, err := h.scoreService.GetScores(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"score": score, "personalized": false})
}

// POST /products/:id/scores/recalculate
func (h *AnalysisHandler) RecalculateScores(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	score, err := h.scoreService.CalculateScores(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyScoreCalculated),
		"score":   score,
	})
}

// POST /admin/scores/recalculate-all
func (h *AnalysisHandler) RecalculateAllScores(c *gin.Context) {
	processed, err := h.scoreService.RecalculateAllScores(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"processed": processed})
}

// POST /products/:id/competitors/identify
func (h *AnalysisHandler) IdentifyCompetitors(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	identified, err := h.competitorService.IdentifyCompetitors(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"identified": identified})
}

// GET /products/:id/analysis
func (h *AnalysisHandler) GetCompetitorAnalysis(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	analysis, err := h.competitorService.GetCompetitorAnalysis(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAnalysisCompleted),
		"analysis": analysis,
	})
}
