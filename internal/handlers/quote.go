// internal/handlers/quote.go
package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stackmarket/sm-backend/internal/i18n"
	"github.com/stackmarket/sm-backend/internal/services"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type QuoteHandler struct {
	quoteService *services.QuoteService
}

func NewQuoteHandler(quoteService *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// POST /quotes
func (h *QuoteHandler) GenerateQuote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.GenerateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	quote, err := h.quoteService.GenerateQuote(c.Request.Context(), buyerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyQuoteGenerated),
		"quote":   quote,
	})
}

// GET /quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetQuote(c.Request.Context(), id)
	if err != nil {
		utils.NotFoundResponse(c, "quote")
		return
	}

	utils.SuccessResponse(c, gin.H{"quote": quote})
}

// POST /quotes/:id/send
func (h *QuoteHandler) SendQuote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.SendQuote(c.Request.Context(), id)
	if err != nil {
		h.writeQuoteError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyQuoteSent),
		"quote":   quote,
	})
}

// POST /quotes/:id/accept
func (h *QuoteHandler) AcceptQuote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.AcceptQuote(c.Request.Context(), id)
	if err != nil {
		h.writeQuoteError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyQuoteAccepted),
		"quote":   quote,
	})
}

// POST /quotes/:id/reject
func (h *QuoteHandler) RejectQuote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.RejectQuote(c.Request.Context(), id)
	if err != nil {
		h.writeQuoteError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyQuoteRejected),
		"quote":   quote,
	})
}

// POST /quotes/:id/extend
func (h *QuoteHandler) ExtendValidity(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ValidUntil time.Time `json:"valid_until" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "valid_until is required", nil)
		return
	}

	quote, err := h.quoteService.ExtendValidity(c.Request.Context(), id, req.ValidUntil)
	if err != nil {
		if strings.Contains(err.Error(), "must extend") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		h.writeQuoteError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"quote": quote})
}

func (h *QuoteHandler) writeQuoteError(c *gin.Context, lang string, err error) {
	switch {
	case errors.Is(err, services.ErrQuoteExpired):
		utils.GoneResponse(c, i18n.T(lang, i18n.KeyQuoteExpired))
	case errors.Is(err, services.ErrQuoteInvalidStatus):
		utils.ConflictResponse(c, err.Error())
	case strings.Contains(err.Error(), "not found"):
		utils.NotFoundResponse(c, "quote")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
