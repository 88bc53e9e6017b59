// internal/handlers/bundle.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stackmarket/sm-backend/internal/i18n"
	"github.com/stackmarket/sm-backend/internal/services"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type BundleHandler struct {
	bundleService *services.BundleService
}

func NewBundleHandler(bundleService *services.BundleService) *BundleHandler {
	return &BundleHandler{bundleService: bundleService}
}

// POST /bundles
func (h *BundleHandler) CreateBundle(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	bundle, err := h.bundleService.CreateBundle(sellerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "owned by the seller") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBundleCreated),
		"bundle":  bundle,
	})
}

// GET /bundles/:id
func (h *BundleHandler) GetBundle(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	bundle, err := h.bundleService.GetBundle(id)
	if err != nil {
		utils.NotFoundResponse(c, "bundle")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"bundle": bundle.Bundle,
		"price":  bundle.Price,
	})
}

// POST /bundles/price
func (h *BundleHandler) CalculatePrice(c *gin.Context) {
	var req struct {
		ProductIDs []uuid.UUID `json:"product_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "product_ids must be a non-empty list", nil)
		return
	}

	price, err := h.bundleService.CalculateBundlePrice(req.ProductIDs)
	if err != nil {
		if strings.Contains(err.Error(), "unavailable") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"price": price})
}

// GET /seller/bundles
func (h *BundleHandler) GetSellerBundles(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	bundles, total, err := h.bundleService.GetSellerBundles(sellerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(bundles, total, params)
	utils.PaginatedResponse(c, result)
}
