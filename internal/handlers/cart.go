// internal/handlers/cart.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stackmarket/sm-backend/internal/i18n"
	"github.com/stackmarket/sm-backend/internal/services"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetActiveCart(buyerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart":        cart,
		"total_cents": cart.TotalCents(),
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	cart, err := h.cartService.AddItem(buyerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		if strings.Contains(err.Error(), "own products") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":        cart,
		"total_cents": cart.TotalCents(),
	})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(buyerID, itemID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "cart")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyCartItemRemoved),
		"cart":        cart,
		"total_cents": cart.TotalCents(),
	})
}

// PUT /cart/items/:id
func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "quantity must be at least 1", nil)
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(buyerID, itemID, req.Quantity)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "cart")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart":        cart,
		"total_cents": cart.TotalCents(),
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(buyerID); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Cart cleared"})
}
