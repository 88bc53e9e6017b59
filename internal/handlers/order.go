// internal/handlers/order.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"

	"github.com/stackmarket/sm-backend/internal/i18n"
	"github.com/stackmarket/sm-backend/internal/services"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type OrderHandler struct {
	orderService   *services.OrderService
	paymentService *services.PaymentService
}

func NewOrderHandler(orderService *services.OrderService, paymentService *services.PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// POST /orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.orderService.Checkout(buyerID)
	if err != nil {
		if strings.Contains(err.Error(), "empty") || strings.Contains(err.Error(), "no active cart") {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
			return
		}
		if strings.Contains(err.Error(), "no longer available") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyOrderCreated),
		"order":         result.Order,
		"client_secret": result.ClientSecret,
	})
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.orderService.GetBuyerOrders(buyerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(id, buyerID)
	if err != nil {
		utils.NotFoundResponse(c, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// POST /admin/orders/:id/refund
func (h *OrderHandler) RefundOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "reason is required", nil)
		return
	}

	if err := h.orderService.RefundOrder(id, req.Reason); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "order")
			return
		}
		if strings.Contains(err.Error(), "only refund paid") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderRefunded),
	})
}

// POST /webhooks/stripe
//
// Stripe delivers at-least-once, so the handlers behind this endpoint must be
// idempotent. Unhandled event types are acknowledged with 200 so Stripe stops
// retrying them.
func (h *OrderHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	event, err := h.paymentService.VerifyWebhookSignature(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logrus.WithError(err).Warn("Rejected webhook with invalid signature")
		c.Status(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		h.handlePaymentEvent(c, event, true)
	case "payment_intent.payment_failed":
		h.handlePaymentEvent(c, event, false)
	default:
		c.Status(http.StatusOK)
	}
}

func (h *OrderHandler) handlePaymentEvent(c *gin.Context, event *stripe.Event, succeeded bool) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		logrus.WithError(err).Error("Failed to parse payment intent from webhook")
		c.Status(http.StatusBadRequest)
		return
	}

	orderID, err := h.resolveOrderID(&intent)
	if err != nil {
		// Unknown reference; likely an intent created outside this system.
		logrus.WithField("intent_id", intent.ID).Warn("Webhook for unknown payment intent")
		c.Status(http.StatusOK)
		return
	}

	if succeeded {
		err = h.orderService.MarkPaid(orderID, intent.ID)
	} else {
		err = h.orderService.MarkPaymentFailed(orderID)
	}
	if err != nil {
		logrus.WithError(err).WithField("order_id", orderID).
			Error("Failed to apply payment event")
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

// resolveOrderID matches the intent back to its order, preferring the
// metadata set at intent creation over a payment-reference lookup.
func (h *OrderHandler) resolveOrderID(intent *stripe.PaymentIntent) (uuid.UUID, error) {
	if raw, ok := intent.Metadata["order_id"]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			return id, nil
		}
	}
	order, err := h.orderService.GetOrderByPaymentReference(intent.ID)
	if err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}
