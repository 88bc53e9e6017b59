// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type OrderService struct {
	db             *gorm.DB
	paymentService *PaymentService
}

// CheckoutResult pairs the created order with the client secret the frontend
// needs to complete payment.
type CheckoutResult struct {
	Order        *models.Order `json:"order"`
	ClientSecret string        `json:"client_secret,omitempty"`
}

func NewOrderService(db *gorm.DB, paymentService *PaymentService) *OrderService {
	return &OrderService{
		db:             db,
		paymentService: paymentService,
	}
}

// Checkout converts the buyer's active cart into a pending order and opens a
// payment intent for its total. The cart is marked converted so a retried
// checkout cannot double-order the same items.
func (s *OrderService) Checkout(buyerID uuid.UUID) (*CheckoutResult, error) {
	var cart models.Cart
	err := s.db.Where("buyer_id = ? AND status = ?", buyerID, models.CartStatusActive).
		Preload("Items").Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("no active cart to check out")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	for _, item := range cart.Items {
		if item.Product.Status != models.ProductStatusPublished {
			return nil, fmt.Errorf("product %q is no longer available", item.Product.Name)
		}
	}

	cartID := cart.ID
	order := &models.Order{
		BuyerID:    buyerID,
		CartID:     &cartID,
		Status:     models.OrderStatusPending,
		TotalCents: cart.TotalCents(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, item := range cart.Items {
			orderItem := models.OrderItem{
				OrderID:        order.ID,
				ProductID:      item.ProductID,
				SellerID:       item.Product.SellerID,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}
		return tx.Model(&cart).Update("status", models.CartStatusConverted).Error
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{Order: order}
	if s.paymentService != nil {
		intent, err := s.paymentService.CreatePaymentIntent(order)
		if err != nil {
			// The order stays pending; payment can be retried against it.
			logrus.WithError(err).WithField("order_id", order.ID).
				Error("Failed to create payment intent")
			return nil, fmt.Errorf("failed to initialize payment: %w", err)
		}
		order.PaymentReference = intent.ID
		if err := s.db.Model(order).Update("payment_reference", intent.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to record payment reference: %w", err)
		}
		result.ClientSecret = intent.ClientSecret
	}

	s.db.Preload("Items").Preload("Items.Product").First(order, order.ID)
	result.Order = order

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"buyer_id":    buyerID,
		"total_cents": order.TotalCents,
	}).Info("Checkout completed")
	return result, nil
}

// MarkPaid transitions a pending order to paid and bumps sales counters. It is
// idempotent; webhooks may deliver the same event more than once.
func (s *OrderService) MarkPaid(orderID uuid.UUID, paymentReference string) error {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("order not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if order.Status == models.OrderStatusPaid {
		return nil
	}
	if order.Status != models.OrderStatusPending {
		return fmt.Errorf("order is %s, cannot mark paid", order.Status)
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":  models.OrderStatusPaid,
			"paid_at": &now,
		}
		if paymentReference != "" {
			updates["payment_reference"] = paymentReference
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				UpdateColumn("sales_count", gorm.Expr("sales_count + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to bump sales count: %w", err)
			}
		}
		return nil
	})
}

// MarkPaymentFailed flips a pending order to failed so the cart flow can
// restart cleanly.
func (s *OrderService) MarkPaymentFailed(orderID uuid.UUID) error {
	result := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", models.OrderStatusFailed)
	if result.Error != nil {
		return fmt.Errorf("failed to mark order failed: %w", result.Error)
	}
	return nil
}

func (s *OrderService) GetOrder(orderID, buyerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Product").
		Where("id = ? AND buyer_id = ?", orderID, buyerID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// GetOrderByPaymentReference resolves webhook events back to their order.
func (s *OrderService) GetOrderByPaymentReference(reference string) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("payment_reference = ?", reference).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) GetBuyerOrders(buyerID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("buyer_id = ?", buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_cents", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Preload("Items.Product").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// RefundOrder refunds a paid order through the payment provider and records
// the reversal. Sales counters are decremented to keep analytics honest.
func (s *OrderService) RefundOrder(orderID uuid.UUID, reason string) error {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("order not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if order.Status != models.OrderStatusPaid {
		return errors.New("can only refund paid orders")
	}

	if s.paymentService != nil && order.PaymentReference != "" {
		if err := s.paymentService.RefundPayment(order.PaymentReference); err != nil {
			return fmt.Errorf("payment refund failed: %w", err)
		}
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":        models.OrderStatusRefunded,
			"refunded_at":   &now,
			"refund_reason": reason,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to record refund: %w", err)
		}
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				UpdateColumn("sales_count", gorm.Expr("GREATEST(sales_count - ?, 0)", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to adjust sales count: %w", err)
			}
		}
		return nil
	})
}
