// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type CartService struct {
	db *gorm.DB
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetActiveCart returns the buyer's open cart, creating one on first use.
func (s *CartService) GetActiveCart(buyerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where("buyer_id = ? AND status = ?", buyerID, models.CartStatusActive).
		Preload("Items").Preload("Items.Product").
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{BuyerID: buyerID, Status: models.CartStatusActive}
		if err := s.db.Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cart, nil
}

// AddItem puts a product into the cart at its current list price. Adding a
// product already in the cart bumps the quantity instead of duplicating the
// line.
func (s *CartService) AddItem(buyerID uuid.UUID, req *AddCartItemRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.Status != models.ProductStatusPublished {
		return nil, errors.New("product is not available for purchase")
	}
	if product.SellerID == buyerID {
		return nil, errors.New("sellers cannot purchase their own products")
	}

	cart, err := s.GetActiveCart(buyerID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		findErr := tx.Where("cart_id = ? AND product_id = ? AND quote_id IS NULL", cart.ID, req.ProductID).
			First(&item).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				CartID:         cart.ID,
				ProductID:      req.ProductID,
				Quantity:       req.Quantity,
				UnitPriceCents: product.PriceCents,
			}
			return tx.Create(&item).Error
		}
		if findErr != nil {
			return findErr
		}
		item.Quantity += req.Quantity
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.GetActiveCart(buyerID)
}

func (s *CartService) RemoveItem(buyerID, itemID uuid.UUID) (*models.Cart, error) {
	cart, err := s.GetActiveCart(buyerID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("cart item not found")
	}

	return s.GetActiveCart(buyerID)
}

func (s *CartService) UpdateItemQuantity(buyerID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	cart, err := s.GetActiveCart(buyerID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cart item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Quote-sourced lines are fixed at one license per quote.
	if item.QuoteID != nil && quantity != 1 {
		return nil, errors.New("quoted items cannot change quantity")
	}

	item.Quantity = quantity
	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetActiveCart(buyerID)
}

func (s *CartService) ClearCart(buyerID uuid.UUID) error {
	cart, err := s.GetActiveCart(buyerID)
	if err != nil {
		return err
	}
	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
