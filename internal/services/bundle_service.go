// internal/services/bundle_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/pricing"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type BundleService struct {
	db *gorm.DB
}

type CreateBundleRequest struct {
	Name        string      `json:"name" validate:"required,min=3,max=255"`
	Description string      `json:"description,omitempty"`
	ProductIDs  []uuid.UUID `json:"product_ids" validate:"required,min=1"`
}

// BundleWithPrice pairs a bundle with its freshly computed price. The price
// is never stored; component prices move independently, so it is recomputed
// against current prices on every read.
type BundleWithPrice struct {
	Bundle *models.Bundle      `json:"bundle"`
	Price  pricing.BundlePrice `json:"price"`
}

func NewBundleService(db *gorm.DB) *BundleService {
	return &BundleService{db: db}
}

func (s *BundleService) CreateBundle(sellerID uuid.UUID, req *CreateBundleRequest) (*models.Bundle, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Every component must be a published product owned by the seller.
	var count int64
	if err := s.db.Model(&models.Product{}).
		Where("id IN ? AND seller_id = ? AND status = ?", req.ProductIDs, sellerID, models.ProductStatusPublished).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to verify bundle products: %w", err)
	}
	if count != int64(len(req.ProductIDs)) {
		return nil, errors.New("bundle products must be published and owned by the seller")
	}

	bundle := &models.Bundle{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Status:      models.BundleStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bundle).Error; err != nil {
			return fmt.Errorf("failed to create bundle: %w", err)
		}
		for _, productID := range req.ProductIDs {
			item := models.BundleItem{BundleID: bundle.ID, ProductID: productID}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add bundle item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").First(bundle, bundle.ID)
	return bundle, nil
}

// GetBundle loads a bundle and prices it against current component prices.
func (s *BundleService) GetBundle(id uuid.UUID) (*BundleWithPrice, error) {
	var bundle models.Bundle
	err := s.db.Preload("Items").Preload("Items.Product").
		First(&bundle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("bundle not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &BundleWithPrice{
		Bundle: &bundle,
		Price:  s.priceOf(&bundle),
	}, nil
}

// CalculateBundlePrice prices an ad-hoc set of products without persisting
// anything.
func (s *BundleService) CalculateBundlePrice(productIDs []uuid.UUID) (pricing.BundlePrice, error) {
	if len(productIDs) == 0 {
		return pricing.BundlePrice{}, errors.New("at least one product is required")
	}

	var products []models.Product
	if err := s.db.Where("id IN ? AND status = ?", productIDs, models.ProductStatusPublished).
		Find(&products).Error; err != nil {
		return pricing.BundlePrice{}, fmt.Errorf("failed to fetch bundle products: %w", err)
	}
	if len(products) != len(productIDs) {
		return pricing.BundlePrice{}, errors.New("one or more products are unavailable")
	}

	prices := make([]int64, len(products))
	for i, p := range products {
		prices[i] = p.PriceCents
	}
	return pricing.PriceBundle(prices), nil
}

func (s *BundleService) GetSellerBundles(sellerID uuid.UUID, params utils.PaginationParams) ([]BundleWithPrice, int64, error) {
	query := s.db.Model(&models.Bundle{}).Where("seller_id = ?", sellerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bundles: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var bundles []models.Bundle
	if err := query.Preload("Items").Preload("Items.Product").Find(&bundles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bundles: %w", err)
	}

	result := make([]BundleWithPrice, len(bundles))
	for i := range bundles {
		result[i] = BundleWithPrice{
			Bundle: &bundles[i],
			Price:  s.priceOf(&bundles[i]),
		}
	}
	return result, total, nil
}

func (s *BundleService) priceOf(bundle *models.Bundle) pricing.BundlePrice {
	prices := make([]int64, len(bundle.Items))
	for i, item := range bundle.Items {
		prices[i] = item.Product.PriceCents
	}
	return pricing.PriceBundle(prices)
}
