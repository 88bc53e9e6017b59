// internal/services/review_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type ReviewService struct {
	db           *gorm.DB
	scoreService *ScoreService
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title,omitempty" validate:"omitempty,max=255"`
	Body   string `json:"body,omitempty"`
}

func NewReviewService(db *gorm.DB, scoreService *ScoreService) *ReviewService {
	return &ReviewService{
		db:           db,
		scoreService: scoreService,
	}
}

// CreateReview records one review per buyer per product and refreshes the
// product's cached rating aggregates in the same transaction.
func (s *ReviewService) CreateReview(ctx context.Context, productID, buyerID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.Status != models.ProductStatusPublished {
		return nil, errors.New("product is not available for review")
	}
	if product.SellerID == buyerID {
		return nil, errors.New("sellers cannot review their own products")
	}

	var existing int64
	s.db.Model(&models.Review{}).
		Where("product_id = ? AND buyer_id = ?", productID, buyerID).
		Count(&existing)
	if existing > 0 {
		return nil, errors.New("you have already reviewed this product")
	}

	// Only buyers who purchased the product may review it.
	var purchases int64
	s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.buyer_id = ? AND orders.status = ?",
			productID, buyerID, models.OrderStatusPaid).
		Count(&purchases)
	if purchases == 0 {
		return nil, errors.New("only verified buyers can review this product")
	}

	review := &models.Review{
		ProductID: productID,
		BuyerID:   buyerID,
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return refreshRatingAggregates(tx, productID)
	})
	if err != nil {
		return nil, err
	}

	s.recalculateScores(ctx, productID)

	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"buyer_id":   buyerID,
		"rating":     req.Rating,
	}).Info("Review created")
	return review, nil
}

func (s *ReviewService) GetReviews(productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("product_id = ?", productID).Preload("Buyer")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	allowedSortFields := []string{"created_at", "rating"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, buyerID uuid.UUID) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("review not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if review.BuyerID != buyerID {
		return errors.New("unauthorized to delete this review")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return refreshRatingAggregates(tx, review.ProductID)
	})
	if err != nil {
		return err
	}

	s.recalculateScores(ctx, review.ProductID)
	return nil
}

// Helper methods

// refreshRatingAggregates recomputes the denormalized rating and review_count
// columns from the reviews table.
func refreshRatingAggregates(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating": gorm.Expr(
				"(SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = ? AND deleted_at IS NULL)", productID),
			"review_count": gorm.Expr(
				"(SELECT COUNT(*) FROM reviews WHERE product_id = ? AND deleted_at IS NULL)", productID),
		}).Error
}

func (s *ReviewService) recalculateScores(ctx context.Context, productID uuid.UUID) {
	if s.scoreService == nil {
		return
	}
	go func() {
		if _, err := s.scoreService.CalculateScores(context.WithoutCancel(ctx), productID); err != nil {
			logrus.WithError(err).WithField("product_id", productID).
				Warn("Score refresh after review change failed")
		}
	}()
}
