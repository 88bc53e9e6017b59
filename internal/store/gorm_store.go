// internal/store/gorm_store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackmarket/sm-backend/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Features").Preload("Category").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *GormStore) ProductsByCategory(ctx context.Context, categoryID, excludeID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Features").
		Where("category_id = ? AND id <> ? AND status = ?", categoryID, excludeID, models.ProductStatusPublished).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category products: %w", err)
	}
	return products, nil
}

func (s *GormStore) PublishedProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status = ?", models.ProductStatusPublished).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list published products: %w", err)
	}
	return ids, nil
}

func (s *GormStore) ReviewStats(ctx context.Context, productID uuid.UUID) (float64, int64, error) {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&stats).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return stats.Avg, stats.Count, nil
}

func (s *GormStore) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *GormStore) ProductScore(ctx context.Context, productID uuid.UUID) (*models.ProductScore, error) {
	var score models.ProductScore
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &score, nil
}

func (s *GormStore) ProductScores(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*models.ProductScore, error) {
	var scores []models.ProductScore
	err := s.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	result := make(map[uuid.UUID]*models.ProductScore, len(scores))
	for i := range scores {
		result[scores[i].ProductID] = &scores[i]
	}
	return result, nil
}

func (s *GormStore) TopCompetitors(ctx context.Context, productID uuid.UUID, limit int) ([]models.CompetitorRelationship, error) {
	var rels []models.CompetitorRelationship
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("similarity_score DESC").
		Limit(limit).
		Preload("Competitor").Preload("Competitor.Features").
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitors: %w", err)
	}
	return rels, nil
}

func (s *GormStore) QuoteByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.WithContext(ctx).
		Preload("Product").
		First(&quote, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &quote, nil
}

// UpsertProductScore writes a complete score set, conflict target product_id.
// Last writer wins; recomputation is idempotent and derived-only.
func (s *GormStore) UpsertProductScore(ctx context.Context, score *models.ProductScore) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"fit_score", "feature_score", "integration_score",
				"review_score", "overall_score", "breakdown",
				"calculated_at", "updated_at",
			}),
		}).
		Create(score).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product score: %w", err)
	}
	return nil
}

func (s *GormStore) UpsertCompetitorRelationship(ctx context.Context, rel *models.CompetitorRelationship) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "competitor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"similarity_score", "market_overlap_score", "updated_at",
			}),
		}).
		Create(rel).Error
	if err != nil {
		return fmt.Errorf("failed to upsert competitor relationship: %w", err)
	}
	return nil
}

func (s *GormStore) CreateQuote(ctx context.Context, quote *models.Quote) error {
	if err := s.db.WithContext(ctx).Create(quote).Error; err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateQuote(ctx context.Context, quote *models.Quote) error {
	if err := s.db.WithContext(ctx).Save(quote).Error; err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	return nil
}

// AddCartItem appends a line item to the buyer's active cart, creating the
// cart if none exists.
func (s *GormStore) AddCartItem(ctx context.Context, buyerID uuid.UUID, item *models.CartItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("buyer_id = ? AND status = ?", buyerID, models.CartStatusActive).
			First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{BuyerID: buyerID, Status: models.CartStatusActive}
			if err := tx.Create(&cart).Error; err != nil {
				return fmt.Errorf("failed to create cart: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		item.CartID = cart.ID
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		return nil
	})
}
