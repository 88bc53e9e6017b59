// internal/store/store.go

// Package store defines the narrow read/write port the scoring, competitor,
// and quote services operate through, plus its gorm implementation. Keeping
// the engines behind this interface means they can be tested against fakes
// without a live database.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stackmarket/sm-backend/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence port for the derived-data engines.
type Store interface {
	// Reads.
	ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ProductsByCategory(ctx context.Context, categoryID, excludeID uuid.UUID) ([]models.Product, error)
	PublishedProductIDs(ctx context.Context) ([]uuid.UUID, error)
	ReviewStats(ctx context.Context, productID uuid.UUID) (avgRating float64, count int64, err error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ProductScore(ctx context.Context, productID uuid.UUID) (*models.ProductScore, error)
	ProductScores(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*models.ProductScore, error)
	TopCompetitors(ctx context.Context, productID uuid.UUID, limit int) ([]models.CompetitorRelationship, error)
	QuoteByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)

	// Writes. Upserts are keyed so recomputation overwrites prior values.
	UpsertProductScore(ctx context.Context, score *models.ProductScore) error
	UpsertCompetitorRelationship(ctx context.Context, rel *models.CompetitorRelationship) error
	CreateQuote(ctx context.Context, quote *models.Quote) error
	UpdateQuote(ctx context.Context, quote *models.Quote) error
	AddCartItem(ctx context.Context, buyerID uuid.UUID, item *models.CartItem) error
}
