// internal/services/quote_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/pricing"
	"github.com/stackmarket/sm-backend/internal/store"
	"github.com/stackmarket/sm-backend/internal/utils"
)

// Domain errors surfaced by the quote state machine.
var (
	ErrQuoteExpired       = errors.New("quote has expired")
	ErrQuoteInvalidStatus = errors.New("quote is not in an acceptable status")
)

// Default validity window for freshly generated quotes.
const defaultQuoteValidity = 30 * 24 * time.Hour

type QuoteService struct {
	store store.Store
	now   func() time.Time
}

type GenerateQuoteRequest struct {
	ProductID    uuid.UUID              `json:"product_id" validate:"required"`
	CompanySize  int                    `json:"company_size" validate:"min=1"`
	Requirements map[string]interface{} `json:"requirements,omitempty"`
}

func NewQuoteService(st store.Store) *QuoteService {
	return &QuoteService{
		store: st,
		now:   time.Now,
	}
}

// GenerateQuote prices a quote for the buyer and persists it in pending
// status with the default validity window.
func (s *QuoteService) GenerateQuote(ctx context.Context, buyerID uuid.UUID, req *GenerateQuoteRequest) (*models.Quote, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.store.ProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	basePrice := float64(product.PriceCents) / 100
	result := pricing.GenerateQuotePrice(basePrice, req.CompanySize, req.Requirements)

	breakdown := make(models.JSONB, len(result.Breakdown))
	for k, v := range result.Breakdown {
		breakdown[k] = v
	}

	quote := &models.Quote{
		BuyerID:          buyerID,
		ProductID:        req.ProductID,
		CompanySize:      req.CompanySize,
		Requirements:     models.JSONB(req.Requirements),
		QuotedPrice:      result.Total,
		PricingBreakdown: breakdown,
		Status:           models.QuoteStatusPending,
		ValidUntil:       s.now().Add(defaultQuoteValidity),
	}

	if err := s.store.CreateQuote(ctx, quote); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"quote_id":     quote.ID,
		"product_id":   req.ProductID,
		"quoted_price": result.Total,
	}).Info("Quote generated")
	return quote, nil
}

// GetQuote loads a quote, flipping it to expired on read when its validity
// window has passed and it was still awaiting a decision.
func (s *QuoteService) GetQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.store.QuoteByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if quote.IsExpired(s.now()) && isAwaitingDecision(quote.Status) {
		quote.Status = models.QuoteStatusExpired
		if err := s.store.UpdateQuote(ctx, quote); err != nil {
			return nil, err
		}
	}
	return quote, nil
}

// SendQuote marks a pending quote as sent to the buyer.
func (s *QuoteService) SendQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.store.QuoteByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuoteStatusPending {
		return nil, ErrQuoteInvalidStatus
	}
	quote.Status = models.QuoteStatusSent
	if err := s.store.UpdateQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// AcceptQuote validates the quote is unexpired and awaiting a decision,
// flips it to accepted, and places one cart line item at the quoted price.
// The quoted price re-enters the cart's source-of-truth price field here, so
// the minor-unit conversion is deterministic round-half-up.
func (s *QuoteService) AcceptQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.store.QuoteByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if !isAwaitingDecision(quote.Status) {
		return nil, ErrQuoteInvalidStatus
	}
	if quote.IsExpired(s.now()) {
		return nil, ErrQuoteExpired
	}

	quote.Status = models.QuoteStatusAccepted
	if err := s.store.UpdateQuote(ctx, quote); err != nil {
		return nil, err
	}

	quoteID = quote.ID
	item := &models.CartItem{
		ProductID:      quote.ProductID,
		Quantity:       1,
		UnitPriceCents: pricing.QuotedPriceCents(quote.QuotedPrice),
		QuoteID:        &quoteID,
	}
	if err := s.store.AddCartItem(ctx, quote.BuyerID, item); err != nil {
		return nil, fmt.Errorf("quote accepted but cart update failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"quote_id":   quote.ID,
		"buyer_id":   quote.BuyerID,
		"unit_cents": item.UnitPriceCents,
	}).Info("Quote accepted")
	return quote, nil
}

// RejectQuote declines a quote that is still awaiting a decision.
func (s *QuoteService) RejectQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.store.QuoteByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !isAwaitingDecision(quote.Status) {
		return nil, ErrQuoteInvalidStatus
	}
	quote.Status = models.QuoteStatusRejected
	if err := s.store.UpdateQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// ExtendValidity pushes the validity window of an undecided quote forward.
func (s *QuoteService) ExtendValidity(ctx context.Context, quoteID uuid.UUID, until time.Time) (*models.Quote, error) {
	quote, err := s.store.QuoteByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status == models.QuoteStatusAccepted || quote.Status == models.QuoteStatusRejected {
		return nil, ErrQuoteInvalidStatus
	}
	if until.Before(quote.ValidUntil) {
		return nil, errors.New("new validity must extend the current window")
	}
	quote.ValidUntil = until
	if quote.Status == models.QuoteStatusExpired {
		quote.Status = models.QuoteStatusSent
	}
	if err := s.store.UpdateQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func isAwaitingDecision(status models.QuoteStatus) bool {
	return status == models.QuoteStatusPending || status == models.QuoteStatusSent
}
