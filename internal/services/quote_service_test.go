// internal/services/quote_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/pricing"
	"github.com/stackmarket/sm-backend/internal/store"
)

// fakeStore is an in-memory Store for exercising the quote state machine
// without a database.
type fakeStore struct {
	products  map[uuid.UUID]*models.Product
	quotes    map[uuid.UUID]*models.Quote
	cartItems []*models.CartItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]*models.Product),
		quotes:   make(map[uuid.UUID]*models.Quote),
	}
}

func (f *fakeStore) ProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ProductsByCategory(context.Context, uuid.UUID, uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeStore) PublishedProductIDs(context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeStore) ReviewStats(context.Context, uuid.UUID) (float64, int64, error) {
	return 0, 0, nil
}

func (f *fakeStore) UserByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) ProductScore(context.Context, uuid.UUID) (*models.ProductScore, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) ProductScores(context.Context, []uuid.UUID) (map[uuid.UUID]*models.ProductScore, error) {
	return map[uuid.UUID]*models.ProductScore{}, nil
}

func (f *fakeStore) TopCompetitors(context.Context, uuid.UUID, int) ([]models.CompetitorRelationship, error) {
	return nil, nil
}

func (f *fakeStore) QuoteByID(_ context.Context, id uuid.UUID) (*models.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

func (f *fakeStore) UpsertProductScore(context.Context, *models.ProductScore) error {
	return nil
}

func (f *fakeStore) UpsertCompetitorRelationship(context.Context, *models.CompetitorRelationship) error {
	return nil
}

func (f *fakeStore) CreateQuote(_ context.Context, quote *models.Quote) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	copied := *quote
	f.quotes[quote.ID] = &copied
	return nil
}

func (f *fakeStore) UpdateQuote(_ context.Context, quote *models.Quote) error {
	if _, ok := f.quotes[quote.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *quote
	f.quotes[quote.ID] = &copied
	return nil
}

func (f *fakeStore) AddCartItem(_ context.Context, _ uuid.UUID, item *models.CartItem) error {
	f.cartItems = append(f.cartItems, item)
	return nil
}

func newQuoteFixture(t *testing.T) (*QuoteService, *fakeStore, *models.Product) {
	t.Helper()
	fs := newFakeStore()
	product := &models.Product{
		PriceCents: 250000, // $2500.00
		Status:     models.ProductStatusPublished,
	}
	product.ID = uuid.New()
	fs.products[product.ID] = product

	svc := NewQuoteService(fs)
	return svc, fs, product
}

func TestGenerateQuote(t *testing.T) {
	svc, fs, product := newQuoteFixture(t)
	buyerID := uuid.New()

	quote, err := svc.GenerateQuote(context.Background(), buyerID, &GenerateQuoteRequest{
		ProductID:   product.ID,
		CompanySize: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusPending, quote.Status)
	assert.Equal(t, buyerID, quote.BuyerID)
	// $2500 base at the 1.5x tier
	assert.Equal(t, 3750.0, quote.QuotedPrice)
	assert.True(t, quote.ValidUntil.After(time.Now().Add(29*24*time.Hour)))
	assert.Contains(t, fs.quotes, quote.ID)
}

func TestGenerateQuoteUnknownProduct(t *testing.T) {
	svc, _, _ := newQuoteFixture(t)

	_, err := svc.GenerateQuote(context.Background(), uuid.New(), &GenerateQuoteRequest{
		ProductID:   uuid.New(),
		CompanySize: 100,
	})
	assert.Error(t, err)
}

func TestQuoteLifecycle(t *testing.T) {
	svc, fs, product := newQuoteFixture(t)
	buyerID := uuid.New()

	quote, err := svc.GenerateQuote(context.Background(), buyerID, &GenerateQuoteRequest{
		ProductID:   product.ID,
		CompanySize: 25,
	})
	require.NoError(t, err)

	sent, err := svc.SendQuote(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusSent, sent.Status)

	// A sent quote cannot be sent again.
	_, err = svc.SendQuote(context.Background(), quote.ID)
	assert.ErrorIs(t, err, ErrQuoteInvalidStatus)

	accepted, err := svc.AcceptQuote(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusAccepted, accepted.Status)

	// Acceptance placed exactly one cart line at the quoted price.
	require.Len(t, fs.cartItems, 1)
	item := fs.cartItems[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, pricing.QuotedPriceCents(accepted.QuotedPrice), item.UnitPriceCents)
	require.NotNil(t, item.QuoteID)
	assert.Equal(t, quote.ID, *item.QuoteID)

	// Decided quotes are terminal.
	_, err = svc.AcceptQuote(context.Background(), quote.ID)
	assert.ErrorIs(t, err, ErrQuoteInvalidStatus)
	_, err = svc.RejectQuote(context.Background(), quote.ID)
	assert.ErrorIs(t, err, ErrQuoteInvalidStatus)
}

func TestRejectQuote(t *testing.T) {
	svc, _, product := newQuoteFixture(t)

	quote, err := svc.GenerateQuote(context.Background(), uuid.New(), &GenerateQuoteRequest{
		ProductID:   product.ID,
		CompanySize: 25,
	})
	require.NoError(t, err)

	rejected, err := svc.RejectQuote(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusRejected, rejected.Status)
}

func TestExpiredQuoteCannotBeAccepted(t *testing.T) {
	svc, fs, product := newQuoteFixture(t)

	quote, err := svc.GenerateQuote(context.Background(), uuid.New(), &GenerateQuoteRequest{
		ProductID:   product.ID,
		CompanySize: 25,
	})
	require.NoError(t, err)

	// Advance the service clock past the validity window.
	svc.now = func() time.Time { return quote.ValidUntil.Add(time.Hour) }

	_, err = svc.AcceptQuote(context.Background(), quote.ID)
	assert.ErrorIs(t, err, ErrQuoteExpired)
	assert.Empty(t, fs.cartItems)
}

func TestGetQuoteExpiresOnRead(t *testing.T) {
	svc, fs, product := newQuoteFixture(t)

	quote, err := svc.GenerateQuote(context.Background(), uuid.New(), &GenerateQuoteRequest{
		ProductID:   product.ID,
		CompanySize: 25,
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return quote.ValidUntil.Add(time.Minute) }

	read, err := svc.GetQuote(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusExpired, read.Status)
	assert.Equal(t, models.QuoteStatusExpired, fs.quotes[quote.ID].Status)
}

func TestExtendValidity(t *testing.T) {
	svc, _, product := newQuoteFixture(t)

	quote, err := svc.GenerateQuote(context.Background(), uuid.New(), &GenerateQuoteRequest{
		ProductID:   product.ID,
		CompanySize: 25,
	})
	require.NoError(t, err)

	t.Run("cannot shrink the window", func(t *testing.T) {
		_, err := svc.ExtendValidity(context.Background(), quote.ID, quote.ValidUntil.Add(-time.Hour))
		assert.Error(t, err)
	})

	t.Run("extends an undecided quote", func(t *testing.T) {
		until := quote.ValidUntil.Add(14 * 24 * time.Hour)
		extended, err := svc.ExtendValidity(context.Background(), quote.ID, until)
		require.NoError(t, err)
		assert.True(t, extended.ValidUntil.Equal(until))
	})

	t.Run("revives an expired quote to sent", func(t *testing.T) {
		svc.now = func() time.Time { return quote.ValidUntil.Add(30 * 24 * time.Hour) }
		_, err := svc.GetQuote(context.Background(), quote.ID)
		require.NoError(t, err)

		until := svc.now().Add(7 * 24 * time.Hour)
		revived, err := svc.ExtendValidity(context.Background(), quote.ID, until)
		require.NoError(t, err)
		assert.Equal(t, models.QuoteStatusSent, revived.Status)
	})
}
