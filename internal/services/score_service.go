// internal/services/score_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/scoring"
	"github.com/stackmarket/sm-backend/internal/store"
)

// How many products a batch recomputation scores concurrently.
const recalcBatchSize = 10

type ScoreService struct {
	store  store.Store
	engine *scoring.Engine
}

func NewScoreService(st store.Store, engine *scoring.Engine) *ScoreService {
	return &ScoreService{
		store:  st,
		engine: engine,
	}
}

// CalculateScores computes and persists the complete score set for one
// product. The write is all-or-nothing: a failed computation never leaves a
// partial score row behind.
func (s *ScoreService) CalculateScores(ctx context.Context, productID uuid.UUID) (*models.ProductScore, error) {
	return s.calculate(ctx, productID, nil)
}

// CalculateScoresForBuyer personalizes fit and integration scores to the
// buyer's profile. Personalized results are returned, not persisted; the
// stored row always holds the generic scores.
func (s *ScoreService) CalculateScoresForBuyer(ctx context.Context, productID, buyerID uuid.UUID) (*models.ProductScore, error) {
	buyer, err := s.store.UserByID(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("buyer lookup failed: %w", err)
	}
	profile := &scoring.BuyerProfile{
		CompanySize:        buyer.CompanySize,
		InterestCategories: buyer.InterestCategories,
	}
	return s.computeOnly(ctx, productID, profile)
}

// GetScores returns the stored score set, computing it on first request.
func (s *ScoreService) GetScores(ctx context.Context, productID uuid.UUID) (*models.ProductScore, error) {
	score, err := s.store.ProductScore(ctx, productID)
	if err == nil {
		return score, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}
	return s.CalculateScores(ctx, productID)
}

// RecalculateAllScores recomputes scores for every published product in
// bounded concurrent batches. Individual failures are logged and skipped;
// the batch always completes and reports how many products were processed.
func (s *ScoreService) RecalculateAllScores(ctx context.Context) (int, error) {
	ids, err := s.store.PublishedProductIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list products for recalculation: %w", err)
	}

	processed := 0
	for start := 0; start < len(ids); start += recalcBatchSize {
		end := start + recalcBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		results := make([]bool, end-start)
		g, gctx := errgroup.WithContext(ctx)
		for i, id := range ids[start:end] {
			i, id := i, id
			g.Go(func() error {
				if _, err := s.calculate(gctx, id, nil); err != nil {
					logrus.WithError(err).WithField("product_id", id).
						Warn("Score recalculation failed; skipping product")
					return nil
				}
				results[i] = true
				return nil
			})
		}
		// Workers swallow their own errors, so Wait only fails on context
		// cancellation.
		if err := g.Wait(); err != nil {
			return processed, err
		}
		for _, ok := range results {
			if ok {
				processed++
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"total":     len(ids),
		"processed": processed,
	}).Info("Score recalculation completed")
	return processed, nil
}

func (s *ScoreService) calculate(ctx context.Context, productID uuid.UUID, buyer *scoring.BuyerProfile) (*models.ProductScore, error) {
	score, err := s.computeOnly(ctx, productID, buyer)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertProductScore(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *ScoreService) computeOnly(ctx context.Context, productID uuid.UUID, buyer *scoring.BuyerProfile) (*models.ProductScore, error) {
	product, err := s.store.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	avgRating, reviewCount, err := s.store.ReviewStats(ctx, productID)
	if err != nil {
		return nil, err
	}

	input := scoringInput(product)
	features := scoringFeatures(product.Features)

	set := s.engine.Score(input, features, avgRating, reviewCount, buyer)
	breakdown := s.engine.ScoreBreakdown(input, features, avgRating, reviewCount, buyer)

	return &models.ProductScore{
		ProductID:        productID,
		FitScore:         set.Fit,
		FeatureScore:     set.Feature,
		IntegrationScore: set.Integration,
		ReviewScore:      set.Review,
		OverallScore:     set.Overall,
		Breakdown:        breakdownJSONB(breakdown),
		CalculatedAt:     time.Now(),
	}, nil
}

func scoringInput(product *models.Product) scoring.Product {
	return scoring.Product{
		PriceCents:         product.PriceCents,
		DeploymentType:     string(product.DeploymentType),
		ImplementationDays: product.ImplementationDays,
		AccessDepth:        product.AccessDepth,
		ROIPercent:         product.ROIPercent,
		RetentionRate:      product.RetentionRate,
		QoQGrowth:          product.QoQGrowth,
		DemoURL:            product.DemoURL,
		LongDescription:    product.LongDescription,
		CategorySlug:       product.Category.Slug,
	}
}

func scoringFeatures(features []models.ProductFeature) []scoring.Feature {
	result := make([]scoring.Feature, len(features))
	for i, f := range features {
		result[i] = scoring.Feature{RelevanceScore: f.RelevanceScore}
	}
	return result
}

func breakdownJSONB(b scoring.Breakdown) models.JSONB {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil
	}
	var out models.JSONB
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
