// internal/services/competitor_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stackmarket/sm-backend/internal/competition"
	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/store"
)

// How many competitors an analysis considers, ordered by similarity.
const topCompetitorLimit = 5

type CompetitorService struct {
	store store.Store
}

func NewCompetitorService(st store.Store) *CompetitorService {
	return &CompetitorService{store: st}
}

// IdentifyCompetitors scores every other published product in the same
// category against the given product and upserts one relationship row per
// pair. Re-running replaces prior scores; nothing accumulates.
func (s *CompetitorService) IdentifyCompetitors(ctx context.Context, productID uuid.UUID) (int, error) {
	product, err := s.store.ProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	candidates, err := s.store.ProductsByCategory(ctx, product.CategoryID, productID)
	if err != nil {
		return 0, err
	}

	base := competitionData(product, nil)
	identified := 0
	for i := range candidates {
		candidate := competitionData(&candidates[i], nil)
		pair := competition.ScorePair(base, candidate)

		rel := &models.CompetitorRelationship{
			ProductID:          productID,
			CompetitorID:       candidates[i].ID,
			SimilarityScore:    pair.Similarity,
			MarketOverlapScore: pair.MarketOverlap,
		}
		if err := s.store.UpsertCompetitorRelationship(ctx, rel); err != nil {
			return identified, fmt.Errorf("failed to record competitor %s: %w", candidates[i].ID, err)
		}
		identified++
	}

	logrus.WithFields(logrus.Fields{
		"product_id":  productID,
		"competitors": identified,
	}).Info("Competitor identification completed")
	return identified, nil
}

// GetCompetitorAnalysis builds the full competitive picture from the stored
// relationships. Zero identified competitors yields a defaulted analysis,
// never an error.
func (s *CompetitorService) GetCompetitorAnalysis(ctx context.Context, productID uuid.UUID) (*competition.Analysis, error) {
	product, err := s.store.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	rels, err := s.store.TopCompetitors(ctx, productID, topCompetitorLimit)
	if err != nil {
		return nil, err
	}

	// Collect score rows for the product and its competitors in one read.
	ids := make([]uuid.UUID, 0, len(rels)+1)
	ids = append(ids, productID)
	for _, rel := range rels {
		ids = append(ids, rel.CompetitorID)
	}
	scores, err := s.store.ProductScores(ctx, ids)
	if err != nil {
		return nil, err
	}

	base := competitionData(product, scores[productID])
	competitors := make([]competition.ProductData, 0, len(rels))
	for i := range rels {
		competitor := rels[i].Competitor
		competitors = append(competitors, competitionData(&competitor, scores[competitor.ID]))
	}

	analysis := competition.BuildAnalysis(base, competitors)
	return &analysis, nil
}

func competitionData(product *models.Product, score *models.ProductScore) competition.ProductData {
	names := make([]string, len(product.Features))
	for i, f := range product.Features {
		names[i] = f.Name
	}

	data := competition.ProductData{
		ID:                 product.ID,
		Name:               product.Name,
		ShortDescription:   product.ShortDescription,
		PriceCents:         product.PriceCents,
		ImplementationDays: product.ImplementationDays,
		ROIPercent:         product.ROIPercent,
		RetentionRate:      product.RetentionRate,
		FeatureNames:       names,
	}
	if score != nil {
		data.Scores = &competition.Scores{
			Fit:         score.FitScore,
			Feature:     score.FeatureScore,
			Integration: score.IntegrationScore,
			Review:      score.ReviewScore,
			Overall:     score.OverallScore,
		}
	}
	return data
}
