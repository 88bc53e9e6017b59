// internal/services/feature_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type FeatureService struct {
	db           *gorm.DB
	scoreService *ScoreService
}

type CreateFeatureRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Description    string `json:"description,omitempty"`
	RelevanceScore *int   `json:"relevance_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// Keyword tables for feature categorization. Matching is case-insensitive
// substring search over name and description; first table that matches wins,
// in declaration order.
var featureCategoryKeywords = []struct {
	category models.FeatureCategory
	keywords []string
}{
	{models.FeatureCategorySecurity, []string{"security", "encryption", "sso", "audit", "compliance", "permission", "gdpr"}},
	{models.FeatureCategoryIntegration, []string{"api", "integration", "webhook", "connector", "sync", "import", "export"}},
	{models.FeatureCategoryAnalytics, []string{"analytics", "report", "dashboard", "insight", "metric", "forecast"}},
	{models.FeatureCategoryAutomation, []string{"automation", "workflow", "trigger", "scheduled", "pipeline", "bot"}},
	{models.FeatureCategoryCollaboration, []string{"collaboration", "share", "team", "comment", "mention", "realtime"}},
	{models.FeatureCategorySupport, []string{"support", "onboarding", "training", "helpdesk", "documentation", "sla"}},
	{models.FeatureCategoryCore, []string{"core", "management", "editor", "storage", "search", "crm"}},
}

// CategorizeFeature assigns a taxonomy category from fixed keyword tables.
// The same name and description always yield the same category.
func CategorizeFeature(name, description string) models.FeatureCategory {
	text := strings.ToLower(name + " " + description)
	for _, entry := range featureCategoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}
	return models.FeatureCategoryGeneral
}

func NewFeatureService(db *gorm.DB, scoreService *ScoreService) *FeatureService {
	return &FeatureService{
		db:           db,
		scoreService: scoreService,
	}
}

func (s *FeatureService) AddFeature(ctx context.Context, productID, sellerID uuid.UUID, req *CreateFeatureRequest) (*models.ProductFeature, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.verifyOwnership(productID, sellerID); err != nil {
		return nil, err
	}

	feature := &models.ProductFeature{
		ProductID:   productID,
		Name:        req.Name,
		Description: req.Description,
		Category:    CategorizeFeature(req.Name, req.Description),
	}
	if req.RelevanceScore != nil {
		feature.RelevanceScore = *req.RelevanceScore
	} else {
		feature.RelevanceScore = 50
	}

	if err := s.db.Create(feature).Error; err != nil {
		return nil, fmt.Errorf("failed to create feature: %w", err)
	}

	s.recalculateScores(ctx, productID)
	return feature, nil
}

// AddFeatures bulk-creates features in one transaction and triggers a single
// score recomputation afterwards.
func (s *FeatureService) AddFeatures(ctx context.Context, productID, sellerID uuid.UUID, reqs []CreateFeatureRequest) ([]models.ProductFeature, error) {
	if len(reqs) == 0 {
		return nil, errors.New("at least one feature is required")
	}
	for i := range reqs {
		if err := utils.ValidateStruct(&reqs[i]); err != nil {
			return nil, fmt.Errorf("validation failed for feature %d: %w", i, err)
		}
	}

	if err := s.verifyOwnership(productID, sellerID); err != nil {
		return nil, err
	}

	features := make([]models.ProductFeature, len(reqs))
	for i, req := range reqs {
		features[i] = models.ProductFeature{
			ProductID:      productID,
			Name:           req.Name,
			Description:    req.Description,
			Category:       CategorizeFeature(req.Name, req.Description),
			RelevanceScore: 50,
		}
		if req.RelevanceScore != nil {
			features[i].RelevanceScore = *req.RelevanceScore
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range features {
			if err := tx.Create(&features[i]).Error; err != nil {
				return fmt.Errorf("failed to create feature %q: %w", features[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recalculateScores(ctx, productID)
	return features, nil
}

func (s *FeatureService) GetFeatures(productID uuid.UUID) ([]models.ProductFeature, error) {
	var features []models.ProductFeature
	if err := s.db.Where("product_id = ?", productID).
		Order("relevance_score DESC, name ASC").
		Find(&features).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch features: %w", err)
	}
	return features, nil
}

func (s *FeatureService) UpdateFeature(ctx context.Context, featureID, sellerID uuid.UUID, req *CreateFeatureRequest) (*models.ProductFeature, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var feature models.ProductFeature
	if err := s.db.First(&feature, featureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("feature not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.verifyOwnership(feature.ProductID, sellerID); err != nil {
		return nil, err
	}

	feature.Name = req.Name
	feature.Description = req.Description
	feature.Category = CategorizeFeature(req.Name, req.Description)
	if req.RelevanceScore != nil {
		feature.RelevanceScore = *req.RelevanceScore
	}

	if err := s.db.Save(&feature).Error; err != nil {
		return nil, fmt.Errorf("failed to update feature: %w", err)
	}

	s.recalculateScores(ctx, feature.ProductID)
	return &feature, nil
}

func (s *FeatureService) DeleteFeature(ctx context.Context, featureID, sellerID uuid.UUID) error {
	var feature models.ProductFeature
	if err := s.db.First(&feature, featureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("feature not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.verifyOwnership(feature.ProductID, sellerID); err != nil {
		return err
	}

	if err := s.db.Delete(&feature).Error; err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}

	s.recalculateScores(ctx, feature.ProductID)
	return nil
}

// Helper methods

func (s *FeatureService) verifyOwnership(productID, sellerID uuid.UUID) error {
	var product models.Product
	if err := s.db.Select("id", "seller_id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if product.SellerID != sellerID {
		return errors.New("unauthorized to modify this product's features")
	}
	return nil
}

// Feature edits change scoring inputs, so stored scores are refreshed in the
// background after every mutation.
func (s *FeatureService) recalculateScores(ctx context.Context, productID uuid.UUID) {
	if s.scoreService == nil {
		return
	}
	go func() {
		if _, err := s.scoreService.CalculateScores(context.WithoutCancel(ctx), productID); err != nil {
			logrus.WithError(err).WithField("product_id", productID).
				Warn("Score refresh after feature change failed")
		}
	}()
}
