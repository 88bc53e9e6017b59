// internal/models/score.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductScore is a derived row, one per product, overwritten on recomputation.
type ProductScore struct {
	BaseModel
	ProductID        uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex"`
	FitScore         int       `json:"fit_score" gorm:"not null"`
	FeatureScore     int       `json:"feature_score" gorm:"not null"`
	IntegrationScore int       `json:"integration_score" gorm:"not null"`
	ReviewScore      int       `json:"review_score" gorm:"not null"`
	OverallScore     int       `json:"overall_score" gorm:"not null;index"`
	Breakdown        JSONB     `json:"breakdown" gorm:"type:jsonb"`
	CalculatedAt     time.Time `json:"calculated_at"`
}

// CompetitorRelationship is a derived row keyed by the (product, competitor)
// pair. Re-identification overwrites prior scores; no history is kept.
type CompetitorRelationship struct {
	BaseModel
	ProductID          uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_competitors_pair,unique"`
	CompetitorID       uuid.UUID `json:"competitor_id" gorm:"type:uuid;not null;index:idx_competitors_pair,unique"`
	SimilarityScore    float64   `json:"similarity_score" gorm:"type:decimal(5,2);not null"`
	MarketOverlapScore float64   `json:"market_overlap_score" gorm:"type:decimal(5,2);not null"`

	// Relationships
	Competitor Product `json:"competitor,omitempty" gorm:"foreignKey:CompetitorID"`
}
