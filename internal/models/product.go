// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Slug        string `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
}

type Product struct {
	BaseModel
	SellerID         uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	CategoryID       uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Name             string         `json:"name" gorm:"size:255;not null"`
	ShortDescription string         `json:"short_description" gorm:"size:500"`
	LongDescription  string         `json:"long_description" gorm:"type:text"`
	// Price in minor currency units (cents).
	PriceCents     int64          `json:"price_cents" gorm:"not null"`
	DeploymentType DeploymentType `json:"deployment_type" gorm:"type:varchar(20)"`
	// Estimated implementation time in days; nil when the seller has not provided it.
	ImplementationDays *int   `json:"implementation_days"`
	AccessDepth        string `json:"access_depth" gorm:"size:500"`
	ROIPercent         *float64 `json:"roi_percent"`
	RetentionRate      *float64 `json:"retention_rate"`
	QoQGrowth          *float64 `json:"qoq_growth"`
	DemoURL            string   `json:"demo_url" gorm:"size:500"`
	AssetKeys          pq.StringArray `json:"asset_keys" gorm:"type:text[]"`
	DownloadKey        string         `json:"-" gorm:"size:500"`
	// Products are archived, never hard-deleted, so order history stays referable.
	Status      ProductStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	ViewCount   int64         `json:"view_count" gorm:"default:0"`
	SalesCount  int64         `json:"sales_count" gorm:"default:0"`
	Rating      float64       `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount int64         `json:"review_count" gorm:"default:0"`

	// Relationships
	Seller   User             `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Category Category         `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Features []ProductFeature `json:"features,omitempty" gorm:"foreignKey:ProductID"`
	Reviews  []Review         `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
	Score    *ProductScore    `json:"score,omitempty" gorm:"foreignKey:ProductID"`
}

type ProductFeature struct {
	BaseModel
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Category    FeatureCategory `json:"category" gorm:"type:varchar(20);default:'general'"`
	// 0-100, how central the feature is to the product.
	RelevanceScore int `json:"relevance_score" gorm:"default:50"`
}
