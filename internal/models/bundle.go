// internal/models/bundle.go
package models

import (
	"github.com/google/uuid"
)

type Bundle struct {
	BaseModel
	SellerID    uuid.UUID    `json:"seller_id" gorm:"type:uuid;not null;index"`
	Name        string       `json:"name" gorm:"size:255;not null"`
	Description string       `json:"description" gorm:"type:text"`
	Status      BundleStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Seller User         `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Items  []BundleItem `json:"items,omitempty" gorm:"foreignKey:BundleID"`
}

type BundleItem struct {
	BaseModel
	BundleID  uuid.UUID `json:"bundle_id" gorm:"type:uuid;not null;index:idx_bundle_items_pair,unique"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_bundle_items_pair,unique"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
