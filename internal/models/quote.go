// internal/models/quote.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Quote struct {
	BaseModel
	BuyerID     uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	CompanySize int       `json:"company_size" gorm:"not null"`
	// Opaque key-value requirement set supplied by the buyer.
	Requirements JSONB   `json:"requirements" gorm:"type:jsonb"`
	QuotedPrice  float64 `json:"quoted_price" gorm:"type:decimal(12,2);not null"`
	// Named components summing to quoted_price.
	PricingBreakdown JSONB       `json:"pricing_breakdown" gorm:"type:jsonb"`
	Status           QuoteStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ValidUntil       time.Time   `json:"valid_until" gorm:"not null"`

	// Relationships
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// IsExpired reports whether the quote's validity window has passed at t.
func (q *Quote) IsExpired(t time.Time) bool {
	return t.After(q.ValidUntil)
}
