// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

type Cart struct {
	BaseModel
	BuyerID uuid.UUID  `json:"buyer_id" gorm:"type:uuid;not null;index"`
	Status  CartStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Buyer User       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	// Unit price in minor currency units, captured at add time. Quote-sourced
	// items carry the quoted price instead of the list price.
	UnitPriceCents int64      `json:"unit_price_cents" gorm:"not null"`
	QuoteID        *uuid.UUID `json:"quote_id,omitempty" gorm:"type:uuid"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// TotalCents sums the cart's line items.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}
