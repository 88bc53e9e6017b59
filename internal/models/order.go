// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	BuyerID          uuid.UUID   `json:"buyer_id" gorm:"type:uuid;not null;index"`
	CartID           *uuid.UUID  `json:"cart_id,omitempty" gorm:"type:uuid"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TotalCents       int64       `json:"total_cents" gorm:"not null"`
	PaymentReference string      `json:"payment_reference" gorm:"size:255"`
	PaidAt           *time.Time  `json:"paid_at"`
	RefundedAt       *time.Time  `json:"refunded_at"`
	RefundReason     string      `json:"refund_reason" gorm:"size:500"`

	// Relationships
	Buyer User        `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID        uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	Quantity       int       `json:"quantity" gorm:"not null;default:1"`
	UnitPriceCents int64     `json:"unit_price_cents" gorm:"not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
