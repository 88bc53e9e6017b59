// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username        string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"`
	UserType        UserType   `json:"user_type" gorm:"type:varchar(20);not null"`
	Status          UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	CompanyName     string     `json:"company_name" gorm:"size:255"`
	CompanySize     int        `json:"company_size" gorm:"default:0"`
	// Category slugs the buyer declared interest in; feeds score personalization.
	InterestCategories pq.StringArray `json:"interest_categories" gorm:"type:text[]"`
	ProfileData        JSONB          `json:"profile_data" gorm:"type:jsonb"`
	EmailVerifiedAt    *time.Time     `json:"email_verified_at"`
	LastLoginAt        *time.Time     `json:"last_login_at"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:SellerID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:BuyerID"`
	Quotes   []Quote   `json:"quotes,omitempty" gorm:"foreignKey:BuyerID"`
	Orders   []Order   `json:"orders,omitempty" gorm:"foreignKey:BuyerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
