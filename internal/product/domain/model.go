package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Category    string          `json:"category" gorm:"type:varchar(100);not null;index:idx_products_category"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	ImageURL    *string         `json:"image_url,omitempty" gorm:"column:image_url;type:text"`
	Active      bool            `json:"active" gorm:"not null;default:true;index:idx_products_active"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
