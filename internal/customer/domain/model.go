package domain

import "time"

type Customer struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(150);not null" json:"name"`
	Email         string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_customers_email" json:"email"`
	Phone         *string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	PointsBalance int64     `gorm:"column:points_balance;not null;default:0" json:"points_balance"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
