// Package domain contains core types for back-office authentication.
package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Admin is a back-office account.
type Admin struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name         string     `gorm:"type:varchar(120);not null"`
	Role         string     `gorm:"type:varchar(32);not null;default:'admin'"`
	PasswordHash string     `gorm:"type:text;not null"`
	LastAccessAt *time.Time `gorm:"column:last_access_at"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (Admin) TableName() string { return "admins" }

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}
