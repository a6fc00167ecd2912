package domain

import (
	"context"
	"time"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Verify(ctx context.Context, rawToken string) (*Claims, error)
	EnsureAdmin(ctx context.Context, req EnsureAdminRequest) (*AdminView, bool, error)
	ListAdmins(ctx context.Context) ([]AdminView, error)
}

type LoginRequest struct {
	Username string `json:"usuario"`
	Password string `json:"senha"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     AdminView `json:"admin"`
}

type EnsureAdminRequest struct {
	Username string
	Password string
	Name     string
	// Role defaults to RoleAdmin.
	Role string
}

// AdminView is the public shape of an admin; the hash never leaves the service.
type AdminView struct {
	ID           string     `json:"id"`
	Username     string     `json:"usuario"`
	Name         string     `json:"nome"`
	Role         string     `json:"tipo"`
	LastAccessAt *time.Time `json:"ultimo_acesso,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Claims are the verified token contents.
type Claims struct {
	ID        string    `json:"id"`
	Username  string    `json:"usuario"`
	Role      string    `json:"tipo"`
	ExpiresAt time.Time `json:"exp"`
}
