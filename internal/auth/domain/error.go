package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrAdminNotFound      = errors.New("admin_not_found")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrMissingToken       = errors.New("missing_token")
)
