package authorization

import (
	"context"
	"errors"
)

type Service interface {
	Authorize(ctx context.Context, actor, role, object, action string) error
}

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)
