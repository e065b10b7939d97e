package user

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("user not found")

// Service is the user directory used by the transports.
type Service interface {
	// Login looks up a User by id. There is no credential check.
	Login(ctx context.Context, id string) (User, error)
	RegisterUser(ctx context.Context, usr User) (User, error)
	GetUserByID(id string) (User, bool)
}
