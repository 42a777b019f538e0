package storage

import (
	"context"
	"glickoserver/auth/users"

	"github.com/google/uuid"
)

type AuthStorage interface {
	CreateUser(ctx context.Context, user users.User, secret users.Secret) error
	GetUser(ctx context.Context, id uuid.UUID) (users.User, error)
	GetUserSecret(ctx context.Context, user users.User) (users.Secret, error)
	SignIn(ctx context.Context, name string, passwordHash []byte) (users.User, error)
}
