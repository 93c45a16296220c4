package interfaces

import (
	"context"

	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
)

type AuthService interface {
	Register(context.Context, *params.User) (*entities.Token, error)
	Login(context.Context, params.Credentials) (*entities.Token, error)
	// Authenticate resolves a bearer token into an active user.
	Authenticate(ctx context.Context, token string) (*user.User, error)
}
