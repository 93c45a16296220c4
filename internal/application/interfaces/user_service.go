package interfaces

import (
	"context"

	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
)

type UserService interface {
	CreateUser(context.Context, *params.User) (*user.User, error)
	GetUser(context.Context, user.ID) (*user.User, error)
	ListUsers(context.Context) ([]*user.User, error)
	UpdateUser(context.Context, user.ID, *params.User) (*user.User, error)
	BlockUser(context.Context, user.ID) error
	DeleteUser(context.Context, user.ID) error
}
