package repositories

import (
	"context"

	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
)

type UserRepository interface {
	GetUserByID(context.Context, user.ID) (*user.User, error)
	GetUserByEmail(context.Context, string) (*user.User, error)
	GetUsers(context.Context) ([]*user.User, error)
	CreateUser(context.Context, *user.User) (user.ID, error)
	UpdateUser(context.Context, *user.User) error
	DeleteUser(context.Context, user.ID) error
}
