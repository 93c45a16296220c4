package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/config"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/domain/repositories"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAadhaarRequired = errs.Validation("aadhaarNumber", "Aadhaar number required for Indian users")
	ErrEmailExists     = errs.Conflict("Email already exists")
)

type UserService struct {
	users  repositories.UserRepository
	trm    Transactor
	logger logger.Logger
	config *config.Config
}

func NewUserService(
	users repositories.UserRepository,
	trm Transactor,
	logger logger.Logger,
	config *config.Config,
) (*UserService, error) {
	if users == nil {
		return nil, errors.New("nil dependency: user repository")
	}
	if trm == nil {
		return nil, errors.New("nil dependency: transaction manager")
	}
	if config == nil {
		return nil, errors.New("nil dependency: config")
	}
	return &UserService{
		users:  users,
		trm:    trm,
		logger: logger,
		config: config,
	}, nil
}

var _ interfaces.UserService = (*UserService)(nil)

// CreateUser registers a new user with a hashed password.
// Role defaults to USER.
func (s *UserService) CreateUser(ctx context.Context, p *params.User) (*user.User, error) {
	if err := checkAadhaar(p); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	role := p.Role
	if role == "" {
		role = user.RoleUser
	}

	u := &user.User{
		Name:          p.Name,
		Email:         p.Email,
		Password:      hash,
		CreditLimit:   p.CreditLimit,
		Country:       p.Country,
		AadhaarNumber: p.AadhaarNumber,
		Role:          role,
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.checkEmailUnique(ctx, p.Email, 0); err != nil {
			return err
		}

		id, err := s.users.CreateUser(ctx, u)
		if err != nil {
			if errors.Is(err, errs.ErrDataConflict) {
				return ErrEmailExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		u.ID = id

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.With(ctx, "user_id", u.ID).Infof("user created with role %s", u.Role)

	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id user.ID) (*user.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.users.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	return users, nil
}

// UpdateUser overwrites the profile of a user. The password is
// changed only when a new one is provided. Role is never changed.
func (s *UserService) UpdateUser(ctx context.Context, id user.ID, p *params.User) (*user.User, error) {
	var updated *user.User

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		u, err := s.GetUser(ctx, id)
		if err != nil {
			return err
		}

		if err = checkAadhaar(p); err != nil {
			return err
		}

		if err = s.checkEmailUnique(ctx, p.Email, id); err != nil {
			return err
		}

		u.Name = p.Name
		u.Email = p.Email
		u.CreditLimit = p.CreditLimit
		u.Country = p.Country
		u.AadhaarNumber = p.AadhaarNumber

		if strings.TrimSpace(p.Password) != "" {
			if u.Password, err = s.hashPassword(p.Password); err != nil {
				return err
			}
		}

		if err = s.users.UpdateUser(ctx, u); err != nil {
			if errors.Is(err, errs.ErrDataConflict) {
				return ErrEmailExists
			}
			return fmt.Errorf("update user %d: %w", id, err)
		}

		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// BlockUser prevents the user from logging in and placing orders.
func (s *UserService) BlockUser(ctx context.Context, id user.ID) error {
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		u, err := s.GetUser(ctx, id)
		if err != nil {
			return err
		}

		u.Blocked = true

		if err = s.users.UpdateUser(ctx, u); err != nil {
			return fmt.Errorf("block user %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.With(ctx, "user_id", id).Info("user blocked")

	return nil
}

// DeleteUser removes the user together with their orders.
func (s *UserService) DeleteUser(ctx context.Context, id user.ID) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// checkEmailUnique fails if email belongs to a user other than self.
func (s *UserService) checkEmailUnique(ctx context.Context, email string, self user.ID) error {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}
	if existing.ID != self {
		return ErrEmailExists
	}
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkAadhaar(p *params.User) error {
	if user.RequiresAadhaar(p.Country) && (p.AadhaarNumber == nil || *p.AadhaarNumber == "") {
		return ErrAadhaarRequired
	}
	return nil
}
