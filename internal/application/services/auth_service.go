package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/application/params"
	"github.com/KretovDmitry/order-management-service/internal/config"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/domain/repositories"
	"github.com/KretovDmitry/order-management-service/internal/jwt"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailRegistered    = errs.Conflict("Email already registered")
	ErrInvalidCredentials = errs.Unauthorized("Invalid credentials")
	ErrInvalidToken       = errs.Unauthorized("Invalid or expired token")
	ErrAccountBlocked     = errs.Forbidden("User account is blocked")
)

type AuthService struct {
	users    repositories.UserRepository
	registry interfaces.UserService
	logger   logger.Logger
	config   *config.Config
}

func NewAuthService(
	users repositories.UserRepository,
	registry interfaces.UserService,
	logger logger.Logger,
	config *config.Config,
) (*AuthService, error) {
	if users == nil {
		return nil, errors.New("nil dependency: user repository")
	}
	if registry == nil {
		return nil, errors.New("nil dependency: user service")
	}
	if config == nil {
		return nil, errors.New("nil dependency: config")
	}
	return &AuthService{
		users:    users,
		registry: registry,
		logger:   logger,
		config:   config,
	}, nil
}

var _ interfaces.AuthService = (*AuthService)(nil)

// Register creates a regular user and logs them in.
func (s *AuthService) Register(ctx context.Context, p *params.User) (*entities.Token, error) {
	_, err := s.users.GetUserByEmail(ctx, p.Email)
	switch {
	case err == nil:
		return nil, ErrEmailRegistered
	case !errors.Is(err, errs.ErrNotFound):
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	p.Role = user.RoleUser

	u, err := s.registry.CreateUser(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

// Login checks the credentials of an active user.
func (s *AuthService) Login(ctx context.Context, c params.Credentials) (*entities.Token, error) {
	u, err := s.users.GetUserByEmail(ctx, c.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(c.Password)); err != nil {
		s.logger.With(ctx, "user_id", u.ID).Warn("login with wrong password")
		return nil, ErrInvalidCredentials
	}

	if u.Blocked {
		return nil, ErrAccountBlocked
	}

	return s.issue(u)
}

// Authenticate resolves a token into an existing, unblocked user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*user.User, error) {
	id, err := jwt.GetUserID(token, s.config.JWT.SigningKey)
	if err != nil {
		s.logger.With(ctx).Debugf("authenticate: %s", err)
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	if u.Blocked {
		return nil, ErrAccountBlocked
	}

	return u, nil
}

func (s *AuthService) issue(u *user.User) (*entities.Token, error) {
	token, err := jwt.BuildString(u.ID, s.config.JWT.SigningKey, s.config.JWT.Expiration)
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	return &entities.Token{
		AccessToken: token,
		Type:        entities.TokenTypeBearer,
		Email:       u.Email,
		ExpiresIn:   s.config.JWT.Expiration,
	}, nil
}
