package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/domain/repositories"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, name, email, password, credit_limit, country,
	aadhaar_number, blocked, role, created_at, updated_at`

type UserRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*UserRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &UserRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) GetUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	const query = "SELECT " + userColumns + " FROM users WHERE id = $1"

	u, err := scanUser(r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	const query = "SELECT " + userColumns + " FROM users WHERE email = $1"

	u, err := scanUser(r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]*user.User, error) {
	const query = "SELECT " + userColumns + " FROM users ORDER BY id"

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, u *user.User) (user.ID, error) {
	const query = `
		INSERT INTO users (name, email, password, credit_limit, country, aadhaar_number, blocked, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query,
			u.Name, u.Email, u.Password, u.CreditLimit, u.Country,
			u.AadhaarNumber, u.Blocked, u.Role,
		).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return -1, fmt.Errorf("%w: email %q already exists", errs.ErrDataConflict, u.Email)
		}
		return -1, fmt.Errorf("create user: %w", err)
	}

	return u.ID, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u *user.User) error {
	const query = `
		UPDATE users
		SET name = $1, email = $2, password = $3, credit_limit = $4, country = $5,
			aadhaar_number = $6, blocked = $7, role = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query,
			u.Name, u.Email, u.Password, u.CreditLimit, u.Country,
			u.AadhaarNumber, u.Blocked, u.Role, u.ID,
		).
		Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %q already exists", errs.ErrDataConflict, u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id user.ID) error {
	const query = "DELETE FROM users WHERE id = $1"

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return errs.ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*user.User, error) {
	u := new(user.User)

	err := s.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.CreditLimit,
		&u.Country,
		&u.AadhaarNumber,
		&u.Blocked,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
