package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/KretovDmitry/order-management-service/internal/domain/repositories"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
)

const orderColumns = `o.id, o.user_id, o.product_name, o.amount, o.start_date, o.end_date,
	o.status, o.payment_type, o.card_number, o.upi_id, o.created_at, o.updated_at`

type OrderRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewOrderRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*OrderRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &OrderRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// GetOrderByID loads the order together with its owner. The order row
// stays locked until the surrounding transaction ends.
func (r *OrderRepository) GetOrderByID(ctx context.Context, id entities.OrderID) (*entities.Order, error) {
	const query = `
		SELECT ` + orderColumns + `,
			u.id, u.name, u.email, u.password, u.credit_limit, u.country,
			u.aadhaar_number, u.blocked, u.role, u.created_at, u.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
		FOR UPDATE OF o
	`

	o := new(entities.Order)
	u := new(user.User)
	var paymentType sql.NullString

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.ProductName,
		&o.Amount,
		&o.StartDate,
		&o.EndDate,
		&o.Status,
		&paymentType,
		&o.Payment.CardNumber,
		&o.Payment.UPIID,
		&o.CreatedAt,
		&o.UpdatedAt,
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	o.Payment.Type = entities.PaymentType(paymentType.String)
	o.User = u

	return o, nil
}

func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, id user.ID) ([]*entities.Order, error) {
	const query = "SELECT " + orderColumns + " FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC"
	return r.queryOrders(ctx, query, id)
}

func (r *OrderRepository) GetOrdersByStatus(
	ctx context.Context, status entities.OrderStatus,
) ([]*entities.Order, error) {
	const query = "SELECT " + orderColumns + " FROM orders o WHERE o.status = $1 ORDER BY o.created_at DESC, o.id DESC"
	return r.queryOrders(ctx, query, status)
}

// SaveOrder inserts orders without an ID and updates the others.
func (r *OrderRepository) SaveOrder(ctx context.Context, o *entities.Order) (*entities.Order, error) {
	if o.ID == 0 {
		return r.insertOrder(ctx, o)
	}
	return r.updateOrder(ctx, o)
}

func (r *OrderRepository) insertOrder(ctx context.Context, o *entities.Order) (*entities.Order, error) {
	const query = `
		INSERT INTO orders (user_id, product_name, amount, start_date, end_date,
			status, payment_type, card_number, upi_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	saved := *o

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query,
			o.UserID, o.ProductName, o.Amount, o.StartDate, o.EndDate,
			o.Status, nullPaymentType(o.Payment.Type), o.Payment.CardNumber, o.Payment.UPIID,
		).
		Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return &saved, nil
}

func (r *OrderRepository) updateOrder(ctx context.Context, o *entities.Order) (*entities.Order, error) {
	const query = `
		UPDATE orders
		SET product_name = $1, amount = $2, start_date = $3, end_date = $4, status = $5,
			payment_type = $6, card_number = $7, upi_id = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`

	saved := *o

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query,
			o.ProductName, o.Amount, o.StartDate, o.EndDate, o.Status,
			nullPaymentType(o.Payment.Type), o.Payment.CardNumber, o.Payment.UPIID, o.ID,
		).
		Scan(&saved.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}

	return &saved, nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, o *entities.Order) error {
	const query = "DELETE FROM orders WHERE id = $1"

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, o.ID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*entities.Order, error) {
	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*entities.Order, 0)
	for rows.Next() {
		o := new(entities.Order)
		var paymentType sql.NullString

		err = rows.Scan(
			&o.ID,
			&o.UserID,
			&o.ProductName,
			&o.Amount,
			&o.StartDate,
			&o.EndDate,
			&o.Status,
			&paymentType,
			&o.Payment.CardNumber,
			&o.Payment.UPIID,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		o.Payment.Type = entities.PaymentType(paymentType.String)
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func nullPaymentType(t entities.PaymentType) sql.NullString {
	return sql.NullString{String: string(t), Valid: t != ""}
}
