package services

import "context"

// Transactor runs fn within a single transaction. The avito-tech
// transaction manager satisfies it.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
