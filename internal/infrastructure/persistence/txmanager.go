package persistence

import (
	"context"

	"github.com/forwardops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var _ shared.TransactionManager = (*GormTransactionManager)(nil)

type txContextKey struct{}

// GormTransactionManager implements shared.TransactionManager. The open
// transaction rides the context; repositories built on the same *gorm.DB pick
// it up through conn, so every repository call inside the closure joins the
// same transaction.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new transaction manager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction runs fn inside a database transaction. Nested calls join
// the transaction already on the context instead of opening a new one.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// conn returns the transaction bound to the context when present, otherwise
// the base connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
