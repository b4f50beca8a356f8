package memory

import (
	"context"

	"inkwell/internal/domain/repositories"
)

// TransactionManager runs the function directly; the in-memory stores
// have no transactional semantics beyond their own locks.
type TransactionManager struct{}

// NewTransactionManager creates a pass-through transaction manager.
func NewTransactionManager() repositories.TransactionManager {
	return &TransactionManager{}
}

// ExecTx executes fn with the unmodified context.
func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
