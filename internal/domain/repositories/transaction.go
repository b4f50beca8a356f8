package repositories

import "context"

// TxFn runs inside a transaction scope; the ctx it receives carries the
// open transaction for GetTx.
type TxFn func(ctx context.Context) error

// TransactionManager wraps multi-statement repository work in one
// atomic unit. Its main consumer is document deletion, where a subtree's
// rows must all go or none.
type TransactionManager interface {
	// ExecTx runs fn in a transaction, committing on nil and rolling
	// back on error.
	ExecTx(ctx context.Context, fn TxFn) error
}
