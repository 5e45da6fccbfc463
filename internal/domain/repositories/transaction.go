package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a read-write transaction
	ExecTx(ctx context.Context, fn TxFn) error

	// ExecReadTx executes a function within a read-only snapshot
	// (REPEATABLE READ) so multi-statement reads agree with each other
	ExecReadTx(ctx context.Context, fn TxFn) error
}
