package core

import "context"

// TxState is the transaction mode of the engine's current connection.
type TxState int

const (
	// AutoCommit commits every statement implicitly.
	AutoCommit TxState = iota
	// Manual keeps changes in an explicit transaction until Commit or Rollback.
	Manual
)

func (s TxState) String() string {
	if s == Manual {
		return "manual"
	}
	return "autocommit"
}

// TransactionManager drives the transaction mode of a connection.
//
// Commit and Rollback do not leave manual mode; End does, without committing
// or rolling back first. Leaving a transaction therefore takes two steps:
// Commit (or Rollback) followed by End.
type TransactionManager interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	End(ctx context.Context) error
	State() TxState
}

type txOp int

const (
	txBegin txOp = iota
	txCommit
	txRollback
	txEnd
)

func (op txOp) String() string {
	return [...]string{"begin", "commit", "rollback", "end"}[op]
}

// Transaction returns the engine's transaction controller.
func (e *Engine) Transaction() TransactionManager { return e }

// State returns the transaction mode set by the last successful Begin or End.
func (e *Engine) State() TxState { return e.state }

// Begin disables auto-commit.
func (e *Engine) Begin(ctx context.Context) error { return e.transition(ctx, txBegin) }

// Commit persists changes made since Begin or the last Commit/Rollback.
func (e *Engine) Commit(ctx context.Context) error { return e.transition(ctx, txCommit) }

// Rollback discards changes made since Begin or the last Commit/Rollback.
func (e *Engine) Rollback(ctx context.Context) error { return e.transition(ctx, txRollback) }

// End re-enables auto-commit.
func (e *Engine) End(ctx context.Context) error { return e.transition(ctx, txEnd) }

func (e *Engine) transition(ctx context.Context, op txOp) error {
	if e.conn == nil {
		return &Error{Kind: KindNoConnection, Message: "connection is missing"}
	}
	var err error
	switch op {
	case txBegin:
		err = e.conn.SetAutoCommit(ctx, false)
	case txCommit:
		err = e.conn.Commit(ctx)
	case txRollback:
		err = e.conn.Rollback(ctx)
	case txEnd:
		err = e.conn.SetAutoCommit(ctx, true)
	}
	if err != nil {
		return wrapError(KindDriver, err, "%s transaction", op)
	}
	switch op {
	case txBegin:
		e.state = Manual
	case txEnd:
		e.state = AutoCommit
	}
	e.log.V(1).Info("transaction", "op", op.String(), "state", e.state.String())
	return nil
}
