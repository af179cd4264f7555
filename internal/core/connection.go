package core

import "context"

// Connection is the session the engine prepares calls on. It is owned by the
// caller; the engine only holds a reference and is not safe for concurrent
// calls on the same connection.
type Connection interface {
	PrepareCall(ctx context.Context, template string) (PreparedCall, error)
	SetAutoCommit(ctx context.Context, on bool) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close() error
}

// PreparedCall is a callable statement prepared from a call template.
// Positions are 1-based.
type PreparedCall interface {
	SetParameter(position int, value any) error
	RegisterOutputParameter(position int, typ SQLType) error
	// Execute reports whether the first result is a row set.
	Execute(ctx context.Context) (bool, error)
	Parameter(position int) (any, error)
	Close() error
}
