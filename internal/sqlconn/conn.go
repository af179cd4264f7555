// Package sqlconn adapts a database/sql session to the callable statement
// contract of the engine: call escapes are translated per dialect, output
// parameters are bound as sql.Out or read back from a result row, and the
// auto-commit switch is emulated with database/sql transactions.
package sqlconn

import (
	"context"
	"errors"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"

	"github.com/ignaciocaff/procmap/internal/core"
)

// ErrAutoCommit is returned by Commit and Rollback outside manual mode.
var ErrAutoCommit = errors.New("sqlconn: no transaction in progress")

// ErrNoOutputRow is returned when a call with output parameters produced no
// row to read them from.
var ErrNoOutputRow = errors.New("sqlconn: call returned no output row")

// Conn is a single database session. In manual mode every prepared call runs
// inside the open transaction; Commit and Rollback end it and immediately
// open the next one.
type Conn struct {
	conn    *sqlx.Conn
	tx      *sqlx.Tx
	owned   *sqlx.DB
	dialect Dialect
	log     logr.Logger
}

var _ core.Connection = (*Conn)(nil)

// Option configures a Conn.
type Option func(*Conn)

// WithDialect overrides the dialect derived from the driver name.
func WithDialect(d Dialect) Option {
	return func(c *Conn) { c.dialect = d }
}

// WithLogger sets the connection logger.
func WithLogger(log logr.Logger) Option {
	return func(c *Conn) { c.log = log }
}

// Open takes one session out of db's pool. Closing the Conn returns it.
func Open(ctx context.Context, db *sqlx.DB, opts ...Option) (*Conn, error) {
	c := &Conn{log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialect == nil {
		d, err := DialectFor(db.DriverName())
		if err != nil {
			return nil, err
		}
		c.dialect = d
	}
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// Connect opens a database with the named driver and takes a session from it.
// The database is closed together with the Conn.
func Connect(ctx context.Context, driverName, dsn string, opts ...Option) (*Conn, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	c, err := Open(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.owned = db
	return c, nil
}

// Dialect returns the dialect calls are translated with.
func (c *Conn) Dialect() Dialect { return c.dialect }

// InTransaction reports whether manual mode is on.
func (c *Conn) InTransaction() bool { return c.tx != nil }

func (c *Conn) PrepareCall(ctx context.Context, template string) (core.PreparedCall, error) {
	spec, err := ParseCall(template)
	if err != nil {
		return nil, err
	}
	query := c.dialect.Translate(spec)
	c.log.V(1).Info("prepare call", "dialect", c.dialect.Name(), "query", query, "tx", c.tx != nil)

	var stmt *sqlx.Stmt
	if c.tx != nil {
		stmt, err = c.tx.PreparexContext(ctx, query)
	} else {
		stmt, err = c.conn.PreparexContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return newCall(stmt, spec, c.dialect), nil
}

// SetAutoCommit(false) opens a transaction; SetAutoCommit(true) commits the
// open transaction, if any. A failed commit leaves manual mode on.
func (c *Conn) SetAutoCommit(ctx context.Context, on bool) error {
	if on {
		if c.tx == nil {
			return nil
		}
		return c.finish(ctx, c.tx.Commit, false)
	}
	if c.tx != nil {
		return nil
	}
	return c.begin(ctx)
}

func (c *Conn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return ErrAutoCommit
	}
	return c.finish(ctx, c.tx.Commit, true)
}

func (c *Conn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return ErrAutoCommit
	}
	return c.finish(ctx, c.tx.Rollback, true)
}

// finish ends the open transaction with end. database/sql discards the
// transaction even when end fails, so a failure always opens the next one:
// the session stays in manual mode unless end succeeded and reopen is false.
func (c *Conn) finish(ctx context.Context, end func() error, reopen bool) error {
	c.tx = nil
	err := end()
	if err == nil && !reopen {
		return nil
	}
	if berr := c.begin(ctx); berr != nil {
		return errors.Join(err, berr)
	}
	return err
}

func (c *Conn) begin(ctx context.Context) error {
	tx, err := c.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	c.log.V(1).Info("transaction opened")
	return nil
}

// Close rolls back an open transaction and releases the session.
func (c *Conn) Close() error {
	var errs []error
	if c.tx != nil {
		errs = append(errs, c.tx.Rollback())
		c.tx = nil
	}
	errs = append(errs, c.conn.Close())
	if c.owned != nil {
		errs = append(errs, c.owned.Close())
	}
	return errors.Join(errs...)
}
