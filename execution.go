// Package procmap maps Go values to stored procedure and function calls.
//
// An entity declares its target procedure and parameters, either with struct
// tags or by implementing Declarer:
//
//	type Transfer struct {
//		_       struct{} `procedure:"bank.transfer"`
//		Account int64    `param:"1,in,bigint"`
//		Status  string   `param:"2,out"`
//		Balance float64  `param:"3,inout,numeric"`
//	}
//
//	engine, err := procmap.Open(ctx, db)
//	_, err = engine.Call(ctx, &Transfer{Account: 7, Balance: 100})
//
// After the call Status and Balance hold the values the procedure returned.
package procmap

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"

	"github.com/ignaciocaff/procmap/internal/core"
	"github.com/ignaciocaff/procmap/internal/sqlconn"
)

type (
	Engine             = core.Engine
	Connection         = core.Connection
	PreparedCall       = core.PreparedCall
	TransactionManager = core.TransactionManager
	TxState            = core.TxState

	Procedure   = core.Procedure
	Parameter   = core.Parameter
	Declaration = core.Declaration
	Declarer    = core.Declarer
	Keyed       = core.Keyed
	Source      = core.Source
	Metadata    = core.Metadata

	Direction = core.Direction
	SQLType   = core.SQLType

	Error = core.Error
	Kind  = core.Kind

	Dialect = sqlconn.Dialect
)

const (
	In    = core.In
	Out   = core.Out
	InOut = core.InOut

	AutoCommit = core.AutoCommit
	Manual     = core.Manual

	Char      = core.Char
	Numeric   = core.Numeric
	Decimal   = core.Decimal
	Integer   = core.Integer
	SmallInt  = core.SmallInt
	Float     = core.Float
	Real      = core.Real
	Double    = core.Double
	Varchar   = core.Varchar
	Boolean   = core.Boolean
	Date      = core.Date
	Time      = core.Time
	Timestamp = core.Timestamp
	BigInt    = core.BigInt
	Binary    = core.Binary
	Cursor    = core.Cursor
	Blob      = core.Blob
	Clob      = core.Clob
)

var (
	ErrMissingProcedure   = core.ErrMissingProcedure
	ErrNullEntity         = core.ErrNullEntity
	ErrNoConnection       = core.ErrNoConnection
	ErrBinding            = core.ErrBinding
	ErrDriver             = core.ErrDriver
	ErrInvalidDeclaration = core.ErrInvalidDeclaration
)

// Dialects for Open and Connect.
var (
	Godror   = sqlconn.Godror
	GoOra    = sqlconn.GoOra
	Postgres = sqlconn.Postgres
)

// Option configures an engine and, for Open and Connect, its session.
type Option func(*settings)

type settings struct {
	log     logr.Logger
	engine  []core.Option
	dialect Dialect
}

func newSettings(opts []Option) *settings {
	s := &settings{log: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settings) engineOptions() []core.Option {
	return append([]core.Option{core.WithLogger(s.log)}, s.engine...)
}

func (s *settings) connOptions() []sqlconn.Option {
	opts := []sqlconn.Option{sqlconn.WithLogger(s.log.WithName("sqlconn"))}
	if s.dialect != nil {
		opts = append(opts, sqlconn.WithDialect(s.dialect))
	}
	return opts
}

// WithLogger sets the logger of the engine and of sessions it opens.
func WithLogger(log logr.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithSource replaces the default tag/Declarer declaration source.
func WithSource(source Source) Option {
	return func(s *settings) { s.engine = append(s.engine, core.WithSource(source)) }
}

// WithDialect makes Open and Connect use d instead of the dialect derived from
// the driver name. Other constructors ignore it.
func WithDialect(d Dialect) Option {
	return func(s *settings) { s.dialect = d }
}

// BuildCallTemplate renders the SQL-92 call escape for a procedure.
func BuildCallTemplate(name string, isProcedure bool, count int) (string, error) {
	return core.BuildCallTemplate(name, isProcedure, count)
}

// Field builds a typed parameter descriptor for Declarer implementations.
func Field[T any, V any](position int, typ SQLType, dir Direction, get func(*T) V, set func(*T, V)) Parameter {
	return core.Field(position, typ, dir, get, set)
}

// New returns an engine without a connection; supply one with CallWith or
// SetConnection.
func New(opts ...Option) *Engine {
	return core.NewEngine(nil, newSettings(opts).engineOptions()...)
}

// NewWithConnection returns an engine bound to conn.
func NewWithConnection(conn Connection, opts ...Option) *Engine {
	return core.NewEngine(conn, newSettings(opts).engineOptions()...)
}

// Open returns an engine on a session taken from db. The call dialect is
// chosen from db's driver name unless WithDialect is given.
func Open(ctx context.Context, db *sqlx.DB, opts ...Option) (*Engine, error) {
	s := newSettings(opts)
	conn, err := sqlconn.Open(ctx, db, s.connOptions()...)
	if err != nil {
		return nil, &core.Error{Kind: core.KindDriver, Message: "open session", Err: err}
	}
	return core.NewEngine(conn, s.engineOptions()...), nil
}

// Connect opens a database with the named driver and returns an engine on it.
// Closing the engine closes the database.
func Connect(ctx context.Context, driverName, dsn string, opts ...Option) (*Engine, error) {
	s := newSettings(opts)
	conn, err := sqlconn.Connect(ctx, driverName, dsn, s.connOptions()...)
	if err != nil {
		return nil, &core.Error{Kind: core.KindDriver, Message: "connect " + driverName, Err: err}
	}
	return core.NewEngine(conn, s.engineOptions()...), nil
}
