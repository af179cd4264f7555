package core

import (
	"context"
	"errors"
	"reflect"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Engine maps entities to stored procedure calls on its current connection.
// It keeps one metadata registry for its whole lifetime. An Engine, like the
// connection it holds, must not be used by concurrent callers.
type Engine struct {
	resolver *Resolver
	conn     Connection
	state    TxState
	log      logr.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Calls are logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSource replaces DefaultSource as the declaration source.
func WithSource(source Source) Option {
	return func(e *Engine) { e.resolver = NewResolver(source) }
}

// NewEngine returns an engine bound to conn, which may be nil and supplied
// later with SetConnection or CallWith.
func NewEngine(conn Connection, opts ...Option) *Engine {
	e := &Engine{
		resolver: NewResolver(nil),
		conn:     conn,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver exposes the engine's metadata registry.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Connection returns the current connection, or nil.
func (e *Engine) Connection() Connection { return e.conn }

// SetConnection replaces the current connection. Switching to a different
// connection resets the transaction state to AutoCommit.
func (e *Engine) SetConnection(conn Connection) {
	if conn != e.conn {
		e.state = AutoCommit
	}
	e.conn = conn
}

// Close closes the current connection and forgets it, even when closing fails.
func (e *Engine) Close() error {
	if e.conn == nil {
		return nil
	}
	conn := e.conn
	e.conn = nil
	e.state = AutoCommit
	if err := conn.Close(); err != nil {
		return wrapError(KindDriver, err, "close connection")
	}
	return nil
}

// CallWith makes conn the current connection and calls entity's procedure on
// it. Later Call invocations keep using conn.
func (e *Engine) CallWith(ctx context.Context, conn Connection, entity any) (bool, error) {
	e.SetConnection(conn)
	return e.Call(ctx, entity)
}

// Call executes the stored procedure declared by entity and writes OUT and
// INOUT values back into it. The result is the driver's result-shape flag:
// true when the first result is a row set, false for an update count or no
// result. It is not a success indicator.
func (e *Engine) Call(ctx context.Context, entity any) (bool, error) {
	if isNil(entity) {
		return false, &Error{Kind: KindNullEntity, Message: "nil stored procedure entity is not allowed"}
	}
	if e.conn == nil {
		return false, &Error{Kind: KindNoConnection, Message: "connection is missing"}
	}
	return e.execute(ctx, entity)
}

func (e *Engine) execute(ctx context.Context, entity any) (result bool, err error) {
	md, err := e.resolver.Resolve(entity)
	if err != nil {
		return false, err
	}
	log := e.log.WithValues("call", uuid.NewString(), "template", md.template)

	call, err := e.conn.PrepareCall(ctx, md.template)
	if err != nil {
		return false, wrapError(KindDriver, err, "prepare %s", md.template)
	}
	defer func() {
		if cerr := call.Close(); cerr != nil {
			cerr = wrapError(KindDriver, cerr, "close statement")
			if err == nil {
				result, err = false, cerr
			} else {
				err = errors.Join(err, cerr)
			}
		}
		if err != nil {
			log.V(1).Info("procedure call failed", "error", err.Error())
		}
	}()

	if err := bindInputs(call, entity, md.parameters); err != nil {
		return false, err
	}
	rows, err := call.Execute(ctx)
	if err != nil {
		return false, wrapError(KindDriver, err, "execute %s", md.template)
	}
	if err := bindOutputs(call, entity, md.parameters); err != nil {
		return false, err
	}
	log.V(1).Info("procedure called", "rowSet", rows)
	return rows, nil
}

func isNil(entity any) bool {
	if entity == nil {
		return true
	}
	v := reflect.ValueOf(entity)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}
