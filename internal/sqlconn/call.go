package sqlconn

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignaciocaff/procmap/internal/core"
)

type slot struct {
	value  any
	in     bool
	out    bool
	typ    core.SQLType
	dest   any
	result any
}

// call is a prepared callable statement. Bind positions follow the call
// escape: for functions position 1 is the return value.
type call struct {
	stmt    *sqlx.Stmt
	spec    CallSpec
	dialect Dialect
	slots   []slot
}

var _ core.PreparedCall = (*call)(nil)

func newCall(stmt *sqlx.Stmt, spec CallSpec, dialect Dialect) *call {
	return &call{stmt: stmt, spec: spec, dialect: dialect, slots: make([]slot, spec.Size())}
}

func (c *call) slot(position int) (*slot, error) {
	if position < 1 || position > len(c.slots) {
		return nil, fmt.Errorf("sqlconn: position %d out of range 1..%d", position, len(c.slots))
	}
	return &c.slots[position-1], nil
}

func (c *call) SetParameter(position int, value any) error {
	s, err := c.slot(position)
	if err != nil {
		return err
	}
	if c.spec.Function && position == 1 {
		return fmt.Errorf("sqlconn: position 1 is the function result and cannot be set")
	}
	s.value, s.in = value, true
	return nil
}

func (c *call) RegisterOutputParameter(position int, typ core.SQLType) error {
	s, err := c.slot(position)
	if err != nil {
		return err
	}
	s.out, s.typ = true, typ
	return nil
}

func (c *call) Execute(ctx context.Context) (bool, error) {
	return c.dialect.execute(ctx, c.stmt, c)
}

func (c *call) Parameter(position int) (any, error) {
	s, err := c.slot(position)
	if err != nil {
		return nil, err
	}
	if !s.out {
		return nil, fmt.Errorf("sqlconn: position %d is not an output parameter", position)
	}
	return s.result, nil
}

func (c *call) Close() error {
	return c.stmt.Close()
}
