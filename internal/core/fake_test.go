package core

import (
	"context"
	"fmt"
)

type fakeCall struct {
	ops     []string
	inputs  map[int]any
	outputs map[int]any

	rowSet     bool
	setErr     error
	executeErr error
	closeErr   error
	closed     int
}

func newFakeCall() *fakeCall {
	return &fakeCall{inputs: map[int]any{}, outputs: map[int]any{}}
}

func (c *fakeCall) SetParameter(pos int, v any) error {
	c.ops = append(c.ops, fmt.Sprintf("set %d", pos))
	if c.setErr != nil {
		return c.setErr
	}
	c.inputs[pos] = v
	return nil
}

func (c *fakeCall) RegisterOutputParameter(pos int, typ SQLType) error {
	c.ops = append(c.ops, fmt.Sprintf("register %d %s", pos, typ))
	return nil
}

func (c *fakeCall) Execute(context.Context) (bool, error) {
	c.ops = append(c.ops, "execute")
	return c.rowSet, c.executeErr
}

func (c *fakeCall) Parameter(pos int) (any, error) {
	c.ops = append(c.ops, fmt.Sprintf("get %d", pos))
	return c.outputs[pos], nil
}

func (c *fakeCall) Close() error {
	c.closed++
	c.ops = append(c.ops, "close")
	return c.closeErr
}

type fakeConn struct {
	call       *fakeCall
	prepared   []string
	ops        []string
	autoCommit bool

	prepareErr error
	txErr      error
	closeErr   error
}

func newFakeConn() *fakeConn {
	return &fakeConn{call: newFakeCall(), autoCommit: true}
}

func (c *fakeConn) PrepareCall(_ context.Context, tmpl string) (PreparedCall, error) {
	c.prepared = append(c.prepared, tmpl)
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return c.call, nil
}

func (c *fakeConn) SetAutoCommit(_ context.Context, on bool) error {
	c.ops = append(c.ops, fmt.Sprintf("autocommit %t", on))
	if c.txErr != nil {
		return c.txErr
	}
	c.autoCommit = on
	return nil
}

func (c *fakeConn) Commit(context.Context) error {
	c.ops = append(c.ops, "commit")
	return c.txErr
}

func (c *fakeConn) Rollback(context.Context) error {
	c.ops = append(c.ops, "rollback")
	return c.txErr
}

func (c *fakeConn) Close() error {
	c.ops = append(c.ops, "close")
	return c.closeErr
}

// transfer is a three parameter entity declared through tags.
type transfer struct {
	_       struct{} `procedure:"bank.transfer"`
	Account int64    `param:"1,in,bigint"`
	Status  string   `param:"2,out"`
	Balance float64  `param:"3,inout,numeric"`
	Note    string
}

// balance is a function entity declared explicitly.
type balance struct {
	Amount  float64
	Account int64
}

func (balance) DeclareProcedure() Declaration {
	return Declaration{
		Procedure: Procedure{Name: "bank.balance_of"},
		Parameters: []Parameter{
			Field(1, Numeric, Out, nil, func(b *balance, v float64) { b.Amount = v }),
			Field(2, BigInt, In, func(b *balance) int64 { return b.Account }, nil),
		},
	}
}

type undeclared struct {
	ID int `param:"1"`
}
