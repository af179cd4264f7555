package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_CallBindsByDirection(t *testing.T) {
	conn := newFakeConn()
	conn.call.outputs[2] = "OK  "
	conn.call.outputs[3] = "150.5"
	e := NewEngine(conn)

	entity := &transfer{Account: 7, Balance: 100, Note: "untouched"}
	rows, err := e.Call(context.Background(), entity)
	require.NoError(t, err)
	assert.False(t, rows)

	assert.Equal(t, []string{"{call bank.transfer(? ,? ,?)}"}, conn.prepared)
	assert.Equal(t, []string{
		"set 1",
		"register 2 varchar",
		"set 3",
		"register 3 numeric",
		"execute",
		"get 2",
		"get 3",
		"close",
	}, conn.call.ops)
	assert.NotContains(t, conn.call.ops, "get 1")
	assert.Equal(t, int64(7), conn.call.inputs[1])
	assert.Equal(t, float64(100), conn.call.inputs[3])

	assert.Equal(t, int64(7), entity.Account)
	assert.Equal(t, "OK", entity.Status)
	assert.Equal(t, 150.5, entity.Balance)
	assert.Equal(t, "untouched", entity.Note)
}

func TestEngine_CallFunction(t *testing.T) {
	conn := newFakeConn()
	conn.call.rowSet = true
	conn.call.outputs[1] = int64(42)
	e := NewEngine(conn)

	entity := &balance{Account: 3}
	rows, err := e.Call(context.Background(), entity)
	require.NoError(t, err)
	assert.True(t, rows)
	assert.Equal(t, []string{"{? = call bank.balance_of(?)}"}, conn.prepared)
	assert.Equal(t, float64(42), entity.Amount)
	assert.Equal(t, []string{"register 1 numeric", "set 2", "execute", "get 1", "close"}, conn.call.ops)
}

func TestEngine_NullEntity(t *testing.T) {
	conn := newFakeConn()
	e := NewEngine(conn)

	_, err := e.Call(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNullEntity))

	var nilTransfer *transfer
	_, err = e.Call(context.Background(), nilTransfer)
	assert.True(t, errors.Is(err, ErrNullEntity))

	assert.Empty(t, conn.prepared)
}

func TestEngine_NoConnection(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.Call(context.Background(), &transfer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConnection))
	assert.Equal(t, KindNoConnection, KindOf(err))
	assert.Equal(t, 0, e.Resolver().Len())
}

func TestEngine_CallWithKeepsConnection(t *testing.T) {
	e := NewEngine(nil)
	conn := newFakeConn()

	_, err := e.CallWith(context.Background(), conn, &transfer{})
	require.NoError(t, err)
	assert.Same(t, conn, e.Connection())

	_, err = e.Call(context.Background(), &transfer{})
	require.NoError(t, err)
	assert.Len(t, conn.prepared, 2)
}

func TestEngine_MetadataBuiltOncePerType(t *testing.T) {
	builds := 0
	e := NewEngine(newFakeConn())
	e.resolver.build = func(name string, isProcedure bool, count int) (string, error) {
		builds++
		return BuildCallTemplate(name, isProcedure, count)
	}
	for i := 0; i < 5; i++ {
		_, err := e.Call(context.Background(), &transfer{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds)
}

func TestEngine_ExecuteFailureClosesStatement(t *testing.T) {
	conn := newFakeConn()
	conn.call.executeErr = errors.New("ORA-06550: line 1, column 7")
	e := NewEngine(conn)

	entity := &transfer{Status: "before"}
	_, err := e.Call(context.Background(), entity)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDriver))
	assert.ErrorIs(t, err, conn.call.executeErr)
	assert.Equal(t, 1, conn.call.closed)
	assert.NotContains(t, conn.call.ops, "get 2")
	assert.Equal(t, "before", entity.Status)
}

func TestEngine_BindingFailureClosesStatement(t *testing.T) {
	conn := newFakeConn()
	conn.call.setErr = errors.New("unsupported type")
	e := NewEngine(conn)

	_, err := e.Call(context.Background(), &transfer{})
	assert.True(t, errors.Is(err, ErrBinding))
	assert.Equal(t, 1, conn.call.closed)
	assert.NotContains(t, conn.call.ops, "execute")
}

func TestEngine_OutputConversionFailure(t *testing.T) {
	conn := newFakeConn()
	conn.call.outputs[3] = "not a number"
	e := NewEngine(conn)

	_, err := e.Call(context.Background(), &transfer{})
	assert.Equal(t, KindBinding, KindOf(err))
	assert.Equal(t, 1, conn.call.closed)
}

func TestEngine_CloseFailureIsReported(t *testing.T) {
	conn := newFakeConn()
	conn.call.closeErr = errors.New("statement already closed")
	e := NewEngine(conn)

	_, err := e.Call(context.Background(), &transfer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDriver))

	conn = newFakeConn()
	conn.call.executeErr = errors.New("execute failed")
	conn.call.closeErr = errors.New("close failed")
	e.SetConnection(conn)

	_, err = e.Call(context.Background(), &transfer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, conn.call.executeErr)
	assert.ErrorIs(t, err, conn.call.closeErr)
	assert.Equal(t, 1, conn.call.closed)
}

func TestEngine_PrepareFailure(t *testing.T) {
	conn := newFakeConn()
	conn.prepareErr = errors.New("connection reset")
	e := NewEngine(conn)

	_, err := e.Call(context.Background(), &transfer{})
	assert.True(t, errors.Is(err, ErrDriver))
	assert.Equal(t, 0, conn.call.closed)
}

func TestEngine_MissingProcedure(t *testing.T) {
	conn := newFakeConn()
	e := NewEngine(conn)

	_, err := e.Call(context.Background(), &undeclared{})
	assert.True(t, errors.Is(err, ErrMissingProcedure))
	assert.Empty(t, conn.prepared)
}

func TestEngine_Close(t *testing.T) {
	conn := newFakeConn()
	conn.closeErr = errors.New("broken pipe")
	e := NewEngine(conn)

	err := e.Close()
	assert.True(t, errors.Is(err, ErrDriver))
	assert.Nil(t, e.Connection())
	assert.NoError(t, e.Close())
}
