package core

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	var s string
	require.NoError(t, Assign(&s, "ABC   "))
	assert.Equal(t, "ABC", s)
	require.NoError(t, Assign(&s, []byte("xyz")))
	assert.Equal(t, "xyz", s)
	require.NoError(t, Assign(&s, int64(12)))
	assert.Equal(t, "12", s)
	require.NoError(t, Assign(&s, 1.25))
	assert.Equal(t, "1.25", s)
	require.NoError(t, Assign(&s, ts))
	assert.Equal(t, "2024-03-01T10:30:00Z", s)
	require.NoError(t, Assign(&s, sql.NullString{String: "n", Valid: true}))
	assert.Equal(t, "n", s)

	var i int
	require.NoError(t, Assign(&i, int64(5)))
	assert.Equal(t, 5, i)
	require.NoError(t, Assign(&i, " 17 "))
	assert.Equal(t, 17, i)
	require.NoError(t, Assign(&i, float64(3)))
	assert.Equal(t, 3, i)
	assert.Error(t, Assign(&i, 3.5))

	var small int8
	assert.Error(t, Assign(&small, int64(300)))

	var u uint32
	assert.Error(t, Assign(&u, int64(-1)))

	var f float32
	require.NoError(t, Assign(&f, int64(2)))
	assert.Equal(t, float32(2), f)

	var b bool
	for in, want := range map[any]bool{"S": true, "N": false, "Y": true, "true": true, int64(1): true, int64(0): false} {
		require.NoError(t, Assign(&b, in))
		assert.Equal(t, want, b, "input %v", in)
	}

	var at time.Time
	require.NoError(t, Assign(&at, ts))
	assert.Equal(t, ts, at)
	require.NoError(t, Assign(&at, "2024-03-01T10:30:00Z"))
	assert.True(t, ts.Equal(at))
}

func TestAssign_Nil(t *testing.T) {
	s := "set"
	require.NoError(t, Assign(&s, nil))
	assert.Empty(t, s)

	p := new(int)
	require.NoError(t, Assign(&p, nil))
	assert.Nil(t, p)

	require.NoError(t, Assign(&p, int64(9)))
	require.NotNil(t, p)
	assert.Equal(t, 9, *p)

	var ns sql.NullInt64
	require.NoError(t, Assign(&ns, nil))
	assert.False(t, ns.Valid)
	require.NoError(t, Assign(&ns, int64(4)))
	assert.Equal(t, sql.NullInt64{Int64: 4, Valid: true}, ns)
}

func TestAssign_Any(t *testing.T) {
	var v any
	require.NoError(t, Assign(&v, int64(1)))
	assert.Equal(t, int64(1), v)
}

func TestAssign_Errors(t *testing.T) {
	var s string
	assert.Error(t, Assign(s, "x"))
	assert.Error(t, Assign((*string)(nil), "x"))

	var ch chan int
	assert.Error(t, Assign(&ch, "x"))
}
