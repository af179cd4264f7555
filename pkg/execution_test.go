package pkg

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignaciocaff/procmap"
	"github.com/ignaciocaff/procmap/internal/sqlconn"
)

type audit struct {
	_      struct{} `procedure:"audit.log_event"`
	Event  string   `param:"1"`
	LogID  int64    `param:"2,out,bigint"`
	Ignore string
}

func TestDefaultEngine(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare("CALL audit.log_event($1, $2)").
		ExpectQuery().
		WithArgs("login", nil).
		WillReturnRows(sqlmock.NewRows([]string{"log_id"}).AddRow(int64(501)))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	conn, err := sqlconn.Open(ctx, sqlx.NewDb(db, "postgres"))
	require.NoError(t, err)
	require.NoError(t, procmap.Configure(conn))

	require.NoError(t, Begin(ctx))
	entry := &audit{Event: "login"}
	_, err = Call(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, int64(501), entry.LogID)
	require.NoError(t, Commit(ctx))
	require.NoError(t, End(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackWithoutTransaction(t *testing.T) {
	ctx := context.Background()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	conn, err := sqlconn.Open(ctx, sqlx.NewDb(db, "pgx"))
	require.NoError(t, err)
	require.NoError(t, procmap.Configure(conn))

	err = Rollback(ctx)
	assert.ErrorIs(t, err, procmap.ErrDriver)
	assert.ErrorIs(t, err, sqlconn.ErrAutoCommit)
}
