package sqlconn

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type postgres struct{}

// Postgres targets github.com/jackc/pgx/v5/stdlib and github.com/lib/pq.
// Procedures run as CALL, which returns OUT and INOUT values as a single row;
// OUT-only arguments are passed as NULL. Functions run as SELECT and their
// single result column fills position 1.
var Postgres Dialect = postgres{}

func (postgres) Name() string { return "postgres" }

func (postgres) Translate(spec CallSpec) string {
	var b strings.Builder
	if spec.Function {
		b.WriteString("SELECT ")
	} else {
		b.WriteString("CALL ")
	}
	b.WriteString(spec.Name)
	b.WriteString("(")
	for i := 1; i <= spec.Args; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", i)
	}
	b.WriteString(")")
	return b.String()
}

func (postgres) execute(ctx context.Context, stmt *sqlx.Stmt, c *call) (bool, error) {
	first := c.spec.first()
	args := make([]any, 0, c.spec.Args)
	for pos := first; pos <= len(c.slots); pos++ {
		s := c.slots[pos-1]
		if s.in {
			args = append(args, s.value)
		} else {
			args = append(args, nil)
		}
	}

	var outs []int
	for pos := 1; pos <= len(c.slots); pos++ {
		if c.slots[pos-1].out {
			outs = append(outs, pos)
		}
	}
	if len(outs) == 0 && !c.spec.Function {
		_, err := stmt.ExecContext(ctx, args...)
		return false, err
	}

	rows, err := stmt.QueryxContext(ctx, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, err
		}
		return false, fmt.Errorf("%w: %s", ErrNoOutputRow, c.spec.Name)
	}
	values, err := rows.SliceScan()
	if err != nil {
		return true, err
	}
	for i, pos := range outs {
		if i < len(values) {
			c.slots[pos-1].result = values[i]
		}
	}
	return true, rows.Err()
}
