package sqlconn

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/godror/godror"
	"github.com/jmoiron/sqlx"
	ora "github.com/sijms/go-ora/v2"

	"github.com/ignaciocaff/procmap/internal/core"
)

// oracle runs calls as anonymous PL/SQL blocks with positional binds.
// OUT and INOUT parameters are passed as sql.Out.
type oracle struct {
	name string
	dest func(core.SQLType) (any, bool)
}

var (
	// Godror targets github.com/godror/godror.
	Godror Dialect = oracle{name: "godror", dest: godrorDest}
	// GoOra targets github.com/sijms/go-ora/v2.
	GoOra Dialect = oracle{name: "go-ora", dest: goOraDest}
)

func (d oracle) Name() string { return d.name }

// Translate renders "BEGIN name(:1, :2); END;" for procedures and
// "BEGIN :1 := name(:2); END;" for functions.
func (d oracle) Translate(spec CallSpec) string {
	var b strings.Builder
	b.WriteString("BEGIN ")
	if spec.Function {
		b.WriteString(":1 := ")
	}
	b.WriteString(spec.Name)
	b.WriteString("(")
	for i := 0; i < spec.Args; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, ":%d", spec.first()+i)
	}
	b.WriteString("); END;")
	return b.String()
}

func (d oracle) execute(ctx context.Context, stmt *sqlx.Stmt, c *call) (bool, error) {
	args := make([]any, len(c.slots))
	for i := range c.slots {
		s := &c.slots[i]
		if !s.out {
			args[i] = s.value
			continue
		}
		dest, err := d.outDest(s)
		if err != nil {
			return false, fmt.Errorf("position %d: %w", i+1, err)
		}
		s.dest = dest
		args[i] = sql.Out{Dest: dest, In: s.in}
	}
	if _, err := stmt.ExecContext(ctx, args...); err != nil {
		return false, err
	}
	for i := range c.slots {
		if s := &c.slots[i]; s.out {
			s.result = derefOut(s.dest)
		}
	}
	return false, nil
}

// outDest allocates the sql.Out destination of a slot. An INOUT slot with a
// value uses the value's type so the driver binds the input as given.
func (d oracle) outDest(s *slot) (any, error) {
	if s.in && s.value != nil {
		v := reflect.ValueOf(s.value)
		dest := reflect.New(v.Type())
		dest.Elem().Set(v)
		return dest.Interface(), nil
	}
	if dest, ok := d.dest(s.typ); ok {
		return dest, nil
	}
	return commonDest(s.typ)
}

func godrorDest(t core.SQLType) (any, bool) {
	switch t {
	case core.Numeric, core.Decimal:
		return new(godror.Number), true
	case core.Cursor:
		return new(driver.Rows), true
	}
	return nil, false
}

func goOraDest(t core.SQLType) (any, bool) {
	if t == core.Cursor {
		return new(ora.RefCursor), true
	}
	return nil, false
}

func commonDest(t core.SQLType) (any, error) {
	switch t {
	case core.Char, core.Varchar, core.Clob:
		return new(sql.NullString), nil
	case core.Integer, core.SmallInt, core.BigInt:
		return new(sql.NullInt64), nil
	case core.Numeric, core.Decimal, core.Float, core.Real, core.Double:
		return new(sql.NullFloat64), nil
	case core.Boolean:
		return new(sql.NullBool), nil
	case core.Date, core.Time, core.Timestamp:
		return new(sql.NullTime), nil
	case core.Binary, core.Blob:
		return new([]byte), nil
	}
	return nil, fmt.Errorf("unsupported output type %s", t)
}

// derefOut returns the value an out destination holds, unwrapping sql.Null*
// wrappers so NULL comes back as nil. Driver handles such as a go-ora
// RefCursor are returned as the pointer the driver filled.
func derefOut(dest any) any {
	elem := reflect.ValueOf(dest).Elem()
	v := elem.Interface()
	if valuer, ok := v.(driver.Valuer); ok {
		if dv, err := valuer.Value(); err == nil {
			return dv
		}
	}
	if elem.Kind() == reflect.Struct {
		return dest
	}
	return v
}
