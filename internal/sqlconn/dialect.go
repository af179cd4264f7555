package sqlconn

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
)

// CallSpec is a parsed call template.
type CallSpec struct {
	Name     string
	Function bool
	// Args is the number of placeholders inside the parentheses.
	Args int
}

// Size is the number of bind positions, including a function's return value.
func (s CallSpec) Size() int {
	if s.Function {
		return s.Args + 1
	}
	return s.Args
}

// first returns the position bound to the first argument.
func (s CallSpec) first() int {
	if s.Function {
		return 2
	}
	return 1
}

var callEscape = regexp.MustCompile(`^\{\s*(\?\s*=\s*)?call\s+([^\s(]+)\s*\(([^)]*)\)\s*\}$`)

// ParseCall parses an SQL-92 callable statement escape such as
// "{? = call pkg.f(? ,?)}".
func ParseCall(template string) (CallSpec, error) {
	m := callEscape.FindStringSubmatch(strings.TrimSpace(template))
	if m == nil {
		return CallSpec{}, fmt.Errorf("sqlconn: not a call escape: %q", template)
	}
	spec := CallSpec{Name: m[2], Function: m[1] != ""}
	for _, arg := range strings.Split(m[3], ",") {
		switch strings.TrimSpace(arg) {
		case "?":
			spec.Args++
		case "":
			if strings.TrimSpace(m[3]) != "" {
				return CallSpec{}, fmt.Errorf("sqlconn: empty argument in %q", template)
			}
		default:
			return CallSpec{}, fmt.Errorf("sqlconn: only placeholders are supported as arguments in %q", template)
		}
	}
	return spec, nil
}

// Dialect turns a call escape into the driver's native call syntax and runs
// the prepared statement with the bound parameters.
type Dialect interface {
	Name() string
	Translate(spec CallSpec) string
	execute(ctx context.Context, stmt *sqlx.Stmt, c *call) (bool, error)
}

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "godror":
		return Godror, nil
	case "oracle":
		return GoOra, nil
	case "pgx", "pgx/v5", "postgres":
		return Postgres, nil
	}
	return nil, fmt.Errorf("sqlconn: no call dialect for driver %q", driverName)
}

// DialectByName returns a dialect by its Name.
func DialectByName(name string) (Dialect, error) {
	for _, d := range []Dialect{Godror, GoOra, Postgres} {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("sqlconn: unknown dialect %q", name)
}
