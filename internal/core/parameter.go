package core

import (
	"fmt"
	"strings"
)

// Direction tells whether a parameter flows into the procedure, out of it, or both.
type Direction int

const (
	In Direction = iota
	Out
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "inout"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Reads reports whether the parameter value is taken from the entity before execution.
func (d Direction) Reads() bool { return d == In || d == InOut }

// Writes reports whether the driver value is written back into the entity after execution.
func (d Direction) Writes() bool { return d == Out || d == InOut }

// ParseDirection parses "in", "out" or "inout" (case insensitive). An empty
// string is In.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "in":
		return In, nil
	case "out":
		return Out, nil
	case "inout", "in_out", "in out":
		return InOut, nil
	}
	return 0, fmt.Errorf("unknown parameter direction %q", s)
}

// SQLType is an SQL type code. The values follow the JDBC java.sql.Types
// numbering, which is what callable-statement drivers have historically used
// to register output parameters.
type SQLType int

const (
	Char      SQLType = 1
	Numeric   SQLType = 2
	Decimal   SQLType = 3
	Integer   SQLType = 4
	SmallInt  SQLType = 5
	Float     SQLType = 6
	Real      SQLType = 7
	Double    SQLType = 8
	Varchar   SQLType = 12
	Boolean   SQLType = 16
	Date      SQLType = 91
	Time      SQLType = 92
	Timestamp SQLType = 93
	BigInt    SQLType = -5
	Binary    SQLType = -2
	Cursor    SQLType = -10
	Blob      SQLType = 2004
	Clob      SQLType = 2005
)

var sqlTypeNames = map[SQLType]string{
	Char:      "char",
	Numeric:   "numeric",
	Decimal:   "decimal",
	Integer:   "integer",
	SmallInt:  "smallint",
	Float:     "float",
	Real:      "real",
	Double:    "double",
	Varchar:   "varchar",
	Boolean:   "boolean",
	Date:      "date",
	Time:      "time",
	Timestamp: "timestamp",
	BigInt:    "bigint",
	Binary:    "binary",
	Cursor:    "cursor",
	Blob:      "blob",
	Clob:      "clob",
}

var sqlTypeAliases = map[string]SQLType{
	"int":       Integer,
	"number":    Numeric,
	"varchar2":  Varchar,
	"string":    Varchar,
	"text":      Varchar,
	"bool":      Boolean,
	"refcursor": Cursor,
	"datetime":  Timestamp,
}

func (t SQLType) String() string {
	if n, ok := sqlTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("sqltype(%d)", int(t))
}

// ParseSQLType resolves a type name such as "varchar" or "integer". An empty
// name is Varchar.
func ParseSQLType(name string) (SQLType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Varchar, nil
	}
	for t, tn := range sqlTypeNames {
		if tn == n {
			return t, nil
		}
	}
	if t, ok := sqlTypeAliases[n]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown sql type %q", name)
}

// Parameter describes one call parameter: where it goes, what SQL type it has,
// which way it flows, and how to read and write it on an entity.
type Parameter struct {
	Position  int
	Type      SQLType
	Direction Direction
	// Name is informational; used in error messages and by record entities.
	Name string

	Get func(entity any) (any, error)
	Set func(entity any, value any) error
}

func (p Parameter) String() string {
	if p.Name != "" {
		return fmt.Sprintf("%s(#%d %s %s)", p.Name, p.Position, p.Direction, p.Type)
	}
	return fmt.Sprintf("#%d %s %s", p.Position, p.Direction, p.Type)
}

// Field builds a Parameter whose accessors operate on *T. Values coming back
// from the driver are converted to V before set is called. set may be nil for
// In parameters and get may be nil for Out parameters.
func Field[T any, V any](position int, typ SQLType, dir Direction, get func(*T) V, set func(*T, V)) Parameter {
	p := Parameter{Position: position, Type: typ, Direction: dir}
	if get != nil {
		p.Get = func(entity any) (any, error) {
			e, ok := entity.(*T)
			if !ok {
				return nil, fmt.Errorf("entity is %T, want %T", entity, (*T)(nil))
			}
			return get(e), nil
		}
	}
	if set != nil {
		p.Set = func(entity any, value any) error {
			e, ok := entity.(*T)
			if !ok {
				return fmt.Errorf("entity is %T, want %T", entity, (*T)(nil))
			}
			var v V
			if err := Assign(&v, value); err != nil {
				return err
			}
			set(e, v)
			return nil
		}
	}
	return p
}
