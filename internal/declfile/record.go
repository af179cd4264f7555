package declfile

import (
	"fmt"
	"time"

	"github.com/ignaciocaff/procmap/internal/core"
)

// Record is a map-backed entity for a declared procedure. Every record of the
// same procedure shares one registry entry.
type Record struct {
	decl   *declared
	values map[string]any
}

var (
	_ core.Declarer = (*Record)(nil)
	_ core.Keyed    = (*Record)(nil)
)

func (r *Record) DeclareProcedure() core.Declaration {
	return core.Declaration{Procedure: r.decl.proc, Parameters: r.decl.params}
}

func (r *Record) ProcedureKey() string { return r.decl.proc.Name }

// Set stores the input value of a parameter.
func (r *Record) Set(name string, value any) error {
	for _, p := range r.decl.params {
		if p.Name == name {
			r.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("%s has no parameter %q", r.decl.proc.Name, name)
}

// SetText parses text according to the parameter's SQL type and stores it.
func (r *Record) SetText(name, text string) error {
	for _, p := range r.decl.params {
		if p.Name != name {
			continue
		}
		v, err := parseText(p.Type, text)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", r.decl.proc.Name, name, err)
		}
		r.values[name] = v
		return nil
	}
	return fmt.Errorf("%s has no parameter %q", r.decl.proc.Name, name)
}

func parseText(typ core.SQLType, text string) (any, error) {
	var err error
	switch typ {
	case core.Integer, core.SmallInt, core.BigInt:
		var n int64
		err = core.Assign(&n, text)
		return n, err
	case core.Numeric, core.Decimal, core.Float, core.Real, core.Double:
		var f float64
		err = core.Assign(&f, text)
		return f, err
	case core.Boolean:
		var b bool
		err = core.Assign(&b, text)
		return b, err
	case core.Date, core.Time, core.Timestamp:
		var t time.Time
		err = core.Assign(&t, text)
		return t, err
	case core.Binary, core.Blob:
		return []byte(text), nil
	}
	return text, nil
}

// Get returns the current value of a parameter.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Parameters returns the declared parameters in declaration order.
func (r *Record) Parameters() []core.Parameter {
	out := make([]core.Parameter, len(r.decl.params))
	copy(out, r.decl.params)
	return out
}

// Outputs returns the values of the OUT and INOUT parameters, by name.
func (r *Record) Outputs() map[string]any {
	out := make(map[string]any)
	for _, p := range r.decl.params {
		if p.Direction.Writes() {
			out[p.Name] = r.values[p.Name]
		}
	}
	return out
}

func recordParameter(name string, position int, typ core.SQLType, dir core.Direction) core.Parameter {
	return core.Parameter{
		Name:      name,
		Position:  position,
		Type:      typ,
		Direction: dir,
		Get: func(entity any) (any, error) {
			r, ok := entity.(*Record)
			if !ok {
				return nil, fmt.Errorf("entity is %T, want *declfile.Record", entity)
			}
			return r.values[name], nil
		},
		Set: func(entity any, value any) error {
			r, ok := entity.(*Record)
			if !ok {
				return fmt.Errorf("entity is %T, want *declfile.Record", entity)
			}
			r.values[name] = value
			return nil
		},
	}
}
