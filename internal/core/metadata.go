package core

import (
	"reflect"
)

// Procedure names the stored procedure or function an entity maps to.
type Procedure struct {
	Name string
	// IsProcedure is false for functions, whose return value takes the
	// first placeholder.
	IsProcedure bool
}

// Declaration is what a metadata source reports for one entity type: the
// target procedure and its parameters in declaration order.
type Declaration struct {
	Procedure  Procedure
	Parameters []Parameter
}

// Declarer is implemented by entities that describe their own procedure.
// DeclareProcedure is called at most once per entity type per engine, so it
// must return the same declaration for every value of the type.
type Declarer interface {
	DeclareProcedure() Declaration
}

// Keyed is implemented by entities whose declaration depends on the value
// rather than the Go type. ProcedureKey replaces the type as registry key.
type Keyed interface {
	ProcedureKey() string
}

// Source reports the declaration of an entity's type.
type Source interface {
	Declare(entity any) (Declaration, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(entity any) (Declaration, error)

func (f SourceFunc) Declare(entity any) (Declaration, error) { return f(entity) }

// DefaultSource uses DeclareProcedure when the entity implements Declarer and
// falls back to struct tags otherwise.
var DefaultSource Source = SourceFunc(func(entity any) (Declaration, error) {
	if d, ok := entity.(Declarer); ok {
		decl := d.DeclareProcedure()
		if decl.Procedure.Name == "" {
			return Declaration{}, newError(KindMissingProcedure, "%T declares no procedure name", entity)
		}
		return decl, nil
	}
	return declareFromTags(entity)
})

// Metadata is the resolved, immutable call description for one entity type.
type Metadata struct {
	template   string
	procedure  Procedure
	parameters []Parameter
}

// Template returns the SQL-92 escape call template.
func (m *Metadata) Template() string { return m.template }

// Procedure returns the declared target.
func (m *Metadata) Procedure() Procedure { return m.procedure }

// Parameters returns a copy of the parameter descriptors in declaration order.
func (m *Metadata) Parameters() []Parameter {
	out := make([]Parameter, len(m.parameters))
	copy(out, m.parameters)
	return out
}

type registryKey struct {
	typ reflect.Type
	key string
}

func keyOf(entity any) registryKey {
	k := registryKey{typ: reflect.TypeOf(entity)}
	if keyed, ok := entity.(Keyed); ok {
		k.key = keyed.ProcedureKey()
	}
	return k
}
