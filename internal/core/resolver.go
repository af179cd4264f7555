package core

import (
	"sync"
)

// TemplateBuilder renders a call template; BuildCallTemplate is the default.
type TemplateBuilder func(name string, isProcedure bool, count int) (string, error)

// Resolver derives and caches Metadata per entity type. The registry only
// grows; an entry is never replaced once published.
//
// Two goroutines resolving the same unseen type may both build metadata.
// Building is deterministic, so whichever is stored first wins and the other
// result is discarded.
type Resolver struct {
	source   Source
	build    TemplateBuilder
	registry sync.Map // registryKey -> *Metadata
}

// NewResolver returns a resolver reading declarations from source. A nil
// source means DefaultSource.
func NewResolver(source Source) *Resolver {
	if source == nil {
		source = DefaultSource
	}
	return &Resolver{source: source, build: BuildCallTemplate}
}

// Resolve returns the metadata of entity's type, building it on first use.
func (r *Resolver) Resolve(entity any) (*Metadata, error) {
	if isNil(entity) {
		return nil, newError(KindNullEntity, "cannot resolve a nil entity")
	}
	key := keyOf(entity)
	if m, ok := r.registry.Load(key); ok {
		return m.(*Metadata), nil
	}

	decl, err := r.source.Declare(entity)
	if err != nil {
		return nil, wrapError(KindMissingProcedure, err, "")
	}
	tmpl, err := r.build(decl.Procedure.Name, decl.Procedure.IsProcedure, len(decl.Parameters))
	if err != nil {
		return nil, wrapError(KindInvalidDeclaration, err, "")
	}
	params := make([]Parameter, len(decl.Parameters))
	copy(params, decl.Parameters)
	m := &Metadata{template: tmpl, procedure: decl.Procedure, parameters: params}

	actual, _ := r.registry.LoadOrStore(key, m)
	return actual.(*Metadata), nil
}

// Len returns the number of registered entity types.
func (r *Resolver) Len() int {
	n := 0
	r.registry.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
