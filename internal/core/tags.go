package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Struct tags understood by the default source:
//
//	type Deposit struct {
//		_       struct{} `procedure:"bank.deposit"`
//		Account int64    `param:"1,in,bigint"`
//		Amount  float64  `param:"2,in,numeric"`
//		Balance float64  `param:"3,out,numeric"`
//	}
//
// A function is declared with `procedure:"name,function"`; its return value is
// the parameter at position 1.
const (
	procedureTag = "procedure"
	paramTag     = "param"
)

func declareFromTags(entity any) (Declaration, error) {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Declaration{}, newError(KindMissingProcedure, "%T declares no procedure", entity)
	}

	var (
		decl     Declaration
		declared bool
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag, ok := f.Tag.Lookup(procedureTag); ok {
			proc, err := parseProcedureTag(tag)
			if err != nil {
				return Declaration{}, wrapError(KindInvalidDeclaration, err, "%s.%s", t, f.Name)
			}
			decl.Procedure = proc
			declared = true
			continue
		}
		tag, ok := f.Tag.Lookup(paramTag)
		if !ok || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return Declaration{}, newError(KindInvalidDeclaration, "%s.%s: parameter field must be exported", t, f.Name)
		}
		p, err := parseParamTag(tag)
		if err != nil {
			return Declaration{}, wrapError(KindInvalidDeclaration, err, "%s.%s", t, f.Name)
		}
		p.Name = f.Name
		p.Get, p.Set = fieldAccessors(f.Index)
		decl.Parameters = append(decl.Parameters, p)
	}
	if !declared {
		return Declaration{}, newError(KindMissingProcedure, "%s has no %q tag", t, procedureTag)
	}
	return decl, nil
}

func parseProcedureTag(tag string) (Procedure, error) {
	parts := strings.Split(tag, ",")
	proc := Procedure{Name: strings.TrimSpace(parts[0]), IsProcedure: true}
	if proc.Name == "" {
		return Procedure{}, fmt.Errorf("empty procedure name")
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "function":
			proc.IsProcedure = false
		case "procedure", "":
			proc.IsProcedure = true
		default:
			return Procedure{}, fmt.Errorf("unknown procedure option %q", opt)
		}
	}
	return proc, nil
}

func parseParamTag(tag string) (Parameter, error) {
	parts := strings.Split(tag, ",")
	pos, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Parameter{}, fmt.Errorf("bad parameter position %q", parts[0])
	}
	p := Parameter{Position: pos, Type: Varchar, Direction: In}
	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if d, err := ParseDirection(opt); err == nil {
			p.Direction = d
			continue
		}
		t, err := ParseSQLType(opt)
		if err != nil {
			return Parameter{}, err
		}
		p.Type = t
	}
	return p, nil
}

func fieldAccessors(index []int) (func(any) (any, error), func(any, any) error) {
	get := func(entity any) (any, error) {
		v := reflect.Indirect(reflect.ValueOf(entity))
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("entity %T is not a struct", entity)
		}
		return v.FieldByIndex(index).Interface(), nil
	}
	set := func(entity any, value any) error {
		v := reflect.ValueOf(entity)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return fmt.Errorf("entity %T must be a non-nil pointer to receive output values", entity)
		}
		f := v.Elem().FieldByIndex(index)
		return Assign(f.Addr().Interface(), value)
	}
	return get, set
}
