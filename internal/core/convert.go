package core

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Assign stores a driver-returned value into the variable dst points to,
// converting between the representations drivers commonly return and the
// field's Go type. Strings are right-trimmed since CHAR columns come back
// blank padded.
func Assign(dst any, src any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dst)
	}
	if valuer, ok := src.(driver.Valuer); ok {
		v, err := valuer.Value()
		if err != nil {
			return err
		}
		src = v
	}
	if scanner, ok := dst.(sql.Scanner); ok {
		return scanner.Scan(src)
	}
	return assignValue(dv.Elem(), src)
}

func assignValue(target reflect.Value, src any) error {
	if src == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	sv := reflect.ValueOf(src)
	if target.Kind() == reflect.String {
		if s, ok := stringOf(src); ok {
			target.SetString(strings.TrimRight(s, " "))
			return nil
		}
	}
	if sv.Type().AssignableTo(target.Type()) {
		target.Set(sv)
		return nil
	}

	switch target.Kind() {
	case reflect.Pointer:
		elem := reflect.New(target.Type().Elem())
		if err := assignValue(elem.Elem(), src); err != nil {
			return err
		}
		target.Set(elem)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := asInt(sv)
		if err != nil {
			return err
		}
		if target.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, target.Type())
		}
		target.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := asInt(sv)
		if err != nil {
			return err
		}
		if n < 0 || target.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, target.Type())
		}
		target.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := asFloat(sv)
		if err != nil {
			return err
		}
		target.SetFloat(f)
		return nil
	case reflect.Bool:
		b, err := asBool(sv)
		if err != nil {
			return err
		}
		target.SetBool(b)
		return nil
	case reflect.String:
		switch v := src.(type) {
		case time.Time:
			target.SetString(v.Format(time.RFC3339))
			return nil
		case fmt.Stringer:
			target.SetString(v.String())
			return nil
		}
		switch sv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			target.SetString(strconv.FormatInt(sv.Int(), 10))
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			target.SetString(strconv.FormatUint(sv.Uint(), 10))
			return nil
		case reflect.Float32, reflect.Float64:
			target.SetString(strconv.FormatFloat(sv.Float(), 'f', -1, 64))
			return nil
		case reflect.Bool:
			target.SetString(strconv.FormatBool(sv.Bool()))
			return nil
		}
	case reflect.Slice:
		if target.Type().Elem().Kind() == reflect.Uint8 {
			if s, ok := src.(string); ok {
				target.SetBytes([]byte(s))
				return nil
			}
		}
	case reflect.Struct:
		if target.Type() == timeType {
			if s, ok := stringOf(src); ok {
				t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
				if err != nil {
					return err
				}
				target.Set(reflect.ValueOf(t))
				return nil
			}
		}
	}
	if sv.Type().ConvertibleTo(target.Type()) && sv.Kind() == target.Kind() {
		target.Set(sv.Convert(target.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", src, target.Type())
}

func stringOf(src any) (string, bool) {
	switch v := src.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

func asInt(sv reflect.Value) (int64, error) {
	switch sv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return sv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(sv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := sv.Float()
		if f != float64(int64(f)) {
			return 0, fmt.Errorf("value %v is not integral", f)
		}
		return int64(f), nil
	case reflect.Bool:
		if sv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	if s, ok := stringOf(sv.Interface()); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	return 0, fmt.Errorf("cannot convert %s to integer", sv.Type())
}

func asFloat(sv reflect.Value) (float64, error) {
	switch sv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(sv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(sv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return sv.Float(), nil
	}
	if s, ok := stringOf(sv.Interface()); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return 0, fmt.Errorf("cannot convert %s to float", sv.Type())
}

func asBool(sv reflect.Value) (bool, error) {
	switch sv.Kind() {
	case reflect.Bool:
		return sv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return sv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return sv.Uint() != 0, nil
	}
	if s, ok := stringOf(sv.Interface()); ok {
		// Oracle has no boolean column type; flags are usually CHAR(1).
		switch strings.ToUpper(strings.TrimSpace(s)) {
		case "S", "Y":
			return true, nil
		case "N":
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(s))
	}
	return false, fmt.Errorf("cannot convert %s to bool", sv.Type())
}
