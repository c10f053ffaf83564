package jsonschema

import (
	"math/big"
	"reflect"

	json "github.com/goccy/go-json"
)

// Equal reports whether two JSON values are equal. Numbers compare by
// mathematical value regardless of their Go representation, so int(1),
// 1.0 and json.Number("1") are all equal. Everything else follows
// reflect.DeepEqual on JSON-shaped trees.
func Equal(x, y any) bool {
	return equalValue(reflect.ValueOf(x), reflect.ValueOf(y))
}

func equalValue(x, y reflect.Value) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	for x.Kind() == reflect.Interface || x.Kind() == reflect.Pointer {
		if x.IsNil() {
			break
		}
		x = x.Elem()
	}
	for y.Kind() == reflect.Interface || y.Kind() == reflect.Pointer {
		if y.IsNil() {
			break
		}
		y = y.Elem()
	}

	// Treat numbers specially.
	rx, ok1 := jsonNumber(x)
	ry, ok2 := jsonNumber(y)
	if ok1 || ok2 {
		return ok1 && ok2 && rx.Cmp(ry) == 0
	}
	if x.Kind() != y.Kind() {
		return false
	}
	switch x.Kind() {
	case reflect.Array, reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := range x.Len() {
			if !equalValue(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Interface, reflect.Pointer:
		return x.IsNil() && y.IsNil()
	case reflect.Map:
		if x.Len() != y.Len() {
			return false
		}
		iter := x.MapRange()
		for iter.Next() {
			vy := y.MapIndex(iter.Key())
			if !vy.IsValid() || !equalValue(iter.Value(), vy) {
				return false
			}
		}
		return true
	case reflect.Struct:
		t := x.Type()
		if t != y.Type() {
			return false
		}
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			if !equalValue(x.Field(i), y.Field(i)) {
				return false
			}
		}
		return true
	case reflect.String:
		return x.String() == y.String()
	case reflect.Bool:
		return x.Bool() == y.Bool()
	}
	return false
}

var jsonNumberType = reflect.TypeOf(json.Number(""))

func jsonNumber(v reflect.Value) (*big.Rat, bool) {
	r := new(big.Rat)
	switch {
	case !v.IsValid():
		return nil, false
	case v.CanInt():
		r.SetInt64(v.Int())
	case v.CanUint():
		r.SetUint64(v.Uint())
	case v.CanFloat():
		if r.SetFloat64(v.Float()) == nil {
			// NaN and infinities never compare equal
			return nil, false
		}
	case v.Type() == jsonNumberType:
		if _, ok := r.SetString(v.String()); !ok {
			// This can fail in rare cases; for example, "1e9999999".
			return nil, false
		}
	default:
		return nil, false
	}
	return r, true
}
