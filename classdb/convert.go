package classdb

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/wippyai/starbind/variant"
)

var (
	vec2Type     = reflect.TypeOf(variant.Vec2{})
	variantType  = reflect.TypeOf(variant.Variant{})
	instanceType = reflect.TypeOf((*Instance)(nil))
	contextType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// variantTypeOf maps a Go type to the variant type it crosses the boundary as.
// variant.Variant itself maps to Nil, which accepts any value.
func variantTypeOf(t reflect.Type) (variant.Type, bool) {
	if t == variantType {
		return variant.Nil, true
	}
	if t == vec2Type {
		return variant.Vector2, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return variant.Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return variant.Int, true
	case reflect.Float32, reflect.Float64:
		return variant.Float, true
	case reflect.String:
		return variant.String, true
	case reflect.Pointer, reflect.Interface:
		return variant.Object, true
	}
	return variant.Nil, false
}

// accepts reports whether v may be passed where want is declared.
func accepts(want variant.Type, v variant.Variant) bool {
	switch want {
	case variant.Nil:
		return true
	case variant.Object:
		return v.Type() == variant.Nil || v.Type() == variant.Object
	case variant.Float:
		return v.Type() == variant.Int || v.Type() == variant.Float
	}
	return v.Type() == want
}

// toGo converts v into a value assignable to t.
func toGo(v variant.Variant, t reflect.Type) (reflect.Value, bool) {
	if t == variantType {
		return reflect.ValueOf(v), true
	}
	if t == vec2Type {
		if v.Type() != variant.Vector2 {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(v.Vec2()), true
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		if v.Type() != variant.Bool {
			return reflect.Value{}, false
		}
		out.SetBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() != variant.Int || out.OverflowInt(v.Int()) {
			return reflect.Value{}, false
		}
		out.SetInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Type() != variant.Int || v.Int() < 0 || out.OverflowUint(uint64(v.Int())) {
			return reflect.Value{}, false
		}
		out.SetUint(uint64(v.Int()))
	case reflect.Float32, reflect.Float64:
		if v.Type() != variant.Int && v.Type() != variant.Float {
			return reflect.Value{}, false
		}
		if out.OverflowFloat(v.Float()) {
			return reflect.Value{}, false
		}
		out.SetFloat(v.Float())
	case reflect.String:
		if v.Type() != variant.String {
			return reflect.Value{}, false
		}
		out.SetString(v.Str())
	case reflect.Pointer, reflect.Interface:
		return objectToGo(v, t)
	default:
		return reflect.Value{}, false
	}
	return out, true
}

func objectToGo(v variant.Variant, t reflect.Type) (reflect.Value, bool) {
	if v.IsNil() {
		if v.Type() == variant.Object {
			// freed objects are not silently passed as nil
			return reflect.Value{}, false
		}
		return reflect.Zero(t), true
	}

	host := v.Object()
	inst, ok := host.(*Instance)
	if !ok {
		hv := reflect.ValueOf(host)
		if hv.Type().AssignableTo(t) {
			return hv, true
		}
		return reflect.Value{}, false
	}

	switch {
	case t == instanceType:
		return reflect.ValueOf(inst), true
	case inst.rv.IsValid() && inst.rv.Type().AssignableTo(t):
		return inst.rv, true
	case instanceType.AssignableTo(t):
		return reflect.ValueOf(inst), true
	}
	return reflect.Value{}, false
}

// fromGo converts a Go value returned by host code into a Variant.
// Pointers to registered types are adopted into the object database.
func (db *DB) fromGo(rv reflect.Value) (variant.Variant, error) {
	if !rv.IsValid() {
		return variant.NewNil(), nil
	}
	if rv.Type() == variantType {
		return rv.Interface().(variant.Variant), nil
	}
	if rv.Type() == vec2Type {
		return variant.FromVec2(rv.Interface().(variant.Vec2)), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return variant.FromBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return variant.FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return variant.NewNil(), fmt.Errorf("value %d overflows int", u)
		}
		return variant.FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return variant.FromFloat(rv.Float()), nil
	case reflect.String:
		return variant.FromString(rv.String()), nil
	case reflect.Interface:
		if rv.IsNil() {
			return variant.NewNil(), nil
		}
		return db.fromGo(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return variant.NewNil(), nil
		}
		if inst, ok := rv.Interface().(*Instance); ok {
			return variant.FromObject(inst), nil
		}
		inst, err := db.wrap(rv.Interface())
		if err != nil {
			return variant.NewNil(), err
		}
		return variant.FromObject(inst), nil
	}
	return variant.NewNil(), fmt.Errorf("unsupported Go type %s", rv.Type())
}
