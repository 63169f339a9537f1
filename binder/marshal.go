package binder

import (
	"go.starlark.net/starlark"

	"github.com/wippyai/starbind/errors"
	"github.com/wippyai/starbind/variant"
)

// Marshaler converts values across the binding boundary for every binder
// of a Registry.
type Marshaler struct {
	binders *Registry
	live    int
}

// ToHost converts a script value to a host value. Values with no host
// form become nil; ToHost never fails.
func (m *Marshaler) ToHost(v starlark.Value) variant.Variant {
	switch x := v.(type) {
	case *Object:
		return x.wrapped
	case starlark.NoneType:
		return variant.NewNil()
	case starlark.Bool:
		return variant.FromBool(bool(x))
	case starlark.Int:
		if i, ok := x.Int64(); ok {
			return variant.FromInt(i)
		}
	case starlark.Float:
		return variant.FromFloat(float64(x))
	case starlark.String:
		return variant.FromString(string(x))
	case starlark.Tuple:
		if vec, ok := toVec2(x); ok {
			return variant.FromVec2(vec)
		}
	}
	return variant.NewNil()
}

func toVec2(t starlark.Tuple) (variant.Vec2, bool) {
	if len(t) != 2 {
		return variant.Vec2{}, false
	}
	x, ok1 := starlark.AsFloat(t[0])
	y, ok2 := starlark.AsFloat(t[1])
	if !ok1 || !ok2 {
		return variant.Vec2{}, false
	}
	return variant.Vec2{X: x, Y: y}, true
}

// ToNative converts a host value to a script value. Objects are wrapped
// by the binder of their runtime class; nil and freed objects become None.
func (m *Marshaler) ToNative(v variant.Variant) (starlark.Value, error) {
	switch v.Type() {
	case variant.Nil:
		return starlark.None, nil
	case variant.Bool:
		return starlark.Bool(v.Bool()), nil
	case variant.Int:
		return starlark.MakeInt64(v.Int()), nil
	case variant.Float:
		return starlark.Float(v.Float()), nil
	case variant.String:
		return starlark.String(v.Str()), nil
	case variant.Vector2:
		vec := v.Vec2()
		return starlark.Tuple{starlark.Float(vec.X), starlark.Float(vec.Y)}, nil
	case variant.Object:
		if v.IsNil() {
			return starlark.None, nil
		}
		host := v.Object()
		b, err := m.binders.Load(host.ClassName())
		if err != nil {
			return nil, err
		}
		return b.BuildObject(host), nil
	}
	return nil, errors.TypeMismatch(errors.PhaseMarshal, "", "", "variant", v.Type().String())
}

// acquire converts call arguments into temporary host values. The
// returned release must run before the call returns.
func (m *Marshaler) acquire(args starlark.Tuple) ([]variant.Variant, func()) {
	out := make([]variant.Variant, len(args))
	for i, a := range args {
		out[i] = m.ToHost(a)
	}
	m.live += len(out)
	released := false
	return out, func() {
		if released {
			return
		}
		released = true
		m.live -= len(out)
		clear(out)
	}
}

// Live returns the number of temporary host values not yet released.
func (m *Marshaler) Live() int {
	return m.live
}
