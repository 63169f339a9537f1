package variant

import (
	"fmt"
	"strconv"
)

// Type is the discriminant of a Variant.
type Type uint8

const (
	Nil Type = iota
	Bool
	Int
	Float
	String
	Vector2
	Object
)

var typeNames = [...]string{
	Nil:     "nil",
	Bool:    "bool",
	Int:     "int",
	Float:   "float",
	String:  "String",
	Vector2: "Vector2",
	Object:  "Object",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Vec2 is the host representation of a 2D vector.
type Vec2 struct {
	X, Y float64
}

// HostObject is a reference to an object living in the host.
// InstanceID returns 0 once the host object has been freed.
type HostObject interface {
	ClassName() string
	InstanceID() uint64
}

// Variant is the host-side tagged union passed across the binding boundary.
// The zero value is nil.
type Variant struct {
	obj HostObject
	s   string
	i   int64
	f   float64
	v   Vec2
	b   bool
	typ Type
}

func NewNil() Variant { return Variant{} }

func FromBool(b bool) Variant { return Variant{typ: Bool, b: b} }

func FromInt(i int64) Variant { return Variant{typ: Int, i: i} }

func FromFloat(f float64) Variant { return Variant{typ: Float, f: f} }

func FromString(s string) Variant { return Variant{typ: String, s: s} }

func FromVec2(v Vec2) Variant { return Variant{typ: Vector2, v: v} }

// FromObject wraps a host object reference. A nil reference yields a nil Variant.
func FromObject(o HostObject) Variant {
	if o == nil {
		return Variant{}
	}
	return Variant{typ: Object, obj: o}
}

func (v Variant) Type() Type { return v.typ }

// IsNil reports whether v holds nothing, or an object reference that has been freed.
func (v Variant) IsNil() bool {
	switch v.typ {
	case Nil:
		return true
	case Object:
		return v.obj == nil || v.obj.InstanceID() == 0
	}
	return false
}

func (v Variant) Bool() bool { return v.b }

func (v Variant) Int() int64 { return v.i }

// Float returns the float payload; Int variants are widened.
func (v Variant) Float() float64 {
	if v.typ == Int {
		return float64(v.i)
	}
	return v.f
}

func (v Variant) Str() string { return v.s }

func (v Variant) Vec2() Vec2 { return v.v }

// Object returns the referenced host object, or nil for non-object variants.
func (v Variant) Object() HostObject {
	if v.typ != Object {
		return nil
	}
	return v.obj
}

// String formats v for diagnostics.
func (v Variant) String() string {
	switch v.typ {
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return v.s
	case Vector2:
		return fmt.Sprintf("(%g, %g)", v.v.X, v.v.Y)
	case Object:
		if v.IsNil() {
			return "[Freed Object]"
		}
		return fmt.Sprintf("[%s:%d]", v.obj.ClassName(), v.obj.InstanceID())
	}
	return "Null"
}

// SameObject reports whether a and b reference the same host object.
func SameObject(a, b HostObject) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
