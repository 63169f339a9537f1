package binder

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/wippyai/starbind/errors"
	"github.com/wippyai/starbind/variant"
)

// Object is a script-side view of a host object. It never owns the host
// object; freeing happens on the host side.
type Object struct {
	class   *Class
	host    variant.HostObject
	wrapped variant.Variant
	id      uint64
}

var (
	_ starlark.HasAttrs    = (*Object)(nil)
	_ starlark.HasSetField = (*Object)(nil)
	_ starlark.Comparable  = (*Object)(nil)
)

func (o *Object) String() string {
	if o.host == nil {
		return fmt.Sprintf("[%s:null]", o.class.name)
	}
	return o.wrapped.String()
}

func (o *Object) Type() string         { return o.class.name }
func (o *Object) Freeze()              {}
func (o *Object) Truth() starlark.Bool { return starlark.Bool(!o.wrapped.IsNil()) }

func (o *Object) Hash() (uint32, error) {
	if o.host == nil {
		return 0, fmt.Errorf("unhashable: placeholder %s", o.class.name)
	}
	return uint32(o.id ^ o.id>>32), nil
}

// Class returns the object's synthesized type.
func (o *Object) Class() *Class { return o.class }

// Host returns the underlying host object.
func (o *Object) Host() variant.HostObject { return o.host }

// Variant returns the cached host value of the object.
func (o *Object) Variant() variant.Variant { return o.wrapped }

// CompareSameType implements host identity equality. A placeholder has no
// host object and equals only itself.
func (o *Object) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	other, ok := y.(*Object)
	if !ok {
		return op == syntax.NEQ, nil
	}
	same := o == other ||
		(o.host != nil && o.class == other.class && variant.SameObject(o.host, other.host))
	switch op {
	case syntax.EQL:
		return same, nil
	case syntax.NEQ:
		return !same, nil
	}
	return false, errors.Unsupported(errors.PhaseExec,
		fmt.Sprintf("%s %s %s not supported", o.Type(), op, y.Type()))
}

// Attr resolves properties through their getter and binds methods to o.
func (o *Object) Attr(name string) (starlark.Value, error) {
	switch m := o.class.lookup(name).(type) {
	case nil:
		return nil, nil
	case *Property:
		return m.get(o)
	case *starlark.Builtin:
		return m.BindReceiver(o), nil
	default:
		return m, nil
	}
}

func (o *Object) AttrNames() []string {
	return o.class.AttrNames()
}

// SetField assigns a property through its setter.
func (o *Object) SetField(name string, val starlark.Value) error {
	switch m := o.class.lookup(name).(type) {
	case *Property:
		return m.set(o, val)
	case nil:
		return errors.UnknownAttribute(errors.PhaseProperty, o.class.name, name)
	default:
		return errors.ReadOnlyAttribute(o.class.name, name)
	}
}
