package binder

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/wippyai/starbind/errors"
)

// Property is the descriptor stored in a class namespace for a host
// property. Reading or assigning the attribute on a bound object goes
// through fget and fset.
type Property struct {
	fget  *starlark.Builtin
	fset  *starlark.Builtin
	name  string
	class string
}

var _ starlark.HasAttrs = (*Property)(nil)

func (p *Property) String() string        { return fmt.Sprintf("<property %s.%s>", p.class, p.name) }
func (p *Property) Type() string          { return "property" }
func (p *Property) Freeze()               {}
func (p *Property) Truth() starlark.Bool  { return starlark.True }
func (p *Property) Hash() (uint32, error) { return starlark.String(p.class + "." + p.name).Hash() }

func (p *Property) Attr(name string) (starlark.Value, error) {
	switch name {
	case "fget":
		return p.fget, nil
	case "fset":
		return p.fset, nil
	case "name":
		return starlark.String(p.name), nil
	}
	return nil, nil
}

func (p *Property) AttrNames() []string {
	return []string{"fget", "fset", "name"}
}

func (p *Property) get(recv *Object) (starlark.Value, error) {
	return p.fget.CallInternal(nil, starlark.Tuple{recv}, nil)
}

func (p *Property) set(recv *Object, v starlark.Value) error {
	_, err := p.fset.CallInternal(nil, starlark.Tuple{recv, v}, nil)
	return err
}

// wrapPropertyGetter builds the 2-slot getter (name, receiver).
func (b *Binder) wrapPropertyGetter(name *string) *starlark.Builtin {
	return makeTrampoline(b.log, &nativeFunc{
		name:  b.typeName + "." + *name + ".fget",
		arity: 2,
		fn:    b.getProperty,
	}, name)
}

// wrapPropertySetter builds the 3-slot setter (name, receiver, value).
func (b *Binder) wrapPropertySetter(name *string) *starlark.Builtin {
	return makeTrampoline(b.log, &nativeFunc{
		name:  b.typeName + "." + *name + ".fset",
		arity: 3,
		fn:    b.setProperty,
	}, name)
}

func (b *Binder) propertyReceiver(v starlark.Value, name string) (*Object, error) {
	recv, ok := v.(*Object)
	if !ok {
		return nil, errors.InvalidValue(errors.PhaseProperty, b.typeName, name,
			fmt.Sprintf("receiver must be a bound object, got %s", v.Type()))
	}
	if recv.wrapped.IsNil() {
		return nil, errors.InvalidValue(errors.PhaseProperty, recv.class.name, name, "instance is null")
	}
	return recv, nil
}

func (b *Binder) getProperty(thread *starlark.Thread, data any, args starlark.Tuple) (starlark.Value, error) {
	name := *data.(*string)
	recv, err := b.propertyReceiver(args[0], name)
	if err != nil {
		return nil, err
	}

	v, found := b.registry.GetProperty(contextOf(thread), recv.host, name)
	if !found {
		return nil, errors.UnknownAttribute(errors.PhaseProperty, recv.class.name, name)
	}
	return b.binders.marshal.ToNative(v)
}

func (b *Binder) setProperty(thread *starlark.Thread, data any, args starlark.Tuple) (starlark.Value, error) {
	name := *data.(*string)
	recv, err := b.propertyReceiver(args[0], name)
	if err != nil {
		return nil, err
	}

	hostArgs, release := b.binders.marshal.acquire(args[1:2])
	defer release()

	found, valid := b.registry.SetProperty(contextOf(thread), recv.host, name, hostArgs[0])
	switch {
	case !found:
		return nil, errors.UnknownAttribute(errors.PhaseProperty, recv.class.name, name)
	case !valid:
		return nil, errors.InvalidValue(errors.PhaseProperty, recv.class.name, name,
			fmt.Sprintf("invalid value %s for property '%s'", args[1].String(), name))
	}
	return starlark.None, nil
}
