package binder

import (
	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/errors"
	"github.com/wippyai/starbind/variant"
)

// Binder owns the synthesized script type of one host class.
type Binder struct {
	registry      starbind.Registry
	binders       *Registry
	log           *zap.Logger
	members       starlark.StringDict
	propertyNames map[string]*string
	class         *Class
	typeName      string
	closed        bool
}

// newBinder walks the registry once for class and assembles its type.
// The parent binder, if any, must already be in binders.
func newBinder(binders *Registry, class string) *Binder {
	b := &Binder{
		typeName:      class,
		registry:      binders.classes,
		binders:       binders,
		log:           binders.log,
		members:       make(starlark.StringDict),
		propertyNames: make(map[string]*string),
	}
	inherited := binders.cfg.IncludeInherited

	for _, p := range b.registry.PropertyList(class, inherited) {
		if b.taken(p.Name) {
			continue
		}
		name := new(string)
		*name = p.Name
		fget := b.wrapPropertyGetter(name)
		fset := b.wrapPropertySetter(name)
		if fget == nil || fset == nil {
			continue
		}
		b.members[p.Name] = &Property{name: p.Name, class: class, fget: fget, fset: fset}
		b.propertyNames[p.Name] = name
	}

	for _, m := range b.registry.MethodList(class, inherited) {
		if b.taken(m.Name) {
			continue
		}
		if w := b.wrapMethod(m.Name); w != nil {
			b.members[m.Name] = w
		}
	}

	for _, name := range b.registry.IntegerConstantList(class, inherited) {
		if b.taken(name) {
			continue
		}
		v, ok := b.registry.IntegerConstant(class, name)
		if !ok {
			b.log.Debug("bad binding", zap.Error(errors.LookupMiss(class, name)))
			continue
		}
		b.members[name] = starlark.MakeInt64(v)
	}

	var base *Class
	if parent := b.registry.ParentClass(class); parent != "" {
		if pb := binders.Get(parent); pb != nil {
			base = pb.class
		} else {
			b.log.Warn("building rootless type", zap.Error(errors.BuildOrder(class, parent)))
		}
	}

	b.class = &Class{
		name:    class,
		base:    base,
		members: b.members,
		binder:  b,
	}
	return b
}

// taken reports a member name collision. The first registrant is kept.
func (b *Binder) taken(name string) bool {
	if _, ok := b.members[name]; !ok {
		return false
	}
	b.log.Warn("duplicate member ignored", zap.Error(errors.Duplicate(errors.PhaseBind, b.typeName, name)))
	return true
}

// Name returns the host class name.
func (b *Binder) Name() string { return b.typeName }

// Class returns the synthesized type.
func (b *Binder) Class() *Class { return b.class }

// Members returns the type's own member namespace.
func (b *Binder) Members() starlark.StringDict { return b.members }

// BuildObject wraps a host object as an instance of the binder's type.
// A nil host yields a placeholder whose host calls all fail.
func (b *Binder) BuildObject(host variant.HostObject) *Object {
	o := &Object{
		class:   b.class,
		host:    host,
		wrapped: variant.FromObject(host),
	}
	if host != nil {
		o.id = host.InstanceID()
	}
	return o
}

// ToHost returns the wrapped host value of an instance of this binder's
// type, or a nil variant for anything else.
func (b *Binder) ToHost(v starlark.Value) variant.Variant {
	if o, ok := v.(*Object); ok && o.class == b.class {
		return o.wrapped
	}
	return variant.NewNil()
}

// ToNative converts a host value for scripts. Objects are wrapped by the
// binder of their runtime class.
func (b *Binder) ToNative(v variant.Variant) (starlark.Value, error) {
	return b.binders.marshal.ToNative(v)
}

// close releases the property name copies. It runs once per binder.
func (b *Binder) close() {
	if b.closed {
		return
	}
	b.closed = true
	for name, p := range b.propertyNames {
		*p = ""
		delete(b.propertyNames, name)
	}
}
