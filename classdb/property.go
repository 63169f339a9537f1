package classdb

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/variant"
)

// Getter reads a property from an instance.
type Getter func(ctx context.Context, inst *Instance) (variant.Variant, error)

// Setter writes a property. A returned error marks the value as invalid.
type Setter func(ctx context.Context, inst *Instance, v variant.Variant) error

// Property is a property registered on a class. A nil setter makes it read-only.
type Property struct {
	get   Getter
	set   Setter
	name  string
	class string
	typ   variant.Type
}

// NewProperty creates an explicit property.
func NewProperty(name string, typ variant.Type, get Getter, set Setter) *Property {
	return &Property{name: name, typ: typ, get: get, set: set}
}

func (p *Property) Name() string { return p.name }

func (p *Property) Info() starbind.PropertyInfo {
	return starbind.PropertyInfo{Name: p.name, Type: p.typ}
}

// reflectProperty builds a property over an exported struct field tagged
// `prop:"name"`. The option `readonly` drops the setter. When the receiver
// has a method Set<Field>(T) or Set<Field>(T) error it is used as the
// setter so the host can validate assigned values.
func reflectProperty(f reflect.StructField, tag string) (*Property, bool) {
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = toSnakeCase(f.Name)
	}
	typ, ok := variantTypeOf(f.Type)
	if !ok {
		return nil, false
	}

	field := f.Name
	fieldType := f.Type
	p := &Property{name: name, typ: typ}

	p.get = func(_ context.Context, inst *Instance) (variant.Variant, error) {
		fv, err := fieldOf(inst, field)
		if err != nil {
			return variant.NewNil(), err
		}
		return inst.db.fromGo(fv)
	}

	if opts == "readonly" {
		return p, true
	}

	setter := "Set" + field
	p.set = func(_ context.Context, inst *Instance, v variant.Variant) error {
		nv, ok := toGo(v, fieldType)
		if !ok {
			return fmt.Errorf("cannot assign %s to %s", v.Type(), typ)
		}
		if m := inst.rv.MethodByName(setter); m.IsValid() && isSetter(m.Type(), fieldType) {
			out := m.Call([]reflect.Value{nv})
			if len(out) == 1 && !out[0].IsNil() {
				return out[0].Interface().(error)
			}
			return nil
		}
		fv, err := fieldOf(inst, field)
		if err != nil {
			return err
		}
		fv.Set(nv)
		return nil
	}
	return p, true
}

func isSetter(mt, fieldType reflect.Type) bool {
	if mt.NumIn() != 1 || mt.In(0) != fieldType {
		return false
	}
	switch mt.NumOut() {
	case 0:
		return true
	case 1:
		return mt.Out(0) == errorType
	}
	return false
}

func fieldOf(inst *Instance, field string) (reflect.Value, error) {
	rv := inst.rv
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%s has no field storage", inst.class)
	}
	fv := rv.Elem().FieldByName(field)
	if !fv.IsValid() {
		return reflect.Value{}, fmt.Errorf("%s has no field %s", inst.class, field)
	}
	return fv, nil
}
