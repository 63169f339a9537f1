package scene

import (
	"context"

	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/variant"
)

// Object is the root of the class hierarchy.
type Object struct {
	meta map[string]variant.Variant
}

func (o *Object) SetMeta(name string, value variant.Variant) {
	if o.meta == nil {
		o.meta = make(map[string]variant.Variant)
	}
	o.meta[name] = value
}

func (o *Object) GetMeta(name string) variant.Variant {
	return o.meta[name]
}

func (o *Object) HasMeta(name string) bool {
	_, ok := o.meta[name]
	return ok
}

// objectNatives are methods that act on the instance rather than the Go value.
func objectNatives() []*classdb.Method {
	return []*classdb.Method{
		classdb.NewMethod("get_class", nil, variant.String,
			func(_ context.Context, inst *classdb.Instance, _ []variant.Variant) (variant.Variant, error) {
				return variant.FromString(inst.ClassName()), nil
			}),
		classdb.NewMethod("is_class", []variant.Type{variant.String}, variant.Bool,
			func(_ context.Context, inst *classdb.Instance, args []variant.Variant) (variant.Variant, error) {
				return variant.FromBool(inst.DB().Inherits(inst.ClassName(), args[0].Str())), nil
			}),
		classdb.NewMethod("get_instance_id", nil, variant.Int,
			func(_ context.Context, inst *classdb.Instance, _ []variant.Variant) (variant.Variant, error) {
				return variant.FromInt(int64(inst.InstanceID())), nil
			}),
		classdb.NewMethod("free", nil, variant.Nil,
			func(_ context.Context, inst *classdb.Instance, _ []variant.Variant) (variant.Variant, error) {
				return variant.NewNil(), inst.Free()
			}),
	}
}
