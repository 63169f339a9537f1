package binder

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/errors"
	"github.com/wippyai/starbind/variant"
)

// Module builds every binder and returns the bindings namespace: one type
// per class, global constants and singletons when the host registry
// provides them, and the isinstance, issubclass and callable builtins.
//
// Classes that fail to build are left out and reported in the returned
// error; the namespace is still usable.
func (r *Registry) Module() (starlark.StringDict, error) {
	errs := r.LoadAll()

	module := starlark.StringDict{
		"isinstance": starlark.NewBuiltin("isinstance", isinstance),
		"issubclass": starlark.NewBuiltin("issubclass", issubclass),
		"callable":   starlark.NewBuiltin("callable", callable),
	}
	for _, class := range r.classes.ClassList() {
		if b := r.Get(class); b != nil {
			module[class] = b.class
		}
	}

	globals, ok := r.classes.(starbind.Globals)
	if !ok {
		return module, errs
	}
	for _, k := range globals.GlobalConstants() {
		if _, taken := module[k.Name]; taken {
			r.log.Warn("global constant shadowed", zap.Error(errors.Duplicate(errors.PhaseBind, "", k.Name)))
			continue
		}
		module[k.Name] = starlark.MakeInt64(k.Value)
	}
	for _, name := range globals.Singletons() {
		if _, taken := module[name]; taken {
			r.log.Warn("singleton shadowed", zap.Error(errors.Duplicate(errors.PhaseBind, "", name)))
			continue
		}
		v, err := r.marshal.ToNative(variant.FromObject(globals.Singleton(name)))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		module[name] = v
	}
	return module, errs
}

func classesOf(fn string, v starlark.Value) ([]*Class, error) {
	switch x := v.(type) {
	case *Class:
		return []*Class{x}, nil
	case starlark.Tuple:
		out := make([]*Class, 0, len(x))
		for _, e := range x {
			c, ok := e.(*Class)
			if !ok {
				return nil, fmt.Errorf("%s: want class or tuple of classes, got %s", fn, e.Type())
			}
			out = append(out, c)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: want class or tuple of classes, got %s", fn, v.Type())
}

func isinstance(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var obj, classinfo starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &obj, &classinfo); err != nil {
		return nil, err
	}
	classes, err := classesOf(b.Name(), classinfo)
	if err != nil {
		return nil, err
	}
	o, ok := obj.(*Object)
	if !ok {
		return starlark.False, nil
	}
	for _, c := range classes {
		if o.class.IsSubclass(c) {
			return starlark.True, nil
		}
	}
	return starlark.False, nil
}

func issubclass(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var sub, classinfo starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &sub, &classinfo); err != nil {
		return nil, err
	}
	c, ok := sub.(*Class)
	if !ok {
		return nil, fmt.Errorf("%s: want class, got %s", b.Name(), sub.Type())
	}
	classes, err := classesOf(b.Name(), classinfo)
	if err != nil {
		return nil, err
	}
	for _, base := range classes {
		if c.IsSubclass(base) {
			return starlark.True, nil
		}
	}
	return starlark.False, nil
}

func callable(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	_, ok := v.(starlark.Callable)
	return starlark.Bool(ok), nil
}
