package classdb

import (
	"context"
	"fmt"
	"reflect"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/variant"
)

// MethodFunc implements a native method. Argument count and types are
// validated before it runs.
type MethodFunc func(ctx context.Context, inst *Instance, args []variant.Variant) (variant.Variant, error)

// Method is a method bind registered on a class.
type Method struct {
	fn       MethodFunc
	name     string
	class    string
	argTypes []variant.Type
	ret      variant.Type
}

var _ starbind.MethodBind = (*Method)(nil)

// NewMethod creates an explicit method bind.
func NewMethod(name string, argTypes []variant.Type, ret variant.Type, fn MethodFunc) *Method {
	return &Method{
		name:     name,
		argTypes: argTypes,
		ret:      ret,
		fn:       fn,
	}
}

func (m *Method) Name() string { return m.name }

func (m *Method) Class() string { return m.class }

func (m *Method) ArgumentCount() int { return len(m.argTypes) }

// Info returns the descriptor listed by the registry.
func (m *Method) Info() starbind.MethodInfo {
	return starbind.MethodInfo{
		Name:       m.name,
		ArgTypes:   append([]variant.Type(nil), m.argTypes...),
		ReturnType: m.ret,
	}
}

func (m *Method) qualified() string {
	return m.class + "." + m.name
}

// Call validates the receiver and arguments and invokes the method.
// Every failure is reported as a *variant.CallError.
func (m *Method) Call(ctx context.Context, receiver variant.HostObject, args []variant.Variant) (result variant.Variant, err error) {
	if receiver == nil || receiver.InstanceID() == 0 {
		return variant.NewNil(), &variant.CallError{Kind: variant.CallInstanceIsNull, Method: m.qualified()}
	}
	inst, ok := receiver.(*Instance)
	if !ok || !inst.db.Inherits(inst.class, m.class) {
		return variant.NewNil(), &variant.CallError{
			Kind:   variant.CallInvalidMethod,
			Method: m.qualified(),
			Cause:  fmt.Errorf("wrong receiver type %s", receiver.ClassName()),
		}
	}

	switch {
	case len(args) > len(m.argTypes):
		return variant.NewNil(), &variant.CallError{Kind: variant.CallTooManyArguments, Method: m.qualified(), Argument: len(m.argTypes)}
	case len(args) < len(m.argTypes):
		return variant.NewNil(), &variant.CallError{Kind: variant.CallTooFewArguments, Method: m.qualified(), Argument: len(m.argTypes)}
	}
	for i, want := range m.argTypes {
		if !accepts(want, args[i]) {
			return variant.NewNil(), &variant.CallError{
				Kind:     variant.CallInvalidArgument,
				Method:   m.qualified(),
				Argument: i,
				Expected: want,
			}
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if r := recover(); r != nil {
			result = variant.NewNil()
			err = &variant.CallError{Kind: variant.CallFailed, Method: m.qualified(), Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err = m.fn(ctx, inst, args)
	if err != nil {
		if ce, ok := err.(*variant.CallError); ok {
			if ce.Method == "" {
				ce.Method = m.qualified()
			}
			return variant.NewNil(), ce
		}
		return variant.NewNil(), &variant.CallError{Kind: variant.CallFailed, Method: m.qualified(), Cause: err}
	}
	return result, nil
}

// reflectMethod builds a method bind that calls goName on the receiver's
// Go value. Signatures the boundary cannot express are rejected.
//
// Accepted shapes: an optional leading context.Context, parameters of
// supported kinds, and results of () / (T) / (error) / (T, error).
func reflectMethod(name, goName string, ft reflect.Type) (*Method, bool) {
	if ft.IsVariadic() {
		return nil, false
	}

	// In(0) is the receiver.
	first := 1
	wantsCtx := ft.NumIn() > 1 && ft.In(1) == contextType
	if wantsCtx {
		first = 2
	}

	var params []reflect.Type
	var argTypes []variant.Type
	for i := first; i < ft.NumIn(); i++ {
		vt, ok := variantTypeOf(ft.In(i))
		if !ok || ft.In(i) == contextType {
			return nil, false
		}
		params = append(params, ft.In(i))
		argTypes = append(argTypes, vt)
	}

	ret := variant.Nil
	hasValue, hasErr := false, false
	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			hasErr = true
		} else {
			vt, ok := variantTypeOf(ft.Out(0))
			if !ok {
				return nil, false
			}
			ret, hasValue = vt, true
		}
	case 2:
		vt, ok := variantTypeOf(ft.Out(0))
		if !ok || ft.Out(1) != errorType {
			return nil, false
		}
		ret, hasValue, hasErr = vt, true, true
	default:
		return nil, false
	}

	fn := func(ctx context.Context, inst *Instance, args []variant.Variant) (variant.Variant, error) {
		if !inst.rv.IsValid() {
			return variant.NewNil(), &variant.CallError{Kind: variant.CallInvalidMethod}
		}
		method := inst.rv.MethodByName(goName)
		if !method.IsValid() {
			return variant.NewNil(), &variant.CallError{Kind: variant.CallInvalidMethod}
		}

		in := make([]reflect.Value, 0, len(params)+1)
		if wantsCtx {
			in = append(in, reflect.ValueOf(ctx))
		}
		for i, a := range args {
			v, ok := toGo(a, params[i])
			if !ok {
				return variant.NewNil(), &variant.CallError{
					Kind:     variant.CallInvalidArgument,
					Argument: i,
					Expected: argTypes[i],
				}
			}
			in = append(in, v)
		}

		out := method.Call(in)
		if hasErr {
			if errv := out[len(out)-1]; !errv.IsNil() {
				return variant.NewNil(), errv.Interface().(error)
			}
		}
		if !hasValue {
			return variant.NewNil(), nil
		}
		return inst.db.fromGo(out[0])
	}

	return &Method{
		name:     name,
		argTypes: argTypes,
		ret:      ret,
		fn:       fn,
	}, true
}
