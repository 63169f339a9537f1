package binder

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/errors"
)

// wrapMethod builds the script callable for one method of the binder's
// class, or returns nil when the class has no usable bind for it.
//
// The native callable takes ArgumentCount()+2 slots: the method bind,
// the receiver, then the method's own arguments.
func (b *Binder) wrapMethod(name string) *starlark.Builtin {
	if strings.HasPrefix(name, "_") {
		b.log.Debug("bad binding", zap.Error(errors.LookupMiss(b.typeName, name)))
		return nil
	}
	mb := b.registry.Method(b.typeName, name)
	if mb == nil {
		b.log.Debug("bad binding", zap.Error(errors.LookupMiss(b.typeName, name)))
		return nil
	}

	native := &nativeFunc{
		name:  b.typeName + "." + name,
		arity: mb.ArgumentCount() + 2,
		fn:    b.callMethod,
	}
	return makeTrampoline(b.log, native, mb)
}

func (b *Binder) callMethod(thread *starlark.Thread, data any, args starlark.Tuple) (starlark.Value, error) {
	mb := data.(starbind.MethodBind)

	recv, ok := args[0].(*Object)
	if !ok {
		return nil, errors.InvalidValue(errors.PhaseCall, b.typeName, mb.Name(),
			fmt.Sprintf("receiver must be a bound object, got %s", args[0].Type()))
	}

	m := b.binders.marshal
	hostArgs, release := m.acquire(args[1:])
	defer release()

	result, err := mb.Call(contextOf(thread), recv.host, hostArgs)
	if err != nil {
		return nil, errors.CallFailed(mb.Class(), mb.Name(), err)
	}
	return m.ToNative(result)
}
