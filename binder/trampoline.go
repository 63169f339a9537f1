package binder

import (
	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/wippyai/starbind/errors"
)

// nativeFunc is a fixed-arity native callback. The first of its arity
// slots receives the data captured by the trampoline; the remaining slots
// are filled from the call's positional arguments.
type nativeFunc struct {
	fn    func(thread *starlark.Thread, data any, args starlark.Tuple) (starlark.Value, error)
	name  string
	arity int
}

// makeTrampoline returns a builtin that calls native.fn with data and the
// call's arguments. A builtin bound to a receiver passes the receiver as
// the first argument. It returns nil when native cannot be called.
func makeTrampoline(log *zap.Logger, native *nativeFunc, data any) *starlark.Builtin {
	if native == nil || native.fn == nil || native.arity < 1 {
		name := ""
		if native != nil {
			name = native.name
		}
		log.Error("cannot build trampoline", zap.Error(errors.TrampolineFailed(name)))
		return nil
	}

	want := native.arity - 1
	return starlark.NewBuiltin(native.name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, errors.InvalidInput(errors.PhaseCall, native.name+"() does not accept keyword arguments")
		}

		bound := 0
		if recv := b.Receiver(); recv != nil {
			bound = 1
			full := make(starlark.Tuple, 0, len(args)+1)
			args = append(append(full, recv), args...)
		}
		if len(args) != want {
			return nil, errors.Arity(native.name, want-bound, len(args)-bound)
		}
		return native.fn(thread, data, args)
	})
}
