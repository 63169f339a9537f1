package wasmclass

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/starbind/scene"
	"github.com/wippyai/starbind/variant"
)

// Instance is the host value of a wasm-backed object: a module instance
// owned by exactly one object.
type Instance struct {
	scene.Object
	mod    api.Module
	class  string
	mu     sync.Mutex
	closed bool
}

// Module returns the object's module instance.
func (o *Instance) Module() api.Module { return o.mod }

func (o *Instance) call(ctx context.Context, e *export, args []variant.Variant) (variant.Variant, error) {
	if len(args) != len(e.params) {
		return variant.NewNil(), fmt.Errorf("%s.%s takes %d arguments, got %d", o.class, e.name, len(e.params), len(args))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return variant.NewNil(), fmt.Errorf("%s instance is closed", o.class)
	}
	fn := o.mod.ExportedFunction(e.name)
	if fn == nil {
		return variant.NewNil(), fmt.Errorf("%s does not export %q", o.class, e.name)
	}

	stack := make([]uint64, max(len(e.params), len(e.results)))
	for i, p := range e.params {
		raw, err := p.encode(args[i])
		if err != nil {
			return variant.NewNil(), fmt.Errorf("argument %d: %w", i+1, err)
		}
		stack[i] = raw
	}
	if err := fn.CallWithStack(ctx, stack); err != nil {
		return variant.NewNil(), err
	}
	if len(e.results) == 0 {
		return variant.NewNil(), nil
	}
	return e.results[0].decode(stack[0]), nil
}

// Drop closes the module instance when the object is freed.
func (o *Instance) Drop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	_ = o.mod.Close(context.Background())
}
