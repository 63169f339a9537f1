package binder

import (
	"context"

	"go.starlark.net/starlark"
)

const contextKey = "starbind.context"

// WithContext attaches ctx to thread. Host calls made by scripts running on
// thread receive ctx.
func WithContext(thread *starlark.Thread, ctx context.Context) {
	thread.SetLocal(contextKey, ctx)
}

func contextOf(thread *starlark.Thread) context.Context {
	if thread != nil {
		if ctx, ok := thread.Local(contextKey).(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return context.Background()
}
