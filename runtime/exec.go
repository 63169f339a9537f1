package runtime

import (
	"context"
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/wippyai/starbind/binder"
)

// FileOptions are the dialect options scripts are compiled with.
var FileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// ExecFile runs a script and returns its globals. src may be a string,
// []byte, io.Reader or nil to read filename. Errors raised by host calls
// keep their kind through the interpreter's wrapping: use errors.KindOf.
func (r *Runtime) ExecFile(ctx context.Context, filename string, src any) (starlark.StringDict, error) {
	module, err := r.Module()
	if err != nil {
		return nil, err
	}
	thread, done := r.newThread(ctx, filename)
	defer done()
	return starlark.ExecFileOptions(FileOptions, thread, filename, src, module)
}

// Eval evaluates a single expression.
func (r *Runtime) Eval(ctx context.Context, expr string) (starlark.Value, error) {
	module, err := r.Module()
	if err != nil {
		return nil, err
	}
	thread, done := r.newThread(ctx, "<expr>")
	defer done()
	return starlark.EvalOptions(FileOptions, thread, "<expr>", expr, module)
}

// newThread returns a thread that prints to the runtime's stdout, passes
// ctx to host calls and is cancelled with ctx. Call done when the thread
// is finished.
func (r *Runtime) newThread(ctx context.Context, name string) (*starlark.Thread, func()) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(r.stdout, msg)
		},
	}
	binder.WithContext(thread, ctx)

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-stop:
		}
	}()
	return thread, func() { close(stop) }
}
