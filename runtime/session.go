package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Session runs a sequence of chunks that share globals, as a REPL does.
// A Session is not safe for concurrent use.
type Session struct {
	rt      *Runtime
	globals starlark.StringDict
	chunks  int
}

// NewSession starts a session with empty globals.
func (r *Runtime) NewSession() *Session {
	return &Session{rt: r, globals: starlark.StringDict{}}
}

// Globals returns the names defined so far.
func (s *Session) Globals() starlark.StringDict { return s.globals }

// Run evaluates src as an expression, or executes it as statements when
// it does not parse as one. It returns the expression's value, or None.
func (s *Session) Run(ctx context.Context, src string) (starlark.Value, error) {
	module, err := s.rt.Module()
	if err != nil {
		return nil, err
	}
	env := make(starlark.StringDict, len(module)+len(s.globals))
	maps.Copy(env, module)
	maps.Copy(env, s.globals)

	s.chunks++
	name := fmt.Sprintf("<chunk %d>", s.chunks)
	thread, done := s.rt.newThread(ctx, name)
	defer done()

	v, err := starlark.EvalOptions(FileOptions, thread, name, src, env)
	var synErr syntax.Error
	if err == nil || !stderrors.As(err, &synErr) {
		return v, err
	}

	globals, err := starlark.ExecFileOptions(FileOptions, thread, name, src, env)
	if err != nil {
		return nil, err
	}
	maps.Copy(s.globals, globals)
	return starlark.None, nil
}
