package runtime

import (
	"context"
	"io"
	"os"

	"go.starlark.net/starlark"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/starbind/binder"
	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/errors"
	"github.com/wippyai/starbind/wasmclass"
)

// Config holds configuration for a Runtime.
type Config struct {
	// Stdout receives script print output and guest log lines.
	// Defaults to os.Stdout.
	Stdout io.Writer

	// Logger is installed into the classdb, wasmclass and binder packages.
	// Nil keeps their current loggers.
	Logger *zap.Logger

	// IncludeInherited copies inherited members into every synthesized
	// type instead of resolving them through base types.
	IncludeInherited bool

	// MemoryLimitPages caps the memory of each wasm object (64KB pages).
	MemoryLimitPages uint32

	// EnableWASI lets wasm classes import wasi_snapshot_preview1.
	EnableWASI bool
}

// DefaultConfig returns the default runtime configuration.
func DefaultConfig() *Config {
	return &Config{Stdout: os.Stdout}
}

// Runtime owns a class database, the binders synthesized over it and the
// loader for wasm-backed classes. A Runtime runs scripts on one goroutine
// at a time.
type Runtime struct {
	classes *classdb.DB
	wasm    *wasmclass.Loader
	binders *binder.Registry
	stdout  io.Writer
	log     *zap.Logger
	closed  bool
}

// New creates a runtime with the default configuration.
func New(ctx context.Context) (*Runtime, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a runtime.
func NewWithConfig(ctx context.Context, cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	log := cfg.Logger
	if log != nil {
		classdb.SetLogger(log)
		wasmclass.SetLogger(log)
		binder.SetLogger(log)
	} else {
		log = binder.Logger()
	}

	r := &Runtime{
		classes: classdb.New(),
		stdout:  stdout,
		log:     log,
	}

	var err error
	r.wasm, err = wasmclass.NewLoader(ctx, &wasmclass.Config{
		Output:           stdout,
		MemoryLimitPages: cfg.MemoryLimitPages,
		EnableWASI:       cfg.EnableWASI,
		Logger:           log,
	})
	if err != nil {
		return nil, err
	}

	r.binders, err = binder.NewRegistryWithConfig(r.classes, &binder.Config{
		Logger:           log,
		IncludeInherited: cfg.IncludeInherited,
	})
	if err != nil {
		_ = r.wasm.Close(ctx)
		return nil, err
	}
	return r, nil
}

// Classes returns the class database scripts see.
func (r *Runtime) Classes() *classdb.DB { return r.classes }

// Binders returns the binder registry.
func (r *Runtime) Binders() *binder.Registry { return r.binders }

// RegisterClass adds a Go class.
func (r *Runtime) RegisterClass(def classdb.ClassDef) error {
	if r.closed {
		return errors.NotInitialized(errors.PhaseRegistry, "runtime")
	}
	return r.classes.Register(def)
}

// LoadWasmClass compiles a wasm-backed class and registers it.
func (r *Runtime) LoadWasmClass(ctx context.Context, def wasmclass.Def) error {
	if r.closed {
		return errors.NotInitialized(errors.PhaseLoad, "runtime")
	}
	return r.wasm.Register(ctx, r.classes, def)
}

// WasmClasses returns the names of the loaded wasm classes.
func (r *Runtime) WasmClasses() []string {
	return r.wasm.Classes()
}

// Module returns the predeclared namespace of scripts: one type per
// class plus global constants and singletons. Classes that failed to
// build are logged and left out.
func (r *Runtime) Module() (starlark.StringDict, error) {
	if r.closed {
		return nil, errors.NotInitialized(errors.PhaseExec, "runtime")
	}
	module, err := r.binders.Module()
	for _, e := range multierr.Errors(err) {
		r.log.Warn("class left out of module", zap.Error(e))
	}
	return module, nil
}

// Close frees every live object and releases the wasm runtime. Later
// calls do nothing.
func (r *Runtime) Close(ctx context.Context) error {
	if r.closed {
		return nil
	}
	r.closed = true
	return multierr.Combine(
		r.binders.Close(),
		r.classes.Close(),
		r.wasm.Close(ctx),
	)
}
