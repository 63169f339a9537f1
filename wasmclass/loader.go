package wasmclass

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/errors"
)

// HostModule is the import module name of the functions the loader
// provides to guests.
const HostModule = "starbind"

// Config holds configuration for a Loader.
type Config struct {
	// Output receives guest log messages, one per line. Messages are
	// always logged at debug level.
	Output io.Writer

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// EnableWASI instantiates wasi_snapshot_preview1 so guests built
	// against WASI can be loaded.
	EnableWASI bool

	// Logger defaults to the package logger.
	Logger *zap.Logger
}

// Def describes a class backed by a WebAssembly module.
type Def struct {
	Name   string
	Parent string
	Wasm   []byte
	// Interface optionally declares export signatures in WIT syntax, so
	// an i32 result can surface as a bool or an unsigned int.
	Interface string
	Constants []starbind.Constant
}

// Loader compiles class modules and instantiates one module per object.
type Loader struct {
	runtime wazero.Runtime
	output  io.Writer
	log     *zap.Logger
	classes map[string]wazero.CompiledModule
	mu      sync.Mutex
	outMu   sync.Mutex
	closed  bool
}

// NewLoader creates a loader with its own wazero runtime.
func NewLoader(ctx context.Context, cfg *Config) (*Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	l := &Loader{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		output:  cfg.Output,
		log:     cfg.Logger,
		classes: make(map[string]wazero.CompiledModule),
	}
	if l.log == nil {
		l.log = Logger()
	}

	if err := l.instantiateHost(ctx); err != nil {
		_ = l.runtime.Close(ctx)
		return nil, errors.Load("instantiate host module", err)
	}
	if cfg.EnableWASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, l.runtime); err != nil {
			_ = l.runtime.Close(ctx)
			return nil, errors.Load("instantiate WASI", err)
		}
	}
	return l, nil
}

func (l *Loader) instantiateHost(ctx context.Context) error {
	_, err := l.runtime.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(l.guestLog),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export("log").
		Instantiate(ctx)
	return err
}

func (l *Loader) guestLog(_ context.Context, mod api.Module, stack []uint64) {
	ptr, size := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	mem := mod.Memory()
	if mem == nil {
		l.log.Warn("guest log without memory", zap.String("module", mod.Name()))
		return
	}
	buf, ok := mem.Read(ptr, size)
	if !ok {
		l.log.Warn("guest log out of range", zap.Uint32("ptr", ptr), zap.Uint32("len", size))
		return
	}
	msg := string(buf)
	l.log.Debug("guest log", zap.String("message", msg))

	if l.output != nil {
		l.outMu.Lock()
		fmt.Fprintln(l.output, msg)
		l.outMu.Unlock()
	}
}

// Register compiles def.Wasm and adds the class it describes to db.
func (l *Loader) Register(ctx context.Context, db *classdb.DB, def Def) error {
	if def.Name == "" {
		return errors.InvalidInput(errors.PhaseLoad, "wasm class has no name")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return errors.NotInitialized(errors.PhaseLoad, "wasm loader")
	}
	if _, ok := l.classes[def.Name]; ok {
		l.mu.Unlock()
		return errors.Duplicate(errors.PhaseLoad, def.Name, "")
	}
	l.mu.Unlock()

	var iface map[string]*signature
	if def.Interface != "" {
		var err error
		if iface, err = parseInterface(def.Interface); err != nil {
			return errors.Load(fmt.Sprintf("parse %s interface", def.Name), err)
		}
	}

	compiled, err := l.runtime.CompileModule(ctx, def.Wasm)
	if err != nil {
		return errors.Load(fmt.Sprintf("compile %s", def.Name), err)
	}

	exports := bindExports(def.Name, compiled.ExportedFunctions(), iface, l.log)
	err = db.Register(classdb.ClassDef{
		Name:       def.Name,
		Parent:     def.Parent,
		New:        l.constructor(def.Name, compiled),
		Constants:  def.Constants,
		Methods:    exports.methods,
		Properties: exports.properties,
	})
	if err != nil {
		_ = compiled.Close(ctx)
		return err
	}

	l.mu.Lock()
	l.classes[def.Name] = compiled
	l.mu.Unlock()

	l.log.Debug("wasm class registered",
		zap.String("class", def.Name),
		zap.Int("methods", len(exports.methods)),
		zap.Int("properties", len(exports.properties)))
	return nil
}

func (l *Loader) constructor(class string, compiled wazero.CompiledModule) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		// Anonymous modules can be instantiated any number of times.
		cfg := wazero.NewModuleConfig().
			WithName("").
			WithStartFunctions("_initialize")
		mod, err := l.runtime.InstantiateModule(ctx, compiled, cfg)
		if err != nil {
			return nil, fmt.Errorf("instantiate %s: %w", class, err)
		}
		return &Instance{mod: mod, class: class}, nil
	}
}

// Classes returns the names of the classes registered through l, sorted.
func (l *Loader) Classes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.classes))
	for name := range l.classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close releases the runtime. Every object instance is closed with it;
// later calls on those objects fail.
func (l *Loader) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.runtime.Close(ctx)
}
