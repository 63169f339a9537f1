package binder

import (
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/errors"
)

// Config configures a binder Registry.
type Config struct {
	// Logger receives build diagnostics. Defaults to the package logger.
	Logger *zap.Logger
	// IncludeInherited asks the host registry for inherited members too,
	// copying them into every type instead of resolving them through bases.
	IncludeInherited bool
}

// DefaultConfig returns the default binder configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// Registry caches one Binder per host class name.
type Registry struct {
	classes starbind.Registry
	binders map[string]*Binder
	marshal *Marshaler
	log     *zap.Logger
	cfg     Config
	closed  bool
}

// NewRegistry creates a binder registry over classes with default config.
func NewRegistry(classes starbind.Registry) (*Registry, error) {
	return NewRegistryWithConfig(classes, nil)
}

// NewRegistryWithConfig creates a binder registry over classes.
func NewRegistryWithConfig(classes starbind.Registry, cfg *Config) (*Registry, error) {
	if classes == nil {
		return nil, errors.NotInitialized(errors.PhaseBind, "class registry")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r := &Registry{
		classes: classes,
		binders: make(map[string]*Binder),
		cfg:     *cfg,
		log:     cfg.Logger,
	}
	if r.log == nil {
		r.log = Logger()
	}
	r.marshal = &Marshaler{binders: r}
	return r, nil
}

// Classes returns the host registry the binders read from.
func (r *Registry) Classes() starbind.Registry { return r.classes }

// Marshaler returns the registry-wide value marshaler.
func (r *Registry) Marshaler() *Marshaler { return r.marshal }

// Get returns the binder for class, or nil if it has not been built.
func (r *Registry) Get(class string) *Binder {
	return r.binders[class]
}

// Build returns the binder for class, building it on first use. Build does
// not build ancestors: when the parent binder is missing the class becomes
// a root type. Use Load to build the ancestor chain first.
func (r *Registry) Build(class string) (*Binder, error) {
	if r.closed {
		return nil, errors.NotInitialized(errors.PhaseBind, "binder registry")
	}
	if b, ok := r.binders[class]; ok {
		return b, nil
	}
	if !r.classes.ClassExists(class) {
		return nil, errors.NotFound(errors.PhaseBind, "class", class)
	}

	b := newBinder(r, class)
	r.binders[class] = b
	r.log.Debug("binder built",
		zap.String("class", class),
		zap.Int("members", len(b.members)))
	return b, nil
}

// Load returns the binder for class after building its ancestors, root first.
func (r *Registry) Load(class string) (*Binder, error) {
	if b, ok := r.binders[class]; ok {
		return b, nil
	}

	var chain []string
	seen := make(map[string]bool)
	for c := class; c != "" && r.binders[c] == nil; c = r.classes.ParentClass(c) {
		if seen[c] {
			return nil, errors.New(errors.PhaseBind, errors.KindBuildOrder).
				Class(class).
				Detail("inheritance cycle through %s", c).
				Build()
		}
		seen[c] = true
		chain = append(chain, c)
	}

	var b *Binder
	for i := len(chain) - 1; i >= 0; i-- {
		var err error
		if b, err = r.Build(chain[i]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadAll builds a binder for every class the host registry lists.
func (r *Registry) LoadAll() error {
	var errs error
	for _, class := range r.classes.ClassList() {
		if _, err := r.Load(class); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Names returns the names of the built binders in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.binders))
	for name := range r.binders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close tears down every binder. Later calls do nothing.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	for _, b := range r.binders {
		b.close()
	}
	return nil
}
