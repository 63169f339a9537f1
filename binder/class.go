package binder

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"

	"github.com/wippyai/starbind/errors"
)

// Class is the synthesized script type of a host class. Calling it
// instantiates a new host object.
type Class struct {
	base    *Class
	members starlark.StringDict
	binder  *Binder
	name    string
}

var (
	_ starlark.Callable = (*Class)(nil)
	_ starlark.HasAttrs = (*Class)(nil)
)

func (c *Class) String() string        { return fmt.Sprintf("<class '%s'>", c.name) }
func (c *Class) Type() string          { return "type" }
func (c *Class) Freeze()               {}
func (c *Class) Truth() starlark.Bool  { return starlark.True }
func (c *Class) Hash() (uint32, error) { return starlark.String(c.name).Hash() }
func (c *Class) Name() string          { return c.name }

// Base returns the parent type, or nil for a root type.
func (c *Class) Base() *Class { return c.base }

// Binder returns the binder that synthesized the type.
func (c *Class) Binder() *Binder { return c.binder }

// CallInternal is the construction hook. Constructor arguments are not
// forwarded to the host and are rejected.
func (c *Class) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 0 || len(kwargs) > 0 {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Class(c.name).
			Detail("%s() takes no arguments", c.name).
			Build()
	}

	host, err := c.binder.registry.Instantiate(contextOf(thread), c.name)
	if err != nil {
		return nil, errors.Instantiation(c.name, err)
	}
	if host == nil {
		return nil, errors.Instantiation(c.name, fmt.Errorf("registry returned no object"))
	}
	return c.binder.BuildObject(host), nil
}

// lookup finds a member on the type or its bases.
func (c *Class) lookup(name string) starlark.Value {
	for t := c; t != nil; t = t.base {
		if v, ok := t.members[name]; ok {
			return v
		}
	}
	return nil
}

func (c *Class) Attr(name string) (starlark.Value, error) {
	return c.lookup(name), nil
}

func (c *Class) AttrNames() []string {
	seen := make(map[string]bool)
	var names []string
	for t := c; t != nil; t = t.base {
		for name := range t.members {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names
}

// IsSubclass reports whether c is other or derives from it.
func (c *Class) IsSubclass(other *Class) bool {
	for t := c; t != nil; t = t.base {
		if t == other {
			return true
		}
	}
	return false
}
