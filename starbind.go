package starbind

import (
	"context"

	"github.com/wippyai/starbind/variant"
)

// PropertyInfo describes a reflected property.
type PropertyInfo struct {
	Name string
	Type variant.Type
}

// MethodInfo describes a reflected method.
type MethodInfo struct {
	Name       string
	ArgTypes   []variant.Type
	ReturnType variant.Type
}

// ArgumentCount returns the number of declared arguments, not counting the receiver.
func (m MethodInfo) ArgumentCount() int {
	return len(m.ArgTypes)
}

// Constant is a named integer constant.
type Constant struct {
	Name  string
	Value int64
}

// MethodBind is the invocable descriptor of one host method.
type MethodBind interface {
	Name() string
	// Class returns the class that declares the method.
	Class() string
	ArgumentCount() int
	// Call invokes the method on receiver. Failures are reported as *variant.CallError.
	Call(ctx context.Context, receiver variant.HostObject, args []variant.Variant) (variant.Variant, error)
}

// Registry is the host reflection registry the binder consumes.
type Registry interface {
	ClassExists(class string) bool
	// ClassList returns every registered class name, parents before children.
	ClassList() []string
	// ParentClass returns "" for root classes.
	ParentClass(class string) string
	PropertyList(class string, includeInherited bool) []PropertyInfo
	MethodList(class string, includeInherited bool) []MethodInfo
	IntegerConstantList(class string, includeInherited bool) []string
	IntegerConstant(class, name string) (int64, bool)
	// Method returns nil when the class has no invocable bind for name.
	Method(class, name string) MethodBind
	Instantiate(ctx context.Context, class string) (variant.HostObject, error)
	GetProperty(ctx context.Context, obj variant.HostObject, name string) (variant.Variant, bool)
	SetProperty(ctx context.Context, obj variant.HostObject, name string, value variant.Variant) (found, valid bool)
}

// Globals is optionally implemented by registries that expose global
// integer constants and singleton objects.
type Globals interface {
	GlobalConstants() []Constant
	Singletons() []string
	Singleton(name string) variant.HostObject
}
