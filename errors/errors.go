package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBind      Phase = "bind"      // binder construction
	PhaseRegistry  Phase = "registry"  // class registration
	PhaseConstruct Phase = "construct" // script-side instantiation
	PhaseCall      Phase = "call"      // method invocation
	PhaseProperty  Phase = "property"  // property get/set
	PhaseMarshal   Phase = "marshal"   // value conversion
	PhaseLoad      Phase = "load"      // module/class loading
	PhaseExec      Phase = "exec"      // script execution
)

// Kind categorizes the error
type Kind string

const (
	KindLookupMiss       Kind = "lookup_miss"
	KindUnknownAttribute Kind = "unknown_attribute"
	KindInvalidValue     Kind = "invalid_value"
	KindBuildOrder       Kind = "build_order"
	KindTrampoline       Kind = "trampoline"
	KindArity            Kind = "arity"
	KindTypeMismatch     Kind = "type_mismatch"
	KindUnsupported      Kind = "unsupported"
	KindNotFound         Kind = "not_found"
	KindNotInitialized   Kind = "not_initialized"
	KindInvalidInput     Kind = "invalid_input"
	KindRegistration     Kind = "registration"
	KindInstantiation    Kind = "instantiation"
	KindDuplicate        Kind = "duplicate"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string
	Member string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" || e.Member != "" {
		b.WriteString(" at ")
		b.WriteString(e.Class)
		if e.Member != "" {
			if e.Class != "" {
				b.WriteByte('.')
			}
			b.WriteString(e.Member)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the host class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Member sets the member (method, property or constant) name
func (b *Builder) Member(name string) *Builder {
	b.err.Member = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownAttribute creates the attribute-style error raised when a name is
// not recognized on the receiver's class.
func UnknownAttribute(phase Phase, class, attr string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownAttribute,
		Class:  class,
		Member: attr,
		Detail: fmt.Sprintf("'%s' has no attribute '%s'", class, attr),
	}
}

// ReadOnlyAttribute creates an unknown-attribute error for assignments to
// members that are not properties.
func ReadOnlyAttribute(class, attr string) *Error {
	return &Error{
		Phase:  PhaseProperty,
		Kind:   KindUnknownAttribute,
		Class:  class,
		Member: attr,
		Detail: fmt.Sprintf("'%s' attribute '%s' is read-only", class, attr),
	}
}

// InvalidValue creates a generic runtime error for rejected values.
func InvalidValue(phase Phase, class, member, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidValue,
		Class:  class,
		Member: member,
		Detail: detail,
	}
}

// CallFailed creates the runtime error raised when a host method call reports an error.
func CallFailed(class, method string, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindInvalidValue,
		Class:  class,
		Member: method,
		Detail: fmt.Sprintf("call to %s.%s failed", class, method),
		Cause:  cause,
	}
}

// Arity creates an argument count error
func Arity(name string, want, got int) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindArity,
		Member: name,
		Detail: fmt.Sprintf("%s() takes exactly %d arguments (%d given)", name, want, got),
		Value:  got,
	}
}

// LookupMiss creates the diagnostic for a registry member that could not be bound.
func LookupMiss(class, member string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindLookupMiss,
		Class:  class,
		Member: member,
		Detail: "no method bind",
	}
}

// BuildOrder creates the diagnostic for a parent binder that does not exist yet.
func BuildOrder(class, parent string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindBuildOrder,
		Class:  class,
		Detail: fmt.Sprintf("cannot retrieve `%s`'s parent `%s`", class, parent),
	}
}

// TrampolineFailed creates the diagnostic for a wrapper that could not be built.
func TrampolineFailed(name string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindTrampoline,
		Member: name,
		Detail: "native callback is nil",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, class, member, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Class:  class,
		Member: member,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(phase Phase, class, member string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Class:  class,
		Member: member,
		Detail: "already registered",
	}
}

// Registration creates a registration error
func Registration(phase Phase, class, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Class:  class,
		Member: name,
		Detail: fmt.Sprintf("register %s.%s", class, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(class string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindInstantiation,
		Class:  class,
		Detail: fmt.Sprintf("instantiate %s", class),
		Cause:  cause,
	}
}

// Load creates a loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}
