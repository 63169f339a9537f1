// Package binder synthesizes Starlark types for host classes.
//
// A Registry holds one Binder per host class. Building a binder walks the
// host reflection registry once: every property becomes a descriptor with
// a getter and a setter, every method a builtin, every integer constant an
// int. The resulting Class has the parent class's type as its base, so
// attribute lookup on instances falls through to inherited members.
//
//	binders, _ := binder.NewRegistry(db)
//	module, err := binders.Module()
//
//	thread := &starlark.Thread{Name: "main"}
//	binder.WithContext(thread, ctx)
//	starlark.ExecFile(thread, "main.star", src, module)
//
// # Calling Convention
//
// Host methods take the receiver as an explicit argument while scripts pass
// it implicitly. Each method builtin takes the receiver as its first
// argument; reading the method from an instance binds the receiver:
//
//	Node.get_name(n)   # unbound
//	n.get_name()       # bound
//
// # Values
//
// The Marshaler converts between starlark.Value and variant.Variant.
// Objects coming from the host are wrapped by the binder of their runtime
// class. Wrapping is not identity preserving: two conversions of one host
// object yield two Objects, which compare equal.
//
// # Errors
//
// Unknown property names raise errors.KindUnknownAttribute. Rejected
// property values and failed host calls raise errors.KindInvalidValue.
// Use errors.IsKind on the error returned by starlark to tell them apart.
package binder
