// Package variant defines the host side of the binding boundary.
//
// A Variant is a small tagged union: nil, bool, int, float, String, Vector2
// or a reference to a host object. Host objects are addressed through the
// HostObject interface, which carries the object's runtime class name. The
// binder uses that name to pick the synthesized type for the object, so a
// value typed as a base class at a call site is still wrapped with the type
// of its actual class.
//
//	v := variant.FromInt(42)
//	v.Type()   // variant.Int
//	v.Float()  // 42 (ints widen)
//
// Freed host objects report InstanceID 0; an object Variant holding one is
// treated as nil by IsNil.
package variant
