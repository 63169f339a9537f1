// Package wasmclass defines host classes whose behavior lives in a
// WebAssembly module.
//
// A Loader compiles a core module once per class. Every object of the
// class gets its own module instance, so guest globals and memory are
// per-object state. Freeing the object closes its instance.
//
// Exported functions become methods. Numeric types map onto variants:
//
//	i32, i64  int
//	f32, f64  float
//
// An export get_x with no parameters and one result also defines the
// property x. When a matching set_x export takes one value of the same
// type the property is writable; otherwise it is read-only. Exports whose
// names start with an underscore, or whose signatures use other value
// types or several results, are not bound.
//
// Guest code may import starbind.log(ptr, len i32) to emit a UTF-8
// message from its exported memory.
//
//	loader, _ := wasmclass.NewLoader(ctx, nil)
//	defer loader.Close(ctx)
//	err := loader.Register(ctx, db, wasmclass.Def{
//		Name:   "Counter",
//		Parent: "Object",
//		Wasm:   counterWasm,
//	})
package wasmclass
