// Package starbind exposes a host application's reflectable object model to
// Starlark scripts.
//
// Host classes (methods, properties, integer constants, single inheritance)
// are described by a reflection registry. For every class the binder
// synthesizes a Starlark-visible type at runtime: wrapper callables for each
// method, property descriptors for each property, constants as ints, and a
// base-type chain that mirrors the host hierarchy. No script source is
// written per class.
//
// # Architecture Overview
//
//	starbind/            Root package with the Registry and MethodBind contracts
//	├── binder/          Dynamic binder, wrappers, marshaler, bound objects
//	├── classdb/         Reference reflection registry for Go types
//	├── objectdb/        Host object database (instance IDs, free, observers)
//	├── variant/         Host-side tagged union and call errors
//	├── wasmclass/       Host classes backed by WebAssembly modules
//	├── scene/           Demo class library (Node, Node2D, LineEdit, ...)
//	├── runtime/         Embedding layer: registry + binders + script execution
//	├── errors/          Structured error types
//	└── cmd/run/         CLI: run scripts, list classes, interactive browser
//
// # Quick Start
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	if err := scene.Register(ctx, rt.Classes()); err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = rt.ExecFile(ctx, "main.star", `
//	n = Node2D()
//	n.position = (3, 4)
//	print(n.get_parent(), n.position)
//	`)
//
// # Host Classes
//
// Register Go struct types; exported methods become snake_case methods and
// fields tagged `prop:"name"` become properties:
//
//	db.Register(classdb.ClassDef{
//	    Name:      "LineEdit",
//	    Parent:    "Node",
//	    Prototype: (*LineEdit)(nil),
//	})
//
// # Thread Safety
//
// A Runtime and its binders are used from one goroutine, the one executing
// scripts. The class and object databases are internally locked so host code
// on other goroutines may create or free objects.
package starbind
