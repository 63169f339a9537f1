// Package runtime embeds the binding layer in an application.
//
// A Runtime owns a class database, the binders synthesized over it and a
// loader for WebAssembly-backed classes, and runs Starlark scripts against
// the resulting namespace.
//
// # Quick Start
//
//	ctx := context.Background()
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
//	print(n.position)
//	`)
//
// # Classes
//
// Three kinds of classes share one namespace:
//
//	RegisterClass(def)      - Go types reflected by classdb
//	LoadWasmClass(ctx, def) - one module instance per object
//	RegisterHost(h)         - a Go service published as a singleton
//
// Classes may be added between scripts; the next script sees them.
//
// # Sessions
//
// A Session keeps globals between chunks for interactive use:
//
//	s := rt.NewSession()
//	s.Run(ctx, "n = Node()")
//	v, _ := s.Run(ctx, "n.get_child_count()")   // 0
//
// # Errors
//
// Script errors are returned as the interpreter reports them. Host-side
// failures keep their kind through the interpreter's wrapping:
//
//	if errors.IsKind(err, errors.KindUnknownAttribute) { ... }
//
// # Thread Safety
//
// A Runtime runs one script at a time. Cancelling the context passed to
// ExecFile, Eval or Session.Run cancels the running script.
package runtime
