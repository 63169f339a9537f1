// Package scene is a small host class library used by the CLI, the
// examples and the binding tests.
//
// It mirrors a typical game-engine object model: Object at the root, a
// Node tree with Node2D, Viewport, LineEdit and EditorPlugin, a MainLoop
// with its SceneTree, and an Engine singleton whose get_main_loop returns
// the running SceneTree. Node methods that return nodes return the outer
// object, so scripts always see the dynamic class of a node.
package scene
