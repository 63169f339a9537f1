package scene

import (
	"context"
	"slices"
	"testing"

	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/errors"
	"github.com/wippyai/starbind/variant"
)

func newDB(t *testing.T) *classdb.DB {
	t.Helper()
	db := classdb.New()
	t.Cleanup(func() { db.Close() })
	if err := Register(context.Background(), db); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return db
}

func call(t *testing.T, db *classdb.DB, obj variant.HostObject, method string, args ...variant.Variant) variant.Variant {
	t.Helper()
	m := db.Method(obj.ClassName(), method)
	if m == nil {
		t.Fatalf("%s has no method %q", obj.ClassName(), method)
	}
	v, err := m.Call(context.Background(), obj, args)
	if err != nil {
		t.Fatalf("%s.%s: %v", obj.ClassName(), method, err)
	}
	return v
}

func TestRegister(t *testing.T) {
	db := newDB(t)

	want := []string{"Object", "Node", "Node2D", "Viewport", "LineEdit", "EditorPlugin", "MainLoop", "SceneTree", "_Engine"}
	if got := db.ClassList(); !slices.Equal(got, want) {
		t.Errorf("ClassList = %v", got)
	}
	for _, tt := range []struct{ class, base string }{
		{"Viewport", "Node"},
		{"Viewport", "Object"},
		{"SceneTree", "MainLoop"},
		{"_Engine", "Object"},
	} {
		if !db.Inherits(tt.class, tt.base) {
			t.Errorf("%s should inherit %s", tt.class, tt.base)
		}
	}
	if v, ok := db.IntegerConstant("EditorPlugin", "CONTAINER_TOOLBAR"); !ok || v != ContainerToolbar {
		t.Errorf("CONTAINER_TOOLBAR = %d, %v", v, ok)
	}
	if got := db.GlobalConstants(); len(got) != 3 || got[2].Value != KeyEscape {
		t.Errorf("GlobalConstants = %v", got)
	}
	if err := Register(context.Background(), db); errors.KindOf(err) != errors.KindDuplicate {
		t.Errorf("second Register kind = %q", errors.KindOf(err))
	}
}

func TestNodeTree(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	parent, err := db.New(ctx, "Node")
	if err != nil {
		t.Fatalf("New(Node): %v", err)
	}
	child, err := db.New(ctx, "Node2D")
	if err != nil {
		t.Fatalf("New(Node2D): %v", err)
	}

	call(t, db, parent, "add_child", variant.FromObject(child))
	if n := call(t, db, parent, "get_child_count"); n.Int() != 1 {
		t.Errorf("get_child_count = %v", n)
	}

	got := call(t, db, child, "get_parent")
	if !variant.SameObject(got.Object(), parent) {
		t.Errorf("get_parent = %v, want %v", got, parent)
	}
	first := call(t, db, parent, "get_child", variant.FromInt(0))
	if first.Object().ClassName() != "Node2D" {
		t.Errorf("get_child class = %s, want Node2D", first.Object().ClassName())
	}

	_, err = db.Method("Node", "add_child").Call(ctx, parent, []variant.Variant{variant.FromObject(child)})
	if err == nil {
		t.Error("adding a child twice should fail")
	}

	if err := db.Free(child); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if n := call(t, db, parent, "get_child_count"); n.Int() != 0 {
		t.Errorf("freed child still attached: %v", n)
	}
}

func TestNode2D(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	n, _ := db.New(ctx, "Node2D")

	pos, found := db.GetProperty(ctx, n, "position")
	if !found || pos.Vec2() != (variant.Vec2{}) {
		t.Errorf("position = %v, %v", pos, found)
	}
	call(t, db, n, "translate", variant.FromVec2(variant.Vec2{X: 1, Y: 2}))
	call(t, db, n, "translate", variant.FromVec2(variant.Vec2{X: 1, Y: 2}))
	pos, _ = db.GetProperty(ctx, n, "position")
	if pos.Vec2() != (variant.Vec2{X: 2, Y: 4}) {
		t.Errorf("position after translate = %v", pos)
	}
	if name, found := db.GetProperty(ctx, n, "name"); !found || name.Str() != "" {
		t.Errorf("inherited name = %v, %v", name, found)
	}
}

func TestLineEdit(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	e, _ := db.New(ctx, "LineEdit")

	if v := call(t, db, e, "is_secret"); v.Type() != variant.Bool || v.Bool() {
		t.Errorf("is_secret = %v", v)
	}
	call(t, db, e, "set_secret", variant.FromBool(true))
	if v := call(t, db, e, "is_secret"); !v.Bool() {
		t.Error("set_secret did not stick")
	}

	if v, _ := db.GetProperty(ctx, e, "max_length"); v.Type() != variant.Int || v.Int() != 0 {
		t.Errorf("max_length = %v", v)
	}
	if found, valid := db.SetProperty(ctx, e, "max_length", variant.FromInt(42)); !found || !valid {
		t.Errorf("SetProperty(42) = %v, %v", found, valid)
	}
	if found, valid := db.SetProperty(ctx, e, "max_length", variant.FromInt(-1)); !found || valid {
		t.Errorf("SetProperty(-1) = %v, %v", found, valid)
	}
	if v, _ := db.GetProperty(ctx, e, "max_length"); v.Int() != 42 {
		t.Errorf("max_length = %v, want 42", v)
	}

	db.SetProperty(ctx, e, "max_length", variant.FromInt(3))
	db.SetProperty(ctx, e, "text", variant.FromString("hello"))
	if v, _ := db.GetProperty(ctx, e, "text"); v.Str() != "hel" {
		t.Errorf("text = %q, want truncated", v.Str())
	}
}

func TestEngineSingleton(t *testing.T) {
	db := newDB(t)

	engine := db.Singleton("Engine")
	if engine == nil || engine.ClassName() != "_Engine" {
		t.Fatalf("Engine = %v", engine)
	}

	ml := call(t, db, engine, "get_main_loop")
	if ml.Object().ClassName() != "SceneTree" {
		t.Errorf("main loop class = %s, want SceneTree", ml.Object().ClassName())
	}
	again := call(t, db, engine, "get_main_loop")
	if !variant.SameObject(ml.Object(), again.Object()) {
		t.Error("main loop should keep its identity")
	}

	root := call(t, db, ml.Object(), "get_root")
	if root.Object().ClassName() != "Viewport" {
		t.Errorf("root class = %s", root.Object().ClassName())
	}
	if v := call(t, db, ml.Object(), "get_node_count"); v.Int() != 1 {
		t.Errorf("get_node_count = %v", v)
	}
	if v := call(t, db, ml.Object(), "iteration", variant.FromFloat(0.016)); v.Bool() {
		t.Error("iteration should not quit")
	}
	call(t, db, ml.Object(), "quit")
	if v := call(t, db, ml.Object(), "iteration", variant.FromInt(0)); !v.Bool() {
		t.Error("iteration should report quit")
	}
	if v := call(t, db, ml.Object(), "get_frames"); v.Int() != 2 {
		t.Errorf("get_frames = %v", v)
	}
}

func TestObjectNatives(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	n, _ := db.New(ctx, "Viewport")

	if v := call(t, db, n, "get_class"); v.Str() != "Viewport" {
		t.Errorf("get_class = %v", v)
	}
	if v := call(t, db, n, "is_class", variant.FromString("Node")); !v.Bool() {
		t.Error("Viewport is a Node")
	}
	if v := call(t, db, n, "is_class", variant.FromString("Node2D")); v.Bool() {
		t.Error("Viewport is not a Node2D")
	}
	if v := call(t, db, n, "get_instance_id"); uint64(v.Int()) != n.InstanceID() {
		t.Errorf("get_instance_id = %v", v)
	}

	call(t, db, n, "set_meta", variant.FromString("k"), variant.FromInt(5))
	if v := call(t, db, n, "get_meta", variant.FromString("k")); v.Int() != 5 {
		t.Errorf("get_meta = %v", v)
	}

	call(t, db, n, "free")
	if n.InstanceID() != 0 {
		t.Error("free should invalidate the instance")
	}
}

func TestClassesHaveNoDropMethod(t *testing.T) {
	db := newDB(t)
	for _, class := range db.ClassList() {
		if db.Method(class, "drop") != nil {
			t.Errorf("%s exposes the drop hook", class)
		}
	}
}
