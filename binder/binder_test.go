package binder

import (
	"slices"
	"strings"
	"testing"

	"go.starlark.net/starlark"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/errors"
)

func TestNewRegistry_NilClasses(t *testing.T) {
	if _, err := NewRegistry(nil); errors.KindOf(err) != errors.KindNotInitialized {
		t.Errorf("NewRegistry(nil) kind = %q", errors.KindOf(err))
	}
}

func TestBuild_Inheritance(t *testing.T) {
	e := newEnv(t, nil)

	node, err := e.r.Load("Node")
	if err != nil {
		t.Fatalf("Load(Node): %v", err)
	}
	if e.r.Get("Object") == nil {
		t.Fatal("Load should build ancestors first")
	}
	n2d, err := e.r.Build("Node2D")
	if err != nil {
		t.Fatalf("Build(Node2D): %v", err)
	}

	if n2d.Class().Base() != node.Class() {
		t.Fatalf("Node2D base = %v, want %v", n2d.Class().Base(), node.Class())
	}
	if node.Class().Base() != e.r.Get("Object").Class() {
		t.Fatal("Node base should be Object")
	}
	if !n2d.Class().IsSubclass(e.r.Get("Object").Class()) {
		t.Error("Node2D should be a subclass of Object")
	}

	if _, ok := n2d.Members()["position"].(*Property); !ok {
		t.Error("position should be an own property of Node2D")
	}
	if _, ok := n2d.Members()["get_parent"]; ok {
		t.Error("inherited get_parent should not be copied into Node2D")
	}
	if n2d.Class().lookup("get_parent") == nil {
		t.Error("get_parent should resolve through the base chain")
	}

	again, _ := e.r.Build("Node2D")
	if again != n2d {
		t.Error("Build should memoize binders")
	}
}

func TestBuild_NodeScenario(t *testing.T) {
	e := newEnv(t, nil)
	thread := e.thread(t)

	if _, err := e.r.Load("Node"); err != nil {
		t.Fatalf("Load(Node): %v", err)
	}
	if _, err := e.r.Build("Node2D"); err != nil {
		t.Fatalf("Build(Node2D): %v", err)
	}
	obj := e.construct(t, "Node2D")

	pos, err := obj.Attr("position")
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	tuple, ok := pos.(starlark.Tuple)
	if !ok || len(tuple) != 2 || tuple[0] != starlark.Float(0) || tuple[1] != starlark.Float(0) {
		t.Errorf("position = %v, want (0.0, 0.0)", pos)
	}

	getParent, err := obj.Attr("get_parent")
	if err != nil || getParent == nil {
		t.Fatalf("get_parent = %v, %v", getParent, err)
	}
	parent, err := starlark.Call(thread, getParent, nil, nil)
	if err != nil {
		t.Fatalf("get_parent(): %v", err)
	}
	if parent != starlark.None {
		t.Errorf("get_parent() = %v, want None", parent)
	}
}

func TestBuild_PrivateMembersOmitted(t *testing.T) {
	e := newEnv(t, nil)
	b, err := e.r.Load("Node")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var listed []string
	for _, m := range e.db.MethodList("Node", false) {
		listed = append(listed, m.Name)
	}
	if !slices.Contains(listed, "_ready") {
		t.Fatalf("registry should list the _ready virtual, got %v", listed)
	}
	for name := range b.Members() {
		if strings.HasPrefix(name, "_") {
			t.Errorf("private member %q was bound", name)
		}
	}
	if b.wrapMethod("_ready") != nil {
		t.Error("wrapMethod should refuse private names")
	}
	if b.wrapMethod("no_such_method") != nil {
		t.Error("wrapMethod should return nil for unknown methods")
	}
}

func TestBuild_OrderWarning(t *testing.T) {
	e := newEnv(t, nil)
	core, logs := observer.New(zapcore.WarnLevel)
	r, err := NewRegistryWithConfig(e.db, &Config{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	b, err := r.Build("Node2D")
	if err != nil {
		t.Fatalf("Build should not fail on a missing parent: %v", err)
	}
	if b.Class().Base() != nil {
		t.Error("Node2D should be rootless when Node was not built")
	}
	if r.Get("Node") != nil {
		t.Error("Build must not build the parent")
	}

	entries := logs.FilterMessage("building rootless type").All()
	if len(entries) != 1 {
		t.Fatalf("got %d build order warnings, want 1", len(entries))
	}
	msg, _ := entries[0].ContextMap()["error"].(string)
	if !strings.Contains(msg, "cannot retrieve `Node2D`'s parent `Node`") {
		t.Errorf("warning = %q", msg)
	}

	// Members are still bound on the rootless type.
	if _, ok := b.Members()["translate"]; !ok {
		t.Error("translate should be bound")
	}
}

// dupRegistry lists a method under the name of an existing property.
type dupRegistry struct {
	*classdb.DB
}

func (d dupRegistry) MethodList(class string, includeInherited bool) []starbind.MethodInfo {
	out := d.DB.MethodList(class, includeInherited)
	if class == "Node2D" {
		out = append(out, starbind.MethodInfo{Name: "position"})
	}
	return out
}

func TestBuild_DuplicateMemberKeepsFirst(t *testing.T) {
	e := newEnv(t, nil)
	core, logs := observer.New(zapcore.WarnLevel)
	r, _ := NewRegistryWithConfig(dupRegistry{e.db}, &Config{Logger: zap.New(core)})

	b, err := r.Load("Node2D")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := b.Members()["position"].(*Property); !ok {
		t.Error("the property registered first should be kept")
	}
	if logs.FilterMessage("duplicate member ignored").Len() != 1 {
		t.Error("collision should be logged once")
	}
}

func TestBuild_IncludeInherited(t *testing.T) {
	e := newEnv(t, &Config{IncludeInherited: true})
	b, err := e.r.Load("Node2D")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{"position", "get_parent", "name", "get_class"} {
		if _, ok := b.Members()[name]; !ok {
			t.Errorf("member %q missing with IncludeInherited", name)
		}
	}
}

func TestRegistry_LoadErrors(t *testing.T) {
	e := newEnv(t, nil)
	if _, err := e.r.Load("Spatial"); errors.KindOf(err) != errors.KindNotFound {
		t.Errorf("Load(Spatial) kind = %q", errors.KindOf(err))
	}
	if err := e.r.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got, want := len(e.r.Names()), len(e.db.ClassList()); got != want {
		t.Errorf("built %d binders, want %d", got, want)
	}
}

func TestRegistry_Close(t *testing.T) {
	e := newEnv(t, nil)
	b, err := e.r.Load("LineEdit")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	name := b.propertyNames["max_length"]
	if name == nil || *name != "max_length" {
		t.Fatalf("owned name = %v", name)
	}

	if err := e.r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if *name != "" || len(b.propertyNames) != 0 {
		t.Error("Close should release owned property names")
	}
	if err := e.r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := e.r.Build("Node"); errors.KindOf(err) != errors.KindNotInitialized {
		t.Errorf("Build after Close kind = %q", errors.KindOf(err))
	}
}
