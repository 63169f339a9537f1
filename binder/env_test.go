package binder

import (
	"context"
	"fmt"
	"testing"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/scene"
	"github.com/wippyai/starbind/variant"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

type holder struct {
	scene.Object
	target variant.Variant
}

type env struct {
	db *classdb.DB
	r  *Registry
}

// newEnv returns the scene classes plus two test classes: Holder, with an
// object-typed property and probing methods, and the abstract Shape.
func newEnv(t *testing.T, cfg *Config) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{db: classdb.New()}
	t.Cleanup(func() { e.db.Close() })

	if err := scene.Register(ctx, e.db); err != nil {
		t.Fatalf("scene.Register: %v", err)
	}
	err := e.db.Register(classdb.ClassDef{
		Name:   "Holder",
		Parent: "Object",
		New: func(context.Context) (any, error) {
			return &holder{}, nil
		},
		Properties: []*classdb.Property{
			classdb.NewProperty("target", variant.Object,
				func(_ context.Context, inst *classdb.Instance) (variant.Variant, error) {
					return inst.Value().(*holder).target, nil
				},
				func(_ context.Context, inst *classdb.Instance, v variant.Variant) error {
					inst.Value().(*holder).target = v
					return nil
				}),
		},
		Methods: []*classdb.Method{
			classdb.NewMethod("probe", []variant.Type{variant.Int, variant.Int}, variant.Int,
				func(context.Context, *classdb.Instance, []variant.Variant) (variant.Variant, error) {
					return variant.FromInt(int64(e.r.Marshaler().Live())), nil
				}),
			classdb.NewMethod("fail", nil, variant.Nil,
				func(context.Context, *classdb.Instance, []variant.Variant) (variant.Variant, error) {
					return variant.NewNil(), fmt.Errorf("host refused")
				}),
		},
	})
	if err != nil {
		t.Fatalf("Register Holder: %v", err)
	}
	if err := e.db.Register(classdb.ClassDef{Name: "Shape", Parent: "Node", Abstract: true}); err != nil {
		t.Fatalf("Register Shape: %v", err)
	}

	e.r, err = NewRegistryWithConfig(e.db, cfg)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	t.Cleanup(func() { e.r.Close() })
	return e
}

func (e *env) thread(t *testing.T) *starlark.Thread {
	thread := &starlark.Thread{
		Name:  t.Name(),
		Print: func(_ *starlark.Thread, msg string) { t.Log(msg) },
	}
	WithContext(thread, context.Background())
	return thread
}

func (e *env) exec(t *testing.T, src string) (starlark.StringDict, error) {
	t.Helper()
	module, err := e.r.Module()
	if err != nil {
		t.Fatalf("Module: %v", err)
	}
	return starlark.ExecFileOptions(fileOptions, e.thread(t), "test.star", src, module)
}

// construct instantiates class through its synthesized type.
func (e *env) construct(t *testing.T, class string) *Object {
	t.Helper()
	b, err := e.r.Load(class)
	if err != nil {
		t.Fatalf("Load(%s): %v", class, err)
	}
	v, err := b.Class().CallInternal(e.thread(t), nil, nil)
	if err != nil {
		t.Fatalf("%s(): %v", class, err)
	}
	return v.(*Object)
}
