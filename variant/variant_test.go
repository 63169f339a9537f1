package variant

import (
	"errors"
	"strings"
	"testing"
)

type testObject struct {
	class string
	id    uint64
}

func (o *testObject) ClassName() string  { return o.class }
func (o *testObject) InstanceID() uint64 { return o.id }

func TestVariant_Types(t *testing.T) {
	tests := []struct {
		name string
		v    Variant
		typ  Type
		str  string
	}{
		{"nil", NewNil(), Nil, "Null"},
		{"zero value", Variant{}, Nil, "Null"},
		{"bool", FromBool(true), Bool, "true"},
		{"int", FromInt(-7), Int, "-7"},
		{"float", FromFloat(1.5), Float, "1.5"},
		{"string", FromString("hi"), String, "hi"},
		{"vector2", FromVec2(Vec2{X: 1, Y: 2}), Vector2, "(1, 2)"},
		{"object", FromObject(&testObject{class: "Node", id: 3}), Object, "[Node:3]"},
		{"nil object", FromObject(nil), Nil, "Null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Type() != tt.typ {
				t.Errorf("Type() = %v, want %v", tt.v.Type(), tt.typ)
			}
			if tt.v.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.v.String(), tt.str)
			}
		})
	}
}

func TestVariant_IsNil(t *testing.T) {
	obj := &testObject{class: "Node", id: 9}
	v := FromObject(obj)
	if v.IsNil() {
		t.Fatal("live object should not be nil")
	}
	obj.id = 0
	if !v.IsNil() {
		t.Fatal("freed object should be nil")
	}
	if v.String() != "[Freed Object]" {
		t.Errorf("String() = %q", v.String())
	}
	if FromInt(0).IsNil() {
		t.Error("int 0 is not nil")
	}
}

func TestVariant_Accessors(t *testing.T) {
	if FromInt(3).Float() != 3 {
		t.Error("Int should widen to float")
	}
	if FromInt(3).Object() != nil {
		t.Error("Object() on int should be nil")
	}
	obj := &testObject{class: "Node", id: 1}
	if FromObject(obj).Object() != obj {
		t.Error("Object() should return the wrapped reference")
	}
}

func TestSameObject(t *testing.T) {
	a := &testObject{class: "Node", id: 1}
	b := &testObject{class: "Node", id: 1}
	if !SameObject(a, a) {
		t.Error("same pointer should be the same object")
	}
	if SameObject(a, b) {
		t.Error("equal fields do not make the same object")
	}
	if SameObject(a, nil) {
		t.Error("nil is not a")
	}
	if !SameObject(nil, nil) {
		t.Error("nil is nil")
	}
}

func TestTypeString(t *testing.T) {
	if Vector2.String() != "Vector2" {
		t.Errorf("got %q", Vector2.String())
	}
	if Type(200).String() != "unknown" {
		t.Errorf("got %q", Type(200).String())
	}
}

func TestCallError(t *testing.T) {
	t.Run("invalid argument", func(t *testing.T) {
		err := &CallError{Kind: CallInvalidArgument, Method: "Node.add_child", Argument: 0, Expected: Object}
		if !strings.Contains(err.Error(), "argument 1 should be Object") {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("arity", func(t *testing.T) {
		err := &CallError{Kind: CallTooFewArguments, Argument: 2}
		if !strings.Contains(err.Error(), "expected 2") {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := &CallError{Kind: CallFailed, Method: "Node.free", Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("cause should unwrap")
		}
		if err.Error() != "Node.free: call failed: boom" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("instance is null", func(t *testing.T) {
		err := &CallError{Kind: CallInstanceIsNull}
		if err.Error() != "instance is null" {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}
