package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseProperty,
				Kind:   KindInvalidValue,
				Class:  "LineEdit",
				Member: "max_length",
				Detail: "value rejected",
			},
			contains: []string{"[property]", "invalid_value", "LineEdit.max_length", "value rejected"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseBind,
				Kind:  KindBuildOrder,
			},
			contains: []string{"[bind]", "build_order"},
		},
		{
			name: "member only",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindArity,
				Member: "get_name",
			},
			contains: []string{"[call]", "arity at get_name"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindInvalidValue,
				Detail: "call failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[call]", "invalid_value", "call failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseCall,
		Kind:  KindInvalidValue,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseProperty,
		Kind:  KindUnknownAttribute,
		Class: "Node",
	}

	if !err.Is(&Error{Phase: PhaseProperty, Kind: KindUnknownAttribute}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseCall, Kind: KindUnknownAttribute}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseProperty, Kind: KindInvalidValue}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseProperty, Kind: KindUnknownAttribute}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestKindOf(t *testing.T) {
	inner := UnknownAttribute(PhaseProperty, "Node", "positon")
	wrapped := fmt.Errorf("script.star:3:5: %w", inner)

	if got := KindOf(wrapped); got != KindUnknownAttribute {
		t.Errorf("KindOf = %q, want %q", got, KindUnknownAttribute)
	}
	if !IsKind(wrapped, KindUnknownAttribute) {
		t.Error("IsKind should find the wrapped kind")
	}
	if IsKind(wrapped, KindInvalidValue) {
		t.Error("IsKind should not match a different kind")
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}

	// An outer error of a different kind does not hide the inner one.
	outer := wrapAs(KindInvalidValue, inner)
	if !IsKind(outer, KindUnknownAttribute) {
		t.Error("IsKind should look past the outer error")
	}
}

// wrapAs builds a call error around cause.
func wrapAs(kind Kind, cause error) error {
	return New(PhaseCall, kind).Cause(cause).Build()
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseProperty, KindInvalidValue).
		Class("LineEdit").
		Member("max_length").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "int", "string").
		Build()

	if err.Phase != PhaseProperty {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseProperty)
	}
	if err.Kind != KindInvalidValue {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidValue)
	}
	if err.Class != "LineEdit" || err.Member != "max_length" {
		t.Errorf("Class/Member = %v/%v", err.Class, err.Member)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected int, got string" {
		t.Errorf("Detail = %v, want 'expected int, got string'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnknownAttribute", func(t *testing.T) {
		err := UnknownAttribute(PhaseProperty, "Node", "foo")
		if err.Kind != KindUnknownAttribute {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownAttribute)
		}
		if !containsSubstring(err.Error(), "'Node' has no attribute 'foo'") {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("ReadOnlyAttribute", func(t *testing.T) {
		err := ReadOnlyAttribute("Node", "get_name")
		if err.Kind != KindUnknownAttribute {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownAttribute)
		}
	})

	t.Run("CallFailed", func(t *testing.T) {
		cause := errors.New("instance is null")
		err := CallFailed("Node", "get_name", cause)
		if err.Kind != KindInvalidValue || err.Phase != PhaseCall {
			t.Errorf("Phase/Kind = %v/%v", err.Phase, err.Kind)
		}
		if !containsSubstring(err.Error(), "Node.get_name") {
			t.Errorf("message should identify the call: %q", err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable")
		}
	})

	t.Run("Arity", func(t *testing.T) {
		err := Arity("Node.add_child", 2, 1)
		if err.Kind != KindArity {
			t.Errorf("Kind = %v, want %v", err.Kind, KindArity)
		}
		if err.Value != 1 {
			t.Errorf("Value = %v, want 1", err.Value)
		}
	})

	t.Run("BuildOrder", func(t *testing.T) {
		err := BuildOrder("Node2D", "Node")
		if err.Kind != KindBuildOrder {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBuildOrder)
		}
		if !containsSubstring(err.Detail, "`Node`") {
			t.Errorf("Detail = %v, should name the parent", err.Detail)
		}
	})

	t.Run("LookupMiss", func(t *testing.T) {
		err := LookupMiss("Node", "_ready")
		if err.Kind != KindLookupMiss {
			t.Errorf("Kind = %v, want %v", err.Kind, KindLookupMiss)
		}
	})

	t.Run("TrampolineFailed", func(t *testing.T) {
		err := TrampolineFailed("Node.get_name")
		if err.Kind != KindTrampoline {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTrampoline)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseMarshal, "Node2D", "position", "Vector2", "string")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
	})

	t.Run("Instantiation", func(t *testing.T) {
		err := Instantiation("_Engine", errors.New("abstract"))
		if err.Kind != KindInstantiation || err.Phase != PhaseConstruct {
			t.Errorf("Phase/Kind = %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseBind, "class", "Spatial")
		if !containsSubstring(err.Detail, `"Spatial"`) {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := Duplicate(PhaseRegistry, "Node", "")
		if err.Kind != KindDuplicate {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDuplicate)
		}
	})
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && containsSubstringHelper(s, substr)))
}

func containsSubstringHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
