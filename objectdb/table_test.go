package objectdb

import (
	"errors"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnObjectEvent(e Event) {
	o.events = append(o.events, e)
}

type dropValue struct {
	dropped bool
}

func (d *dropValue) Drop() { d.dropped = true }

func TestTable_Basic(t *testing.T) {
	table := NewTable()
	v := &dropValue{}

	id, err := table.Insert("Node", v)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	got, ok := table.Get(id)
	if !ok || got != v {
		t.Fatalf("Get = %v, %v", got, ok)
	}
	if class, _ := table.Class(id); class != "Node" {
		t.Errorf("Class = %q, want Node", class)
	}
	if rid, ok := table.Lookup(v); !ok || rid != id {
		t.Errorf("Lookup = %d, %v; want %d", rid, ok, id)
	}

	again, _ := table.Insert("Node", v)
	if again != id {
		t.Errorf("re-insert returned %d, want existing %d", again, id)
	}

	if _, ok := table.Remove(id); !ok {
		t.Fatal("Remove failed")
	}
	if !v.dropped {
		t.Error("Dropper was not called")
	}
	if _, ok := table.Get(id); ok {
		t.Error("Get after Remove should fail")
	}
	if _, ok := table.Lookup(v); ok {
		t.Error("Lookup after Remove should fail")
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
	if _, ok := table.Remove(id); ok {
		t.Error("double Remove should fail")
	}
}

func TestTable_IDsNotReused(t *testing.T) {
	table := NewTable()
	a, _ := table.Insert("Node", &dropValue{})
	table.Remove(a)
	b, _ := table.Insert("Node", &dropValue{})
	if b == a {
		t.Fatalf("ID %d reused after free", a)
	}
	if b <= a {
		t.Fatalf("IDs should increase: %d then %d", a, b)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	id, _ := table.Insert("Node2D", &dropValue{})
	if len(obs.events) != 1 || obs.events[0].Type != EventCreated {
		t.Fatalf("events = %+v", obs.events)
	}
	if obs.events[0].ID != id || obs.events[0].Class != "Node2D" {
		t.Fatalf("wrong event: %+v", obs.events[0])
	}

	table.Remove(id)
	if len(obs.events) != 2 || obs.events[1].Type != EventFreed {
		t.Fatalf("events = %+v", obs.events)
	}

	table.Unsubscribe(obs)
	table.Insert("Node", &dropValue{})
	if len(obs.events) != 2 {
		t.Fatal("unsubscribed observer should not receive events")
	}
}

func TestTable_NonComparableValue(t *testing.T) {
	table := NewTable()
	id, err := table.Insert("Blob", []int{1, 2})
	if err != nil || id == 0 {
		t.Fatalf("Insert = %d, %v", id, err)
	}
	if _, ok := table.Lookup([]int{1, 2}); ok {
		t.Error("slices have no reverse entry")
	}
	if _, ok := table.Remove(id); !ok {
		t.Error("Remove failed")
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()
	var ids []ID
	for range 3 {
		id, _ := table.Insert("Node", &dropValue{})
		ids = append(ids, id)
	}

	var seen []ID
	table.Each(func(id ID, _ string, _ any) bool {
		seen = append(seen, id)
		return true
	})
	if len(seen) != 3 {
		t.Fatalf("Each visited %d, want 3", len(seen))
	}
	for i := range ids {
		if seen[i] != ids[i] {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], ids[i])
		}
	}

	count := 0
	table.Each(func(ID, string, any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Each should stop early, visited %d", count)
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	v := &dropValue{}
	table.Insert("Node", v)

	if err := table.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !v.dropped {
		t.Error("Close should free live objects")
	}
	if err := table.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := table.Insert("Node", &dropValue{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Insert after Close = %v, want ErrClosed", err)
	}
}
