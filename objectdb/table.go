package objectdb

import (
	"errors"
	"reflect"
	"slices"
	"sync"
)

var ErrClosed = errors.New("object table closed")

type entry struct {
	value any
	class string
}

// Table maps instance IDs to host values and back.
type Table struct {
	entries   map[ID]entry
	reverse   map[any]ID
	observers []Observer
	next      ID
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty object table.
func NewTable() *Table {
	return &Table{
		entries: make(map[ID]entry, 64),
		reverse: make(map[any]ID, 64),
	}
}

// Insert stores value under a fresh ID. Inserting a value that is already
// present returns its existing ID. Values that cannot be used as map keys
// are stored without a reverse entry.
func (t *Table) Insert(class string, value any) (ID, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, ErrClosed
	}

	indexable := value != nil && reflect.TypeOf(value).Comparable()
	if indexable {
		if id, ok := t.reverse[value]; ok {
			t.mu.Unlock()
			return id, nil
		}
	}

	t.next++
	id := t.next
	t.entries[id] = entry{value: value, class: class}
	if indexable {
		t.reverse[value] = id
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, ID: id, Class: class, Value: value})
	return id, nil
}

// Get retrieves a value by ID.
func (t *Table) Get(id ID) (any, bool) {
	if id == 0 {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	return e.value, ok
}

// Class returns the class name the value was inserted under.
func (t *Table) Class(id ID) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	return e.class, ok
}

// Lookup returns the ID a value was inserted under.
func (t *Table) Lookup(value any) (ID, bool) {
	if value == nil || !reflect.TypeOf(value).Comparable() {
		return 0, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.reverse[value]
	return id, ok
}

// Remove frees an object and returns (value, true) if it was live.
// Values implementing Dropper are dropped after the entry is gone.
func (t *Table) Remove(id ID) (any, bool) {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	delete(t.entries, id)
	if e.value != nil && reflect.TypeOf(e.value).Comparable() {
		delete(t.reverse, e.value)
	}
	t.mu.Unlock()

	if d, ok := e.value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{Type: EventFreed, ID: id, Class: e.class, Value: e.value})
	return e.value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live objects.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Each calls fn for every live object in ascending ID order until fn returns false.
func (t *Table) Each(fn func(ID, string, any) bool) {
	t.mu.RLock()
	ids := make([]ID, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	t.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		t.mu.RLock()
		e, ok := t.entries[id]
		t.mu.RUnlock()
		if !ok {
			continue
		}
		if !fn(id, e.class, e.value) {
			return
		}
	}
}

// Clear frees all objects.
func (t *Table) Clear() {
	var ids []ID
	t.Each(func(id ID, _ string, _ any) bool {
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		t.Remove(id)
	}
}

// Close frees all objects and stops accepting inserts. Close is idempotent.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.Clear()
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnObjectEvent(e)
	}
}
