package classdb

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/wippyai/starbind/objectdb"
	"github.com/wippyai/starbind/variant"
)

// Instance is a live host object registered in a DB.
type Instance struct {
	value any
	db    *DB
	rv    reflect.Value
	class string
	id    atomic.Uint64
}

var _ variant.HostObject = (*Instance)(nil)

// ClassName returns the instance's runtime class.
func (i *Instance) ClassName() string { return i.class }

// InstanceID returns 0 once the instance has been freed.
func (i *Instance) InstanceID() uint64 { return i.id.Load() }

// Value returns the Go value backing the instance.
func (i *Instance) Value() any { return i.value }

// DB returns the database the instance lives in.
func (i *Instance) DB() *DB { return i.db }

// Free removes the instance from its database.
func (i *Instance) Free() error {
	return i.db.Free(i)
}

func (i *Instance) String() string {
	id := i.InstanceID()
	if id == 0 {
		return "[Freed Object]"
	}
	return fmt.Sprintf("[%s:%d]", i.class, id)
}

func (i *Instance) objectID() objectdb.ID {
	return objectdb.ID(i.InstanceID())
}
