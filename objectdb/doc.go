// Package objectdb tracks live host objects by instance ID.
//
// Every host object that crosses into a script is inserted into a Table and
// receives an ID. IDs start at 1 and are never reused, so a stale ID held by
// a script can never alias a newer object.
//
//	table := objectdb.NewTable()
//	id, _ := table.Insert("Node", node)
//
//	value, ok := table.Get(id)
//	id, ok = table.Lookup(node) // reverse lookup by value
//
//	table.Remove(id) // frees; Dropper values are dropped
//
// # Observers
//
// Observers are notified after an object is created or freed:
//
//	table.Subscribe(myObserver)
//
// Notifications are delivered outside the table lock, so an observer may
// call back into the table.
package objectdb
