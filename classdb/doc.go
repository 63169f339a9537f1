// Package classdb is a reflection registry for host classes written in Go.
//
// A class is registered from a ClassDef. When the definition carries a
// Prototype, exported methods of the prototype's pointer type become
// snake_case methods and struct fields tagged `prop` become properties:
//
//	type LineEdit struct {
//	    Node
//	    MaxLength int `prop:"max_length"`
//	}
//
//	func (e *LineEdit) IsSecret() bool { ... }
//
//	db.Register(classdb.ClassDef{
//	    Name:      "LineEdit",
//	    Parent:    "Node",
//	    Prototype: (*LineEdit)(nil),
//	})
//
// Members already declared by an ancestor class are not repeated on the
// child, so each class lists only its own members. Explicit Methods and
// Properties can be added for natives that have no Go method.
//
// Instances live in an objectdb.Table. Go pointers returned from methods
// are mapped back to their instance, or registered under the class of
// their dynamic type on first sight, so a method declared to return a
// base type still yields an object of the derived class.
package classdb
