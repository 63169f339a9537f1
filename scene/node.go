package scene

import (
	"fmt"
	"slices"

	"github.com/wippyai/starbind/variant"
)

// NodeObject is implemented by every node type through the embedded Node.
type NodeObject interface {
	node() *Node
}

// Node is a scene tree element with a parent and ordered children.
type Node struct {
	Object
	self     NodeObject
	parent   NodeObject
	Name     string `prop:"name"`
	children []NodeObject
}

func (n *Node) node() *Node { return n }

func (n *Node) outer() NodeObject {
	if n.self != nil {
		return n.self
	}
	return n
}

func (n *Node) AddChild(child NodeObject) error {
	if child == nil {
		return fmt.Errorf("child is null")
	}
	c := child.node()
	if c == n {
		return fmt.Errorf("cannot add a node as a child of itself")
	}
	if c.parent != nil {
		return fmt.Errorf("node %q already has a parent", c.Name)
	}
	for p := n.parent; p != nil; p = p.node().parent {
		if p.node() == c {
			return fmt.Errorf("cannot add an ancestor as a child")
		}
	}
	c.parent = n.outer()
	n.children = append(n.children, child)
	return nil
}

func (n *Node) RemoveChild(child NodeObject) error {
	if child == nil {
		return fmt.Errorf("child is null")
	}
	c := child.node()
	i := slices.IndexFunc(n.children, func(o NodeObject) bool { return o.node() == c })
	if i < 0 {
		return fmt.Errorf("node %q is not a child", c.Name)
	}
	n.children = slices.Delete(n.children, i, i+1)
	c.parent = nil
	return nil
}

func (n *Node) GetParent() NodeObject {
	return n.parent
}

func (n *Node) GetChildCount() int {
	return len(n.children)
}

func (n *Node) GetChild(idx int) (NodeObject, error) {
	if idx < 0 {
		idx += len(n.children)
	}
	if idx < 0 || idx >= len(n.children) {
		return nil, fmt.Errorf("child index %d out of range", idx)
	}
	return n.children[idx], nil
}

// Drop detaches a freed node from the tree.
func (n *Node) Drop() {
	if n.parent != nil {
		_ = n.parent.node().RemoveChild(n.outer())
	}
	for _, c := range n.children {
		c.node().parent = nil
	}
	n.children = nil
}

// Node2D is a node with a 2D transform.
type Node2D struct {
	Node
	Position variant.Vec2 `prop:"position"`
	Rotation float64      `prop:"rotation"`
}

func (n *Node2D) Translate(offset variant.Vec2) {
	n.Position.X += offset.X
	n.Position.Y += offset.Y
}

// Viewport is the root of a scene tree.
type Viewport struct {
	Node
	Size variant.Vec2 `prop:"size"`
}

// LineEdit is a single-line text field.
type LineEdit struct {
	Node
	Text      string `prop:"text"`
	MaxLength int    `prop:"max_length"`
	secret    bool
}

func (e *LineEdit) IsSecret() bool { return e.secret }

func (e *LineEdit) SetSecret(enabled bool) { e.secret = enabled }

func (e *LineEdit) SetMaxLength(n int) error {
	if n < 0 {
		return fmt.Errorf("max_length must not be negative, got %d", n)
	}
	e.MaxLength = n
	if n > 0 && len(e.Text) > n {
		e.Text = e.Text[:n]
	}
	return nil
}

func (e *LineEdit) SetText(text string) {
	if e.MaxLength > 0 && len(text) > e.MaxLength {
		text = text[:e.MaxLength]
	}
	e.Text = text
}

// EditorPlugin exposes editor container and dock slot constants.
type EditorPlugin struct {
	Node
}

func (p *EditorPlugin) GetPluginName() string {
	return p.Name
}

func newNode() *Node {
	n := &Node{}
	n.self = n
	return n
}

func newNode2D() *Node2D {
	n := &Node2D{}
	n.self = n
	return n
}

func newViewport() *Viewport {
	v := &Viewport{Size: variant.Vec2{X: 1024, Y: 600}}
	v.Name = "root"
	v.self = v
	return v
}

func newLineEdit() *LineEdit {
	e := &LineEdit{}
	e.self = e
	return e
}

func newEditorPlugin() *EditorPlugin {
	p := &EditorPlugin{}
	p.self = p
	return p
}
