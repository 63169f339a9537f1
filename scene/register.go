package scene

import (
	"context"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/classdb"
)

// Version is reported by Engine.get_version().
const Version = "starbind-scene 1.0"

// Global constants.
const (
	OK        = 0
	FAILED    = 1
	KeyEscape = 16777217
)

// EditorPlugin constants.
const (
	ContainerToolbar = iota
	ContainerSpatialEditorMenu
	ContainerSpatialEditorSideLeft
	ContainerSpatialEditorSideRight
	ContainerSpatialEditorBottom
	ContainerCanvasEditorMenu
)

const (
	DockSlotLeftUL = iota
	DockSlotLeftBL
	DockSlotLeftUR
	DockSlotLeftBR
	DockSlotRightUL
	DockSlotRightBL
)

func construct[T any](fn func() T) func(context.Context) (any, error) {
	return func(context.Context) (any, error) {
		return fn(), nil
	}
}

// Classes returns the class definitions in registration order.
func Classes() []classdb.ClassDef {
	return []classdb.ClassDef{
		{
			Name:      "Object",
			Prototype: (*Object)(nil),
			Methods:   objectNatives(),
		},
		{
			Name:      "Node",
			Parent:    "Object",
			Prototype: (*Node)(nil),
			New:       construct(newNode),
			Virtuals:  []string{"_ready", "_process", "_enter_tree", "_exit_tree"},
		},
		{
			Name:      "Node2D",
			Parent:    "Node",
			Prototype: (*Node2D)(nil),
			New:       construct(newNode2D),
		},
		{
			Name:      "Viewport",
			Parent:    "Node",
			Prototype: (*Viewport)(nil),
			New:       construct(newViewport),
		},
		{
			Name:      "LineEdit",
			Parent:    "Node",
			Prototype: (*LineEdit)(nil),
			New:       construct(newLineEdit),
		},
		{
			Name:      "EditorPlugin",
			Parent:    "Node",
			Prototype: (*EditorPlugin)(nil),
			New:       construct(newEditorPlugin),
			Constants: []starbind.Constant{
				{Name: "CONTAINER_TOOLBAR", Value: ContainerToolbar},
				{Name: "CONTAINER_SPATIAL_EDITOR_MENU", Value: ContainerSpatialEditorMenu},
				{Name: "CONTAINER_SPATIAL_EDITOR_SIDE_LEFT", Value: ContainerSpatialEditorSideLeft},
				{Name: "CONTAINER_SPATIAL_EDITOR_SIDE_RIGHT", Value: ContainerSpatialEditorSideRight},
				{Name: "CONTAINER_SPATIAL_EDITOR_BOTTOM", Value: ContainerSpatialEditorBottom},
				{Name: "CONTAINER_CANVAS_EDITOR_MENU", Value: ContainerCanvasEditorMenu},
				{Name: "DOCK_SLOT_LEFT_UL", Value: DockSlotLeftUL},
				{Name: "DOCK_SLOT_LEFT_BL", Value: DockSlotLeftBL},
				{Name: "DOCK_SLOT_LEFT_UR", Value: DockSlotLeftUR},
				{Name: "DOCK_SLOT_LEFT_BR", Value: DockSlotLeftBR},
				{Name: "DOCK_SLOT_RIGHT_UL", Value: DockSlotRightUL},
				{Name: "DOCK_SLOT_RIGHT_BL", Value: DockSlotRightBL},
			},
		},
		{
			Name:      "MainLoop",
			Parent:    "Object",
			Prototype: (*MainLoop)(nil),
		},
		{
			Name:      "SceneTree",
			Parent:    "MainLoop",
			Prototype: (*SceneTree)(nil),
			New:       construct(newSceneTree),
		},
		{
			Name:      "_Engine",
			Parent:    "Object",
			Prototype: (*Engine)(nil),
			New:       construct(newEngine),
		},
	}
}

// Register adds the scene classes, the global constants and the Engine
// singleton to db.
func Register(ctx context.Context, db *classdb.DB) error {
	for _, def := range Classes() {
		if err := db.Register(def); err != nil {
			return err
		}
	}

	globals := []struct {
		name  string
		value int64
	}{
		{"OK", OK},
		{"FAILED", FAILED},
		{"KEY_ESCAPE", KeyEscape},
	}
	for _, g := range globals {
		if err := db.AddGlobalConstant(g.name, g.value); err != nil {
			return err
		}
	}

	_, err := db.AddSingleton(ctx, "Engine", "_Engine")
	return err
}
