package scene

// MainLoopObject is implemented by every main loop type.
type MainLoopObject interface {
	mainLoop() *MainLoop
}

// MainLoop drives frame iteration.
type MainLoop struct {
	Object
	frames int
}

func (m *MainLoop) mainLoop() *MainLoop { return m }

// Iteration advances one frame and reports whether the loop should quit.
func (m *MainLoop) Iteration(delta float64) bool {
	m.frames++
	return false
}

func (m *MainLoop) GetFrames() int {
	return m.frames
}

// SceneTree is the main loop that owns the root viewport.
type SceneTree struct {
	MainLoop
	root *Viewport
	quit bool
}

func newSceneTree() *SceneTree {
	return &SceneTree{root: newViewport()}
}

func (t *SceneTree) GetRoot() *Viewport {
	return t.root
}

// GetNodeCount counts the nodes reachable from the root, the root included.
func (t *SceneTree) GetNodeCount() int {
	var count func(NodeObject) int
	count = func(n NodeObject) int {
		total := 1
		for _, c := range n.node().children {
			total += count(c)
		}
		return total
	}
	return count(t.root)
}

func (t *SceneTree) Quit() {
	t.quit = true
}

func (t *SceneTree) Iteration(delta float64) bool {
	t.frames++
	return t.quit
}

// Engine is the backing type of the Engine singleton.
type Engine struct {
	Object
	mainLoop            MainLoopObject
	IterationsPerSecond int `prop:"iterations_per_second"`
}

func newEngine() *Engine {
	return &Engine{mainLoop: newSceneTree(), IterationsPerSecond: 60}
}

// GetMainLoop returns the running main loop. The object reaching scripts
// carries its dynamic class, SceneTree.
func (e *Engine) GetMainLoop() MainLoopObject {
	return e.mainLoop
}

func (e *Engine) GetVersion() string {
	return Version
}
