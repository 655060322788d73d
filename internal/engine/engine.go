package engine

import (
	"bytes"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/markup"
	"github.com/inamate/vecscene/internal/ops"
	"github.com/inamate/vecscene/internal/snapshot"
)

const maxHistory = 100

// Engine is a single-user editing session. It owns one scene, applies edit
// operations to it, keeps undo history and caches the emitted markup.
type Engine struct {
	scene  document.Scene
	loaded bool

	undo []document.Scene
	redo []document.Scene

	// Selection state
	selection document.Address

	// Cached markup, rebuilt when dirty
	markup string
	dirty  bool
}

// NewEngine creates an engine holding an empty scene.
func NewEngine() *Engine {
	return &Engine{
		scene: document.NewScene(document.Viewport{}),
		dirty: true,
	}
}

// --- Commands ---

// LoadScene replaces the scene with a JSON snapshot and clears history and
// selection. On error the current scene is kept.
func (e *Engine) LoadScene(data []byte) error {
	s, err := snapshot.Unmarshal(data)
	if err != nil {
		return err
	}
	e.reset(s)
	return nil
}

// LoadSampleScene loads the built-in sample scene.
func (e *Engine) LoadSampleScene() {
	e.reset(document.Sample())
}

func (e *Engine) reset(s document.Scene) {
	e.scene = s
	e.loaded = true
	e.undo = nil
	e.redo = nil
	e.selection = nil
	e.dirty = true
}

// Apply decodes a JSON operation and applies it. A rejected operation leaves
// scene, history and selection unchanged.
func (e *Engine) Apply(data []byte) (string, error) {
	op, err := ops.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	next, err := ops.Apply(e.scene, op)
	if err != nil {
		return "", err
	}

	e.undo = append(e.undo, e.scene)
	if len(e.undo) > maxHistory {
		e.undo = e.undo[len(e.undo)-maxHistory:]
	}
	e.redo = nil
	e.scene = next
	e.dirty = true
	e.dropStaleSelection()
	return op.ID, nil
}

// Undo reverts the last applied operation. It reports false when there is
// nothing to undo.
func (e *Engine) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	e.redo = append(e.redo, e.scene)
	e.scene = e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.dirty = true
	e.dropStaleSelection()
	return true
}

// Redo reapplies the last undone operation.
func (e *Engine) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	e.undo = append(e.undo, e.scene)
	e.scene = e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.dirty = true
	e.dropStaleSelection()
	return true
}

// Select sets the selected shape. An empty address clears the selection.
func (e *Engine) Select(addr document.Address) error {
	if len(addr) == 0 {
		e.selection = nil
		return nil
	}
	if _, err := e.scene.ShapeAt(addr); err != nil {
		return err
	}
	e.selection = append(document.Address{}, addr...)
	return nil
}

func (e *Engine) dropStaleSelection() {
	if e.selection == nil {
		return
	}
	if _, err := e.scene.ShapeAt(e.selection); err != nil {
		e.selection = nil
	}
}

// --- Queries ---

// Markup returns the scene's SVG markup.
//
// Scenes only enter the engine through the snapshot decoder, operations or
// the sample, so every shape has an emittable variant.
func (e *Engine) Markup() string {
	if e.dirty {
		e.markup = markup.String(e.scene)
		e.dirty = false
	}
	return e.markup
}

// Scene returns a copy of the current scene.
func (e *Engine) Scene() document.Scene {
	return e.scene.Clone()
}

// SceneJSON returns the current scene as a compact JSON snapshot.
func (e *Engine) SceneJSON() (string, error) {
	data, err := snapshot.Marshal(e.scene)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Loaded reports whether a scene was loaded since the engine was created.
func (e *Engine) Loaded() bool {
	return e.loaded
}

// Selection returns the selected address, or nil.
func (e *Engine) Selection() document.Address {
	return e.selection
}

// SelectionBounds returns the bounding box of the selected shape.
func (e *Engine) SelectionBounds() (Rect, bool) {
	if e.selection == nil {
		return Rect{}, false
	}
	shape, err := e.scene.ShapeAt(e.selection)
	if err != nil {
		return Rect{}, false
	}

	// Ancestor groups contribute their translation.
	var ox, oy int64
	for depth := 1; depth < len(e.selection); depth++ {
		ancestor, err := e.scene.ShapeAt(e.selection[:depth])
		if err != nil {
			return Rect{}, false
		}
		ox += int64(ancestor.Styles.Translate.X)
		oy += int64(ancestor.Styles.Translate.Y)
	}
	return Bounds(*shape, ox, oy)
}

// HitTest returns the address of the topmost shape at (x, y), or nil.
func (e *Engine) HitTest(x, y int64) document.Address {
	return HitTest(e.scene, x, y)
}

// CanUndo and CanRedo report whether history is available.
func (e *Engine) CanUndo() bool { return len(e.undo) > 0 }
func (e *Engine) CanRedo() bool { return len(e.redo) > 0 }
