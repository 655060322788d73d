//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/engine"
	"github.com/inamate/vecscene/internal/markup"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	sceneEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	sceneEngine.Set("loadScene", js.FuncOf(loadScene))
	sceneEngine.Set("loadSampleScene", js.FuncOf(loadSampleScene))
	sceneEngine.Set("applyOp", js.FuncOf(applyOp))
	sceneEngine.Set("undo", js.FuncOf(undo))
	sceneEngine.Set("redo", js.FuncOf(redo))
	sceneEngine.Set("setSelection", js.FuncOf(setSelection))

	// --- Queries (frontend ← backend) ---
	sceneEngine.Set("emitSVG", js.FuncOf(emitSVG))
	sceneEngine.Set("emitMinifiedSVG", js.FuncOf(emitMinifiedSVG))
	sceneEngine.Set("getScene", js.FuncOf(getScene))
	sceneEngine.Set("getSelection", js.FuncOf(getSelection))
	sceneEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	sceneEngine.Set("hitTest", js.FuncOf(hitTest))
	sceneEngine.Set("getHistoryState", js.FuncOf(getHistoryState))

	// Register on global scope
	js.Global().Set("vecsceneEngine", sceneEngine)

	// Signal that WASM is ready
	js.Global().Set("vecsceneWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func loadScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing scene JSON"})
	}
	if err := eng.LoadScene([]byte(args[0].String())); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleScene(this js.Value, args []js.Value) interface{} {
	eng.LoadSampleScene()
	return okResult()
}

func applyOp(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing operation JSON"})
	}
	id, err := eng.Apply([]byte(args[0].String()))
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "operationId": id})
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

// setSelection takes an array of child indices, or nothing to clear.
func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.Select(nil)
		return okResult()
	}

	arr := args[0]
	addr := make(document.Address, arr.Length())
	for i := range addr {
		addr[i] = arr.Index(i).Int()
	}
	if err := eng.Select(addr); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// --- Query Handlers ---

func emitSVG(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Markup())
}

func emitMinifiedSVG(this js.Value, args []js.Value) interface{} {
	out, err := markup.Minify([]byte(eng.Markup()))
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(out))
}

func getScene(this js.Value, args []js.Value) interface{} {
	data, err := eng.SceneJSON()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(data)
}

func getSelection(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.Selection())
	return js.ValueOf(string(data))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	r, ok := eng.SelectionBounds()
	if !ok {
		return js.Null()
	}
	data, _ := json.Marshal(r)
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.Null()
	}
	addr := eng.HitTest(int64(args[0].Int()), int64(args[1].Int()))
	if addr == nil {
		return js.Null()
	}
	data, _ := json.Marshal(addr)
	return js.ValueOf(string(data))
}

func getHistoryState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(map[string]interface{}{
		"canUndo": eng.CanUndo(),
		"canRedo": eng.CanRedo(),
	})
}
