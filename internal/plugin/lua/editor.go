package lua

import (
	"encoding/json"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richedit/internal/engine"
	"github.com/dshills/richedit/internal/engine/delta"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
)

// EditorModule exposes an engine.Editor to scripts as the global doc.
//
// Positions are flat offsets into the document content, as in the
// editor's change log. Node paths are tables of 0-based child indices,
// e.g. {0} for the first block. Functions that edit return the new
// revision; failures raise Lua errors.
type EditorModule struct {
	ed *engine.Editor
}

// NewEditorModule creates a module bound to ed.
func NewEditorModule(ed *engine.Editor) *EditorModule {
	return &EditorModule{ed: ed}
}

// Name returns the module name.
func (m *EditorModule) Name() string {
	return "doc"
}

// Register builds the module table.
func (m *EditorModule) Register(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":           m.text,
		"block_text":     m.blockText,
		"size":           m.size,
		"child_count":    m.childCount,
		"json":           m.json,
		"revision":       m.revision,
		"insert_text":    m.insertText,
		"delete":         m.delete,
		"split":          m.split,
		"add_mark":       m.addMark,
		"remove_mark":    m.removeMark,
		"set_block_type": m.setBlockType,
		"delta":          m.delta,
		"apply_delta":    m.applyDelta,
		"undo":           m.undo,
		"redo":           m.redo,
		"can_undo":       m.canUndo,
		"can_redo":       m.canRedo,
		"group":          m.group,
		"select":         m.selectRange,
		"selection":      m.selection,
		"map_since":      m.mapSince,
		"snapshot":       m.snapshot,
	})
}

func raise(L *lua.LState, fn string, err error) int {
	L.RaiseError("doc.%s: %v", fn, err)
	return 0
}

func (m *EditorModule) pushResult(L *lua.LState, fn string, res engine.Result, err error) int {
	if err != nil {
		return raise(L, fn, err)
	}
	L.Push(lua.LNumber(res.Revision))
	return 1
}

func (m *EditorModule) at(L *lua.LState, n int) position.ModelPosition {
	pos, err := position.FromFlatOffset(m.ed.Doc(), L.CheckInt(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return pos
}

// text() -> string
func (m *EditorModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.ed.Text()))
	return 1
}

// block_text(path) -> string
func (m *EditorModule) blockText(L *lua.LState) int {
	n, err := position.NodeAt(m.ed.Doc(), NewBridge(L).CheckIntSlice(1))
	if err != nil {
		return raise(L, "block_text", err)
	}
	L.Push(lua.LString(n.TextContent()))
	return 1
}

// size() -> number
// Returns the content size of the document.
func (m *EditorModule) size(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed.Doc().ContentSize()))
	return 1
}

// child_count([path]) -> number
func (m *EditorModule) childCount(L *lua.LState) int {
	n, err := position.NodeAt(m.ed.Doc(), NewBridge(L).CheckIntSlice(1))
	if err != nil {
		return raise(L, "child_count", err)
	}
	L.Push(lua.LNumber(n.ChildCount()))
	return 1
}

// json() -> string
func (m *EditorModule) json(L *lua.LState) int {
	data, err := json.Marshal(m.ed.Doc())
	if err != nil {
		return raise(L, "json", err)
	}
	L.Push(lua.LString(data))
	return 1
}

// revision() -> number
func (m *EditorModule) revision(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed.Revision()))
	return 1
}

// insert_text(pos, text) -> revision
func (m *EditorModule) insertText(L *lua.LState) int {
	pos := m.at(L, 1)
	res, err := m.ed.InsertText(pos, L.CheckString(2))
	return m.pushResult(L, "insert_text", res, err)
}

// delete(from, to) -> revision
func (m *EditorModule) delete(L *lua.LState) int {
	from, to := m.at(L, 1), m.at(L, 2)
	res, err := m.ed.Delete(from, to)
	return m.pushResult(L, "delete", res, err)
}

// split(pos) -> revision
func (m *EditorModule) split(L *lua.LState) int {
	res, err := m.ed.Split(m.at(L, 1))
	return m.pushResult(L, "split", res, err)
}

// add_mark(from, to, name [, attrs]) -> revision
func (m *EditorModule) addMark(L *lua.LState) int {
	from, to := m.at(L, 1), m.at(L, 2)
	mt, ok := m.ed.Schema().MarkType(L.CheckString(3))
	if !ok {
		return raise(L, "add_mark", fmt.Errorf("%q: %w", L.CheckString(3), model.ErrUnknownType))
	}
	attrs := m.attrs(L, 4)
	res, err := m.ed.AddMark(from, to, mt.Create(attrs))
	return m.pushResult(L, "add_mark", res, err)
}

// remove_mark(from, to, name) -> revision
func (m *EditorModule) removeMark(L *lua.LState) int {
	from, to := m.at(L, 1), m.at(L, 2)
	mt, ok := m.ed.Schema().MarkType(L.CheckString(3))
	if !ok {
		return raise(L, "remove_mark", fmt.Errorf("%q: %w", L.CheckString(3), model.ErrUnknownType))
	}
	res, err := m.ed.RemoveMark(from, to, mt)
	return m.pushResult(L, "remove_mark", res, err)
}

// set_block_type(path, type [, attrs]) -> revision
func (m *EditorModule) setBlockType(L *lua.LState) int {
	path := NewBridge(L).CheckIntSlice(1)
	res, err := m.ed.SetBlockType(path, L.CheckString(2), m.attrs(L, 3))
	return m.pushResult(L, "set_block_type", res, err)
}

// attrs reads an optional attributes table.
func (m *EditorModule) attrs(L *lua.LState, n int) model.Attrs {
	t := L.OptTable(n, nil)
	if t == nil {
		return nil
	}
	v, ok := NewBridge(L).ToGoValue(t).(map[string]any)
	if !ok {
		L.ArgError(n, "attribute table expected")
		return nil
	}
	return model.Attrs(v)
}

// delta(path) -> ops
// Returns the block's content as insert ops.
func (m *EditorModule) delta(L *lua.LState) int {
	d, err := m.ed.DeltaOf(NewBridge(L).CheckIntSlice(1))
	if err != nil {
		return raise(L, "delta", err)
	}
	data, err := json.Marshal(d.Ops())
	if err != nil {
		return raise(L, "delta", err)
	}
	var ops []any
	if err := json.Unmarshal(data, &ops); err != nil {
		return raise(L, "delta", err)
	}
	L.Push(NewBridge(L).ToLuaValue(ops))
	return 1
}

// apply_delta(path, ops) -> revision
// ops is a list such as {{retain = 5}, {insert = "!", attributes = {strong = true}}}.
// An attribute set to false removes the mark.
func (m *EditorModule) applyDelta(L *lua.LState) int {
	b := NewBridge(L)
	path := b.CheckIntSlice(1)
	ops := L.CheckTable(2)

	raw := b.ToGoValue(ops)
	if m, isMap := raw.(map[string]any); isMap && len(m) == 0 {
		raw = []any{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return raise(L, "apply_delta", err)
	}
	d := delta.New()
	if err := d.UnmarshalJSON(data); err != nil {
		return raise(L, "apply_delta", err)
	}
	res, err := m.ed.ApplyDelta(path, d)
	return m.pushResult(L, "apply_delta", res, err)
}

// undo() -> bool
// Returns false when there is nothing to undo.
func (m *EditorModule) undo(L *lua.LState) int {
	_, err := m.ed.Undo()
	return m.pushHistory(L, "undo", err, engine.ErrNothingToUndo)
}

// redo() -> bool
func (m *EditorModule) redo(L *lua.LState) int {
	_, err := m.ed.Redo()
	return m.pushHistory(L, "redo", err, engine.ErrNothingToRedo)
}

func (m *EditorModule) pushHistory(L *lua.LState, fn string, err, empty error) int {
	switch {
	case errors.Is(err, empty):
		L.Push(lua.LFalse)
	case err != nil:
		return raise(L, fn, err)
	default:
		L.Push(lua.LTrue)
	}
	return 1
}

func (m *EditorModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.ed.CanUndo()))
	return 1
}

func (m *EditorModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.ed.CanRedo()))
	return 1
}

// group(label, fn)
// Runs fn with its edits recorded as one undo entry. An error raised
// inside fn ends the group and is re-raised.
func (m *EditorModule) group(L *lua.LState) int {
	label := L.CheckString(1)
	fn := L.CheckFunction(2)
	err := m.ed.Group(label, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		return raise(L, "group", err)
	}
	return 0
}

// select(anchor [, head])
func (m *EditorModule) selectRange(L *lua.LState) int {
	anchor := L.CheckInt(1)
	head := L.OptInt(2, anchor)
	sel, err := position.SelectionFromFlat(m.ed.Doc(), anchor, head)
	if err == nil {
		err = m.ed.SetSelection(sel)
	}
	if err != nil {
		return raise(L, "select", err)
	}
	return 0
}

// selection() -> anchor, head
func (m *EditorModule) selection(L *lua.LState) int {
	anchor, head, err := m.ed.Selection().ToFlat(m.ed.Doc())
	if err != nil {
		return raise(L, "selection", err)
	}
	L.Push(lua.LNumber(anchor))
	L.Push(lua.LNumber(head))
	return 2
}

// map_since(rev, pos [, assoc]) -> pos
func (m *EditorModule) mapSince(L *lua.LState) int {
	rev := engine.RevisionID(L.CheckInt(1))
	mapped, err := m.ed.MapSince(rev, L.CheckInt(2), L.OptInt(3, 1))
	if err != nil {
		return raise(L, "map_since", err)
	}
	L.Push(lua.LNumber(mapped))
	return 1
}

// snapshot(name) -> id
func (m *EditorModule) snapshot(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed.CreateSnapshot(L.CheckString(1))))
	return 1
}
