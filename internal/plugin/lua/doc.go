// Package lua runs Lua scripts against an editor.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management with execution timeouts
//   - Go-Lua type conversion bridge
//   - The doc module, which exposes an engine.Editor to scripts
//
// # State
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(5 * time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
//	_ = state.Register(lua.NewEditorModule(ed))
//	if err := state.RunFile(ctx, "edit.lua"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. Functions
// that load code (dofile, loadfile, load, loadstring, require) are
// removed, and print writes to the state's logger.
//
// # The doc Module
//
// Positions are flat offsets; node paths are tables of 0-based indices:
//
//	doc.insert_text(1, "Hello")
//	doc.apply_delta({0}, {{retain = 5}, {insert = "!", attributes = {strong = true}}})
//	doc.group("Title", function()
//	    doc.set_block_type({0}, "heading", {level = 1})
//	end)
//	print(doc.text(), doc.revision())
package lua
