package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/richedit/internal/engine"
	"github.com/dshills/richedit/internal/engine/delta"
	"github.com/dshills/richedit/internal/engine/model"
)

// readDocument decodes the node JSON at path through schema.
func (app *Application) readDocument(schema *model.Schema, path string) (*model.Node, error) {
	data, err := app.fs.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	doc, err := schema.NodeFromJSON(data)
	if err != nil {
		return nil, &FileError{Op: "decode", Path: path, Err: err}
	}
	if doc.Type() != schema.TopNodeType() {
		return nil, &FileError{
			Op:   "decode",
			Path: path,
			Err:  fmt.Errorf("root is %s, want %s: %w", doc.Type().Name(), schema.TopNodeType().Name(), ErrInvalidOperation),
		}
	}
	return doc, nil
}

// OpenDocument replaces the editor's document with the node JSON at path.
// History and the change log are reset.
func (app *Application) OpenDocument(path string) (engine.Result, error) {
	ed := app.Editor()
	doc, err := app.readDocument(ed.Schema(), path)
	if err != nil {
		return engine.Result{}, err
	}
	res, err := ed.SetDoc(doc)
	if err != nil {
		return engine.Result{}, NewOperationError("open", path, err)
	}
	app.Logger().Info("document opened", "path", path, "size", doc.ContentSize())
	return res, nil
}

// DocumentJSON returns the editor's document as indented node JSON.
func (app *Application) DocumentJSON() ([]byte, error) {
	data, err := json.MarshalIndent(app.Editor().Doc(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// SaveDocument writes the editor's document as node JSON to path.
func (app *Application) SaveDocument(path string) error {
	data, err := app.DocumentJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	app.Logger().Info("document saved", "path", path, "revision", app.Editor().Revision())
	return nil
}

// ApplyDeltaFile applies the delta JSON at path to the textblock at
// blockPath. The file holds an op array or an object with an ops array.
func (app *Application) ApplyDeltaFile(path string, blockPath []int) (engine.Result, error) {
	data, err := app.fs.ReadFile(path)
	if err != nil {
		return engine.Result{}, &FileError{Op: "read delta", Path: path, Err: err}
	}
	d := delta.New()
	if err := d.UnmarshalJSON(data); err != nil {
		return engine.Result{}, &FileError{Op: "decode delta", Path: path, Err: err}
	}
	res, err := app.Editor().ApplyDelta(blockPath, d)
	if err != nil {
		return engine.Result{}, NewOperationError("apply delta", path, err)
	}
	return res, nil
}
