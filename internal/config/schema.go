package config

import (
	"fmt"

	"github.com/dshills/richedit/internal/config/loader"
	"github.com/dshills/richedit/internal/engine/model"
)

// LoadSchemaSpec decodes a schema definition file. The format follows the
// extension: .toml, .yaml/.yml, or .json.
func LoadSchemaSpec(fs loader.FileSystem, path string) (*model.SchemaSpec, error) {
	var spec model.SchemaSpec
	if err := loader.DecodeFile(fs, path, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadSchema decodes and compiles a schema definition file.
func LoadSchema(fs loader.FileSystem, path string, opts ...model.SchemaOption) (*model.Schema, error) {
	spec, err := LoadSchemaSpec(fs, path)
	if err != nil {
		return nil, err
	}
	s, err := model.NewSchema(spec, opts...)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}
