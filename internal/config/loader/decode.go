package loader

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DecodeFile reads path from fsys and decodes it into v with the decoder
// matching the file extension. Unlike the map loaders, a missing file is
// an error.
func DecodeFile(fsys FileSystem, path string, v any) error {
	if fsys == nil {
		fsys = DefaultFS()
	}
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(format, path, data, v)
}

// Decode decodes data in the given format into v. Parse failures are
// returned as *ParseError naming source.
func Decode(format Format, source string, data []byte, v any) error {
	var err error
	switch format {
	case FormatTOML:
		if err = toml.Unmarshal(data, v); err != nil {
			return tomlParseError(source, err)
		}
		return nil
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatJSON:
		err = json.Unmarshal(data, v)
	default:
		return fmt.Errorf("%s: %w", source, ErrUnsupportedFormat)
	}
	if err != nil {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}
