package config

import (
	"encoding/json"

	"github.com/arthur-debert/stencil/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Encode renders a descriptor in the given syntax. Extra fields are included.
func Encode(d Descriptor, format Format) ([]byte, error) {
	m := d.Map()

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(m)
	case FormatYAML:
		return yaml.Marshal(m)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown descriptor format %q", format)
	}
}

// FileForFormat returns the descriptor filename used for a syntax
func FileForFormat(format Format) (string, bool) {
	for _, f := range DescriptorFiles {
		if f.Format == format {
			return f.Name, true
		}
	}
	return "", false
}
