package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	kjson "github.com/knadh/koanf/parsers/json"
	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// Format identifies the syntax of a descriptor file
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// DescriptorFile is a candidate descriptor filename and its syntax
type DescriptorFile struct {
	Name   string
	Format Format
}

// DescriptorFiles lists the descriptor names looked up in a template root, in
// priority order. The first one present is used.
var DescriptorFiles = []DescriptorFile{
	{Name: "TEMPLATE.json", Format: FormatJSON},
	{Name: "TEMPLATE.toml", Format: FormatTOML},
	{Name: "TEMPLATE.yaml", Format: FormatYAML},
	{Name: "TEMPLATE.yml", Format: FormatYAML},
}

// Status describes how a descriptor was obtained
type Status int

const (
	// StatusAbsent means the template has no descriptor; defaults apply
	StatusAbsent Status = iota
	// StatusLoaded means a descriptor was parsed and merged over the defaults
	StatusLoaded
	// StatusMalformed means a descriptor exists but could not be used; defaults apply
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusLoaded:
		return "loaded"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// LoadResult is the outcome of reading a template descriptor
type LoadResult struct {
	Descriptor Descriptor
	Status     Status

	// Path is the descriptor file that was read, empty when absent
	Path string

	// Err is the read or parse failure when Status is StatusMalformed
	Err error
}

// Load reads the descriptor of the template rooted at templateDir.
// It never fails; problems are reported through the result status.
func Load(fs afero.Fs, templateDir string) LoadResult {
	logger := logging.GetLogger("config").With().Str("template", templateDir).Logger()

	file, path, err := findDescriptor(fs, templateDir)
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot inspect template descriptor, using defaults")
		return LoadResult{
			Descriptor: Defaults(file.Name),
			Status:     StatusMalformed,
			Path:       path,
			Err:        err,
		}
	}
	if path == "" {
		logger.Trace().Msg("No descriptor, using defaults")
		return LoadResult{Descriptor: Defaults(DefaultDescriptorFile), Status: StatusAbsent}
	}

	defaults := Defaults(file.Name)
	malformed := func(err error) LoadResult {
		logger.Warn().Err(err).Str("descriptor", path).Msg("Malformed template descriptor, using defaults")
		return LoadResult{Descriptor: defaults, Status: StatusMalformed, Path: path, Err: err}
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return malformed(errors.Wrap(err, errors.ErrConfigRead, "cannot read descriptor").
			WithDetail("path", path))
	}

	parsed, err := Parse(data, file.Format)
	if err != nil {
		return malformed(errors.Wrap(err, errors.ErrConfigRead, "cannot parse descriptor").
			WithDetail("path", path).
			WithDetail("format", string(file.Format)))
	}

	merged, err := Merge(defaults, parsed)
	if err != nil {
		return malformed(errors.Wrap(err, errors.ErrConfigRead, "invalid descriptor fields").
			WithDetail("path", path))
	}

	logger.Debug().
		Str("descriptor", path).
		Strs("ignore_patterns", merged.IgnorePatterns).
		Bool("has_main", merged.HasMain()).
		Int("extra_fields", len(merged.Extra)).
		Msg("Template descriptor loaded")

	return LoadResult{Descriptor: merged, Status: StatusLoaded, Path: path}
}

// Parse decodes descriptor content. Blank content is an empty record.
func Parse(data []byte, format Format) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, nil
	}

	var parser koanf.Parser
	switch format {
	case FormatJSON:
		// Descriptors are hand edited; accept comments and trailing commas
		data = jsonc.ToJSON(data)
		parser = kjson.Parser()
	case FormatTOML:
		parser = ktoml.Parser()
	case FormatYAML:
		parser = kyaml.Parser()
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown descriptor format %q", format)
	}

	parsed, err := parser.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		parsed = map[string]interface{}{}
	}
	return parsed, nil
}

// findDescriptor returns the first descriptor present in templateDir.
// An empty path with a nil error means there is none.
func findDescriptor(fs afero.Fs, templateDir string) (DescriptorFile, string, error) {
	for _, candidate := range DescriptorFiles {
		path := filepath.Join(templateDir, candidate.Name)
		info, err := fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return candidate, path, errors.Wrap(err, errors.ErrConfigRead, "cannot access descriptor").
				WithDetail("path", path)
		}
		if info.IsDir() {
			continue
		}
		return candidate, path, nil
	}
	return DescriptorFile{}, "", nil
}
