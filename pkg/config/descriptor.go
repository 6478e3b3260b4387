package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Placeholder tokens
const (
	// NameToken is replaced by the instance name in copied file and directory names
	NameToken = "__name__"

	// ProjectPathPlaceholder is replaced by the project root inside default_path
	ProjectPathPlaceholder = "$project_path"
)

// Defaults for descriptor fields
const (
	DefaultDescriptorFile = "TEMPLATE.json"
	DefaultPrompt         = "Insert new name"
	DefaultPath           = ProjectPathPlaceholder
)

// Recognized descriptor keys
const (
	KeyIgnorePatterns = "ignore_patterns"
	KeyDefaultPath    = "default_path"
	KeyPrompt         = "prompt"
	KeyMain           = "main"
)

// Descriptor is the resolved configuration of a single template
type Descriptor struct {
	IgnorePatterns []string `koanf:"ignore_patterns"`
	DefaultPath    string   `koanf:"default_path"`
	Prompt         string   `koanf:"prompt"`

	// Main is empty when the template defines no main file
	Main string `koanf:"main"`

	// Extra holds unrecognized top-level fields as parsed
	Extra map[string]interface{} `koanf:"-"`
}

// Defaults returns the descriptor used when a template does not override a field.
// descriptorFile is the name of the template's own descriptor, which is ignored
// by default so it never ends up in an instance.
func Defaults(descriptorFile string) Descriptor {
	if descriptorFile == "" {
		descriptorFile = DefaultDescriptorFile
	}
	return Descriptor{
		IgnorePatterns: []string{descriptorFile},
		DefaultPath:    DefaultPath,
		Prompt:         DefaultPrompt,
	}
}

// Merge overlays the parsed fields of a descriptor file on top of base.
// Any field present in parsed wins, including an explicit empty list.
// Neither argument is modified.
func Merge(base Descriptor, parsed map[string]interface{}) (Descriptor, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(base.Map(), ""), nil); err != nil {
		return base, fmt.Errorf("failed to load base descriptor: %w", err)
	}
	if err := k.Load(confmap.Provider(parsed, ""), nil); err != nil {
		return base, fmt.Errorf("failed to load parsed descriptor: %w", err)
	}

	var merged Descriptor
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &merged,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &merged, unmarshalConf); err != nil {
		return base, fmt.Errorf("failed to decode descriptor: %w", err)
	}

	merged.Extra = extraFields(k.Raw())
	return merged, nil
}

// Map exposes the descriptor as a key/value mapping. The returned map is a
// fresh copy; changing it does not affect the descriptor.
func (d Descriptor) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(d.Extra)+4)
	for k, v := range d.Extra {
		out[k] = v
	}

	patterns := make([]string, len(d.IgnorePatterns))
	copy(patterns, d.IgnorePatterns)
	out[KeyIgnorePatterns] = patterns
	out[KeyDefaultPath] = d.DefaultPath
	out[KeyPrompt] = d.Prompt
	if d.Main != "" {
		out[KeyMain] = d.Main
	}
	return out
}

// HasMain reports whether the template names a main file
func (d Descriptor) HasMain() bool {
	return d.Main != ""
}

// ResolveDefaultPath substitutes the project root into default_path
func (d Descriptor) ResolveDefaultPath(projectPath string) string {
	return strings.ReplaceAll(d.DefaultPath, ProjectPathPlaceholder, projectPath)
}

// MainPath returns where the main file of an instance lives, with the name
// token substituted. The second result is false when no main file is configured.
func (d Descriptor) MainPath(instanceRoot, newName string) (string, bool) {
	if !d.HasMain() {
		return "", false
	}
	rel := strings.ReplaceAll(d.Main, NameToken, newName)
	return filepath.Join(instanceRoot, filepath.FromSlash(rel)), true
}

func extraFields(raw map[string]interface{}) map[string]interface{} {
	var extra map[string]interface{}
	for k, v := range raw {
		switch k {
		case KeyIgnorePatterns, KeyDefaultPath, KeyPrompt, KeyMain:
			continue
		}
		if extra == nil {
			extra = make(map[string]interface{})
		}
		extra[k] = v
	}
	return extra
}
