package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	templatesRoot := filepath.Join(t.TempDir(), "nested", "templates")

	dir, err := Create(templatesRoot, "widget", config.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(templatesRoot, "widget"), dir)

	result := config.Load(afero.NewOsFs(), dir)
	assert.Equal(t, config.StatusLoaded, result.Status)
	assert.Equal(t, filepath.Join(dir, "TEMPLATE.toml"), result.Path)
	defaults := config.Defaults("TEMPLATE.toml")
	assert.Equal(t, defaults.IgnorePatterns, result.Descriptor.IgnorePatterns)
	assert.Equal(t, defaults.DefaultPath, result.Descriptor.DefaultPath)
	assert.Equal(t, defaults.Prompt, result.Descriptor.Prompt)

	c, err := Open(afero.NewOsFs(), templatesRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"widget"}, c.Names())
}

func TestCreate_Formats(t *testing.T) {
	for _, format := range []config.Format{config.FormatJSON, config.FormatTOML, config.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			dir, err := Create(t.TempDir(), "page", format)
			require.NoError(t, err)

			file, _ := config.FileForFormat(format)
			assert.FileExists(t, filepath.Join(dir, file))
			assert.Equal(t, config.StatusLoaded, config.Load(afero.NewOsFs(), dir).Status)
		})
	}
}

func TestCreate_Errors(t *testing.T) {
	templatesRoot := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(templatesRoot, "taken"), 0755))

	tests := []struct {
		name     string
		template string
		format   config.Format
		code     errors.ErrorCode
	}{
		{"existing_template", "taken", config.FormatTOML, errors.ErrDestinationExists},
		{"invalid_name", "a/b", config.FormatTOML, errors.ErrInvalidInput},
		{"dot_name", "..", config.FormatTOML, errors.ErrInvalidInput},
		{"unknown_format", "fresh", config.Format("ini"), errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(templatesRoot, tt.template, tt.format)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}

	assert.NoDirExists(t, filepath.Join(templatesRoot, "fresh"))
}
