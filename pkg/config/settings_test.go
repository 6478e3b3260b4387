package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TEMPLATES", "FORMAT", "EDIT", "DESCRIPTOR_FORMAT"} {
		t.Setenv(EnvPrefix+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+key))
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, &Settings{
		Templates:        "",
		Format:           "auto",
		Edit:             true,
		DescriptorFormat: "toml",
	}, s)
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	clearSettingsEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates = "/srv/templates"
format = "text"
edit = false
`), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/templates", s.Templates)
	assert.Equal(t, "text", s.Format)
	assert.False(t, s.Edit)
	assert.Equal(t, "toml", s.DescriptorFormat)

	t.Setenv("STENCIL_FORMAT", "json")
	t.Setenv("STENCIL_EDIT", "true")
	t.Setenv("STENCIL_DESCRIPTOR_FORMAT", "yaml")

	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Format)
	assert.True(t, s.Edit)
	assert.Equal(t, "yaml", s.DescriptorFormat)
	assert.Equal(t, "/srv/templates", s.Templates)
}

func TestLoadSettings_MalformedFile(t *testing.T) {
	clearSettingsEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`format = = "x"`), 0644))

	_, err := LoadSettings(path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigRead))
}

func TestLoadSettings_NoPath(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "auto", s.Format)
}
