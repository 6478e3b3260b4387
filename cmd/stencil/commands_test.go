package stencil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/testutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	templates string
	project   string
	config    string
}

func setupEnv(t *testing.T) env {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	for _, key := range []string{"STENCIL_TEMPLATES", "STENCIL_FORMAT", "STENCIL_EDIT", "STENCIL_DESCRIPTOR_FORMAT", "STENCIL_LOG_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	e := env{
		templates: filepath.Join(tmp, "templates"),
		project:   filepath.Join(tmp, "project"),
		config:    filepath.Join(tmp, "config", "stencil", "config.toml"),
	}
	fs := afero.NewOsFs()
	testutil.WriteTree(t, fs, e.templates, map[string]string{
		"component/TEMPLATE.json":       `{"prompt": "Component name", "main": "__name__.tsx", "ignore_patterns": ["TEMPLATE.json", "*.tmp"]}`,
		"component/__name__.tsx":        "export {}\n",
		"component/notes.tmp":           "",
		"component/styles/__name__.css": "",
		"script/run.sh":                 "#!/bin/sh\n",
	})
	require.NoError(t, fs.MkdirAll(e.project, 0755))
	return e
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--templates", e.templates, "--project", e.project}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListCmd(t *testing.T) {
	e := setupEnv(t)
	require.NoError(t, os.Mkdir(filepath.Join(e.templates, "Zeta"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(e.templates, "README.md"), nil, 0644))

	out, err := e.run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "Zeta\ncomponent\nscript\n", out)
}

func TestListCmd_JSON(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "list", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Root      string `json:"root"`
		Templates []struct {
			Name         string `json:"name"`
			ConfigStatus string `json:"config_status"`
			Main         string `json:"main"`
		} `json:"templates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, e.templates, doc.Root)
	require.Len(t, doc.Templates, 2)
	assert.Equal(t, "component", doc.Templates[0].Name)
	assert.Equal(t, "loaded", doc.Templates[0].ConfigStatus)
	assert.Equal(t, "__name__.tsx", doc.Templates[0].Main)
	assert.Equal(t, "absent", doc.Templates[1].ConfigStatus)
}

func TestListCmd_MissingRoot(t *testing.T) {
	e := setupEnv(t)
	e.templates = filepath.Join(e.templates, "missing")

	_, err := e.run(t, "list")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDiscovery), "got %v", err)
}

func TestListCmd_BadFormat(t *testing.T) {
	e := setupEnv(t)

	_, err := e.run(t, "list", "--format", "xml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestShowCmd(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "show", "component")
	require.NoError(t, err)
	assert.Contains(t, out, "descriptor: loaded")
	assert.Contains(t, out, "prompt: Component name")
	assert.Contains(t, out, "main: __name__.tsx")
	assert.Contains(t, out, "ignore: TEMPLATE.json *.tmp")

	out, err = e.run(t, "show", "script")
	require.NoError(t, err)
	assert.Contains(t, out, "descriptor: absent")
	assert.Contains(t, out, "prompt: Insert new name")
}

func TestShowCmd_Output(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "show", "component", "-o", "toml")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, toml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Component name", doc["prompt"])
	assert.Equal(t, "$project_path", doc["default_path"])

	_, err = e.run(t, "show", "component", "-o", "ini")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestShowCmd_UnknownTemplate(t *testing.T) {
	e := setupEnv(t)

	_, err := e.run(t, "show", "nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
}

func TestNewCmd(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "new", "component", "Button", "--dest", e.project, "--edit=false")
	require.NoError(t, err)

	root := filepath.Join(e.project, "Button")
	assert.Contains(t, out, "created "+root)
	assert.Equal(t, map[string]string{
		"Button.tsx":        "export {}\n",
		"styles/":           "",
		"styles/Button.css": "",
	}, testutil.ReadTree(t, afero.NewOsFs(), root))
}

func TestNewCmd_PrintsMainWithoutEditor(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "new", "component", "Card", "--dest", e.project)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(e.project, "Card", "Card.tsx")+"\n")
}

func TestNewCmd_Errors(t *testing.T) {
	e := setupEnv(t)

	_, err := e.run(t, "new", "script", "deploy", "--dest", e.project)
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"existing_destination", []string{"new", "script", "deploy", "--dest", e.project}, errors.ErrDestinationExists},
		{"unknown_template", []string{"new", "nope", "x", "--dest", e.project}, errors.ErrTemplateNotFound},
		{"invalid_name", []string{"new", "script", "a/b", "--dest", e.project}, errors.ErrInvalidInput},
		{"missing_dest", []string{"new", "script", "x", "--dest", filepath.Join(e.project, "missing")}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(t, tt.args...)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestInitCmd(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "init", "widget")
	require.NoError(t, err)
	assert.Contains(t, out, "Created template 'widget'")

	result := config.Load(afero.NewOsFs(), filepath.Join(e.templates, "widget"))
	assert.Equal(t, config.StatusLoaded, result.Status)
	assert.Equal(t, filepath.Join(e.templates, "widget", "TEMPLATE.toml"), result.Path)
	assert.Equal(t, config.Defaults("TEMPLATE.toml"), result.Descriptor)

	out, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "widget")

	_, err = e.run(t, "init", "widget")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationExists))
}

func TestInitCmd_DescriptorFormat(t *testing.T) {
	e := setupEnv(t)

	_, err := e.run(t, "init", "page", "--descriptor", "json")
	require.NoError(t, err)

	result := config.Load(afero.NewOsFs(), filepath.Join(e.templates, "page"))
	assert.Equal(t, config.StatusLoaded, result.Status)
	assert.Equal(t, []string{"TEMPLATE.json"}, result.Descriptor.IgnorePatterns)

	_, err = e.run(t, "init", "other", "--descriptor", "ini")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInitCmd_CreatesTemplatesRoot(t *testing.T) {
	e := setupEnv(t)
	e.templates = filepath.Join(e.templates, "nested", "root")

	_, err := e.run(t, "init", "first")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(e.templates, "first"))
}

func TestInitCmd_InvalidName(t *testing.T) {
	e := setupEnv(t)

	_, err := e.run(t, "init", "..")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestVersionCmd(t *testing.T) {
	e := setupEnv(t)

	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "stencil version dev")
}

func TestCompletionCmd(t *testing.T) {
	e := setupEnv(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := e.run(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "stencil")
		})
	}

	_, err := e.run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestTemplateNameCompletion(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("STENCIL_TEMPLATES", e.templates)

	out, err := e.run(t, "__complete", "show", "c")
	require.NoError(t, err)
	assert.Contains(t, out, "component")
	assert.NotContains(t, out, "script")
}

func TestRootCmd_NoCommand(t *testing.T) {
	e := setupEnv(t)

	_, err := e.run(t)
	assert.Error(t, err)
}

func TestSettings_FileAndEnv(t *testing.T) {
	e := setupEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.config), 0755))
	require.NoError(t, os.WriteFile(e.config, []byte("format = \"json\"\nedit = false\n"), 0644))

	out, err := e.run(t, "list")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "expected json, got %q", out)

	out, err = e.run(t, "list", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "component\nscript\n", out)

	out, err = e.run(t, "new", "component", "Card", "--dest", e.project, "--format", "text")
	require.NoError(t, err)
	assert.NotContains(t, out, filepath.Join(e.project, "Card", "Card.tsx")+"\n")

	t.Setenv("STENCIL_DESCRIPTOR_FORMAT", "yaml")
	_, err = e.run(t, "init", "widget")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(e.templates, "widget", "TEMPLATE.yaml"))
}

func TestSettings_Malformed(t *testing.T) {
	e := setupEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.config), 0755))
	require.NoError(t, os.WriteFile(e.config, []byte("format = = 1"), 0644))

	_, err := e.run(t, "list")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigRead), "got %v", err)
}

func TestHelpTopics(t *testing.T) {
	e := setupEnv(t)

	tests := []struct {
		args     []string
		contains string
	}{
		{[]string{"help", "topics"}, "  descriptor\n"},
		{[]string{"help", "topics"}, "  --dest\n"},
		{[]string{"help", "tokens"}, "__name__.tsx"},
		{[]string{"help", "settings"}, "STENCIL_<KEY>"},
		{[]string{"help", "dest"}, "must already exist"},
		{[]string{"help", "new"}, "--dest"},
	}

	for _, tt := range tests {
		t.Run(tt.args[1]+"_"+tt.contains, func(t *testing.T) {
			out, err := e.run(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}
}
