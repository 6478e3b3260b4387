package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults("")
	assert.Equal(t, []string{"TEMPLATE.json"}, d.IgnorePatterns)
	assert.Equal(t, "$project_path", d.DefaultPath)
	assert.Equal(t, "Insert new name", d.Prompt)
	assert.False(t, d.HasMain())
	assert.Nil(t, d.Extra)

	assert.Equal(t, []string{"TEMPLATE.toml"}, Defaults("TEMPLATE.toml").IgnorePatterns)
}

func TestDefaults_ReturnsIndependentCopies(t *testing.T) {
	a := Defaults("")
	a.IgnorePatterns[0] = "mutated"

	b := Defaults("")
	assert.Equal(t, "TEMPLATE.json", b.IgnorePatterns[0])
}

func TestMerge_EachField(t *testing.T) {
	defaults := Defaults("")

	tests := []struct {
		name   string
		parsed map[string]interface{}
		check  func(t *testing.T, d Descriptor)
	}{
		{
			name:   "missing_ignore_patterns_uses_default",
			parsed: map[string]interface{}{"prompt": "x"},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, []string{"TEMPLATE.json"}, d.IgnorePatterns)
			},
		},
		{
			name:   "provided_ignore_patterns_win",
			parsed: map[string]interface{}{"ignore_patterns": []interface{}{"*.tmp", "TEMPLATE.json"}},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, []string{"*.tmp", "TEMPLATE.json"}, d.IgnorePatterns)
			},
		},
		{
			name:   "explicit_empty_ignore_patterns_win",
			parsed: map[string]interface{}{"ignore_patterns": []interface{}{}},
			check: func(t *testing.T, d Descriptor) {
				assert.Empty(t, d.IgnorePatterns)
			},
		},
		{
			name:   "comma_separated_ignore_patterns",
			parsed: map[string]interface{}{"ignore_patterns": "*.tmp,*.bak"},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, []string{"*.tmp", "*.bak"}, d.IgnorePatterns)
			},
		},
		{
			name:   "missing_default_path_uses_default",
			parsed: map[string]interface{}{},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, "$project_path", d.DefaultPath)
			},
		},
		{
			name:   "provided_default_path_wins",
			parsed: map[string]interface{}{"default_path": "$project_path/src"},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, "$project_path/src", d.DefaultPath)
			},
		},
		{
			name:   "missing_prompt_uses_default",
			parsed: map[string]interface{}{},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, "Insert new name", d.Prompt)
			},
		},
		{
			name:   "provided_prompt_wins",
			parsed: map[string]interface{}{"prompt": "Component name"},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, "Component name", d.Prompt)
			},
		},
		{
			name:   "missing_main_stays_absent",
			parsed: map[string]interface{}{},
			check: func(t *testing.T, d Descriptor) {
				assert.False(t, d.HasMain())
			},
		},
		{
			name:   "provided_main_wins",
			parsed: map[string]interface{}{"main": "__name__.py"},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, "__name__.py", d.Main)
			},
		},
		{
			name:   "unknown_fields_pass_through",
			parsed: map[string]interface{}{"author": "ada", "tags": []interface{}{"a"}},
			check: func(t *testing.T, d Descriptor) {
				assert.Equal(t, "ada", d.Extra["author"])
				assert.Equal(t, []interface{}{"a"}, d.Extra["tags"])
				assert.Equal(t, "Insert new name", d.Prompt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Merge(defaults, tt.parsed)
			require.NoError(t, err)
			tt.check(t, merged)
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	defaults := Defaults("")
	parsed := map[string]interface{}{"ignore_patterns": []interface{}{"*.log"}}

	_, err := Merge(defaults, parsed)
	require.NoError(t, err)

	assert.Equal(t, []string{"TEMPLATE.json"}, defaults.IgnorePatterns)
	assert.Equal(t, []interface{}{"*.log"}, parsed["ignore_patterns"])
}

func TestMerge_RejectsWrongShape(t *testing.T) {
	_, err := Merge(Defaults(""), map[string]interface{}{
		"prompt": map[string]interface{}{"nested": true},
	})
	assert.Error(t, err)
}

func TestDescriptorMap(t *testing.T) {
	d := Descriptor{
		IgnorePatterns: []string{"*.tmp"},
		DefaultPath:    "/srv",
		Prompt:         "Name?",
		Main:           "main.go",
		Extra:          map[string]interface{}{"author": "ada"},
	}

	m := d.Map()
	assert.Equal(t, []string{"*.tmp"}, m[KeyIgnorePatterns])
	assert.Equal(t, "/srv", m[KeyDefaultPath])
	assert.Equal(t, "Name?", m[KeyPrompt])
	assert.Equal(t, "main.go", m[KeyMain])
	assert.Equal(t, "ada", m["author"])

	// The mapping is a copy
	m[KeyIgnorePatterns].([]string)[0] = "changed"
	m[KeyPrompt] = "changed"
	assert.Equal(t, "*.tmp", d.IgnorePatterns[0])
	assert.Equal(t, "Name?", d.Prompt)

	_, hasMain := Defaults("").Map()[KeyMain]
	assert.False(t, hasMain)
}

func TestResolveDefaultPath(t *testing.T) {
	tests := []struct {
		defaultPath string
		project     string
		want        string
	}{
		{"$project_path", "/work/app", "/work/app"},
		{"$project_path/components", "/work/app", "/work/app/components"},
		{"/fixed/path", "/work/app", "/fixed/path"},
		{"$project_path", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.defaultPath, func(t *testing.T) {
			d := Descriptor{DefaultPath: tt.defaultPath}
			assert.Equal(t, tt.want, d.ResolveDefaultPath(tt.project))
		})
	}
}

func TestMainPath(t *testing.T) {
	root := filepath.Join("dest", "Foo")

	_, ok := Defaults("").MainPath(root, "Foo")
	assert.False(t, ok)

	d := Descriptor{Main: "src/__name__.go"}
	got, ok := d.MainPath(root, "Foo")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src", "Foo.go"), got)
}
