package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/stencil/pkg/errors"
)

// Environment variable names
const (
	// EnvTemplatesRoot overrides the templates root directory
	EnvTemplatesRoot = "STENCIL_TEMPLATES"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvConfigHome is the XDG config directory variable
	EnvConfigHome = "XDG_CONFIG_HOME"
)

// Default directories
const (
	// AppDirName is the directory name for stencil-specific files
	AppDirName = "stencil"

	// TemplatesDirName is the subdirectory holding the templates
	TemplatesDirName = "templates"

	// SettingsFileName is the user settings file inside the app directory
	SettingsFileName = "config.toml"
)

// Options selects explicit locations; empty fields are discovered
type Options struct {
	TemplatesRoot string
	ProjectPath   string
}

// Paths holds the resolved locations for one invocation
type Paths struct {
	templatesRoot string
	projectPath   string

	// usedFallback indicates the project path fell back to the working directory
	usedFallback bool
}

// New resolves templates root and project path.
// TemplatesRoot priority: option, STENCIL_TEMPLATES, $XDG_CONFIG_HOME/stencil/templates.
// ProjectPath priority: option, git top level, working directory.
func New(opts Options) (*Paths, error) {
	p := &Paths{}

	root := opts.TemplatesRoot
	if root == "" {
		root = os.Getenv(EnvTemplatesRoot)
	}
	if root == "" {
		root = DefaultTemplatesRoot()
	}
	absRoot, err := filepath.Abs(ExpandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for templates root")
	}
	p.templatesRoot = absRoot

	project := opts.ProjectPath
	if project == "" {
		project, p.usedFallback, err = findProjectPath()
		if err != nil {
			return nil, err
		}
	}
	absProject, err := filepath.Abs(ExpandHome(project))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for project")
	}
	p.projectPath = absProject

	return p, nil
}

// DefaultTemplatesRoot returns the XDG location of the templates root
func DefaultTemplatesRoot() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, TemplatesDirName)
}

// SettingsFile returns the user settings file location. XDG_CONFIG_HOME is
// read at call time so it can be changed after startup.
func SettingsFile() string {
	configHome := os.Getenv(EnvConfigHome)
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(ExpandHome(configHome), AppDirName, SettingsFileName)
}

// TemplatesRoot returns the directory whose subdirectories are templates
func (p *Paths) TemplatesRoot() string {
	return p.templatesRoot
}

// ProjectPath returns the value substituted for $project_path
func (p *Paths) ProjectPath() string {
	return p.projectPath
}

// UsedFallback returns true if the working directory was used as project path
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// TemplatePath returns the path to a specific template
func (p *Paths) TemplatePath(name string) string {
	return filepath.Join(p.templatesRoot, name)
}

// findProjectPath determines the project path using the git repository root
// when there is one, and the working directory otherwise.
func findProjectPath() (string, bool, error) {
	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		// Not in a git repo or git not installed
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrFileAccess, "git root is empty")
	}

	return gitRoot, nil
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
