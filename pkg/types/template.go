package types

import (
	"github.com/arthur-debert/stencil/pkg/config"
)

// Template is a directory tree used as the source pattern for new instances
type Template struct {
	// Name is the template directory name
	Name string

	// Path is the absolute path to the template directory
	Path string

	// Config is the descriptor merged over the defaults
	Config config.Descriptor

	// ConfigStatus tells whether Config came from a descriptor file
	ConfigStatus config.Status

	// ConfigPath is the descriptor file that was read, empty when absent
	ConfigPath string

	// ConfigErr is the reason a present descriptor was not used
	ConfigErr error
}

// NewTemplate builds a Template from a descriptor load result
func NewTemplate(name, path string, result config.LoadResult) *Template {
	return &Template{
		Name:         name,
		Path:         path,
		Config:       result.Descriptor,
		ConfigStatus: result.Status,
		ConfigPath:   result.Path,
		ConfigErr:    result.Err,
	}
}
