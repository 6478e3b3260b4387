package catalog

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Catalog lists the templates under a root directory
type Catalog struct {
	fs     afero.Fs
	root   string
	names  []string
	logger zerolog.Logger
}

// Open creates a catalog for root and performs the first listing.
// It fails with an ErrDiscovery error when root is missing or not a directory.
func Open(fs afero.Fs, root string) (*Catalog, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDiscovery, "invalid templates root").
			WithDetail("path", root)
	}

	c := &Catalog{
		fs:     fs,
		root:   absRoot,
		logger: logging.GetLogger("catalog"),
	}
	if _, err := c.List(); err != nil {
		return nil, err
	}
	return c, nil
}

// Root returns the absolute templates root
func (c *Catalog) Root() string {
	return c.root
}

// List reads the templates root and returns the sorted template names.
// The result replaces the names remembered for Resolve.
func (c *Catalog) List() ([]string, error) {
	c.logger.Trace().Str("root", c.root).Msg("Listing templates")

	info, err := c.fs.Stat(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrDiscovery, "templates root does not exist").
				WithDetail("path", c.root)
		}
		return nil, errors.Wrap(err, errors.ErrDiscovery, "cannot access templates root").
			WithDetail("path", c.root)
	}

	if !info.IsDir() {
		return nil, errors.New(errors.ErrDiscovery, "templates root is not a directory").
			WithDetail("path", c.root)
	}

	entries, err := afero.ReadDir(c.fs, c.root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDiscovery, "cannot read templates root").
			WithDetail("path", c.root)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !c.isDir(entry) {
			c.logger.Trace().Str("name", entry.Name()).Msg("Skipping non-directory entry")
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	c.names = names

	c.logger.Debug().Int("count", len(names)).Msg("Found templates")
	return c.Names(), nil
}

// Names returns the names from the most recent List without reading the filesystem
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Contains reports whether name was part of the most recent List
func (c *Catalog) Contains(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// Resolve returns the template called name with its descriptor loaded, or
// nil when name was not part of the most recent List.
func (c *Catalog) Resolve(name string) *types.Template {
	if !c.Contains(name) {
		c.logger.Debug().Str("template", name).Msg("Unknown template")
		return nil
	}

	path := filepath.Join(c.root, name)
	result := config.Load(c.fs, path)

	c.logger.Trace().
		Str("template", name).
		Str("config", result.Status.String()).
		Msg("Resolved template")

	return types.NewTemplate(name, path, result)
}

// isDir follows symlinks so a linked template directory is listed too
func (c *Catalog) isDir(entry os.FileInfo) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Mode()&os.ModeSymlink == 0 {
		return false
	}
	info, err := c.fs.Stat(filepath.Join(c.root, entry.Name()))
	return err == nil && info.IsDir()
}
