package instantiate

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/paths"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Rename records one entry whose name had the token substituted
type Rename struct {
	From string
	To   string
}

// Result describes a materialized instance
type Result struct {
	// Root is <destRoot>/<newName>
	Root string

	// Files and Dirs count what was copied, Root excluded
	Files int
	Dirs  int

	// Skipped lists template entries left out by ignore patterns,
	// as slash separated paths relative to the template root
	Skipped []string

	// Renamed lists the renames that were applied, deepest first
	Renamed []Rename
}

// Instantiator copies templates into new instances
type Instantiator struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// New returns an Instantiator working on fs
func New(fs afero.Fs) *Instantiator {
	return &Instantiator{
		fs:     fs,
		logger: logging.GetLogger("instantiate"),
	}
}

// Instantiate materializes tmpl at <destRoot>/<newName> and substitutes
// newName for the name token in every file and directory name below it.
//
// On a rename failure both the result and an ErrRename error are returned;
// the instance is left in place, partially renamed.
func (i *Instantiator) Instantiate(tmpl *types.Template, newName, destRoot string) (*Result, error) {
	if tmpl == nil {
		return nil, errors.New(errors.ErrInvalidInput, "template is required")
	}
	if err := paths.ValidateInstanceName(newName); err != nil {
		return nil, err
	}

	logger := i.logger.With().
		Str("template", tmpl.Name).
		Str("name", newName).
		Logger()
	done := logging.LogOperationStart(logger, "instantiate")
	defer done()

	destRoot, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid destination").
			WithDetail("dest", destRoot)
	}
	info, err := i.fs.Stat(destRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "destination does not exist").
			WithDetail("dest", destRoot)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "destination is not a directory").
			WithDetail("dest", destRoot)
	}

	root := filepath.Join(destRoot, newName)
	if _, err := lstat(i.fs, root); err == nil {
		return nil, destinationExists(root)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot inspect destination").
			WithDetail("path", root)
	}

	result := &Result{Root: root}

	c := &copier{
		fs:     i.fs,
		ignore: newIgnoreMatcher(tmpl.Config.IgnorePatterns, logger),
		result: result,
		logger: logger,
	}
	if err := c.copyTree(tmpl.Path, root); err != nil {
		if c.created {
			if rmErr := i.fs.RemoveAll(root); rmErr != nil {
				logger.Error().Err(rmErr).Str("path", root).Msg("Failed to remove partial instance")
			}
		}
		return nil, err
	}

	logger.Debug().
		Int("files", result.Files).
		Int("dirs", result.Dirs).
		Int("skipped", len(result.Skipped)).
		Msg("Template copied")

	r := &renamer{
		fs:      i.fs,
		root:    root,
		token:   config.NameToken,
		newName: newName,
		logger:  logger,
	}
	renamed, renameErr := r.run()
	result.Renamed = renamed

	// Restricted directory modes are applied last so the rename pass can
	// still write into every directory.
	c.applyDirModes(r.finalPath)

	if renameErr != nil {
		logger.Warn().Err(renameErr).Msg("Instance created with rename failures")
		return result, renameErr
	}

	logger.Info().
		Str("root", root).
		Int("files", result.Files).
		Int("renamed", len(result.Renamed)).
		Msg("Instance created")
	return result, nil
}

func destinationExists(path string) error {
	return errors.New(errors.ErrDestinationExists, "destination already exists").
		WithDetail("path", path)
}

// lstat does not follow a final symlink when the filesystem supports it, so
// a dangling link still counts as an existing entry.
func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lfs, ok := fs.(afero.Lstater); ok {
		info, _, err := lfs.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
