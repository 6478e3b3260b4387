package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/paths"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// Create adds an empty template called name under root, holding a
// descriptor with the default settings written in format. The templates
// root is created when missing. It returns the template directory.
//
// The directory and its descriptor are written as one synthfs pipeline with
// rollback, so a failed descriptor write leaves no half-made template.
func Create(root, name string, format config.Format) (string, error) {
	logger := logging.GetLogger("catalog")

	if err := paths.ValidateTemplateName(name); err != nil {
		return "", err
	}
	file, ok := config.FileForFormat(format)
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "unknown descriptor format %q", format)
	}
	data, err := config.Encode(config.Defaults(file), format)
	if err != nil {
		return "", err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "invalid templates root").
			WithDetail("path", root)
	}
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrFileCreate, "cannot create templates root").
			WithDetail("path", absRoot)
	}

	dir := filepath.Join(absRoot, name)
	if _, err := os.Lstat(dir); err == nil {
		return "", errors.Newf(errors.ErrDestinationExists, "template %q already exists", name).
			WithDetail("path", dir)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot inspect template directory").
			WithDetail("path", dir)
	}

	var fsys filesystem.FullFileSystem = synthfs.NewPathAwareFileSystem(
		filesystem.NewOSFileSystem("/"), "/").WithAbsolutePaths()

	sfs := synthfs.New()
	stamp := time.Now().UnixNano()
	ops := []synthfs.Operation{
		sfs.CreateDirWithID(fmt.Sprintf("mkdir_%s_%d", name, stamp), dir, 0755),
		sfs.CreateFileWithID(fmt.Sprintf("write_%s_%s_%d", name, file, stamp),
			filepath.Join(dir, file), data, 0644),
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = true

	if _, err := synthfs.RunWithOptions(context.Background(), fsys, options, ops...); err != nil {
		return "", errors.Wrap(err, errors.ErrFileCreate, "cannot create template").
			WithDetail("path", dir)
	}

	logger.Info().
		Str("template", name).
		Str("descriptor", file).
		Str("path", dir).
		Msg("Template created")
	return dir, nil
}
