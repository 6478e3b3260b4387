package instantiate

import (
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// maxDepth bounds recursion when symlinked directories form a cycle
const maxDepth = 255

type dirMode struct {
	rel  string
	mode os.FileMode
}

// copier copies a template tree, following symlinks
type copier struct {
	fs     afero.Fs
	ignore *ignoreMatcher
	result *Result
	logger zerolog.Logger

	// root is the instance directory, never copied into itself
	root string

	// created is set once the instance root exists and must be rolled back
	created bool

	// dirModes holds directories whose mode would block writes during the
	// copy or the rename pass, in creation order
	dirModes []dirMode
}

func (c *copier) copyTree(src, dst string) error {
	info, err := c.fs.Stat(src)
	if err != nil {
		return copyError(err, "cannot read template", src)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCopy, "template is not a directory").
			WithDetail("path", src)
	}

	// Listed before the instance root exists, which may live inside src
	entries, err := afero.ReadDir(c.fs, src)
	if err != nil {
		return copyError(err, "cannot list template directory", src)
	}

	if err := c.fs.Mkdir(dst, writablePerm(info)); err != nil {
		if os.IsExist(err) {
			return destinationExists(dst)
		}
		return copyError(err, "cannot create instance directory", dst)
	}
	c.root = filepath.Clean(dst)
	c.created = true
	c.recordDirMode("", info)

	return c.copyEntries(entries, src, dst, "", 0)
}

func (c *copier) copyDir(src, dst, rel string, depth int) error {
	if depth > maxDepth {
		return errors.New(errors.ErrCopy, "template nesting too deep").
			WithDetail("path", src)
	}

	entries, err := afero.ReadDir(c.fs, src)
	if err != nil {
		return copyError(err, "cannot list template directory", src)
	}
	return c.copyEntries(entries, src, dst, rel, depth)
}

func (c *copier) copyEntries(entries []os.FileInfo, src, dst, rel string, depth int) error {
	for _, entry := range entries {
		name := entry.Name()
		entryRel := path.Join(rel, name)

		if c.ignore.Match(name) {
			c.logger.Debug().Str("entry", entryRel).Msg("Skipping ignored entry")
			c.result.Skipped = append(c.result.Skipped, entryRel)
			continue
		}

		srcPath := filepath.Join(src, name)
		dstPath := filepath.Join(dst, name)

		if srcPath == c.root {
			c.logger.Debug().Str("entry", entryRel).Msg("Skipping the instance being created")
			continue
		}

		info, err := c.fs.Stat(srcPath)
		if err != nil {
			return copyError(err, "cannot read template entry", srcPath)
		}

		switch {
		case info.IsDir():
			if err := c.fs.Mkdir(dstPath, writablePerm(info)); err != nil {
				return copyError(err, "cannot create directory", dstPath)
			}
			c.result.Dirs++
			c.recordDirMode(entryRel, info)
			if err := c.copyDir(srcPath, dstPath, entryRel, depth+1); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := c.copyFile(srcPath, dstPath, info); err != nil {
				return err
			}
			c.result.Files++
		default:
			return errors.New(errors.ErrCopy, "unsupported file type").
				WithDetail("path", srcPath).
				WithDetail("mode", info.Mode().String())
		}
	}
	return nil
}

func (c *copier) copyFile(src, dst string, info os.FileInfo) error {
	in, err := c.fs.Open(src)
	if err != nil {
		return copyError(err, "cannot open template file", src)
	}
	defer func() { _ = in.Close() }()

	perm := info.Mode().Perm()
	out, err := c.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return copyError(err, "cannot create file", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return copyError(err, "cannot write file", dst)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return copyError(err, "cannot sync file", dst)
	}
	if err := out.Close(); err != nil {
		return copyError(err, "cannot close file", dst)
	}

	// The umask may have dropped bits at creation
	if err := c.fs.Chmod(dst, perm); err != nil {
		return copyError(err, "cannot set file mode", dst)
	}
	if err := c.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return copyError(err, "cannot set file times", dst)
	}

	c.logger.Trace().Str("src", src).Str("dst", dst).Msg("Copied file")
	return nil
}

func (c *copier) recordDirMode(rel string, info os.FileInfo) {
	perm := info.Mode().Perm()
	if perm&0700 != 0700 {
		c.dirModes = append(c.dirModes, dirMode{rel: rel, mode: perm})
	}
}

// applyDirModes restores recorded directory modes, children before parents.
// resolve maps a template relative path to its path in the instance.
func (c *copier) applyDirModes(resolve func(rel string) string) {
	for i := len(c.dirModes) - 1; i >= 0; i-- {
		dm := c.dirModes[i]
		target := resolve(dm.rel)
		if err := c.fs.Chmod(target, dm.mode); err != nil {
			c.logger.Warn().Err(err).Str("path", target).Msg("Cannot restore directory mode")
		}
	}
}

// writablePerm keeps the owner able to fill and rename inside a directory
// until its final mode is applied.
func writablePerm(info os.FileInfo) os.FileMode {
	return info.Mode().Perm() | 0700
}

func copyError(err error, message, path string) error {
	return errors.Wrap(err, errors.ErrCopy, message).WithDetail("path", path)
}
