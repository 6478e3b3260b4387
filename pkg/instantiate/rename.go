package instantiate

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// RenameFailure is a single entry that could not be renamed
type RenameFailure struct {
	From string
	To   string
	Err  error
}

func (f *RenameFailure) Error() string {
	return fmt.Sprintf("rename %s -> %s: %v", f.From, f.To, f.Err)
}

func (f *RenameFailure) Unwrap() error {
	return f.Err
}

// RenameFailures returns the individual failures carried by an ErrRename error
func RenameFailures(err error) []*RenameFailure {
	failures, _ := errors.GetErrorDetails(err)["failures"].([]*RenameFailure)
	return failures
}

type renameOp struct {
	from  string
	to    string
	depth int
}

// renamer substitutes the name token in every entry below root
type renamer struct {
	fs      afero.Fs
	root    string
	token   string
	newName string
	logger  zerolog.Logger
}

func (r *renamer) substitute(name string) string {
	return strings.ReplaceAll(name, r.token, r.newName)
}

// finalPath is where a template relative path ends up after all renames
func (r *renamer) finalPath(rel string) string {
	if rel == "" {
		return r.root
	}
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		parts[i] = r.substitute(p)
	}
	return filepath.Join(append([]string{r.root}, parts...)...)
}

// plan walks the untouched tree and lists every rename, deepest first.
// Paths are computed before anything moves, so applying deeper renames
// first never invalidates a later one.
func (r *renamer) plan() ([]renameOp, error) {
	var ops []renameOp
	err := afero.Walk(r.fs, r.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == r.root {
			return nil
		}
		name := info.Name()
		newBase := r.substitute(name)
		if newBase == name {
			return nil
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		ops = append(ops, renameOp{
			from:  path,
			to:    filepath.Join(filepath.Dir(path), newBase),
			depth: strings.Count(rel, string(filepath.Separator)),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRename, "cannot scan instance for renames").
			WithDetail("path", r.root)
	}

	sort.SliceStable(ops, func(a, b int) bool {
		return ops[a].depth > ops[b].depth
	})
	return ops, nil
}

// run plans and applies every rename. A failed entry does not stop the
// others; all failures come back as one ErrRename error.
func (r *renamer) run() ([]Rename, error) {
	ops, err := r.plan()
	if err != nil {
		return nil, err
	}

	var done []Rename
	var failures []*RenameFailure
	for _, op := range ops {
		if err := r.apply(op); err != nil {
			r.logger.Warn().Err(err).Str("from", op.from).Str("to", op.to).Msg("Rename failed")
			failures = append(failures, &RenameFailure{From: op.from, To: op.to, Err: err})
			continue
		}
		r.logger.Trace().Str("from", op.from).Str("to", op.to).Msg("Renamed")
		done = append(done, Rename{From: op.from, To: op.to})
	}

	if len(failures) == 0 {
		return done, nil
	}

	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return done, errors.Wrapf(stderrors.Join(errs...), errors.ErrRename,
		"%d of %d renames failed", len(failures), len(ops)).
		WithDetail("failures", failures)
}

func (r *renamer) apply(op renameOp) error {
	if _, err := lstat(r.fs, op.to); err == nil {
		return os.ErrExist
	}
	return r.fs.Rename(op.from, op.to)
}
