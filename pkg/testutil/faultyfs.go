package testutil

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Op names a filesystem operation that FaultyFs can fail
type Op string

const (
	OpOpen   Op = "open"
	OpCreate Op = "create"
	OpMkdir  Op = "mkdir"
	OpRename Op = "rename"
)

type fault struct {
	op   Op
	path string
}

// FaultyFs wraps an afero.Fs and returns configured errors for specific
// operation/path pairs. Every other call goes to the wrapped filesystem.
type FaultyFs struct {
	afero.Fs

	mu     sync.RWMutex
	faults map[fault]error
	calls  map[Op]int
}

// NewFaultyFs wraps base
func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{
		Fs:     base,
		faults: make(map[fault]error),
		calls:  make(map[Op]int),
	}
}

// WithError makes op fail with err for path
func (f *FaultyFs) WithError(op Op, path string, err error) *FaultyFs {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[fault{op: op, path: filepath.Clean(path)}] = err
	return f
}

// Calls returns how many times op was attempted
func (f *FaultyFs) Calls(op Op) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[op]
}

func (f *FaultyFs) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++
	if err, ok := f.faults[fault{op: op, path: filepath.Clean(path)}]; ok {
		return &os.PathError{Op: string(op), Path: path, Err: err}
	}
	return nil
}

func (f *FaultyFs) Open(name string) (afero.File, error) {
	if err := f.check(OpOpen, name); err != nil {
		return nil, err
	}
	return f.Fs.Open(name)
}

func (f *FaultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	op := OpOpen
	if flag&(os.O_CREATE|os.O_WRONLY|os.O_RDWR) != 0 {
		op = OpCreate
	}
	if err := f.check(op, name); err != nil {
		return nil, err
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FaultyFs) Create(name string) (afero.File, error) {
	if err := f.check(OpCreate, name); err != nil {
		return nil, err
	}
	return f.Fs.Create(name)
}

func (f *FaultyFs) Mkdir(name string, perm os.FileMode) error {
	if err := f.check(OpMkdir, name); err != nil {
		return err
	}
	return f.Fs.Mkdir(name, perm)
}

func (f *FaultyFs) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdir, path); err != nil {
		return err
	}
	return f.Fs.MkdirAll(path, perm)
}

func (f *FaultyFs) Rename(oldname, newname string) error {
	if err := f.check(OpRename, oldname); err != nil {
		return err
	}
	return f.Fs.Rename(oldname, newname)
}
