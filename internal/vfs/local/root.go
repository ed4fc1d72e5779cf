package local

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gitlab.com/gitlab-org/pages-devserver/internal/vfs"
)

// Root serves names from a directory of the local file system
type Root struct {
	path string
}

// New returns a Root for the directory at rootPath. The directory must exist.
func New(rootPath string) (*Root, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", absPath)
	}

	return &Root{path: filepath.Clean(absPath)}, nil
}

// Path returns the absolute directory the root serves from
func (r *Root) Path() string {
	return r.path
}

// fullPath never walks above the root: the name is cleaned as an absolute
// slash path before it is joined.
func (r *Root) fullPath(name string) string {
	return filepath.Join(r.path, filepath.FromSlash(path.Clean("/"+name)))
}

func (r *Root) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	return os.Stat(r.fullPath(name))
}

func (r *Root) Open(ctx context.Context, name string) (vfs.File, error) {
	return os.Open(r.fullPath(name))
}
