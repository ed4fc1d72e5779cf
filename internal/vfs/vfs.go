//go:generate mockgen -source=vfs.go -destination=mock/mock_root.go -package=mock

package vfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
)

// Root abstracts the read-only document root the server answers requests from.
// Names are slash separated and relative to the root.
type Root interface {
	Stat(ctx context.Context, name string) (os.FileInfo, error)
	Open(ctx context.Context, name string) (File, error)
}

// File represents an open file, which will typically be the response body of a request.
type File interface {
	io.Reader
	io.Closer
}

// SeekableFile represents a seekable file, required to answer range requests.
type SeekableFile interface {
	File
	io.Seeker
}

// Exists reports whether name is present in root. A missing entry is not an
// error, any other failure is returned as is.
func Exists(ctx context.Context, root Root, name string) (bool, error) {
	_, err := root.Stat(ctx, name)

	return found(err)
}

// IsFile reports whether name is present in root and is not a directory.
func IsFile(ctx context.Context, root Root, name string) (bool, error) {
	fi, err := root.Stat(ctx, name)
	if ok, err := found(err); !ok {
		return false, err
	}

	return !fi.IsDir(), nil
}

func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
