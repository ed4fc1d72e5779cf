// Package serving writes files of the document root to HTTP responses
package serving

import (
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-devserver/internal/vfs"
	"gitlab.com/gitlab-org/pages-devserver/metrics"
)

// Responder serves single files out of a document root
type Responder struct {
	root vfs.Root
}

// NewResponder returns a Responder reading from root
func NewResponder(root vfs.Root) *Responder {
	return &Responder{root: root}
}

// Serve writes the file at name to w. A directory requested without a
// trailing slash is redirected to the slash terminated path. Anything that
// cannot be served as a regular file returns an error and leaves w untouched.
func (r *Responder) Serve(w http.ResponseWriter, req *http.Request, name string) error {
	ctx := req.Context()

	fi, err := r.root.Stat(ctx, name)
	if err != nil {
		return err
	}

	if fi.IsDir() {
		if strings.HasSuffix(name, "/") {
			return fmt.Errorf("%s: directory listing is not supported: %w", name, fs.ErrNotExist)
		}

		w.Header().Set("Location", redirectPath(name, req.URL.RawQuery))
		w.WriteHeader(http.StatusMovedPermanently)
		return nil
	}

	// The file exists, but is not a supported type to serve. Perhaps a block
	// special device or something else that may be a security risk.
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s: is not a regular file", name)
	}

	file, err := r.root.Open(ctx, name)
	if err != nil {
		return err
	}
	defer file.Close()

	metrics.ServedFileSize.Observe(float64(fi.Size()))

	if contentType := mime.TypeByExtension(path.Ext(name)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	if content, ok := file.(io.ReadSeeker); ok {
		// a zero modification time disables conditional requests
		http.ServeContent(w, req, name, time.Time{}, content)
		return nil
	}

	serveStream(w, req, file, fi.Size())
	return nil
}

// serveStream writes a file that cannot seek, so no ranges or sniffing
func serveStream(w http.ResponseWriter, req *http.Request, file io.Reader, size int64) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if req.Method == http.MethodHead {
		return
	}

	if _, err := io.CopyN(w, file, size); err != nil {
		log.WithError(err).WithField("path", req.URL.Path).Warn("failed to write file")
	}
}

// redirectPath keeps the target on this host even for names like //host
func redirectPath(name, rawQuery string) string {
	u := url.URL{
		Path:     "/" + strings.TrimLeft(name, "/") + "/",
		RawQuery: rawQuery,
	}

	return u.String()
}
