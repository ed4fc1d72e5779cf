package serving

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-devserver/internal/testhelpers"
	"gitlab.com/gitlab-org/pages-devserver/internal/vfs/mock"
)

var siteFiles = map[string]string{
	"client/index.html": "<h1>client</h1>",
	"client/app.js":     "console.log('app')",
	"client/raw":        "<html><body>sniffed</body></html>",
	"admin/":            "",
}

func serve(t *testing.T, responder *Responder, req *http.Request, name string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	w := httptest.NewRecorder()
	err := responder.Serve(w, req, name)

	return w, err
}

func TestServeFile(t *testing.T) {
	root, _ := testhelpers.TmpRoot(t, siteFiles)
	responder := NewResponder(root)

	tests := map[string]struct {
		name                string
		expectedBody        string
		expectedContentType string
	}{
		"html": {
			name:                "/client/index.html",
			expectedBody:        "<h1>client</h1>",
			expectedContentType: "text/html; charset=utf-8",
		},
		"javascript": {
			name:                "/client/app.js",
			expectedBody:        "console.log('app')",
			expectedContentType: "javascript",
		},
		"sniffed": {
			name:                "/client/raw",
			expectedBody:        "<html><body>sniffed</body></html>",
			expectedContentType: "text/html; charset=utf-8",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.name, nil)

			w, err := serve(t, responder, req, tt.name)
			require.NoError(t, err)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tt.expectedBody, w.Body.String())
			require.Contains(t, w.Header().Get("Content-Type"), tt.expectedContentType)
			require.Empty(t, w.Header().Get("Last-Modified"))
		})
	}
}

func TestServeFileIgnoresConditionalRequests(t *testing.T) {
	root, _ := testhelpers.TmpRoot(t, siteFiles)
	responder := NewResponder(root)

	req := httptest.NewRequest(http.MethodGet, "/client/index.html", nil)
	req.Header.Set("If-Modified-Since", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))

	w, err := serve(t, responder, req, "/client/index.html")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "<h1>client</h1>", w.Body.String())
}

func TestServeFileRange(t *testing.T) {
	root, _ := testhelpers.TmpRoot(t, siteFiles)
	responder := NewResponder(root)

	req := httptest.NewRequest(http.MethodGet, "/client/index.html", nil)
	req.Header.Set("Range", "bytes=1-2")

	w, err := serve(t, responder, req, "/client/index.html")
	require.NoError(t, err)
	require.Equal(t, http.StatusPartialContent, w.Code)
	require.Equal(t, "h1", w.Body.String())
}

func TestServeFileHead(t *testing.T) {
	root, _ := testhelpers.TmpRoot(t, siteFiles)
	responder := NewResponder(root)

	req := httptest.NewRequest(http.MethodHead, "/client/index.html", nil)

	w, err := serve(t, responder, req, "/client/index.html")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
	require.Equal(t, "15", w.Header().Get("Content-Length"))
}

func TestServeDirectory(t *testing.T) {
	root, _ := testhelpers.TmpRoot(t, siteFiles)
	responder := NewResponder(root)

	t.Run("without trailing slash redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin?tab=1", nil)

		w, err := serve(t, responder, req, "/admin")
		require.NoError(t, err)
		require.Equal(t, http.StatusMovedPermanently, w.Code)
		require.Equal(t, "/admin/?tab=1", w.Header().Get("Location"))
		require.Empty(t, w.Body.String())
	})

	t.Run("redirect stays on the host", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)

		w, err := serve(t, responder, req, "//admin")
		require.NoError(t, err)
		require.Equal(t, "/admin/", w.Header().Get("Location"))
	})

	t.Run("with trailing slash is not listed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/", nil)

		w, err := serve(t, responder, req, "/admin/")
		require.ErrorIs(t, err, fs.ErrNotExist)
		require.Empty(t, w.Body.String())
		require.Empty(t, w.Header())
	})
}

func TestServeMissingFile(t *testing.T) {
	root, _ := testhelpers.TmpRoot(t, siteFiles)
	responder := NewResponder(root)

	req := httptest.NewRequest(http.MethodGet, "/client/missing.js", nil)

	w, err := serve(t, responder, req, "/client/missing.js")
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Empty(t, w.Body.String())
	require.Empty(t, w.Header())
}

type fileInfo struct {
	name string
	size int64
	mode os.FileMode
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() os.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() interface{}   { return nil }

func TestServeIrregularFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := mock.NewMockRoot(ctrl)

	root.EXPECT().Stat(gomock.Any(), "/client/pipe").Return(fileInfo{name: "pipe", mode: os.ModeNamedPipe}, nil)

	req := httptest.NewRequest(http.MethodGet, "/client/pipe", nil)

	w, err := serve(t, NewResponder(root), req, "/client/pipe")
	require.EqualError(t, err, "/client/pipe: is not a regular file")
	require.Empty(t, w.Header())
}

func TestServeOpenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := mock.NewMockRoot(ctrl)

	root.EXPECT().Stat(gomock.Any(), "/client/index.html").Return(fileInfo{name: "index.html", size: 5}, nil)
	root.EXPECT().Open(gomock.Any(), "/client/index.html").Return(nil, fs.ErrPermission)

	req := httptest.NewRequest(http.MethodGet, "/client/index.html", nil)

	_, err := serve(t, NewResponder(root), req, "/client/index.html")
	require.True(t, errors.Is(err, fs.ErrPermission))
}

func TestServeStream(t *testing.T) {
	content := "streamed content"

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		t.Run(method, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			root := mock.NewMockRoot(ctrl)

			root.EXPECT().Stat(gomock.Any(), "/client/stream.txt").
				Return(fileInfo{name: "stream.txt", size: int64(len(content))}, nil)
			root.EXPECT().Open(gomock.Any(), "/client/stream.txt").
				Return(io.NopCloser(strings.NewReader(content)), nil)

			req := httptest.NewRequest(method, "/client/stream.txt", nil).WithContext(context.Background())

			w, err := serve(t, NewResponder(root), req, "/client/stream.txt")
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "16", w.Header().Get("Content-Length"))
			require.Contains(t, w.Header().Get("Content-Type"), "text/plain")

			if method == http.MethodGet {
				require.Equal(t, content, w.Body.String())
			} else {
				require.Empty(t, w.Body.String())
			}
		})
	}
}
