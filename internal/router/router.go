// Package router decides how a request path is answered: an alias
// redirect, a file of the document root or a not found page
package router

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"gitlab.com/gitlab-org/pages-devserver/internal/errortracking"
	"gitlab.com/gitlab-org/pages-devserver/internal/httperrors"
	"gitlab.com/gitlab-org/pages-devserver/internal/logging"
	"gitlab.com/gitlab-org/pages-devserver/internal/redirects"
	"gitlab.com/gitlab-org/pages-devserver/internal/serving"
	"gitlab.com/gitlab-org/pages-devserver/internal/vfs"
	"gitlab.com/gitlab-org/pages-devserver/metrics"
)

const (
	reasonFileNotFound        = "File not found"
	reasonDevelopmentNotFound = "Development file not found"
)

// developmentFiles are requested by dev tooling and never exist in a build
var developmentFiles = map[string]bool{
	"/@vite/client": true,
	"/sw.js":        true,
}

// Kind of a routing decision
type Kind int

const (
	// Serve hands Decision.Path to the file responder
	Serve Kind = iota
	// Redirect answers Decision.Status with Decision.Location
	Redirect
	// NotFound answers 404 with Decision.Reason
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Serve:
		return "serve"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Decision is the outcome of routing a request path
type Decision struct {
	Kind     Kind
	Path     string
	Location string
	Status   int
	Reason   string
}

func serve(name string) Decision {
	return Decision{Kind: Serve, Path: name}
}

func notFound(reason string) Decision {
	return Decision{Kind: NotFound, Status: http.StatusNotFound, Reason: reason}
}

// Router answers requests from a document root. It holds no mutable state
// and is safe for concurrent use.
type Router struct {
	root      vfs.Root
	table     *redirects.Table
	responder *serving.Responder
}

// New returns a Router serving root with the aliases of table
func New(root vfs.Root, table *redirects.Table) *Router {
	return &Router{
		root:      root,
		table:     table,
		responder: serving.NewResponder(root),
	}
}

// Resolve routes requestPath, first match wins:
//  1. exact aliases of the redirect table
//  2. paths with a trailing slash, mapped onto a .html file or an index.html
//  3. development files that are never served
//  4. everything else goes to the file responder unchanged
func (rt *Router) Resolve(ctx context.Context, requestPath string) Decision {
	if rule, ok := rt.table.Lookup(requestPath); ok {
		return Decision{Kind: Redirect, Location: rule.To, Status: rule.Status}
	}

	if requestPath != "/" && strings.HasSuffix(requestPath, "/") {
		return rt.resolveTrailingSlash(ctx, requestPath)
	}

	if developmentFiles[requestPath] {
		return notFound(reasonDevelopmentNotFound)
	}

	return serve(requestPath)
}

func (rt *Router) resolveTrailingSlash(ctx context.Context, requestPath string) Decision {
	if strings.HasSuffix(requestPath, ".html/") {
		name := strings.TrimSuffix(requestPath, "/")

		if rt.isFile(ctx, name) {
			return serve(name)
		}

		return notFound(reasonFileNotFound + ": " + name)
	}

	index := path.Join("/", strings.Trim(requestPath, "/"), "index.html")
	if rt.exists(ctx, index) {
		return serve(index)
	}

	return notFound("Directory not found: " + requestPath)
}

// isFile and exists treat lookup failures as absent entries
func (rt *Router) isFile(ctx context.Context, name string) bool {
	isFile, err := vfs.IsFile(ctx, rt.root, name)
	if err != nil {
		logging.Log(ctx).WithError(err).WithField("name", name).Debug("lookup failed")
	}

	return isFile
}

func (rt *Router) exists(ctx context.Context, name string) bool {
	exists, err := vfs.Exists(ctx, rt.root, name)
	if err != nil {
		logging.Log(ctx).WithError(err).WithField("name", name).Debug("lookup failed")
	}

	return exists
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	decision := rt.Resolve(r.Context(), r.URL.Path)
	metrics.RouteDecisions.WithLabelValues(decision.Kind.String()).Inc()

	switch decision.Kind {
	case Redirect:
		w.Header().Set("Location", decision.Location)
		w.WriteHeader(decision.Status)
	case NotFound:
		httperrors.Serve404(w, decision.Reason)
	default:
		rt.serveFile(w, r, decision.Path)
	}
}

func (rt *Router) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	err := rt.responder.Serve(w, r, name)
	if err == nil {
		return
	}

	if errors.Is(err, fs.ErrPermission) {
		logging.LogRequest(r).WithError(err).Debug("access to file denied")
		httperrors.Serve403(w)
		return
	}

	if !errors.Is(err, fs.ErrNotExist) {
		errortracking.CaptureErrWithReqAndStackTrace(err, r, errortracking.WithField("path", name))
	}

	logging.LogRequest(r).WithError(err).Debug("file not served")
	httperrors.Serve404(w, reasonFileNotFound)
}
