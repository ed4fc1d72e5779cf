package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	labmetrics "gitlab.com/gitlab-org/labkit/metrics"
	"golang.org/x/sync/errgroup"

	"gitlab.com/gitlab-org/pages-devserver/internal/config"
	"gitlab.com/gitlab-org/pages-devserver/internal/errortracking"
	"gitlab.com/gitlab-org/pages-devserver/internal/healthcheck"
	"gitlab.com/gitlab-org/pages-devserver/internal/logging"
	"gitlab.com/gitlab-org/pages-devserver/internal/middleware"
	"gitlab.com/gitlab-org/pages-devserver/internal/redirects"
	"gitlab.com/gitlab-org/pages-devserver/internal/rejectmethods"
	"gitlab.com/gitlab-org/pages-devserver/internal/router"
	"gitlab.com/gitlab-org/pages-devserver/internal/urilimiter"
	"gitlab.com/gitlab-org/pages-devserver/internal/vfs"
	"gitlab.com/gitlab-org/pages-devserver/internal/vfs/local"
)

// the factory registers its collectors, so it may only be created once
var metricsMiddleware = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("pages_devserver"))

var corsHandler = cors.New(cors.Options{AllowedMethods: []string{http.MethodGet, http.MethodHead}})

type theApp struct {
	config *config.Config
	root   vfs.Root
	table  *redirects.Table

	// out receives the start-up banner and the shutdown notice
	out io.Writer
}

func newApp(cfg *config.Config) (*theApp, error) {
	table, err := redirects.Build(cfg.Redirects.Sources())
	if err != nil {
		return nil, fmt.Errorf("invalid redirects: %w", err)
	}

	root, err := local.New(cfg.General.RootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid root directory: %w", err)
	}

	return &theApp{
		config: cfg,
		root:   vfs.Instrumented(root, "local"),
		table:  table,
		out:    os.Stdout,
	}, nil
}

type recoveryLogger struct{}

func (recoveryLogger) Println(args ...interface{}) {
	err := errortracking.PanicError(args...)

	log.WithError(err).Error("Recovered from panic")
	errortracking.CaptureErrWithStackTrace(err)
}

func (a *theApp) routingHandler() http.Handler {
	r := mux.NewRouter()

	// the router resolves the raw path itself, /foo.html/ must survive
	r.SkipClean(true)
	r.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(router.New(a.root, a.table))
	r.MethodNotAllowedHandler = rejectmethods.Handler()

	return r
}

// handler builds the middleware chain, the first wrap is the innermost
func (a *theApp) handler() (http.Handler, error) {
	handler := a.routingHandler()
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath)
	handler = urilimiter.NewMiddleware(handler, a.config.General.MaxURILength)

	if !a.config.General.DisableCrossOriginRequests {
		handler = corsHandler.Handler(handler)
	}

	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(handler)

	customHeaders, err := middleware.ParseHeaderString(a.config.General.CustomHeaders)
	if err != nil {
		return nil, fmt.Errorf("unable to parse header string: %w", err)
	}
	handler = middleware.CustomHeaders(handler, customHeaders)

	handler = metricsMiddleware(handler)

	handler = middleware.NoCache(handler)

	handler, err = logging.AccessLogger(handler, a.config.Log.Format)
	if err != nil {
		return nil, err
	}

	// outermost, so the access log sees the correlation ID
	correlationOpts := []correlation.InboundHandlerOption{correlation.WithSetResponseHeader()}
	if a.config.General.PropagateCorrelationID {
		correlationOpts = append(correlationOpts, correlation.WithPropagation())
	}

	return correlation.InjectCorrelationID(handler, correlationOpts...), nil
}

func (a *theApp) newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
	}
}

// Run serves until ctx is done or the process is interrupted, then shuts
// the servers down gracefully
func (a *theApp) Run(ctx context.Context, listeners *appListeners) error {
	handler, err := a.handler()
	if err != nil {
		closeAll(listeners.closers())
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var servers []*http.Server
	start := func(server *http.Server, ln net.Listener) {
		servers = append(servers, server)
		g.Go(func() error {
			return serve(server, ln)
		})
	}

	for _, ln := range listeners.HTTP {
		start(a.newServer(handler), ln)
	}

	if listeners.Metrics != nil {
		start(a.newServer(middleware.NoCache(promhttp.Handler())), listeners.Metrics)
	}

	printBanner(a.out, listenURLs(listeners.HTTP), a.table.Rules())

	g.Go(func() error {
		<-ctx.Done()

		fmt.Fprintln(a.out, "Server stopped.")

		return a.shutdown(servers)
	})

	return g.Wait()
}

func (a *theApp) shutdown(servers []*http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	var result *multierror.Error
	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
