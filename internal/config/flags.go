package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	rootDir        = flag.String("root-dir", ".", "The directory to serve files from")
	statusPath     = flag.String("status-path", "", "The url path for a status page, e.g., /-/healthcheck")
	metricsAddress = flag.String("metrics-address", "", "The address to listen on for metrics requests")

	noDefaultRedirects = flag.Bool("no-default-redirects", false, "Do not install the built-in /admin, /client and / redirects")
	netlifyConfig      = flag.String("netlify-config", "", "Path to a netlify.toml file whose [[redirects]] are added to the redirect table")
	redirectsFile      = flag.String("redirects-file", "", "Path to a Netlify style _redirects file added to the redirect table")

	maxConns     = flag.Int("max-conns", 0, "Limit on the number of concurrent connections to the HTTP listeners, 0 for no limit")
	maxURILength = flag.Int("max-uri-length", 2048, "Limit the length of URI, 0 for unlimited.")

	disableCrossOriginRequests = flag.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")
	propagateCorrelationID     = flag.Bool("propagate-correlation-id", true, "Reuse existing Correlation-ID from the incoming request header `X-Request-ID` if present")

	serverShutdownTimeout   = flag.Duration("server-shutdown-timeout", 30*time.Second, "Server shutdown timeout (default: 30s)")
	serverReadHeaderTimeout = flag.Duration("server-read-header-timeout", 5*time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero value means there will be no timeout.")

	logFormat  = flag.String("log-format", "text", "The log output format: 'text' or 'json'")
	logVerbose = flag.Bool("log-verbose", false, "Verbose logging")
	logFile    = flag.String("log-file", "", "Write the application log to this file, rotated by size. The access log stays on stdout")

	sentryDSN         = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment = flag.String("sentry-environment", "", "The environment for sentry crash reporting")

	showVersion = flag.Bool("version", false, "Show version")

	// See initFlags()
	listenHTTP = MultiStringFlag{separator: ","}
	header     = MultiStringFlag{separator: ";;"}
	redirect   = MultiStringFlag{separator: ","}
)

// initFlags will be called from LoadConfig
func initFlags() {
	flag.Var(&listenHTTP, "listen-http", "The address(es) to listen on for HTTP requests (default :8000)")
	flag.Var(&header, "header", "The additional http header(s) that should be send to the client")
	flag.Var(&redirect, "redirect", "An exact redirect given as from:to or from:to:status, can be repeated")

	// read from -config=/path/to/devserver-config
	flag.String(flag.DefaultConfigFlagname, "", "path to config file")

	flag.Parse()
}
