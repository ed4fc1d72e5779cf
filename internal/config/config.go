package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-devserver/internal/redirects"
)

const (
	// DefaultListenHTTP is used when no -listen-http is given
	DefaultListenHTTP = ":8000"

	// EnvFile names a dotenv file loaded into the environment before the
	// flags are parsed
	EnvFile = "DEVSERVER_ENV_FILE"
)

// Config stores all the config options relevant to the development server.
type Config struct {
	General   General
	Redirects Redirects
	Server    Server
	Log       Log
	Sentry    Sentry

	// ListenHTTPStrings contains the raw addresses passed with -listen-http.
	// The listeners are created from them by the application.
	ListenHTTPStrings MultiStringFlag
}

// General groups settings that are general to the server and can not
// be categorized under other head.
type General struct {
	RootDir        string
	StatusPath     string
	MetricsAddress string
	MaxConns       int
	MaxURILength   int

	DisableCrossOriginRequests bool
	PropagateCorrelationID     bool

	ShowVersion bool

	CustomHeaders []string
}

// Redirects groups the sources of the exact redirect table
type Redirects struct {
	NoDefaults    bool
	NetlifyConfig string
	RedirectsFile string
	Rules         []string
}

// Sources returns the redirect sources to build the table from
func (r Redirects) Sources() redirects.Sources {
	return redirects.Sources{
		NoDefaults:    r.NoDefaults,
		NetlifyConfig: r.NetlifyConfig,
		RedirectsFile: r.RedirectsFile,
		Flags:         r.Rules,
	}
}

// Server groups the HTTP server timeouts
type Server struct {
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
	File    string
}

// Sentry groups settings related to configuring Sentry crash reporting
type Sentry struct {
	DSN         string
	Environment string
}

// ListenAddresses returns the HTTP listen addresses, falling back to
// DefaultListenHTTP
func (c *Config) ListenAddresses() []string {
	if c.ListenHTTPStrings.Len() == 0 {
		return []string{DefaultListenHTTP}
	}

	return c.ListenHTTPStrings.Split()
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			RootDir:                    *rootDir,
			StatusPath:                 *statusPath,
			MetricsAddress:             *metricsAddress,
			MaxConns:                   *maxConns,
			MaxURILength:               *maxURILength,
			DisableCrossOriginRequests: *disableCrossOriginRequests,
			PropagateCorrelationID:     *propagateCorrelationID,
			CustomHeaders:              header.Split(),
			ShowVersion:                *showVersion,
		},
		Redirects: Redirects{
			NoDefaults:    *noDefaultRedirects,
			NetlifyConfig: *netlifyConfig,
			RedirectsFile: *redirectsFile,
			Rules:         redirect.Split(),
		},
		Server: Server{
			ShutdownTimeout:   *serverShutdownTimeout,
			ReadHeaderTimeout: *serverReadHeaderTimeout,
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
			File:    *logFile,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},

		ListenHTTPStrings: listenHTTP,
	}

	// -version skips validation, nothing is served
	if config.General.ShowVersion {
		return config, nil
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LogConfig prints the effective configuration at debug level
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"listen-http":                   config.ListenAddresses(),
		"log-format":                    config.Log.Format,
		"log-file":                      config.Log.File,
		"max-conns":                     config.General.MaxConns,
		"max-uri-length":                config.General.MaxURILength,
		"metrics-address":               config.General.MetricsAddress,
		"netlify-config":                config.Redirects.NetlifyConfig,
		"no-default-redirects":          config.Redirects.NoDefaults,
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"redirect":                      config.Redirects.Rules,
		"redirects-file":                config.Redirects.RedirectsFile,
		"root-dir":                      config.General.RootDir,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
		"status-path":                   config.General.StatusPath,
	}).Debug("Start server with configuration")
}

// loadEnvFile loads the dotenv file named by EnvFile, existing environment
// variables win
func loadEnvFile() error {
	path := os.Getenv(EnvFile)
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s=%s: %w", EnvFile, path, err)
	}

	return nil
}

// LoadConfig parses configuration settings passed as command line arguments,
// environment variables or via config file, and populates a Config object
// with those values
func LoadConfig() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	initFlags()

	return loadConfig()
}
