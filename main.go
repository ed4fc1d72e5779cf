package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/errortracking"

	"gitlab.com/gitlab-org/pages-devserver/internal/config"
	"gitlab.com/gitlab-org/pages-devserver/internal/logging"
	"gitlab.com/gitlab-org/pages-devserver/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func initErrorReporting(sentryDSN, sentryEnvironment string) {
	errortracking.Initialize(
		errortracking.WithSentryDSN(sentryDSN),
		errortracking.WithVersion(fmt.Sprintf("%s-%s", VERSION, REVISION)),
		errortracking.WithLoggerName("pages-devserver"),
		errortracking.WithSentryEnvironment(sentryEnvironment))
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func appMain() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	printVersion(cfg.General.ShowVersion, VERSION)

	closer, err := logging.ConfigureLogging(cfg.Log.Format, cfg.Log.Verbose, cfg.Log.File)
	if err != nil {
		fatal(err, "Failed to initialize logging")
	}
	defer closer.Close()

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("Pages development server")

	if cfg.Sentry.DSN != "" {
		initErrorReporting(cfg.Sentry.DSN, cfg.Sentry.Environment)
	}

	if err := loadMIMETypes(); err != nil {
		log.WithError(err).Warn("Failed to load the MIME database, using the system types")
	}

	config.LogConfig(cfg)

	app, err := newApp(cfg)
	if err != nil {
		capturingFatal(err)
	}

	listeners, err := createListeners(cfg)
	if err != nil {
		capturingFatal(err)
	}

	if err := app.Run(context.Background(), listeners); err != nil {
		capturingFatal(err)
	}
}

func main() {
	log.SetOutput(os.Stderr)

	metrics.MustRegister()

	appMain()
}
