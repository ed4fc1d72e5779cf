package logging

import (
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// FormatText prints human readable lines, access logs match the
	// classic `[addr] "request line" status size` layout
	FormatText = "text"
	// FormatJSON prints structured entries
	FormatJSON = "json"
)

const (
	logFileMaxSizeMB  = 100
	logFileMaxBackups = 3
)

type closers []io.Closer

func (c closers) Close() error {
	var result *multierror.Error

	for _, closer := range c {
		if err := closer.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// ConfigureLogging will initialize the system logger. When logFile is set
// system logs are written to a rotated file instead of stderr. The returned
// closer flushes and closes the outputs.
func ConfigureLogging(format string, verbose bool, logFile string) (io.Closer, error) {
	var levelOption log.LoggerOption

	if format == "" {
		format = FormatText
	}

	if verbose {
		levelOption = log.WithLogLevel("trace")
	} else {
		levelOption = log.WithLogLevel("info")
	}

	closer, err := log.Initialize(
		log.WithFormatter(format),
		levelOption,
	)
	if err != nil {
		return nil, err
	}

	if logFile == "" {
		return closer, nil
	}

	rotated := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	}
	logrus.StandardLogger().SetOutput(rotated)

	return closers{closer, rotated}, nil
}

// LogRequest will inject request host and path to the logged messages
func LogRequest(r *http.Request) *logrus.Entry {
	return Log(r.Context()).WithFields(log.Fields{
		"host": r.Host,
		"path": r.URL.Path,
	})
}

// Log returns an entry carrying the correlation ID of ctx
func Log(ctx context.Context) *logrus.Entry {
	return log.WithFields(log.Fields{
		"correlation_id": correlation.ExtractFromContext(ctx),
	})
}
