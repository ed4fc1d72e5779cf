package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"gitlab.com/gitlab-org/pages-devserver/internal/logging"
	"gitlab.com/gitlab-org/pages-devserver/internal/middleware"
)

var (
	ErrEmptyListenAddress     = errors.New("listen-http address cannot be empty")
	ErrRootDirNotDirectory    = errors.New("root-dir must be a directory")
	ErrUnknownLogFormat       = errors.New("log-format must be either 'text' or 'json'")
	ErrNegativeMaxConns       = errors.New("max-conns must be greater than or equal to 0")
	ErrNegativeMaxURILength   = errors.New("max-uri-length must be greater than or equal to 0")
	ErrNegativeTimeout        = errors.New("server timeouts must be greater than or equal to 0")
	ErrStatusPathNotAbsolute  = errors.New("status-path must start with /")
	ErrHeaderOverridesNoCache = errors.New("header cannot override the cache suppression headers")
)

// Validate checks every setting and reports all problems at once
func Validate(config *Config) error {
	var result *multierror.Error

	for _, validate := range []func(*Config) error{
		validateListeners,
		validateRootDir,
		validateLog,
		validateLimits,
		validateStatusPath,
		validateHeaders,
	} {
		if err := validate(config); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// validateListeners rejects -listen-http values made only of separators
// and blanks
func validateListeners(config *Config) error {
	if len(config.ListenAddresses()) == 0 {
		return ErrEmptyListenAddress
	}

	return nil
}

func validateRootDir(config *Config) error {
	fi, err := os.Stat(config.General.RootDir)
	if err != nil {
		return fmt.Errorf("root-dir: %w", err)
	}

	if !fi.IsDir() {
		return fmt.Errorf("%s: %w", config.General.RootDir, ErrRootDirNotDirectory)
	}

	return nil
}

func validateLog(config *Config) error {
	switch config.Log.Format {
	case logging.FormatText, logging.FormatJSON:
		return nil
	default:
		return fmt.Errorf("%q: %w", config.Log.Format, ErrUnknownLogFormat)
	}
}

func validateLimits(config *Config) error {
	var result *multierror.Error

	if config.General.MaxConns < 0 {
		result = multierror.Append(result, ErrNegativeMaxConns)
	}

	if config.General.MaxURILength < 0 {
		result = multierror.Append(result, ErrNegativeMaxURILength)
	}

	if config.Server.ShutdownTimeout < 0 || config.Server.ReadHeaderTimeout < 0 {
		result = multierror.Append(result, ErrNegativeTimeout)
	}

	return result.ErrorOrNil()
}

func validateStatusPath(config *Config) error {
	if config.General.StatusPath == "" || strings.HasPrefix(config.General.StatusPath, "/") {
		return nil
	}

	return ErrStatusPathNotAbsolute
}

func validateHeaders(config *Config) error {
	headers, err := middleware.ParseHeaderString(config.General.CustomHeaders)
	if err != nil {
		return err
	}

	noCache := middleware.NoCacheHeaders()
	for name := range headers {
		if noCache.Get(name) != "" {
			return fmt.Errorf("%s: %w", name, ErrHeaderOverridesNoCache)
		}
	}

	return nil
}
