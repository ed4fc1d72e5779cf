package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-devserver/internal/config"
	"gitlab.com/gitlab-org/pages-devserver/internal/netutil"
)

// appListeners are the sockets the server answers on
type appListeners struct {
	HTTP    []net.Listener
	Metrics net.Listener
}

func (l *appListeners) closers() []io.Closer {
	var closers []io.Closer

	for _, ln := range l.HTTP {
		closers = append(closers, ln)
	}

	if l.Metrics != nil {
		closers = append(closers, l.Metrics)
	}

	return closers
}

func closeAll(cs []io.Closer) {
	for _, c := range cs {
		c.Close()
	}
}

// createListeners opens every HTTP and metrics socket up front, so the
// addresses are known before anything is served. -max-conns is shared by
// all HTTP listeners.
func createListeners(cfg *config.Config) (*appListeners, error) {
	listeners := &appListeners{}

	var limiter *netutil.Limiter
	if cfg.General.MaxConns > 0 {
		limiter = netutil.NewLimiter(cfg.General.MaxConns)
	}

	for _, addr := range cfg.ListenAddresses() {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			closeAll(listeners.closers())
			return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		log.WithFields(log.Fields{
			"listener": addr,
		}).Debug("Set up HTTP listener")

		if limiter != nil {
			ln = limiter.Listener(ln)
		}

		listeners.HTTP = append(listeners.HTTP, ln)
	}

	if addr := cfg.General.MetricsAddress; addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			closeAll(listeners.closers())
			return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		log.WithFields(log.Fields{
			"listener": addr,
		}).Debug("Set up metrics listener")

		listeners.Metrics = ln
	}

	return listeners, nil
}

// serve blocks until server is shut down
func serve(server *http.Server, ln net.Listener) error {
	err := server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
