// Package netutil bounds the number of connections served at once
package netutil

import (
	"net"
	"sync"

	"gitlab.com/gitlab-org/pages-devserver/metrics"
)

// Limiter is a pool of connection slots shared by any number of listeners.
// Based on https://godoc.org/golang.org/x/net/netutil
type Limiter struct {
	sem chan struct{}
}

// NewLimiter returns a Limiter with n slots
func NewLimiter(n int) *Limiter {
	metrics.LimitListenerMaxConns.Set(float64(n))

	return &Limiter{sem: make(chan struct{}, n)}
}

// Listener wraps listener so Accept waits for a free slot. The slot is
// given back when the connection is closed.
func (l *Limiter) Listener(listener net.Listener) net.Listener {
	return &limitListener{
		Listener: listener,
		limiter:  l,
		done:     make(chan struct{}),
	}
}

func (l *Limiter) acquire(done <-chan struct{}) bool {
	metrics.LimitListenerWaitingConns.Inc()
	defer metrics.LimitListenerWaitingConns.Dec()

	select {
	case <-done:
		return false
	case l.sem <- struct{}{}:
		metrics.LimitListenerConcurrentConns.Inc()
		return true
	}
}

func (l *Limiter) release() {
	<-l.sem
	metrics.LimitListenerConcurrentConns.Dec()
}

type limitListener struct {
	net.Listener
	limiter   *Limiter
	closeOnce sync.Once
	done      chan struct{}
}

func (l *limitListener) Accept() (net.Conn, error) {
	acquired := l.limiter.acquire(l.done)

	// a closed listener returns the error right away
	c, err := l.Listener.Accept()
	if err != nil {
		if acquired {
			l.limiter.release()
		}

		return nil, err
	}

	return &limitConn{Conn: c, release: l.limiter.release}, nil
}

func (l *limitListener) Close() error {
	err := l.Listener.Close()
	l.closeOnce.Do(func() { close(l.done) })

	return err
}

type limitConn struct {
	net.Conn
	releaseOnce sync.Once
	release     func()
}

func (c *limitConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)

	return err
}
