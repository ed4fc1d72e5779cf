package netutil

import (
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-devserver/metrics"
)

func listen(t *testing.T, limiter *Limiter) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	limited := limiter.Listener(ln)
	t.Cleanup(func() { limited.Close() })

	return limited
}

func dial(t *testing.T, ln net.Listener) net.Conn {
	t.Helper()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestLimiterSharesSlots(t *testing.T) {
	limiter := NewLimiter(1)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.LimitListenerMaxConns))

	first := listen(t, limiter)
	second := listen(t, limiter)

	dial(t, first)
	dial(t, second)

	conn, err := first.Accept()
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.LimitListenerConcurrentConns))

	accepted := make(chan net.Conn)
	go func() {
		c, err := second.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	select {
	case <-accepted:
		t.Fatal("second listener accepted while no slot was free")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, conn.Close())
	// closing twice gives the slot back once
	conn.Close()

	select {
	case c := <-accepted:
		c.Close()
	case <-time.After(time.Second):
		t.Fatal("slot was not released")
	}
}

func TestLimiterCloseUnblocksAccept(t *testing.T) {
	limiter := NewLimiter(1)

	ln := listen(t, limiter)
	dial(t, ln)

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	errs := make(chan error)
	go func() {
		_, err := ln.Accept()
		errs <- err
	}()

	require.NoError(t, ln.Close())

	select {
	case err := <-errs:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Accept did not return after Close")
	}
}
