package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RouteDecisions counts the routing outcome of every handled request
	RouteDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pages_devserver_route_decisions_total",
		Help: "The number of requests per routing decision (redirect, serve, not_found)",
	}, []string{"decision"})

	// ServedFileSize records the size of the files handed to the client
	ServedFileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pages_devserver_served_file_size_bytes",
		Help:    "The size in bytes of the files served from the document root",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})

	// VFSOperations counts the document root operations
	VFSOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pages_devserver_vfs_operations_total",
		Help: "The number of document root operations",
	}, []string{"vfs_name", "operation", "success"})

	// LimitListenerMaxConns is the maximum number of concurrent connections
	LimitListenerMaxConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pages_devserver_limit_listener_max_conns",
		Help: "The maximum number of concurrent connections allowed by -max-conns",
	})

	// LimitListenerConcurrentConns is the number of connections being served
	LimitListenerConcurrentConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pages_devserver_limit_listener_concurrent_conns",
		Help: "The number of concurrent connections currently being served",
	})

	// LimitListenerWaitingConns is the number of connections waiting for a free slot
	LimitListenerWaitingConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pages_devserver_limit_listener_waiting_conns",
		Help: "The number of connections waiting for a slot to be served",
	})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		RouteDecisions,
		ServedFileSize,
		VFSOperations,
		LimitListenerMaxConns,
		LimitListenerConcurrentConns,
		LimitListenerWaitingConns,
	)
}
