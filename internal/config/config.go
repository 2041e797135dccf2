package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; the server then keeps all state in memory.
	DefaultDatabaseURL = ""

	// DefaultBackendURL is where the simulate and check commands look for a running server.
	DefaultBackendURL = "http://localhost:8080"

	// DefaultRetention caps in-memory log entries per type and health reports.
	DefaultRetention = 1000

	// DefaultMetricsPoints is the number of hourly points returned per agent.
	DefaultMetricsPoints = 24

	// DefaultRequestTimeout bounds each dashboard request.
	DefaultRequestTimeout = 10 * time.Second
)
