// Package promx holds the process-wide prometheus registry shared by the
// gateway's own collectors and the hertz server tracer.
package promx

import "github.com/prometheus/client_golang/prometheus"

var registry = prometheus.NewRegistry()

func GetRegistry() *prometheus.Registry {
	return registry
}
