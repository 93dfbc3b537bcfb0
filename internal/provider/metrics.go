// Package provider – Prometheus instrumentation
//
// Collectors for outbound panel traffic. Label cardinality stays bounded:
// "action" is one of the four panel actions, "outcome" one of five fixed
// verdicts, "variant" one of the small fixed set of request shapes.
package provider

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// panelReqs counts completed gateway calls by action and verdict.
	panelReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of provider gateway calls by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	// panelLat records end-to-end gateway call duration, retries included.
	panelLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of provider gateway calls in seconds, including retries.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// panelFallback counts responses served by a non-primary request variant.
	// A steadily climbing series means the panel's field names drifted and
	// the primary variant should be updated.
	panelFallback = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fallback_total",
			Help: "Responses obtained via a non-primary provider request variant.",
		},
		[]string{"action", "variant"},
	)
)

func init() {
	prometheus.MustRegister(panelReqs, panelLat, panelFallback)
}

// Outcome label values for panelReqs.
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeProtocol  = "protocol_error"
	outcomeRejected  = "rejected"
	outcomeAmbiguous = "ambiguous"
)

// observeCall records one completed gateway call and classifies err into an
// outcome label.
func observeCall(action string, start time.Time, err error) {
	panelLat.WithLabelValues(action).Observe(time.Since(start).Seconds())
	panelReqs.WithLabelValues(action, outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	switch err.(type) {
	case nil:
		return outcomeOK
	case *TransportError:
		return outcomeTransport
	case *ProtocolError:
		return outcomeProtocol
	case *RejectionError:
		return outcomeRejected
	case *AmbiguousResponseError:
		return outcomeAmbiguous
	default:
		return outcomeTransport
	}
}
