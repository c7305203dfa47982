// Package metrics holds the Prometheus instruments of the lights daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request results.
const (
	ResultSuccess      = "success"
	ResultNotSupported = "not_supported"
	ResultWriteFailed  = "write_failed"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indicator_lights",
		Name:      "requests_total",
		Help:      "Light requests by type and result",
	}, []string{"type", "result"})

	channelWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indicator_lights",
		Subsystem: "channel",
		Name:      "write_failures_total",
		Help:      "Rejected writes per output channel",
	}, []string{"channel"})

	activeIndicator = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indicator_lights",
		Name:      "active_indicator",
		Help:      "1 for the indicator role currently shown, absent otherwise",
	}, []string{"type"})

	backlightLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indicator_lights",
		Subsystem: "backlight",
		Name:      "level",
		Help:      "Last value written to the backlight channel",
	})
)

func RecordRequest(lightType, result string) {
	requestsTotal.WithLabelValues(lightType, result).Inc()
}

func RecordWriteFailure(channel string) {
	channelWriteFailures.WithLabelValues(channel).Inc()
}

// SetActiveIndicator marks lightType as the shown indicator. An empty
// lightType clears the gauge.
func SetActiveIndicator(lightType string) {
	activeIndicator.Reset()
	if lightType != "" {
		activeIndicator.WithLabelValues(lightType).Set(1)
	}
}

func SetBacklightLevel(level uint32) {
	backlightLevel.Set(float64(level))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
