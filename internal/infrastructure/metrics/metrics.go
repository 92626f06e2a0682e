package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FetchCycles counts completed event-refresh cycles.
	FetchCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_event_fetch_cycles_total",
		Help: "Completed economic event fetch cycles.",
	})

	// FetchFailures counts per-series fetch failures within a cycle.
	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_event_fetch_failures_total",
		Help: "Per-series failures during event fetch cycles.",
	}, []string{"series"})

	// CachedEvents tracks the size of the current event snapshot.
	CachedEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_cached_events",
		Help: "Events in the current cache snapshot.",
	})

	// NotificationsSent counts delivered release notifications.
	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_notifications_sent_total",
		Help: "Release notifications delivered to destinations.",
	})

	// NotificationFailures counts per-destination delivery failures.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_notification_failures_total",
		Help: "Release notification deliveries that failed.",
	})

	// CommandsHandled counts processed chat commands by name.
	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_commands_handled_total",
		Help: "Chat commands processed, by command name.",
	}, []string{"command"})
)

// Handler exposes the default registry for a /metrics listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
