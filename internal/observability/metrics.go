package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the game loop.
type Metrics struct {
	registry *prometheus.Registry

	tickDuration     prometheus.Histogram
	actionsPerformed *prometheus.CounterVec
	deaths           *prometheus.CounterVec
	commands         prometheus.Counter
	playersOnline    prometheus.Gauge
	journalDepth     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
//
// Precondition: reg must be non-nil and must not hold collectors with the
// same names.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "radmud_loop_iteration_seconds",
			Help:    "Duration of one game loop iteration.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		actionsPerformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radmud_actions_performed_total",
			Help: "Actions performed past their cooldown, by kind and status.",
		}, []string{"kind", "status"}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radmud_deaths_total",
			Help: "Characters killed, by player or mobile.",
		}, []string{"type"}),
		commands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radmud_commands_processed_total",
			Help: "Commands processed since server start.",
		}),
		playersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radmud_players_online",
			Help: "Number of players currently in the world.",
		}),
		journalDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radmud_journal_queue_depth",
			Help: "Persistence jobs waiting to be written.",
		}),
	}
	reg.MustRegister(
		m.tickDuration,
		m.actionsPerformed,
		m.deaths,
		m.commands,
		m.playersOnline,
		m.journalDepth,
	)
	return m
}

// ActionPerformed counts one performed action.
func (m *Metrics) ActionPerformed(kind, status string) {
	m.actionsPerformed.WithLabelValues(kind, status).Inc()
}

// CharacterKilled counts one death.
func (m *Metrics) CharacterKilled(mobile bool) {
	label := "player"
	if mobile {
		label = "mobile"
	}
	m.deaths.WithLabelValues(label).Inc()
}

// ObserveIteration records the duration of one loop iteration.
func (m *Metrics) ObserveIteration(d time.Duration) { m.tickDuration.Observe(d.Seconds()) }

// CommandProcessed counts one dispatched command.
func (m *Metrics) CommandProcessed() { m.commands.Inc() }

// SetPlayersOnline sets the online player gauge.
func (m *Metrics) SetPlayersOnline(n int) { m.playersOnline.Set(float64(n)) }

// SetJournalDepth sets the persistence queue gauge.
func (m *Metrics) SetJournalDepth(n int) { m.journalDepth.Set(float64(n)) }

// WatchPool exports the acquired and idle connections reported by stats,
// sampled on every scrape.
//
// Precondition: WatchPool must be called at most once per Metrics.
func (m *Metrics) WatchPool(stats func() (acquired, idle int32)) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "radmud_db_connections_acquired",
			Help: "Database connections currently in use.",
		}, func() float64 {
			acquired, _ := stats()
			return float64(acquired)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "radmud_db_connections_idle",
			Help: "Database connections idle in the pool.",
		}, func() float64 {
			_, idle := stats()
			return float64(idle)
		}),
	)
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
