package skim

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments that report pipeline
// liveness: how much of the pool the Matcher has processed and matched,
// and how many times the Reader has been restarted. Registration is
// optional:
// a nil *Metrics, or the zero-valued Metrics returned by NewMetrics when
// registration fails, silently no-ops every method, so metrics never
// become a hard dependency of the engine.
type Metrics struct {
	itemsProcessed prometheus.Counter
	itemsMatched   prometheus.Counter
	readerRestarts prometheus.Counter
	poolSize       prometheus.Gauge
}

// NewMetrics registers the skim_* instruments against reg and returns a
// handle to them. If registration fails (e.g. called twice against the
// same registry in a test), it returns a Metrics whose methods are safe
// no-ops.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		itemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skim_matcher_items_processed_total",
			Help: "Items the matcher has scanned across all search restarts.",
		}),
		itemsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skim_matcher_items_matched_total",
			Help: "Items that scored a match across all search restarts.",
		}),
		readerRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skim_reader_restarts_total",
			Help: "Number of times the reader command has been (re)started.",
		}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skim_item_pool_size",
			Help: "Current number of items held in the item pool.",
		}),
	}
	for _, c := range []prometheus.Collector{m.itemsProcessed, m.itemsMatched, m.readerRestarts, m.poolSize} {
		if err := reg.Register(c); err != nil {
			return &Metrics{}
		}
	}
	return m
}

func (m *Metrics) addProcessed(n int) {
	if m == nil || m.itemsProcessed == nil {
		return
	}
	m.itemsProcessed.Add(float64(n))
}

func (m *Metrics) addMatched(n int) {
	if m == nil || m.itemsMatched == nil {
		return
	}
	m.itemsMatched.Add(float64(n))
}

func (m *Metrics) incReaderRestart() {
	if m == nil || m.readerRestarts == nil {
		return
	}
	m.readerRestarts.Inc()
}

func (m *Metrics) setPoolSize(n int) {
	if m == nil || m.poolSize == nil {
		return
	}
	m.poolSize.Set(float64(n))
}
