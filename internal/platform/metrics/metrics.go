package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Consumer counts per-group consumption outcomes. One instance is shared by
// every consumption loop in a worker process.
type Consumer struct {
	processed *prometheus.CounterVec
	discarded *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

func NewConsumer(registerer prometheus.Registerer) *Consumer {
	c := &Consumer{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopstream_consumer_messages_processed_total",
			Help: "Messages whose handler completed without error.",
		}, []string{"consumer_group"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopstream_consumer_messages_discarded_total",
			Help: "Messages dropped for schema or command-type reasons.",
		}, []string{"consumer_group", "reason"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopstream_consumer_handler_failures_total",
			Help: "Handler executions that returned an error.",
		}, []string{"consumer_group"}),
	}
	if registerer != nil {
		registerer.MustRegister(c.processed, c.discarded, c.failed)
	}
	return c
}

func (c *Consumer) Processed(group string) {
	c.processed.WithLabelValues(group).Inc()
}

func (c *Consumer) Discarded(group string, reason string) {
	c.discarded.WithLabelValues(group, reason).Inc()
}

func (c *Consumer) HandlerFailed(group string) {
	c.failed.WithLabelValues(group).Inc()
}
