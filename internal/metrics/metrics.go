// Package metrics exposes the receiver's counters in the Prometheus format.
//
// All methods are safe on a nil *Collector, so components can be built
// without metrics.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srlehn/lcdpipe/internal/consts"
)

type Collector struct {
	reg          *prometheus.Registry
	lines        prometheus.Counter
	decodeErrors *prometheus.CounterVec
	commands     *prometheus.CounterVec
	applyErrors  *prometheus.CounterVec
	reconnects   prometheus.Counter
	ingestState  prometheus.Gauge
	queueDepth   atomic.Pointer[func() int]
}

func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.MetricNamespace,
			Name:      `lines_total`,
			Help:      `Protocol lines read from the transport.`,
		}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.MetricNamespace,
			Name:      `decode_errors_total`,
			Help:      `Lines rejected by the decoder.`,
		}, []string{`kind`}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.MetricNamespace,
			Name:      `commands_total`,
			Help:      `Commands applied to the framebuffer.`,
		}, []string{`kind`}),
		applyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.MetricNamespace,
			Name:      `apply_errors_total`,
			Help:      `Commands the framebuffer refused.`,
		}, []string{`kind`}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.MetricNamespace,
			Name:      `reconnects_total`,
			Help:      `Times the transport was reopened after end of stream.`,
		}),
		ingestState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: consts.MetricNamespace,
			Name:      `ingest_state`,
			Help:      `Ingest loop state (0 connecting, 1 streaming).`,
		}),
	}
	queue := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: consts.MetricNamespace,
		Name:      `queue_depth`,
		Help:      `Decoded commands waiting for the dispatcher.`,
	}, func() float64 {
		if depth := c.queueDepth.Load(); depth != nil {
			return float64((*depth)())
		}
		return 0
	})
	c.reg.MustRegister(c.lines, c.decodeErrors, c.commands, c.applyErrors, c.reconnects, c.ingestState, queue)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}

// RegisterQueue sets the source of the queue depth gauge. A later call
// replaces the earlier source, so one collector can serve successive
// receivers.
func (c *Collector) RegisterQueue(depth func() int) {
	if c == nil || depth == nil {
		return
	}
	c.queueDepth.Store(&depth)
}

func (c *Collector) Line() {
	if c == nil {
		return
	}
	c.lines.Inc()
}

func (c *Collector) DecodeError(kind string) {
	if c == nil {
		return
	}
	c.decodeErrors.WithLabelValues(kind).Inc()
}

func (c *Collector) Command(kind string) {
	if c == nil {
		return
	}
	c.commands.WithLabelValues(kind).Inc()
}

func (c *Collector) ApplyError(kind string) {
	if c == nil {
		return
	}
	c.applyErrors.WithLabelValues(kind).Inc()
}

func (c *Collector) Reconnect() {
	if c == nil {
		return
	}
	c.reconnects.Inc()
}

func (c *Collector) SetIngestState(state int) {
	if c == nil {
		return
	}
	c.ingestState.Set(float64(state))
}
