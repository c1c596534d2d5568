package aggregates

import (
	"time"

	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// Hooks receives one event per transaction attempt of an aggregate write.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type metricsHooks struct {
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewObservabilityHooks records aggregate outcomes as metrics. Lost races are logged at debug
// level; transient failures (deadlocks, lock timeouts) at warn. Either argument may be nil.
func NewObservabilityHooks(metrics *observability.Metrics, log *logger.Logger) Hooks {
	if metrics == nil && log == nil {
		return noopHooks{}
	}
	if log != nil {
		log = log.With("component", "AggregateHooks")
	}
	return &metricsHooks{metrics: metrics, log: log}
}

func (h *metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(name, status, dur)
}

func (h *metricsHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(name)
	if h.log != nil {
		h.log.Debug("Aggregate write lost a race", "op", name)
	}
}

func (h *metricsHooks) IncRetry(name string) {
	h.metrics.IncAggregateRetry(name)
	if h.log != nil {
		h.log.Warn("Aggregate write hit a transient failure", "op", name)
	}
}
