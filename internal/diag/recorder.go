// Package diag records structured diagnostic events for the pipeline's
// fallback paths so operators can see how often degradation happens.
package diag

import (
	"log/slog"
	"strconv"
	"time"
)

type Stage string

const (
	StageAcquire   Stage = "acquire"
	StageNormalize Stage = "normalize"
	StageContent   Stage = "content"
	StageParse     Stage = "parse"
	StageValidate  Stage = "validate"
	StagePipeline  Stage = "pipeline"
)

// Event describes one fallback taken by a stage.
type Event struct {
	Stage  Stage
	Reason string // short, low-cardinality label, e.g. "pass-panic"
	Detail string // free text for the log line only
	Err    error
}

// Recorder logs events and counts them. A nil *Recorder is valid and discards everything.
type Recorder struct {
	logger  *slog.Logger
	metrics *Metrics
}

func NewRecorder(logger *slog.Logger, metrics *Metrics) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger, metrics: metrics}
}

// Degraded records that a stage fell back to its documented degraded behaviour.
func (r *Recorder) Degraded(ev Event) {
	if r == nil {
		return
	}
	attrs := []any{"stage", string(ev.Stage), "reason", ev.Reason}
	if ev.Detail != "" {
		attrs = append(attrs, "detail", ev.Detail)
	}
	if ev.Err != nil {
		attrs = append(attrs, "error", ev.Err)
		r.logger.Warn("pipeline stage degraded", attrs...)
	} else {
		r.logger.Debug("pipeline stage fallback", attrs...)
	}
	if r.metrics != nil {
		r.metrics.degradations.WithLabelValues(string(ev.Stage), ev.Reason).Inc()
	}
}

// Extraction counts one finished extraction.
func (r *Recorder) Extraction(sourceKind string, valid bool) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.extractions.WithLabelValues(sourceKind, strconv.FormatBool(valid)).Inc()
}

// Acquired counts one acquisition attempt and its duration.
func (r *Recorder) Acquired(method string, d time.Duration, err error) {
	if r == nil || r.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	if method == "" {
		method = "unknown"
	}
	r.metrics.observeAcquire(method, status, d)
}
