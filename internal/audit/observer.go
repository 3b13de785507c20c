package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"

	"github.com/jeanpaul/phonebook/internal/phonebook"
)

// Operations finish in microseconds to tens of milliseconds (a save).
var buckets = metrics.ExponentialBuckets(1e-6, 10, 7)

// Observer writes audit lines and keeps per-operation metrics.
type Observer struct {
	logger  *slog.Logger
	set     *metrics.Set
	session string
}

// NewObserver returns an Observer logging to logger. A nil logger
// discards audit lines but metrics are still kept.
func NewObserver(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	session := uuid.NewString()
	return &Observer{
		logger:  logger.With("session", session),
		set:     metrics.NewSet(),
		session: session,
	}
}

// Session identifies this process in the audit log.
func (o *Observer) Session() string { return o.session }

// Logger returns the session-scoped audit logger.
func (o *Observer) Logger() *slog.Logger { return o.logger }

// Record logs one finished operation and updates its metrics.
func (o *Observer) Record(op string, start time.Time, err error, args ...any) {
	elapsed := time.Since(start)

	status, lvl := "ok", slog.LevelInfo
	switch {
	case err == nil:
	case errors.Is(err, phonebook.ErrNotFound):
		status, lvl = "not_found", slog.LevelWarn
	default:
		status, lvl = "error", slog.LevelError
	}

	attrs := append([]any{"op", op, "duration", elapsed}, args...)
	if err != nil {
		attrs = append(attrs, "err", err)
	}
	o.logger.Log(context.Background(), lvl, "operation", attrs...)

	o.set.GetOrCreatePrometheusHistogramExt(fmt.Sprintf(`phonebook_operation_duration_seconds{operation="%s"}`, op), buckets).UpdateDuration(start)
	o.set.GetOrCreateCounter(fmt.Sprintf(`phonebook_operations_total{operation="%s",status="%s"}`, op, status)).Inc()
}

// WritePrometheus writes the collected metrics in Prometheus text format.
func (o *Observer) WritePrometheus(w io.Writer) {
	o.set.WritePrometheus(w)
}
