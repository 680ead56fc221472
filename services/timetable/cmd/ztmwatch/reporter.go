package main

import (
	"context"
	"sync"

	"github.com/rmrobinson/ztm/lib/stream"
	"github.com/rmrobinson/ztm/services/timetable/convert"
	"go.uber.org/zap"
)

// totals accumulates the outcome of every conversion since the watcher started.
type totals struct {
	Files      int
	Failed     int
	Lines      int
	Departures int
	Skipped    int
}

func failedConversion(msg stream.Message) bool {
	res, ok := msg.(*convert.Result)
	return ok && res.Failed()
}

// reporter logs failed conversions as they happen and keeps running totals of all of them.
type reporter struct {
	logger *zap.Logger

	failures *stream.Subscription
	summary  *stream.Subscription

	lock   sync.Mutex
	totals totals
}

func newReporter(logger *zap.Logger, results *stream.Hub) *reporter {
	return &reporter{
		logger:   logger,
		failures: results.Subscribe("failures", failedConversion, 0),
		summary:  results.Subscribe("summary", nil, 0),
	}
}

// run consumes both subscriptions until the context is cancelled or they are closed.
func (r *reporter) run(ctx context.Context) {
	failures := r.failures.Messages()
	summary := r.summary.Messages()

	for failures != nil || summary != nil {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			r.reportFailure(msg)
		case msg, ok := <-summary:
			if !ok {
				summary = nil
				continue
			}
			r.count(msg)
		}
	}
}

func (r *reporter) reportFailure(msg stream.Message) {
	res, ok := msg.(*convert.Result)
	if !ok {
		return
	}

	r.logger.Error("conversion failed",
		zap.String("run_id", res.RunID),
		zap.String("file_name", res.Input),
		zap.Strings("outputs", res.Outputs),
		zap.Error(res.Err),
	)
}

func (r *reporter) count(msg stream.Message) {
	res, ok := msg.(*convert.Result)
	if !ok {
		return
	}

	r.lock.Lock()
	r.totals.Files++
	if res.Failed() {
		r.totals.Failed++
	}
	r.totals.Lines += res.LineCount
	r.totals.Departures += res.RowCount
	r.totals.Skipped += res.Skipped
	t := r.totals
	r.lock.Unlock()

	r.logger.Info("conversion summary",
		zap.String("last", res.String()),
		zap.Int("files", t.Files),
		zap.Int("failed", t.Failed),
		zap.Int("line_count", t.Lines),
		zap.Int("row_count", t.Departures),
		zap.Int("skipped_records", t.Skipped),
	)
}

func (r *reporter) snapshot() totals {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.totals
}

func (r *reporter) close() {
	r.failures.Close()
	r.summary.Close()
}
