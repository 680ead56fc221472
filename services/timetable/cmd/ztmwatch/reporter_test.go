package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rmrobinson/ztm/lib/stream"
	"github.com/rmrobinson/ztm/services/timetable/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var reportedResults = []*convert.Result{
	{Input: "RA240101.TXT", LineCount: 2, RowCount: 10, Skipped: 1, Outputs: []string{"RA240101.CSV"}},
	{Input: "RA240102.TXT", Err: errors.New("missing input")},
	{Input: "RA240103.TXT", LineCount: 1, RowCount: 4, Outputs: []string{"RA240103.JSON"}, Err: errors.New("disk full")},
}

func TestFailedConversion(t *testing.T) {
	tests := []struct {
		name   string
		msg    stream.Message
		result bool
	}{
		{"success", reportedResults[0], false},
		{"parse failure", reportedResults[1], true},
		{"output failure", reportedResults[2], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.result, failedConversion(tt.msg))
		})
	}
}

func TestReporterTotals(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	results := stream.NewHub(zaptest.NewLogger(t))
	rep := newReporter(zap.New(core), results)
	defer rep.close()

	for _, res := range reportedResults {
		results.Publish(res)
	}
	require.Len(t, rep.failures.Messages(), 2)
	require.Len(t, rep.summary.Messages(), 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rep.run(ctx)

	assert.Eventually(t, func() bool {
		return rep.snapshot().Files == 3 && logs.FilterMessage("conversion failed").Len() == 2
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, totals{
		Files:      3,
		Failed:     2,
		Lines:      3,
		Departures: 14,
		Skipped:    1,
	}, rep.snapshot())

	failed := logs.FilterMessage("conversion failed").All()
	var names []string
	for _, entry := range failed {
		names = append(names, entry.ContextMap()["file_name"].(string))
	}
	assert.ElementsMatch(t, []string{"RA240102.TXT", "RA240103.TXT"}, names)
}

func TestReporterStopsWhenClosed(t *testing.T) {
	results := stream.NewHub(zaptest.NewLogger(t))
	rep := newReporter(zaptest.NewLogger(t), results)

	done := make(chan struct{})
	go func() {
		rep.run(context.Background())
		close(done)
	}()

	rep.close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}
	assert.Equal(t, 0, results.Len())
}
