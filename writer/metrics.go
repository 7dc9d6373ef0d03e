// Package writer implements the client-side multi-stream writer: it batches
// records into record sets and races each set across equivalent streams.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package writer

import (
	"github.com/NVIDIA/dlog/cmn/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// process-wide counters; per-writer numbers are in Writer.GetStats
var (
	recordsIn = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_records_appended_total",
		Help: "Records admitted into record-set buffers",
	})
	setsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_recordsets_dispatched_total",
		Help: "Sealed record sets handed to the dispatch path",
	})
	writeAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_write_attempts_total",
		Help: "Wire attempts issued (initial and speculative)",
	})
	speculations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_speculations_total",
		Help: "Speculative timer ticks fired",
	})
	recordsAcked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_records_acked_total",
		Help: "Records completed with a coordinate",
	})
	attemptErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_err_attempt_total",
		Help: "Per-attempt wire failures (recovered by speculation)",
	})
	setTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_err_timeout_total",
		Help: "Record sets failed on roster exhaustion or hard deadline",
	})
	writeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dlog_err_write_total",
		Help: "Framing errors aborting an open buffer",
	})
)

// Stats is a per-writer transfer snapshot.
type Stats struct {
	Records      atomic.Int64 // appended
	Sets         atomic.Int64 // dispatched
	Attempts     atomic.Int64
	Speculations atomic.Int64
	Timeouts     atomic.Int64
	Acked        atomic.Int64 // records acked
	Bytes        atomic.Int64 // framed payload bytes, pre-compression
}

func (w *Writer) GetStats() (stats Stats) {
	stats.Records.Store(w.stats.Records.Load())
	stats.Sets.Store(w.stats.Sets.Load())
	stats.Attempts.Store(w.stats.Attempts.Load())
	stats.Speculations.Store(w.stats.Speculations.Load())
	stats.Timeouts.Store(w.stats.Timeouts.Load())
	stats.Acked.Store(w.stats.Acked.Load())
	stats.Bytes.Store(w.stats.Bytes.Load())
	return
}
