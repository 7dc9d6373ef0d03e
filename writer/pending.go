// Package writer implements the client-side multi-stream writer: it batches
// records into record sets and races each set across equivalent streams.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package writer

import (
	"strconv"
	"sync"
	"time"

	"github.com/NVIDIA/dlog/api"
	"github.com/NVIDIA/dlog/cmn"
	"github.com/NVIDIA/dlog/cmn/atomic"
	"github.com/NVIDIA/dlog/cmn/nlog"
	"github.com/NVIDIA/dlog/transport"
)

// pendingWrite tracks one sealed record set's life across speculative
// attempts on the roster. States: open -> settled success | failure; the
// first settlement wins (CAS), terminal states are absorbing.
type pendingWrite struct {
	w  *Writer
	rs *transport.RecordSet

	mu            sync.Mutex
	startedAt     int64 // mono ns
	nextStreamIdx int
	triedCount    int
	settled       atomic.Bool

	loghdr string
}

func newPendingWrite(w *Writer, rs *transport.RecordSet) *pendingWrite {
	pw := &pendingWrite{
		w:             w,
		rs:            rs,
		startedAt:     w.clock.NanoTime(),
		nextStreamIdx: w.roster.nextStart(),
		loghdr:        "pw-" + strconv.FormatInt(w.pwID.Inc(), 10),
	}
	return pw
}

// sendNextAttempt issues one more parallel attempt against the next roster
// stream, unless the hard deadline elapsed or all streams were tried - in
// which case the set settles as failed. Returns the chosen stream name and
// whether an attempt was actually issued.
func (pw *pendingWrite) sendNextAttempt() (stream string, issued bool) {
	n := pw.w.roster.len()
	pw.mu.Lock()
	if pw.settled.Load() {
		pw.mu.Unlock()
		return "", false
	}
	elapsed := time.Duration(pw.w.clock.NanoTime() - pw.startedAt)
	if elapsed > pw.w.conf.RequestTimeout.D() || pw.triedCount >= n {
		tried := pw.triedCount
		settling := pw.settled.CAS(false, true)
		pw.mu.Unlock()
		if settling {
			err := cmn.NewErrSetTimeout(elapsed, tried)
			nlog.Warningln(pw.loghdr, "giving up:", err)
			pw.rs.AbortTransmit(err)
			pw.w.stats.Timeouts.Inc()
			setTimeouts.Inc()
		}
		return "", false
	}
	idx := pw.nextStreamIdx
	pw.nextStreamIdx = (idx + 1) % n
	pw.triedCount++
	stream = pw.w.roster.get(idx)
	pw.mu.Unlock()

	// remote call outside the lock; callbacks run on the client's executor
	pw.w.stats.Attempts.Inc()
	writeAttempts.Inc()
	pw.w.client.WriteRecordSet(stream, pw.rs, func(coord api.Coordinate, err error) {
		if err != nil {
			pw.onFailure(stream, err)
		} else {
			pw.onSuccess(stream, coord)
		}
	})
	return stream, true
}

func (pw *pendingWrite) onSuccess(stream string, coord api.Coordinate) {
	if !pw.settled.CAS(false, true) {
		// a parallel attempt settled the set first; the service treats
		// independent appends as independent - drop the late ack
		nlog.Infoln(pw.loghdr, "late ack from", stream, coord.String(), "- dropped")
		return
	}
	pw.rs.CompleteTransmit(coord.LogSegmentSeq, coord.EntryID, coord.SlotID)
	pw.w.stats.Acked.Add(int64(pw.rs.NumRecords()))
	recordsAcked.Add(float64(pw.rs.NumRecords()))
}

// a single-attempt failure is never user-visible: treat it exactly like a
// speculative tick and move on to the next stream
func (pw *pendingWrite) onFailure(stream string, err error) {
	nlog.Warningln(pw.loghdr, "attempt on", stream, "failed:", err)
	attemptErrors.Inc()
	pw.sendNextAttempt()
}

// issueSpeculative is the timer-ladder entry point; returning true tells the
// policy to schedule the next tick.
func (pw *pendingWrite) issueSpeculative() bool {
	if pw.settled.Load() {
		return false
	}
	pw.w.stats.Speculations.Inc()
	speculations.Inc()
	_, issued := pw.sendNextAttempt()
	return issued && !pw.settled.Load()
}
