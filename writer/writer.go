// Package writer implements the client-side multi-stream writer: it batches
// records into record sets and races each set across equivalent streams.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package writer

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/NVIDIA/dlog/cmn"
	"github.com/NVIDIA/dlog/cmn/atomic"
	"github.com/NVIDIA/dlog/cmn/mono"
	"github.com/NVIDIA/dlog/cmn/nlog"
	"github.com/NVIDIA/dlog/hk"
	"github.com/NVIDIA/dlog/transport"

	"github.com/teris-io/shortid"
)

type (
	// Clock is the injectable monotonic time source used by dispatch-state
	// deadline arithmetic (the scheduler keeps its own clock).
	Clock interface {
		NanoTime() int64
	}

	// Args: additional (and optional) knobs for a new Writer.
	Args struct {
		Clock Clock  // nil: process monotonic clock
		HK    *hk.HK // nil: the writer owns one and stops it on Close
	}

	// Writer is the public facade: admits single records, decides when to
	// seal and hand off a buffer, owns the periodic flush tick.
	Writer struct {
		conf   cmn.WriterConf
		client transport.Client
		clock  Clock
		roster *roster
		hk     *hk.HK
		ownHK  bool

		mu  sync.Mutex // guards cur
		cur *transport.RecordSet

		closed atomic.Bool
		pwID   atomic.Int64
		stats  Stats
		loghdr string
	}

	monoClock struct{}
)

func (monoClock) NanoTime() int64 { return mono.NanoTime() }

// New validates conf and constructs a writer over the given wire client.
// The client is injected and never closed by the writer.
func New(client transport.Client, conf *cmn.WriterConf, args Args) (*Writer, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	w := &Writer{
		conf:   *conf,
		client: client,
		clock:  args.Clock,
		roster: newRoster(conf.Streams),
	}
	if w.clock == nil {
		w.clock = monoClock{}
	}
	if args.HK != nil {
		w.hk = args.HK
	} else {
		w.hk, w.ownHK = hk.New(), true
	}
	w.cur = transport.NewRecordSet(w.conf.Compression)
	w._loghdr()

	if ival := w.conf.FlushInterval.D(); ival > 0 {
		w.hk.Reg(w.loghdr+".flush", func(int64) time.Duration {
			w.Flush()
			return ival
		}, ival)
	}
	nlog.Infoln(w.loghdr, "is open")
	return w, nil
}

func (w *Writer) _loghdr() {
	sid, _ := shortid.Generate()
	var sb strings.Builder
	sb.WriteString("w-")
	sb.WriteString(sid)
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(w.roster.len()))
	sb.WriteByte(']')
	w.loghdr = sb.String()
}

func (w *Writer) String() string { return w.loghdr }

// Write admits one record and returns its completion future. The calling
// goroutine never blocks on I/O - only on the facade lock.
func (w *Writer) Write(payload []byte) *transport.Future {
	if int64(len(payload)) > cmn.MaxRecordSize {
		return transport.FailedFuture(cmn.NewErrRecordTooLong(int64(len(payload)), cmn.MaxRecordSize))
	}
	future := transport.NewFuture()

	w.mu.Lock()
	if w.closed.Load() {
		w.mu.Unlock()
		return transport.FailedFuture(cmn.ErrWriterClosed)
	}
	var sealed *transport.RecordSet
	if w.cur.NumBytes()+transport.FramedLen(len(payload)) > cmn.MaxRecordSetSize {
		sealed = w.stealCur()
	}
	if err := w.cur.Append(payload, future); err != nil {
		if cmn.IsErrWrite(err) {
			// the buffer self-aborted; its pending futures (this one
			// included) carry the cause - start over with a fresh one
			w.cur = transport.NewRecordSet(w.conf.Compression)
			writeErrors.Inc()
		}
		w.mu.Unlock()
		w.dispatch(sealed)
		if cmn.IsErrWrite(err) {
			return future
		}
		return transport.FailedFuture(err)
	}
	w.stats.Records.Inc()
	w.stats.Bytes.Add(transport.FramedLen(len(payload)))
	recordsIn.Inc()

	var full *transport.RecordSet
	if w.cur.NumBytes() >= w.conf.BufferSize {
		full = w.stealCur()
	}
	w.mu.Unlock()

	w.dispatch(sealed)
	w.dispatch(full)
	return future
}

// Flush seals the current buffer, if non-empty, and dispatches it outside
// the facade lock.
func (w *Writer) Flush() {
	w.mu.Lock()
	if w.closed.Load() || w.cur.NumRecords() == 0 {
		w.mu.Unlock()
		return
	}
	sealed := w.stealCur()
	w.mu.Unlock()
	w.dispatch(sealed)
}

// Close stops the periodic flush and, when owned, the scheduler; the open
// (undispatched) buffer's records fail with ErrWriterClosed. In-flight
// record sets are not aborted - callers wanting the tail delivered invoke
// Flush first. With an owned scheduler the speculative ladder stops too, so
// an in-flight set then gets further attempts, and its deadline check, only
// when one of its outstanding attempts fails.
func (w *Writer) Close() error {
	if !w.closed.CAS(false, true) {
		return nil
	}
	w.mu.Lock()
	cur := w.cur
	w.mu.Unlock()
	if cur.NumRecords() > 0 {
		nlog.Warningln(w.loghdr, "closing with", cur.NumRecords(), "undispatched records")
	}
	cur.AbortTransmit(cmn.ErrWriterClosed)

	if w.conf.FlushInterval.D() > 0 {
		w.hk.Unreg(w.loghdr + ".flush")
	}
	if w.ownHK {
		w.hk.Stop()
	}
	nlog.Infoln(w.loghdr, "closed")
	return nil
}

// under the facade lock
func (w *Writer) stealCur() (sealed *transport.RecordSet) {
	sealed = w.cur
	w.cur = transport.NewRecordSet(w.conf.Compression)
	return sealed
}

// dispatch spawns the sealed set's dispatch state, issues attempt #1, and
// arms the speculative ladder. Sets race independently - no serialization
// across sets here, by contract.
func (w *Writer) dispatch(rs *transport.RecordSet) {
	if rs == nil {
		return
	}
	if _, err := rs.Payload(); err != nil {
		nlog.Errorln(w.loghdr, "seal failed:", err)
		rs.AbortTransmit(err)
		writeErrors.Inc()
		return
	}
	w.stats.Sets.Inc()
	setsDispatched.Inc()

	pw := newPendingWrite(w, rs)
	s := newSpeculator(pw.issueSpeculative, &w.conf.Speculative)
	if stream, issued := pw.sendNextAttempt(); issued {
		nlog.Infoln(pw.loghdr, "dispatched", strconv.Itoa(rs.NumRecords()), "records to", stream)
	}
	w.hk.Reg(w.loghdr+"."+pw.loghdr+".spec", s.tick, s.cur)
}
