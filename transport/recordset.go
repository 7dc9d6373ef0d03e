// Package transport implements record-set framing and (de)compression, and
// defines the wire-client contract used to append a record set to a stream.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"bytes"
	"encoding/binary"

	"github.com/NVIDIA/dlog/api"
	"github.com/NVIDIA/dlog/cmn"
	"github.com/NVIDIA/dlog/cmn/atomic"
	"github.com/NVIDIA/dlog/cmn/cos"
	"github.com/NVIDIA/dlog/cmn/debug"

	"github.com/OneOfOne/xxhash"
)

// Record-set envelope:
//
//	| magic u16 | version u8 | codec u8 | count u32 | cksum u64 | records |
//
// where `records` is a sequence of `| len u32 | payload |` frames,
// compressed as a whole per `codec`. The checksum (xxhash64) covers the
// *uncompressed* records region.
const (
	setMagic   = uint16(0x444C) // "DL"
	setVersion = uint8(1)

	hdrSize      = 2 + 1 + 1 + 4 + 8
	recFrameSize = 4 // per-record length prefix
)

// buffer states
const (
	stateOpen = iota
	stateCompleted
	stateAborted
)

// RecordSet packs records with their per-record futures into a framed,
// optionally compressed byte payload. Appends are serialized by the caller
// (the facade lock); terminal transitions are CAS-guarded and absorbing.
type RecordSet struct {
	compression string
	buf         bytes.Buffer
	futures     []*Future
	state       atomic.Int32
	abortCause  cos.ErrValue
	payload     []byte // sealed wire payload, built once
}

func NewRecordSet(compression string) *RecordSet {
	debug.Assert(api.IsValidCompression(compression), compression)
	return &RecordSet{compression: compression}
}

// FramedLen is the number of buffer bytes an appended payload accounts for.
func FramedLen(l int) int64 { return int64(l) + recFrameSize }

func (rs *RecordSet) NumRecords() int { return len(rs.futures) }
func (rs *RecordSet) NumBytes() int64 { return int64(rs.buf.Len()) }

// Append packs one record and takes ownership of its future. On success the
// future is resolved later, by CompleteTransmit or AbortTransmit; on a
// write error the future is failed right here (a framing failure aborts the
// whole buffer, this record's future included). An oversized record leaves
// both the buffer and the future untouched.
func (rs *RecordSet) Append(payload []byte, future *Future) error {
	if int64(len(payload)) > cmn.MaxRecordSize {
		return cmn.NewErrRecordTooLong(int64(len(payload)), cmn.MaxRecordSize)
	}
	if rs.state.Load() == stateAborted {
		werr := cmn.NewErrWrite(rs.abortCause.Err())
		future.fail(werr)
		return werr
	}
	var lenb [recFrameSize]byte
	binary.BigEndian.PutUint32(lenb[:], uint32(len(payload)))
	if err := rs.frame(lenb[:], payload); err != nil {
		werr := cmn.NewErrWrite(err)
		rs.futures = append(rs.futures, future)
		rs.AbortTransmit(werr)
		return werr
	}
	rs.futures = append(rs.futures, future)
	return nil
}

func (rs *RecordSet) frame(lenb, payload []byte) error {
	if _, err := rs.buf.Write(lenb); err != nil {
		return err
	}
	_, err := rs.buf.Write(payload)
	return err
}

// Payload seals and returns the wire form; idempotent, so that speculative
// attempts reuse the same bytes.
func (rs *RecordSet) Payload() ([]byte, error) {
	if rs.payload != nil {
		return rs.payload, nil
	}
	var (
		recs  = rs.buf.Bytes()
		cksum = xxhash.Checksum64(recs)
		tag   = codecTag(rs.compression)
	)
	body, err := zip(tag, recs)
	if err != nil {
		return nil, cmn.NewErrWrite(err)
	}
	hdr := make([]byte, hdrSize, hdrSize+len(body))
	binary.BigEndian.PutUint16(hdr[0:], setMagic)
	hdr[2] = setVersion
	hdr[3] = tag
	binary.BigEndian.PutUint32(hdr[4:], uint32(len(rs.futures)))
	binary.BigEndian.PutUint64(hdr[8:], cksum)
	rs.payload = append(hdr, body...)
	return rs.payload, nil
}

// CompleteTransmit resolves futures in append order with coordinates
// (logSegmentSeq, entryID, slotBase+i). No-op if already terminated.
func (rs *RecordSet) CompleteTransmit(logSegmentSeq, entryID int64, slotBase int32) {
	if !rs.state.CAS(stateOpen, stateCompleted) {
		return
	}
	for i, f := range rs.futures {
		f.complete(api.Coordinate{
			LogSegmentSeq: logSegmentSeq,
			EntryID:       entryID,
			SlotID:        slotBase + int32(i),
		})
	}
}

// AbortTransmit fails every future with cause. No-op if already terminated.
func (rs *RecordSet) AbortTransmit(cause error) {
	rs.abortCause.Store(cause)
	if !rs.state.CAS(stateOpen, stateAborted) {
		return
	}
	for _, f := range rs.futures {
		f.fail(cause)
	}
}
