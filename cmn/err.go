// Package cmn provides configuration, error kinds, and wire constants shared
// by the writer and its transport.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"errors"
	"fmt"
	"time"

	"github.com/NVIDIA/dlog/cmn/cos"
)

type (
	// ErrRecordTooLong: payload exceeds the framed record ceiling.
	// Never retried, never buffered.
	ErrRecordTooLong struct {
		Size  int64
		Limit int64
	}
	// ErrWrite: the record-set writer rejected an append (framing); the
	// buffer it happened to is aborted.
	ErrWrite struct {
		Cause error
	}
	// ErrSetTimeout: a record set ran out of streams to try or out of its
	// hard deadline; fans out to every record in the set.
	ErrSetTimeout struct {
		Elapsed time.Duration
		Tried   int
	}
)

var ErrWriterClosed = errors.New("writer is closed")

///////////////////////
// ErrRecordTooLong //
///////////////////////

func NewErrRecordTooLong(size, limit int64) *ErrRecordTooLong {
	return &ErrRecordTooLong{Size: size, Limit: limit}
}

func (e *ErrRecordTooLong) Error() string {
	return fmt.Sprintf("record too long (%s > %s)", cos.B2S(e.Size, 1), cos.B2S(e.Limit, 0))
}

func IsErrRecordTooLong(err error) bool {
	var e *ErrRecordTooLong
	return errors.As(err, &e)
}

//////////////
// ErrWrite //
//////////////

func NewErrWrite(cause error) *ErrWrite { return &ErrWrite{Cause: cause} }

func (e *ErrWrite) Error() string { return "record-set write failed: " + e.Cause.Error() }
func (e *ErrWrite) Unwrap() error { return e.Cause }

func IsErrWrite(err error) bool {
	var e *ErrWrite
	return errors.As(err, &e)
}

///////////////////
// ErrSetTimeout //
///////////////////

func NewErrSetTimeout(elapsed time.Duration, tried int) *ErrSetTimeout {
	return &ErrSetTimeout{Elapsed: elapsed, Tried: tried}
}

func (e *ErrSetTimeout) Error() string {
	return fmt.Sprintf("record set timed out (elapsed=%v, tried=%d streams)", e.Elapsed, e.Tried)
}

func IsErrSetTimeout(err error) bool {
	var e *ErrSetTimeout
	return errors.As(err, &e)
}
