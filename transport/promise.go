// Package transport implements record-set framing and (de)compression, and
// defines the wire-client contract used to append a record set to a stream.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"context"

	"github.com/NVIDIA/dlog/api"
	"github.com/NVIDIA/dlog/cmn/atomic"
)

// Future is the per-record completion handle returned by Writer.Write.
// Single-assignment: the first resolution wins, all others are dropped.
type Future struct {
	done  chan struct{}
	coord api.Coordinate
	err   error
	set   atomic.Bool
}

func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// FailedFuture returns a future already resolved with err.
func FailedFuture(err error) *Future {
	f := NewFuture()
	f.fail(err)
	return f
}

func (f *Future) complete(coord api.Coordinate) bool {
	if !f.set.CAS(false, true) {
		return false
	}
	f.coord = coord
	close(f.done)
	return true
}

func (f *Future) fail(err error) bool {
	if !f.set.CAS(false, true) {
		return false
	}
	f.err = err
	close(f.done)
	return true
}

// Done is closed when the future resolves.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until resolution or ctx expiry.
func (f *Future) Wait(ctx context.Context) (api.Coordinate, error) {
	select {
	case <-f.done:
		return f.coord, f.err
	case <-ctx.Done():
		return api.Coordinate{}, ctx.Err()
	}
}

// Result is valid once Done() is closed.
func (f *Future) Result() (api.Coordinate, error) { return f.coord, f.err }
