// Package transport implements record-set framing and (de)compression, and
// defines the wire-client contract used to append a record set to a stream.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import "github.com/NVIDIA/dlog/api"

type (
	// WriteCB is invoked exactly once per WriteRecordSet call with either
	// the coordinate of the set's first record or a per-attempt error.
	// NOTE: executes on the wire client's callback executor, asynchronously
	// as far as the submitting goroutine is concerned.
	WriteCB func(coord api.Coordinate, err error)

	// Client submits a sealed record set to a named stream.
	// Failure modes surfaced through the callback: per-request timeout,
	// connection and transport errors.
	Client interface {
		WriteRecordSet(streamName string, rs *RecordSet, cb WriteCB)
	}
)
