// Package writer implements the client-side multi-stream writer: it batches
// records into record sets and races each set across equivalent streams.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package writer

import (
	"math/rand"
	"slices"

	"github.com/NVIDIA/dlog/cmn/atomic"
	"github.com/NVIDIA/dlog/cmn/debug"
)

// global, to spread fresh pending writes across the roster
var nextStreamID atomic.Int64

// roster holds the shuffled list of equivalent target streams.
// Shuffled once at construction; immutable after.
type roster struct {
	streams []string
}

func newRoster(streams []string) *roster {
	debug.Assert(len(streams) > 0)
	r := &roster{streams: slices.Clone(streams)}
	rand.Shuffle(len(r.streams), func(i, j int) {
		r.streams[i], r.streams[j] = r.streams[j], r.streams[i]
	})
	return r
}

func (r *roster) len() int { return len(r.streams) }

func (r *roster) get(i int) string {
	debug.Assert(i >= 0 && i < len(r.streams), i)
	return r.streams[i]
}

// nextStart seeds a new pending write's starting index.
func (r *roster) nextStart() int {
	n := nextStreamID.Inc()
	if n < 0 {
		n = -n
	}
	return int(n % int64(len(r.streams)))
}
