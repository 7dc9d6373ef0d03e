// Package writer implements the client-side multi-stream writer: it batches
// records into record sets and races each set across equivalent streams.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package writer

import (
	"time"

	"github.com/NVIDIA/dlog/cmn"
	"github.com/NVIDIA/dlog/cmn/debug"
	"github.com/NVIDIA/dlog/hk"
)

// speculator is the exponential timer ladder driving additional parallel
// attempts: first tick at `first`, each next at min(cur*multiplier, max),
// until the issue callback reports there is nothing left to advance.
type speculator struct {
	issue func() bool
	cur   time.Duration
	max   time.Duration
	mult  float64
}

func newSpeculator(issue func() bool, conf *cmn.SpecConf) *speculator {
	debug.Assert(conf.First > 0 && conf.First <= conf.Max, conf.First, " vs ", conf.Max)
	debug.Assert(conf.Multiplier > 0)
	return &speculator{
		issue: issue,
		cur:   conf.First.D(),
		max:   conf.Max.D(),
		mult:  conf.Multiplier,
	}
}

func (s *speculator) tick(int64) time.Duration {
	if !s.issue() {
		return hk.UnregInterval
	}
	s.cur = min(time.Duration(float64(s.cur)*s.mult), s.max)
	return s.cur
}
