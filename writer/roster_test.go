// Package writer implements the client-side multi-stream writer: it batches
// records into record sets and races each set across equivalent streams.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package writer

import (
	"fmt"
	"time"

	"github.com/NVIDIA/dlog/cmn"
	"github.com/NVIDIA/dlog/cmn/cos"
	"github.com/NVIDIA/dlog/hk"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("roster", func() {
	It("should hold a permutation of the input streams", func() {
		streams := make([]string, 32)
		for i := range streams {
			streams[i] = fmt.Sprintf("stream-%02d", i)
		}
		r := newRoster(streams)
		Expect(r.len()).To(Equal(len(streams)))
		Expect(r.streams).To(ConsistOf(streams))
	})

	It("should not mutate the caller's slice", func() {
		streams := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		orig := append([]string{}, streams...)
		newRoster(streams)
		Expect(streams).To(Equal(orig))
	})

	It("should seed start indexes within bounds", func() {
		r := newRoster([]string{"a", "b", "c"})
		for i := 0; i < 100; i++ {
			Expect(r.nextStart()).To(SatisfyAll(BeNumerically(">=", 0), BeNumerically("<", 3)))
		}
	})
})

var _ = Describe("speculator", func() {
	conf := func(first, maxd time.Duration, mult float64) *cmn.SpecConf {
		return &cmn.SpecConf{First: cos.Duration(first), Max: cos.Duration(maxd), Multiplier: mult}
	}

	It("should climb the ladder up to the cap", func() {
		s := newSpeculator(func() bool { return true }, conf(50*time.Millisecond, 120*time.Millisecond, 3))
		intervals := []time.Duration{s.cur}
		for i := 0; i < 4; i++ {
			intervals = append(intervals, s.tick(0))
		}
		Expect(intervals).To(Equal([]time.Duration{
			50 * time.Millisecond,
			120 * time.Millisecond, // min(50*3, 120)
			120 * time.Millisecond,
			120 * time.Millisecond,
			120 * time.Millisecond,
		}))
	})

	It("should double under the default multiplier", func() {
		s := newSpeculator(func() bool { return true }, conf(50*time.Millisecond, 200*time.Millisecond, 2))
		Expect(s.tick(0)).To(Equal(100 * time.Millisecond))
		Expect(s.tick(0)).To(Equal(200 * time.Millisecond))
		Expect(s.tick(0)).To(Equal(200 * time.Millisecond))
	})

	It("should stop once the dispatch state cannot be advanced", func() {
		s := newSpeculator(func() bool { return false }, conf(50*time.Millisecond, 200*time.Millisecond, 2))
		Expect(s.tick(0)).To(Equal(hk.UnregInterval))
	})
})
