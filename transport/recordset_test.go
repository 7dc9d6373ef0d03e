// Package transport implements record-set framing and (de)compression, and
// defines the wire-client contract used to append a record set to a stream.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"errors"
	"io"

	"github.com/NVIDIA/dlog/api"
	"github.com/NVIDIA/dlog/cmn"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RecordSet", func() {
	var rs *RecordSet

	BeforeEach(func() {
		rs = NewRecordSet(api.CompressNever)
	})

	appendN := func(payloads ...string) (futures []*Future) {
		for _, p := range payloads {
			f := NewFuture()
			Expect(rs.Append([]byte(p), f)).To(Succeed())
			futures = append(futures, f)
		}
		return
	}

	It("should track record and byte counts", func() {
		appendN("hello", "world", "!!")
		Expect(rs.NumRecords()).To(Equal(3))
		Expect(rs.NumBytes()).To(Equal(FramedLen(5) + FramedLen(5) + FramedLen(2)))
	})

	It("should reject an oversized record and leave the buffer unchanged", func() {
		appendN("hello")
		huge := make([]byte, cmn.MaxRecordSize+1)
		f := NewFuture()
		err := rs.Append(huge, f)
		Expect(cmn.IsErrRecordTooLong(err)).To(BeTrue())
		Expect(rs.NumRecords()).To(Equal(1))
		Expect(f.Done()).NotTo(BeClosed())
	})

	It("should distribute coordinates in append order from the slot base", func() {
		futures := appendN("hello", "world", "!!")
		rs.CompleteTransmit(7, 42, 0)
		for i, f := range futures {
			Expect(f.Done()).To(BeClosed())
			coord, err := f.Result()
			Expect(err).NotTo(HaveOccurred())
			Expect(coord).To(Equal(api.Coordinate{LogSegmentSeq: 7, EntryID: 42, SlotID: int32(i)}))
		}
	})

	It("should offset per-record slots by a non-zero base", func() {
		futures := appendN("a", "b")
		rs.CompleteTransmit(3, 9, 5)
		coord, _ := futures[1].Result()
		Expect(coord.SlotID).To(Equal(int32(6)))
	})

	It("should fan an abort out to every pending future", func() {
		futures := appendN("a", "b", "c")
		cause := errors.New("transmit aborted")
		rs.AbortTransmit(cause)
		for _, f := range futures {
			_, err := f.Result()
			Expect(err).To(MatchError(cause))
		}
	})

	It("should make terminal transitions mutually exclusive", func() {
		futures := appendN("a")
		rs.AbortTransmit(errors.New("boom"))
		rs.CompleteTransmit(1, 1, 0) // caller bug: must be a no-op
		_, err := futures[0].Result()
		Expect(err).To(HaveOccurred())

		rs = NewRecordSet(api.CompressNever)
		futures = appendN("a")
		rs.CompleteTransmit(1, 1, 0)
		rs.AbortTransmit(errors.New("boom")) // ditto
		coord, err := futures[0].Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(coord.EntryID).To(Equal(int64(1)))
	})

	It("should fail appends into an aborted buffer", func() {
		appendN("a")
		rs.AbortTransmit(errors.New("boom"))
		f := NewFuture()
		err := rs.Append([]byte("b"), f)
		Expect(cmn.IsErrWrite(err)).To(BeTrue())
		Expect(f.Done()).To(BeClosed())
		_, err = f.Result()
		Expect(cmn.IsErrWrite(err)).To(BeTrue())
	})

	It("should build the payload once and reuse it across attempts", func() {
		appendN("hello")
		p1, err := rs.Payload()
		Expect(err).NotTo(HaveOccurred())
		p2, err := rs.Payload()
		Expect(err).NotTo(HaveOccurred())
		Expect(&p1[0]).To(BeIdenticalTo(&p2[0]))
	})
})

var _ = Describe("Iterator", func() {
	roundtrip := func(compression string, payloads ...string) {
		rs := NewRecordSet(compression)
		for _, p := range payloads {
			Expect(rs.Append([]byte(p), NewFuture())).To(Succeed())
		}
		wire, err := rs.Payload()
		Expect(err).NotTo(HaveOccurred())

		it, err := NewIterator(wire)
		Expect(err).NotTo(HaveOccurred())
		Expect(it.Count()).To(Equal(len(payloads)))
		Expect(it.Codec()).To(Equal(compression))
		for _, p := range payloads {
			rec, err := it.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(rec)).To(Equal(p))
		}
		_, err = it.Next()
		Expect(err).To(MatchError(io.EOF))
	}

	It("should decode an uncompressed set", func() {
		roundtrip(api.CompressNever, "hello", "world", "!!")
	})

	It("should decode an lz4 set", func() {
		roundtrip(api.CompressLZ4, "hello", "world", "!!")
	})

	It("should decode a gzip set", func() {
		roundtrip(api.CompressGZIP, "hello", "world", "!!")
	})

	It("should decode an empty record", func() {
		roundtrip(api.CompressNever, "a", "", "c")
	})

	It("should reject a corrupt payload", func() {
		rs := NewRecordSet(api.CompressNever)
		Expect(rs.Append([]byte("hello"), NewFuture())).To(Succeed())
		wire, _ := rs.Payload()

		mangled := append([]byte{}, wire...)
		mangled[len(mangled)-1] ^= 0xff
		_, err := NewIterator(mangled)
		Expect(err).To(MatchError(ContainSubstring("checksum")))

		_, err = NewIterator(wire[:4])
		Expect(err).To(MatchError(ContainSubstring("too short")))

		mangled = append([]byte{}, wire...)
		mangled[0] = 0
		_, err = NewIterator(mangled)
		Expect(err).To(MatchError(ContainSubstring("magic")))
	})
})

var _ = Describe("Future", func() {
	It("should resolve at most once", func() {
		f := NewFuture()
		Expect(f.complete(api.Coordinate{LogSegmentSeq: 1})).To(BeTrue())
		Expect(f.complete(api.Coordinate{LogSegmentSeq: 2})).To(BeFalse())
		Expect(f.fail(errors.New("late"))).To(BeFalse())
		coord, err := f.Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(coord.LogSegmentSeq).To(Equal(int64(1)))
	})

	It("should construct an already-failed future", func() {
		cause := errors.New("bad record")
		f := FailedFuture(cause)
		Expect(f.Done()).To(BeClosed())
		_, err := f.Result()
		Expect(err).To(MatchError(cause))
	})
})
