// Package transport implements record-set framing and (de)compression, and
// defines the wire-client contract used to append a record set to a stream.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"encoding/binary"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/pkg/errors"
)

// Iterator decodes a framed record-set payload back into records
// (the receive side of the envelope documented in recordset.go).
type Iterator struct {
	recs  []byte
	off   int
	count uint32
	seen  uint32
	codec string
}

func NewIterator(payload []byte) (*Iterator, error) {
	if len(payload) < hdrSize {
		return nil, errors.Errorf("record set too short (%d bytes)", len(payload))
	}
	if magic := binary.BigEndian.Uint16(payload[0:]); magic != setMagic {
		return nil, errors.Errorf("bad record-set magic %#x", magic)
	}
	if v := payload[2]; v != setVersion {
		return nil, errors.Errorf("unsupported record-set version %d", v)
	}
	var (
		tag   = payload[3]
		count = binary.BigEndian.Uint32(payload[4:])
		cksum = binary.BigEndian.Uint64(payload[8:])
	)
	codec, err := codecName(tag)
	if err != nil {
		return nil, err
	}
	recs, err := unzip(tag, payload[hdrSize:])
	if err != nil {
		return nil, err
	}
	if computed := xxhash.Checksum64(recs); computed != cksum {
		return nil, errors.Errorf("record-set checksum mismatch (%x != %x)", computed, cksum)
	}
	return &Iterator{recs: recs, count: count, codec: codec}, nil
}

func (it *Iterator) Count() int    { return int(it.count) }
func (it *Iterator) Codec() string { return it.codec }

// Next returns the next record payload; io.EOF after the last one.
func (it *Iterator) Next() ([]byte, error) {
	if it.off == len(it.recs) {
		if it.seen != it.count {
			return nil, errors.Errorf("record count mismatch (%d != %d)", it.seen, it.count)
		}
		return nil, io.EOF
	}
	if it.off+recFrameSize > len(it.recs) {
		return nil, errors.Errorf("truncated record frame at offset %d", it.off)
	}
	l := int(binary.BigEndian.Uint32(it.recs[it.off:]))
	it.off += recFrameSize
	if it.off+l > len(it.recs) {
		return nil, errors.Errorf("truncated record (%d bytes at offset %d)", l, it.off)
	}
	rec := it.recs[it.off : it.off+l : it.off+l]
	it.off += l
	it.seen++
	return rec, nil
}
