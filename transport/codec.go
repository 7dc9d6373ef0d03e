// Package transport implements record-set framing and (de)compression, and
// defines the wire-client contract used to append a record set to a stream.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"bytes"
	"io"

	"github.com/NVIDIA/dlog/api"
	"github.com/NVIDIA/dlog/cmn/cos"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v3"
	"github.com/pkg/errors"
)

// lz4 framing spec at http://fastcompression.blogspot.com/2013/04/lz4-streaming-format-final.html
const lz4BlockMaxSize = 256 * cos.KiB

// codec wire tags
const (
	codecNone = iota
	codecLZ4
	codecGZIP
)

func codecTag(compression string) uint8 {
	switch compression {
	case api.CompressLZ4:
		return codecLZ4
	case api.CompressGZIP:
		return codecGZIP
	default:
		return codecNone
	}
}

func codecName(tag uint8) (string, error) {
	switch tag {
	case codecNone:
		return api.CompressNever, nil
	case codecLZ4:
		return api.CompressLZ4, nil
	case codecGZIP:
		return api.CompressGZIP, nil
	default:
		return "", errors.Errorf("unknown codec tag %d", tag)
	}
}

func zip(tag uint8, src []byte) ([]byte, error) {
	switch tag {
	case codecNone:
		return src, nil
	case codecLZ4:
		var bb bytes.Buffer
		zw := lz4.NewWriter(&bb)
		zw.Header.BlockMaxSize = lz4BlockMaxSize
		zw.Header.NoChecksum = true // record-set header carries its own
		if _, err := zw.Write(src); err != nil {
			return nil, errors.Wrap(err, "lz4 write")
		}
		if err := zw.Close(); err != nil {
			return nil, errors.Wrap(err, "lz4 close")
		}
		return bb.Bytes(), nil
	case codecGZIP:
		var bb bytes.Buffer
		zw := gzip.NewWriter(&bb)
		if _, err := zw.Write(src); err != nil {
			return nil, errors.Wrap(err, "gzip write")
		}
		if err := zw.Close(); err != nil {
			return nil, errors.Wrap(err, "gzip close")
		}
		return bb.Bytes(), nil
	}
	return nil, errors.Errorf("unknown codec tag %d", tag)
}

func unzip(tag uint8, src []byte) ([]byte, error) {
	switch tag {
	case codecNone:
		return src, nil
	case codecLZ4:
		zr := lz4.NewReader(bytes.NewReader(src))
		out, err := io.ReadAll(zr)
		return out, errors.Wrap(err, "lz4 read")
	case codecGZIP:
		zr, err := gzip.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, errors.Wrap(err, "gzip open")
		}
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, errors.Wrap(err, "gzip read")
		}
		return out, zr.Close()
	}
	return nil, errors.Errorf("unknown codec tag %d", tag)
}
