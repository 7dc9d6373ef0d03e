// Package cmn provides configuration, error kinds, and wire constants shared
// by the writer and its transport.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cmn_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NVIDIA/dlog/api"
	"github.com/NVIDIA/dlog/cmn"
	"github.com/NVIDIA/dlog/cmn/cos"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmn(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "cmn suite")
}

var _ = Describe("WriterConf", func() {
	valid := func() *cmn.WriterConf {
		return &cmn.WriterConf{Streams: []string{"a", "b"}}
	}

	It("should fill defaults", func() {
		conf := valid()
		Expect(conf.Validate()).To(Succeed())
		Expect(conf.BufferSize).To(Equal(int64(cmn.DfltBufferSize)))
		Expect(conf.FlushInterval.D()).To(Equal(cmn.DfltFlushInterval))
		Expect(conf.Compression).To(Equal(api.CompressNever))
		Expect(conf.RequestTimeout.D()).To(Equal(cmn.DfltRequestTimeout))
		Expect(conf.Speculative.First.D()).To(Equal(cmn.DfltFirstSpecWait))
		Expect(conf.Speculative.Max.D()).To(Equal(cmn.DfltMaxSpecWait))
		Expect(conf.Speculative.Multiplier).To(Equal(cmn.DfltSpecMultiplier))
	})

	It("should require a non-empty roster", func() {
		conf := &cmn.WriterConf{}
		Expect(conf.Validate()).NotTo(Succeed())
		conf.Streams = []string{"a", ""}
		Expect(conf.Validate()).NotTo(Succeed())
	})

	It("should cap the buffer at the record-set ceiling", func() {
		conf := valid()
		conf.BufferSize = 2 * cmn.MaxRecordSetSize
		Expect(conf.Validate()).To(Succeed())
		Expect(conf.BufferSize).To(Equal(int64(cmn.MaxRecordSetSize)))
	})

	It("should reject an unknown codec", func() {
		conf := valid()
		conf.Compression = "zip"
		Expect(conf.Validate()).NotTo(Succeed())
	})

	It("should treat a negative flush interval as disabled", func() {
		conf := valid()
		conf.FlushInterval = -1
		Expect(conf.Validate()).To(Succeed())
		Expect(conf.FlushInterval.D()).To(BeZero())
	})

	It("should order the speculative ladder against the deadline", func() {
		conf := valid()
		conf.Speculative.First = cos.Duration(300 * time.Millisecond)
		conf.Speculative.Max = cos.Duration(200 * time.Millisecond)
		Expect(conf.Validate()).NotTo(Succeed()) // first > max

		conf = valid()
		conf.Speculative.Max = cos.Duration(500 * time.Millisecond)
		Expect(conf.Validate()).NotTo(Succeed()) // max >= request timeout

		conf = valid()
		conf.Speculative.Multiplier = -1
		Expect(conf.Validate()).NotTo(Succeed())
	})

	It("should load and validate a JSON config", func() {
		path := filepath.Join(GinkgoT().TempDir(), "writer.json")
		blob := []byte(`{
			"streams": ["s-0", "s-1", "s-2"],
			"buffer_size": 32768,
			"flush_interval": "5ms",
			"compression": "lz4",
			"request_timeout": "1s",
			"speculative": {"first": "100ms", "max": "400ms", "multiplier": 2}
		}`)
		Expect(os.WriteFile(path, blob, 0o644)).To(Succeed())

		conf, err := cmn.LoadWriterConf(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(conf.Streams).To(HaveLen(3))
		Expect(conf.BufferSize).To(Equal(int64(32768)))
		Expect(conf.FlushInterval.D()).To(Equal(5 * time.Millisecond))
		Expect(conf.Compression).To(Equal(api.CompressLZ4))
		Expect(conf.RequestTimeout.D()).To(Equal(time.Second))

		_, err = cmn.LoadWriterConf(filepath.Join(GinkgoT().TempDir(), "nope.json"))
		Expect(err).To(HaveOccurred())
	})
})
