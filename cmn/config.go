// Package cmn provides configuration, error kinds, and wire constants shared
// by the writer and its transport.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"os"

	"github.com/NVIDIA/dlog/api"
	"github.com/NVIDIA/dlog/cmn/cos"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type (
	// WriterConf is the complete facade configuration. Zero-valued fields
	// assume defaults (see Validate).
	WriterConf struct {
		// dispatch roster (shuffled at construction); required, non-empty
		Streams []string `json:"streams"`

		// seal-and-flush threshold, framed bytes (payload plus per-record
		// length prefix); capped at MaxRecordSetSize
		BufferSize int64 `json:"buffer_size"`
		// periodic flush tick; zero selects the default, negative disables
		FlushInterval cos.Duration `json:"flush_interval"`
		// codec for sealed sets: "never" | "lz4" | "gzip"
		Compression string `json:"compression"`

		// hard per-set deadline
		RequestTimeout cos.Duration `json:"request_timeout"`

		Speculative SpecConf `json:"speculative"`
	}
	// SpecConf parameterizes the speculative timer ladder.
	SpecConf struct {
		First      cos.Duration `json:"first"`
		Max        cos.Duration `json:"max"`
		Multiplier float64      `json:"multiplier"`
	}
)

// Validate fills defaults and enforces construction-time constraints:
// streams non-empty, 0 < first <= max < request timeout, multiplier > 0,
// known codec.
func (c *WriterConf) Validate() error {
	if len(c.Streams) == 0 {
		return errors.New("invalid config: streams must be non-empty")
	}
	for _, s := range c.Streams {
		if s == "" {
			return errors.New("invalid config: empty stream name")
		}
	}
	if c.BufferSize == 0 {
		c.BufferSize = DfltBufferSize
	}
	if c.BufferSize < 0 {
		return errors.Errorf("invalid config: buffer_size %d", c.BufferSize)
	}
	c.BufferSize = min(c.BufferSize, MaxRecordSetSize)
	if c.FlushInterval == 0 {
		c.FlushInterval = cos.Duration(DfltFlushInterval)
	}
	if c.FlushInterval < 0 {
		c.FlushInterval = 0 // negative == explicitly disabled
	}
	if c.Compression == "" {
		c.Compression = api.CompressNever
	}
	if !api.IsValidCompression(c.Compression) {
		return errors.Errorf("invalid config: unknown compression %q", c.Compression)
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = cos.Duration(DfltRequestTimeout)
	}
	if c.RequestTimeout < 0 {
		return errors.Errorf("invalid config: request_timeout %s", c.RequestTimeout)
	}
	return c.Speculative.validate(c)
}

func (sc *SpecConf) validate(parent *WriterConf) error {
	if sc.First == 0 {
		sc.First = cos.Duration(DfltFirstSpecWait)
	}
	if sc.Max == 0 {
		sc.Max = cos.Duration(DfltMaxSpecWait)
	}
	if sc.Multiplier == 0 {
		sc.Multiplier = DfltSpecMultiplier
	}
	switch {
	case sc.First < 0 || sc.Max < 0:
		return errors.Errorf("invalid config: negative speculative timeout [%s, %s]", sc.First, sc.Max)
	case sc.First > sc.Max:
		return errors.Errorf("invalid config: first speculative timeout %s exceeds max %s", sc.First, sc.Max)
	case sc.Max >= parent.RequestTimeout:
		return errors.Errorf("invalid config: max speculative timeout %s must be less than request timeout %s",
			sc.Max, parent.RequestTimeout)
	case sc.Multiplier < 0:
		return errors.Errorf("invalid config: speculative multiplier %f", sc.Multiplier)
	}
	return nil
}

// LoadWriterConf reads and validates a JSON config file.
func LoadWriterConf(path string) (*WriterConf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read writer config")
	}
	conf := &WriterConf{}
	if err := jsoniter.Unmarshal(data, conf); err != nil {
		return nil, errors.Wrapf(err, "failed to parse writer config %q", path)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}
