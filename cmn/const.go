// Package cmn provides configuration, error kinds, and wire constants shared
// by the writer and its transport.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"time"

	"github.com/NVIDIA/dlog/cmn/cos"
)

// Wire framing ceilings. Fixed by the record-set envelope; callers must not
// exceed them.
const (
	MaxRecordSize    = cos.MiB     // single record payload
	MaxRecordSetSize = 4 * cos.MiB // framed record set (pre-compression)
)

// Facade defaults.
const (
	DfltBufferSize    = 16 * cos.KiB
	DfltFlushInterval = 2 * time.Millisecond

	DfltRequestTimeout = 500 * time.Millisecond
	DfltFirstSpecWait  = 50 * time.Millisecond
	DfltMaxSpecWait    = 200 * time.Millisecond
	DfltSpecMultiplier = 2.0
)
