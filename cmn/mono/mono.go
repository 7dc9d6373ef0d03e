// Package mono provides a monotonic time source.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package mono

import "time"

var t0 = time.Now()

// NanoTime returns the number of nanoseconds elapsed since process start,
// read off the runtime's monotonic clock (immune to wall-clock jumps).
func NanoTime() int64 { return int64(time.Since(t0)) }

func Since(started int64) time.Duration { return time.Duration(NanoTime() - started) }
