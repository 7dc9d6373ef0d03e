// Package api contains the public types of the multi-stream log writer.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package api

// Compression codecs applied to sealed record sets.
const (
	CompressNever = "never"
	CompressLZ4   = "lz4"
	CompressGZIP  = "gzip"
)

func IsValidCompression(c string) bool {
	return c == "" || c == CompressNever || c == CompressLZ4 || c == CompressGZIP
}
