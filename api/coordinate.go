// Package api contains the public types of the multi-stream log writer.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package api

import "fmt"

// Coordinate names a committed record in the log: the log segment that holds
// it, the entry within the segment, and the slot within the entry.
// A record set is acknowledged with the coordinate of its first record;
// per-record coordinates follow at consecutive slots.
type Coordinate struct {
	LogSegmentSeq int64
	EntryID       int64
	SlotID        int32
}

func (c Coordinate) String() string {
	return fmt.Sprintf("dlsn[%d:%d:%d]", c.LogSegmentSeq, c.EntryID, c.SlotID)
}

// Compare returns -1, 0, or 1 ordering two coordinates within one stream.
func (c Coordinate) Compare(o Coordinate) int {
	switch {
	case c.LogSegmentSeq != o.LogSegmentSeq:
		return cmp(c.LogSegmentSeq, o.LogSegmentSeq)
	case c.EntryID != o.EntryID:
		return cmp(c.EntryID, o.EntryID)
	default:
		return cmp(int64(c.SlotID), int64(o.SlotID))
	}
}

func cmp(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
