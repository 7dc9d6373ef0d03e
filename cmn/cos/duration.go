// Package cos provides common low-level types and utilities.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"strconv"
	"time"
)

// Duration is a time.Duration that (un)marshals as "500ms"-style strings.
type Duration int64

func (d Duration) D() time.Duration { return time.Duration(d) }
func (d Duration) String() string   { return d.D().String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
