// Package cos provides common low-level types and utilities.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"fmt"
	ratomic "sync/atomic"

	"github.com/NVIDIA/dlog/cmn/atomic"
)

// ErrValue records the first error stored and counts the rest.
type ErrValue struct {
	v   ratomic.Value
	cnt atomic.Int64
}

func (ea *ErrValue) Store(err error) {
	if ea.cnt.Inc() == 1 {
		ea.v.Store(err)
	}
}

func (ea *ErrValue) IsNil() bool { return ea.cnt.Load() == 0 }

func (ea *ErrValue) Err() (err error) {
	x := ea.v.Load()
	if x == nil {
		return nil
	}
	err = x.(error)
	if cnt := ea.cnt.Load(); cnt > 1 {
		err = fmt.Errorf("%w (cnt=%d)", err, cnt)
	}
	return err
}
