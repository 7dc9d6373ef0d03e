// Package cos provides common low-level types and utilities.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import "sync"

// StopCh is a reusable close-once stop channel.
type StopCh struct {
	ch   chan struct{}
	once sync.Once
}

func (s *StopCh) Init()                   { s.ch = make(chan struct{}) }
func (s *StopCh) Listen() <-chan struct{} { return s.ch }

func (s *StopCh) Close() {
	s.once.Do(func() { close(s.ch) })
}
