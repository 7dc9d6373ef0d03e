// Package hk provides a single-goroutine timer service ("housekeeper") to
// run registered callbacks at their requested intervals.
/*
 * Copyright (c) 2024-2025, NVIDIA CORPORATION. All rights reserved.
 */
package hk

import (
	"container/heap"
	"time"

	"github.com/NVIDIA/dlog/cmn/cos"
	"github.com/NVIDIA/dlog/cmn/debug"
	"github.com/NVIDIA/dlog/cmn/mono"
)

// A callback returns the interval until its next invocation;
// returning UnregInterval removes it from the housekeeper.
const UnregInterval = time.Duration(-1)

const maxIdleWait = time.Hour

type (
	CleanupFunc func(now int64) time.Duration

	request struct {
		f        CleanupFunc
		name     string
		interval time.Duration
		reg      bool // false: unregister
	}
	timedAction struct {
		f          CleanupFunc
		name       string
		updateTime int64 // mono ns
	}
	timedActions []timedAction

	// HK is an instance of the housekeeper. The zero value is not usable;
	// construct with New and release with Stop.
	HK struct {
		stopCh  cos.StopCh
		workCh  chan request
		timer   *time.Timer
		actions *timedActions
	}
)

// interface guard
var _ heap.Interface = (*timedActions)(nil)

func (tc timedActions) Len() int            { return len(tc) }
func (tc timedActions) Less(i, j int) bool  { return tc[i].updateTime < tc[j].updateTime }
func (tc timedActions) Swap(i, j int)       { tc[i], tc[j] = tc[j], tc[i] }
func (tc timedActions) Peek() *timedAction  { return &tc[0] }
func (tc *timedActions) Push(x any)         { *tc = append(*tc, x.(timedAction)) }
func (tc *timedActions) Pop() any {
	old := *tc
	n := len(old)
	item := old[n-1]
	*tc = old[:n-1]
	return item
}

func New() *HK {
	hk := &HK{
		workCh:  make(chan request, 16),
		actions: &timedActions{},
	}
	hk.stopCh.Init()
	hk.timer = time.NewTimer(maxIdleWait)
	heap.Init(hk.actions)
	go hk.run()
	return hk
}

// Reg registers f to fire after interval; f's return value schedules the
// next firing. Names must be unique per HK instance.
func (hk *HK) Reg(name string, f CleanupFunc, interval time.Duration) {
	debug.Assert(interval >= 0, name)
	select {
	case hk.workCh <- request{reg: true, name: name, f: f, interval: interval}:
	case <-hk.stopCh.Listen():
	}
}

func (hk *HK) Unreg(name string) {
	select {
	case hk.workCh <- request{reg: false, name: name}:
	case <-hk.stopCh.Listen():
	}
}

// Stop terminates the housekeeper; pending actions never fire again.
func (hk *HK) Stop() { hk.stopCh.Close() }

func (hk *HK) run() {
	defer hk.timer.Stop()
	for {
		select {
		case <-hk.stopCh.Listen():
			return
		case <-hk.timer.C:
			hk.runPending(mono.NanoTime())
		case req := <-hk.workCh:
			if req.reg {
				hk.add(req.name, req.f, req.interval)
			} else {
				hk.del(req.name)
			}
		}
		hk.rearm()
	}
}

func (hk *HK) add(name string, f CleanupFunc, interval time.Duration) {
	debug.Assert(hk.byName(name) == -1, "duplicated housekeeper name: ", name)
	heap.Push(hk.actions, timedAction{name: name, f: f, updateTime: mono.NanoTime() + int64(interval)})
}

func (hk *HK) del(name string) {
	if i := hk.byName(name); i != -1 {
		heap.Remove(hk.actions, i)
	}
}

func (hk *HK) byName(name string) int {
	for i, tc := range *hk.actions {
		if tc.name == name {
			return i
		}
	}
	return -1
}

func (hk *HK) runPending(now int64) {
	for hk.actions.Len() > 0 && hk.actions.Peek().updateTime <= now {
		act := heap.Pop(hk.actions).(timedAction)
		interval := act.f(now)
		if interval == UnregInterval {
			continue
		}
		act.updateTime = now + int64(interval)
		heap.Push(hk.actions, act)
	}
}

func (hk *HK) rearm() {
	wait := maxIdleWait
	if hk.actions.Len() > 0 {
		wait = time.Duration(hk.actions.Peek().updateTime - mono.NanoTime())
		wait = max(wait, 0)
	}
	if !hk.timer.Stop() {
		select {
		case <-hk.timer.C:
		default:
		}
	}
	hk.timer.Reset(wait)
}
