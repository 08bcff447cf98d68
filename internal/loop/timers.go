// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"container/heap"
	"time"
)

// timer wakes t at when, provided t is still parked with the same generation.
type timer struct {
	when time.Time
	seq  uint64
	t    *task
	gen  uint64
}

// timerHeap is a min-heap ordered by deadline, then by insertion order.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}

	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return x
}

func (l *loop) addTimer(when time.Time, t *task, gen uint64) {
	l.timerSeq++
	heap.Push(&l.timers, &timer{when: when, seq: l.timerSeq, t: t, gen: gen})
}

// stale reports whether the suspension the timer was set for has already ended.
func (tm *timer) stale() bool {
	return !tm.t.parked || tm.t.gen != tm.gen
}

// pruneTimers drops stale timers from the top of the heap so they neither count as
// pending work nor keep their unit alive.
func (l *loop) pruneTimers() {
	for len(l.timers) > 0 && l.timers[0].stale() {
		heap.Pop(&l.timers)
	}
}

// fireTimers pops every timer due at now and wakes its unit.
// It reports whether any unit was woken.
func (l *loop) fireTimers(now time.Time) bool {
	fired := false

	for l.pruneTimers(); len(l.timers) > 0 && !l.timers[0].when.After(now); l.pruneTimers() {
		tm := heap.Pop(&l.timers).(*timer)
		l.wake(tm.t, tm.gen)
		fired = true
	}

	return fired
}

// nextDeadline returns the earliest deadline of a timer whose unit is still waiting on it.
func (l *loop) nextDeadline() (time.Time, bool) {
	l.pruneTimers()

	if len(l.timers) == 0 {
		return time.Time{}, false
	}

	return l.timers[0].when, true
}
