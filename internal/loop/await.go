// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"github.com/hashicorp/go-multierror"
)

// Await suspends the calling unit until h has finished and returns its outcome.
// A failure is returned as the same error value the unit returned.
// Awaiting a finished handle returns immediately without suspending.
//
// If the caller is cancelled while waiting, Await returns ErrCancelled and h keeps running.
func Await[T any](s *Scope, h *Handle[T]) (T, error) {
	if err := s.waitFor(h.t); err != nil {
		var zero T
		return zero, err
	}

	return h.outcome()
}

// Gather suspends the calling unit until every handle has finished and returns their
// values in argument order.
//
// As soon as any handle fails, Gather returns the failure of the handle that finished
// first among the failed ones. The remaining units are not cancelled.
// If the caller is cancelled while waiting, the unfinished units are cancelled and
// Gather returns ErrCancelled.
func Gather[T any](s *Scope, hs ...*Handle[T]) ([]T, error) {
	ts := tasksOf(hs)
	if err := s.checkTargets(ts); err != nil {
		return nil, err
	}

	for {
		if i := firstFailure(ts); i >= 0 {
			_, err := hs[i].outcome()
			return nil, err
		}

		if allDone(ts) {
			values := make([]T, len(hs))
			for i, h := range hs {
				values[i], _ = h.outcome()
			}

			return values, nil
		}

		if err := s.parkOnAny(ts); err != nil {
			return nil, err
		}
	}
}

// Outcome is the result of one unit awaited by GatherSettled.
type Outcome[T any] struct {
	Name  string
	Value T
	Err   error
}

// Outcomes are the results of GatherSettled, in argument order.
type Outcomes[T any] []Outcome[T]

// Values returns the values of every outcome, zero for failed ones.
func (o Outcomes[T]) Values() []T {
	values := make([]T, len(o))
	for i := range o {
		values[i] = o[i].Value
	}

	return values
}

// Err aggregates all failures, or returns nil if every unit succeeded.
func (o Outcomes[T]) Err() error {
	var merr *multierror.Error

	for _, oc := range o {
		if oc.Err != nil {
			merr = multierror.Append(merr, oc.Err)
		}
	}

	return merr.ErrorOrNil()
}

// Failed returns the number of outcomes with an error.
func (o Outcomes[T]) Failed() int {
	n := 0

	for _, oc := range o {
		if oc.Err != nil {
			n++
		}
	}

	return n
}

// GatherSettled suspends the calling unit until every handle has finished and returns
// each outcome, successful or not, in argument order.
// If the caller is cancelled while waiting, the unfinished units are cancelled and
// GatherSettled returns ErrCancelled.
func GatherSettled[T any](s *Scope, hs ...*Handle[T]) (Outcomes[T], error) {
	ts := tasksOf(hs)
	if err := s.checkTargets(ts); err != nil {
		return nil, err
	}

	for !allDone(ts) {
		if err := s.parkOnAny(ts); err != nil {
			return nil, err
		}
	}

	out := make(Outcomes[T], len(hs))
	for i, h := range hs {
		v, err := h.outcome()
		out[i] = Outcome[T]{Name: h.Name(), Value: v, Err: err}
	}

	return out, nil
}

func tasksOf[T any](hs []*Handle[T]) []*task {
	ts := make([]*task, len(hs))
	for i, h := range hs {
		ts[i] = h.t
	}

	return ts
}

func (s *Scope) checkTargets(ts []*task) error {
	for _, target := range ts {
		if err := s.t.checkTarget(target); err != nil {
			return err
		}
	}

	return nil
}

// parkOnAny parks the unit until one of the unfinished targets finishes.
// On cancellation it cancels every unfinished target and returns ErrCancelled.
func (s *Scope) parkOnAny(ts []*task) error {
	t := s.t

	if !t.consumeCancel() {
		gen := t.beginPark()

		for _, target := range ts {
			if !target.done() {
				target.addWaiter(t, gen)
			}
		}

		t.park()

		if !t.consumeCancel() {
			return nil
		}
	}

	for _, target := range ts {
		target.requestCancel()
	}

	return ErrCancelled
}

func allDone(ts []*task) bool {
	for _, t := range ts {
		if !t.done() {
			return false
		}
	}

	return true
}

// firstFailure returns the index of the failed target that finished first, or -1.
func firstFailure(ts []*task) int {
	idx := -1

	for i, t := range ts {
		if t.state != StateFailed && t.state != StateCancelled {
			continue
		}

		if idx < 0 || t.doneSeq < ts[idx].doneSeq {
			idx = i
		}
	}

	return idx
}
