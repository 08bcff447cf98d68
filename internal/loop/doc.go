// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package loop is a cooperative task executor.
//
// Units of work are functions that receive a *Scope. They run on a single logical thread:
// exactly one unit executes at any instant and control only changes hands at suspension
// points, which are the Scope methods (Sleep, Yield) and the package functions that take a
// Scope (Await, Gather, GatherSettled, WithTimeout, Offload).
//
//	v, err := loop.Run(ctx, func(s *loop.Scope) (string, error) {
//		a := loop.Spawn(s, sleepThen("A", 100*time.Millisecond))
//		b := loop.Spawn(s, sleepThen("B", 200*time.Millisecond))
//		vs, err := loop.Gather(s, a, b)
//		...
//	})
//
// A unit's failure is only observed by whoever awaits its handle. A failure nobody awaits is
// discarded when the loop shuts down; it is logged at debug level and nothing else happens.
//
// Cancellation is delivered once, at the unit's current or next suspension point, which then
// returns ErrCancelled. Deferred cleanup in the unit runs before WithTimeout reports
// ErrTimeout and before Run returns.
//
// Handles and Scopes belong to the loop that created them. Their methods must only be called
// from units of that loop, or after Run has returned.
package loop
