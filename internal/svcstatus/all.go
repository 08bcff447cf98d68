// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package svcstatus

import (
	"context"

	"github.com/matt-FFFFFF/coop/internal/loop"
)

// QueryAll queries every named service concurrently from a running unit of work.
// Each query runs as its own unit, offloaded so the loop is not blocked.
// The outcomes are returned in the order of names, named after their service.
func QueryAll(s *loop.Scope, q Querier, names ...string) (loop.Outcomes[Status], error) {
	handles := make([]*loop.Handle[Status], len(names))

	for i, name := range names {
		handles[i] = loop.Spawn(s, func(s *loop.Scope) (Status, error) {
			return loop.Offload(s, func(ctx context.Context) (Status, error) {
				return q.Query(ctx, name)
			})
		}, loop.WithName(name))
	}

	return loop.GatherSettled(s, handles...)
}
