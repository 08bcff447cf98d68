// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package svcstatus

import (
	"context"
	"fmt"
	"sync"
)

var _ Querier = (*Static)(nil)

// Static is an in-memory Querier. The zero value knows no services.
type Static struct {
	mu       sync.RWMutex
	services map[string]Status
}

// NewStatic returns a Static querier holding the given services.
func NewStatic(services map[string]Status) *Static {
	s := &Static{services: make(map[string]Status, len(services))}
	for name, st := range services {
		s.services[name] = st
	}

	return s
}

// Set records the status of a service, replacing any previous one.
func (s *Static) Set(name string, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.services == nil {
		s.services = make(map[string]Status)
	}

	s.services[name] = st
}

// Query implements Querier.
func (s *Static) Query(ctx context.Context, name string) (Status, error) {
	if err := validateName(name); err != nil {
		return Status{}, err
	}

	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.services[name]
	if !ok {
		return Status{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return st, nil
}
