// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"

	"github.com/matt-FFFFFF/coop/internal/loop"
)

// Builder turns the YAML definition of one task into a unit of work.
type Builder interface {
	Build(ctx context.Context, payload []byte) (loop.Func[any], error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context, payload []byte) (loop.Func[any], error)

// Build implements Builder.
func (f BuilderFunc) Build(ctx context.Context, payload []byte) (loop.Func[any], error) {
	return f(ctx, payload)
}
