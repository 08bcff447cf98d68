// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOffload_OtherUnitsKeepRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	got, err := Run(context.Background(), func(s *Scope) ([]string, error) {
		var order []string

		ticker := Spawn(s, func(s *Scope) (struct{}, error) {
			for range 3 {
				if err := s.Sleep(5 * time.Millisecond); err != nil {
					return struct{}{}, err
				}
			}

			order = append(order, "ticker")

			return struct{}{}, nil
		})

		v, err := Offload(s, func(_ context.Context) (string, error) {
			time.Sleep(100 * time.Millisecond)
			return "blocking", nil
		})
		if err != nil {
			return nil, err
		}

		order = append(order, v)

		_, err = Await(s, ticker)

		return order, err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ticker", "blocking"}, got)
}

func TestOffload_Error(t *testing.T) {
	defer goleak.VerifyNone(t)

	want := errors.New("io failure")

	_, err := Run(context.Background(), func(s *Scope) (int, error) {
		return Offload(s, func(_ context.Context) (int, error) {
			return 0, want
		})
	})
	assert.Same(t, want, err)
}

func TestOffload_Panic(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := Run(context.Background(), func(s *Scope) (int, error) {
		return Offload(s, func(_ context.Context) (int, error) {
			panic("offloaded boom")
		})
	})

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "offloaded boom", pe.Value)
}

func TestOffload_CancelledWhileBlocked(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctxSeen := make(chan error, 1)

	_, err := Run(context.Background(), func(s *Scope) (int, error) {
		h := Spawn(s, func(s *Scope) (int, error) {
			return Offload(s, func(ctx context.Context) (int, error) {
				<-ctx.Done()
				ctxSeen <- ctx.Err()

				return 0, ctx.Err()
			})
		}, WithName("blocked"))

		if err := s.Sleep(20 * time.Millisecond); err != nil {
			return 0, err
		}

		h.Cancel()

		_, err := Await(s, h)
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, StateCancelled, h.State())

		return 0, nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, <-ctxSeen, context.Canceled)
}
