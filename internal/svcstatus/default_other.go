// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !linux && !windows

package svcstatus

import "context"

func newDefault() Querier {
	return QuerierFunc(func(_ context.Context, name string) (Status, error) {
		if err := validateName(name); err != nil {
			return Status{}, err
		}

		return Status{}, ErrUnsupported
	})
}
