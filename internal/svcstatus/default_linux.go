// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build linux

package svcstatus

func newDefault() Querier {
	return &Systemd{}
}
