// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package svcstatus queries the run state of operating system services.
//
// The result is always a Status, shaped like the Windows SERVICE_STATUS record so that
// callers can treat every platform the same way. On Windows the service control manager
// is asked directly. On Linux the state reported by systemd is mapped onto the same
// record. Other platforms return ErrUnsupported.
package svcstatus
