// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plan builds and executes plans: named sets of tasks described in YAML, HCL or TOML
// that run concurrently, one after another, or until all have settled.
//
// A YAML plan looks like this:
//
//	name: demo
//	mode: gather
//	timeout: 5s
//	tasks:
//	  - type: value
//	    name: A
//	    value: A
//	    delay: 100ms
//	  - type: fail
//	    name: boom
//	    message: Intentional Error
//
// The same plan in HCL uses one task block per task, labelled with its type:
//
//	name = "demo"
//	mode = "gather"
//
//	task "value" {
//	  name  = "A"
//	  value = env.GREETING
//	}
//
// Files ending in .toml use an array of task tables:
//
//	name = "demo"
//
//	[[tasks]]
//	type = "value"
//	name = "A"
//	value = "A"
package plan
