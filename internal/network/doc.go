// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package network discovers the account's default VPC and its public
// subnets so the stacks can import the VPC from attributes instead of
// needing a live context lookup at synth time.
package network
