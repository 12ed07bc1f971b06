// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads SDK configuration and builds the S3, EC2 and STS clients
// the archive and network discovery use.
package aws
