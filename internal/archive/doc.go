// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package archive keeps synthesized templates in a versioned S3 bucket.
// Each stack's template lives at <prefix>/<stack>.template.json and every
// publish becomes a new object version tagged with the template fingerprint
// and a publish id.
package archive
