// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package component loads the Image Builder build-component document that is
// embedded in the pipeline stack.
//
// Load returns the file bytes exactly as they sit on disk; the stack passes
// them to the component resource untouched. Parse and Validate read the same
// bytes as an Image Builder component document and report problems the
// service would otherwise only surface at build time.
package component
