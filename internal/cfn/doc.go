// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cfn reads synthesized CloudFormation templates.
//
// Resources and Outputs are flattened into rows, one JSON object each, so the
// attrs, filters and output packages can shape them the same way for every
// query command. A resource row carries logicalId, type, dependsOn,
// properties, metadata, condition and path (the aws:cdk:path metadata). An
// output row carries name, value, description and export.
package cfn
