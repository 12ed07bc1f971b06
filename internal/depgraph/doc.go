// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package depgraph holds the provisioning order of the image pipeline
// resources as a small directed acyclic graph.
//
// An edge from -> to means "to depends on from": from must exist before to
// is created. The stacks package walks the graph in Order and turns every
// edge into a CloudFormation DependsOn.
package depgraph
