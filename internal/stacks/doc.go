// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package stacks declares the workstation CDK stacks.
//
// ImageBuilderStack builds the EC2 Image Builder pipeline that bakes the
// workstation AMI. WorkstationBaseline is the security baseline; its default
// revision declares nothing and its "ssm" revision declares an egress-only
// security group with an SSM-managed instance role. NewApp places both in a
// single CDK app.
package stacks
