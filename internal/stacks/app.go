// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacks

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/staranto/wsinfra/internal/component"
	"github.com/staranto/wsinfra/internal/config"
)

// App is the CDK app holding both workstation stacks.
type App struct {
	awscdk.App
	Baseline     awscdk.Stack
	ImageBuilder *ImageBuilderStack
}

// AppOptions tune NewApp.
type AppOptions struct {
	// Outdir is the cloud assembly directory. Empty leaves the CDK default
	// (CDK_OUTDIR or a temp dir).
	Outdir string
	// Context seeds the construct tree context, e.g. cached lookups.
	Context map[string]interface{}
}

// NewApp builds both stacks for s. Analytics reporting is off so the same
// inputs always synthesize to the same bytes.
func NewApp(s config.Settings, data component.Data, opts AppOptions) (*App, error) {
	props := &awscdk.AppProps{
		AnalyticsReporting: jsii.Bool(false),
	}
	if opts.Outdir != "" {
		props.Outdir = jsii.String(opts.Outdir)
	}
	if len(opts.Context) > 0 {
		props.Context = &opts.Context
	}
	app := awscdk.NewApp(props)

	env := &awscdk.Environment{
		Account: jsii.String(s.Account),
		Region:  jsii.String(s.Region),
	}

	baseline, err := NewWorkstationBaseline(app, BaselineStackName, &WorkstationBaselineProps{
		StackProps: awscdk.StackProps{Env: env},
		Settings:   s,
	})
	if err != nil {
		return nil, err
	}

	ib, err := NewImageBuilderStack(app, ImageBuilderStackName, &ImageBuilderStackProps{
		StackProps: awscdk.StackProps{
			Env:         env,
			Description: jsii.String("EC2 Image Builder pipeline for the Amazon Linux 2023 workstation AMI"),
		},
		Settings:  s,
		Component: data,
	})
	if err != nil {
		return nil, err
	}

	return &App{App: app, Baseline: baseline, ImageBuilder: ib}, nil
}
