// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/version"
)

type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option overrides one part of the default config chain.
type Option func(*options)

// WithProfile selects a shared config profile instead of AWS_PROFILE.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion pins the region. Empty leaves the chain alone.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer replaces the SDK's standard retryer.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// LoadConfig loads SDK config from the usual chain (env, shared files, IMDS)
// and tags requests with the wsinfra app id.
func LoadConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithAppID(version.AppID()),
	}
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("aws config: err=%v", err)
		return awsv2.Config{}, err
	}
	log.Debugf("aws config: profile=%s region=%s", o.profile, cfg.Region)
	return cfg, nil
}
