// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/staranto/wsinfra/internal/log"
)

// NewS3 builds an S3 client.
func NewS3(cfg awsv2.Config, optFns ...func(*s3.Options)) *s3.Client {
	log.Debugf("s3 client: region=%s", cfg.Region)
	return s3.NewFromConfig(cfg, optFns...)
}

// WithS3Endpoint points an S3 client at a custom endpoint, e.g. a local
// MinIO, using path-style addressing.
func WithS3Endpoint(url string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.BaseEndpoint = awsv2.String(url)
		o.UsePathStyle = true
	}
}

// NewEC2 builds an EC2 client.
func NewEC2(cfg awsv2.Config, optFns ...func(*ec2.Options)) *ec2.Client {
	log.Debugf("ec2 client: region=%s", cfg.Region)
	return ec2.NewFromConfig(cfg, optFns...)
}

// NewSTS builds an STS client.
func NewSTS(cfg awsv2.Config, optFns ...func(*sts.Options)) *sts.Client {
	log.Debugf("sts client: region=%s", cfg.Region)
	return sts.NewFromConfig(cfg, optFns...)
}
