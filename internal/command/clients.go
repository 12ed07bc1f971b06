// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/archive"
	"github.com/staranto/wsinfra/internal/aws"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/network"
)

// newArchiveClient returns the S3 client behind the archive. Tests replace
// it with an in-memory bucket.
var newArchiveClient = func(ctx context.Context, cmd *cli.Command, s config.Settings) (archive.API, error) {
	region := s.Archive.Region
	if region == "" {
		region = s.Region
	}
	cfg, err := aws.LoadConfig(ctx, aws.WithProfile(cmd.String("profile")), aws.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var opts []func(*s3.Options)
	if ep := cmd.String("endpoint"); ep != "" {
		opts = append(opts, aws.WithS3Endpoint(ep))
	}
	return aws.NewS3(cfg, opts...), nil
}

// newLookupClients returns the EC2 and STS clients used by lookup.
var newLookupClients = func(ctx context.Context, cmd *cli.Command, region string) (network.EC2API, network.STSAPI, error) {
	cfg, err := aws.LoadConfig(ctx, aws.WithProfile(cmd.String("profile")), aws.WithRegion(region))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return aws.NewEC2(cfg), aws.NewSTS(cfg), nil
}

// OpenArchive resolves settings and opens the template archive.
func OpenArchive(ctx context.Context, cmd *cli.Command) (*archive.Archive, config.Settings, error) {
	s, err := Settings(cmd)
	if err != nil {
		return nil, config.Settings{}, err
	}
	if s.Archive.Bucket == "" {
		return nil, s, fmt.Errorf("%w: set archive.bucket in %s", archive.ErrNoBucket, config.FileName)
	}

	client, err := newArchiveClient(ctx, cmd, s)
	if err != nil {
		return nil, s, err
	}
	a, err := archive.New(client, s.Archive)
	return a, s, err
}

// archiveFlags are the flags of every command that talks to the archive.
func archiveFlags(ns, cfgFile string) []cli.Flag {
	return []cli.Flag{
		NewProfileFlag(ns, cfgFile),
		NewEndpointFlag(ns, cfgFile),
	}
}
