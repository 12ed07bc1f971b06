// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/network"
)

type stubEC2 struct{ subnets []types.Subnet }

func (s stubEC2) DescribeVpcs(context.Context, *ec2.DescribeVpcsInput, ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	return &ec2.DescribeVpcsOutput{Vpcs: []types.Vpc{{VpcId: awsv2.String("vpc-0def"), CidrBlock: awsv2.String("172.31.0.0/16")}}}, nil
}

func (s stubEC2) DescribeSubnets(context.Context, *ec2.DescribeSubnetsInput, ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	return &ec2.DescribeSubnetsOutput{Subnets: s.subnets}, nil
}

type stubSTS struct{}

func (stubSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: awsv2.String(config.DefaultAccount)}, nil
}

func withLookup(t *testing.T) *string {
	t.Helper()

	var gotRegion string
	orig := newLookupClients
	newLookupClients = func(_ context.Context, _ *cli.Command, region string) (network.EC2API, network.STSAPI, error) {
		gotRegion = region
		sn := func(id, az string) types.Subnet {
			return types.Subnet{SubnetId: awsv2.String(id), AvailabilityZone: awsv2.String(az), CidrBlock: awsv2.String("172.31.0.0/20")}
		}
		return stubEC2{subnets: []types.Subnet{
			sn("subnet-b2", "us-east-1b"),
			sn("subnet-a2", "us-east-1a"),
			sn("subnet-a1", "us-east-1a"),
		}}, stubSTS{}, nil
	}
	t.Cleanup(func() { newLookupClients = orig })
	return &gotRegion
}

func TestLookup(t *testing.T) {
	dir := project(t)
	region := withLookup(t)

	rows := runJSON(t, "wsinfra", "lookup", dir)
	require.Len(t, rows, 3)
	assert.Equal(t, config.DefaultRegion, *region)
	assert.Equal(t, []any{"subnet-a1", "subnet-a2", "subnet-b2"}, column(rows, "id"))
	assert.Equal(t, []any{true, false, true}, column(rows, "selected"))

	t.Run("cached for synth", func(t *testing.T) {
		d, ok := network.Load(config.DefaultAccount, config.DefaultRegion, 0)
		require.True(t, ok)
		assert.Equal(t, "vpc-0def", d.VpcID)
	})

	t.Run("config fragment", func(t *testing.T) {
		out, err := run(t, "wsinfra", "lookup", dir, "--config", "--region", "us-west-2")
		require.NoError(t, err)
		assert.Equal(t, "us-west-2", *region)

		var got lookupConfig
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, "us-west-2", got.Region)
		assert.Equal(t, config.Network{
			VpcID:             "vpc-0def",
			AvailabilityZones: []string{"us-east-1a", "us-east-1b"},
			PublicSubnetIDs:   []string{"subnet-a1", "subnet-b2"},
		}, got.Network)
	})
}
