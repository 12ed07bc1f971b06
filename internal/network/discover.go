// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
)

var (
	// ErrNoDefaultVPC is returned when the region has no default VPC.
	ErrNoDefaultVPC = errors.New("no default VPC")
	// ErrNoPublicSubnets is returned when the default VPC has no subnet that
	// maps public IPs on launch.
	ErrNoPublicSubnets = errors.New("no public subnets in default VPC")
)

// EC2API is the part of the EC2 client discovery uses.
type EC2API interface {
	DescribeVpcs(ctx context.Context, in *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeSubnets(ctx context.Context, in *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
}

// STSAPI is the part of the STS client discovery uses.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Subnet is one public subnet of the default VPC.
type Subnet struct {
	ID   string `json:"id" yaml:"id"`
	AZ   string `json:"availabilityZone" yaml:"availabilityZone"`
	CIDR string `json:"cidr" yaml:"cidr"`
}

// Discovery is what Discover found.
type Discovery struct {
	Account    string    `json:"account" yaml:"account"`
	Region     string    `json:"region" yaml:"region"`
	VpcID      string    `json:"vpcId" yaml:"vpcId"`
	CIDR       string    `json:"cidr" yaml:"cidr"`
	Subnets    []Subnet  `json:"subnets" yaml:"subnets"`
	Discovered time.Time `json:"discovered" yaml:"discovered"`
}

// Network returns a placement with one public subnet per availability zone,
// the first by id, in zone order.
func (d Discovery) Network() config.Network {
	n := config.Network{VpcID: d.VpcID}
	seen := map[string]bool{}
	for _, s := range d.Subnets {
		if seen[s.AZ] {
			continue
		}
		seen[s.AZ] = true
		n.AvailabilityZones = append(n.AvailabilityZones, s.AZ)
		n.PublicSubnetIDs = append(n.PublicSubnetIDs, s.ID)
	}
	return n
}

// Discover finds the caller's account, the default VPC of region and its
// public subnets, sorted by availability zone and then id.
func Discover(ctx context.Context, ec2c EC2API, stsc STSAPI, region string) (Discovery, error) {
	d := Discovery{Region: region, Discovered: time.Now().UTC()}

	id, err := stsc.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Discovery{}, fmt.Errorf("getting caller identity: %w", err)
	}
	d.Account = awsv2.ToString(id.Account)

	vpcs, err := ec2c.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []types.Filter{{Name: awsv2.String("isDefault"), Values: []string{"true"}}},
	})
	if err != nil {
		return Discovery{}, fmt.Errorf("describing VPCs: %w", err)
	}
	if len(vpcs.Vpcs) == 0 {
		return Discovery{}, fmt.Errorf("%w in %s", ErrNoDefaultVPC, region)
	}
	d.VpcID = awsv2.ToString(vpcs.Vpcs[0].VpcId)
	d.CIDR = awsv2.ToString(vpcs.Vpcs[0].CidrBlock)

	paginator := ec2.NewDescribeSubnetsPaginator(ec2c, &ec2.DescribeSubnetsInput{
		Filters: []types.Filter{
			{Name: awsv2.String("vpc-id"), Values: []string{d.VpcID}},
			{Name: awsv2.String("map-public-ip-on-launch"), Values: []string{"true"}},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return Discovery{}, fmt.Errorf("describing subnets of %s: %w", d.VpcID, err)
		}
		for _, s := range page.Subnets {
			d.Subnets = append(d.Subnets, Subnet{
				ID:   awsv2.ToString(s.SubnetId),
				AZ:   awsv2.ToString(s.AvailabilityZone),
				CIDR: awsv2.ToString(s.CidrBlock),
			})
		}
	}
	if len(d.Subnets) == 0 {
		return Discovery{}, fmt.Errorf("%w %s", ErrNoPublicSubnets, d.VpcID)
	}

	sort.Slice(d.Subnets, func(i, j int) bool {
		if d.Subnets[i].AZ != d.Subnets[j].AZ {
			return d.Subnets[i].AZ < d.Subnets[j].AZ
		}
		return d.Subnets[i].ID < d.Subnets[j].ID
	})

	log.Debugf("discovered: account=%s vpc=%s subnets=%d", d.Account, d.VpcID, len(d.Subnets))
	return d, nil
}
