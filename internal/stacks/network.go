// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacks

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
)

// vpcFor imports the configured VPC when the placement is complete and
// otherwise looks up the account's default VPC. The lookup needs a stack with
// a concrete account and region.
func vpcFor(scope constructs.Construct, id string, n config.Network) awsec2.IVpc {
	if n.Complete() {
		log.Debugf("vpc import: id=%s vpc=%s subnets=%v", id, n.VpcID, n.PublicSubnetIDs)
		attrs := &awsec2.VpcAttributes{
			VpcId:             jsii.String(n.VpcID),
			AvailabilityZones: jsii.Strings(n.AvailabilityZones...),
			PublicSubnetIds:   jsii.Strings(n.PublicSubnetIDs...),
		}
		if len(n.RouteTableIDs) > 0 {
			attrs.PublicSubnetRouteTableIds = jsii.Strings(n.RouteTableIDs...)
		}
		return awsec2.Vpc_FromVpcAttributes(scope, jsii.String(id), attrs)
	}

	log.Debugf("vpc lookup: id=%s default=true", id)
	return awsec2.Vpc_FromLookup(scope, jsii.String(id), &awsec2.VpcLookupOptions{
		IsDefault: jsii.Bool(true),
	})
}

// routeTablesKnown reports whether vpc can carry gateway endpoints. A looked
// up VPC always knows its route tables; an imported one only when configured.
func routeTablesKnown(n config.Network) bool {
	return !n.Complete() || len(n.RouteTableIDs) > 0
}

// firstPublicSubnet returns the subnet id build instances launch into.
func firstPublicSubnet(vpc awsec2.IVpc) *string {
	subnets := *vpc.PublicSubnets()
	return subnets[0].SubnetId()
}
