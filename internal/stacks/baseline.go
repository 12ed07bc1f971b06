// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacks

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
)

// BaselineStackName is the construct id of the baseline stack.
const BaselineStackName = "WorkstationBaseline"

// WorkstationBaselineProps configures NewWorkstationBaseline.
type WorkstationBaselineProps struct {
	awscdk.StackProps
	Settings config.Settings
}

// NewWorkstationBaseline declares the baseline stack for the configured
// baseline mode. The placeholder mode declares no resources; the bootstrap
// scripts own the equivalent IAM setup.
func NewWorkstationBaseline(scope constructs.Construct, id string, props *WorkstationBaselineProps) (awscdk.Stack, error) {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)

	mode := props.Settings.Baseline.Mode
	log.Debugf("baseline: mode=%s endpoints=%t", mode, props.Settings.Baseline.Endpoints)

	switch mode {
	case config.BaselinePlaceholder, "":
		return stack, nil
	case config.BaselineSSM:
		declareSSMBaseline(stack, props.Settings)
		return stack, nil
	default:
		return nil, fmt.Errorf("unknown baseline mode: %q", mode)
	}
}

// declareSSMBaseline adds an egress-only security group and an instance role
// that Systems Manager can manage, plus optional VPC endpoints.
func declareSSMBaseline(stack awscdk.Stack, s config.Settings) {
	vpc := vpcFor(stack, "DefaultVPC", s.Network)

	sg := awsec2.NewSecurityGroup(stack, jsii.String("WsSg"), &awsec2.SecurityGroupProps{
		Vpc:              vpc,
		AllowAllOutbound: jsii.Bool(true),
		Description:      jsii.String("Egress only for SSM"),
	})

	role := awsiam.NewRole(stack, jsii.String("SsmRole"), &awsiam.RoleProps{
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("ec2.amazonaws.com"), nil),
	})
	role.AddManagedPolicy(awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("AmazonSSMManagedInstanceCore")))

	awsiam.NewCfnInstanceProfile(stack, jsii.String("WsInstanceProfile"), &awsiam.CfnInstanceProfileProps{
		Roles: &[]*string{role.RoleName()},
	})

	if !s.Baseline.Endpoints {
		return
	}

	// Endpoints accept HTTPS from the workstation group only. An imported
	// VPC carries no CIDR to open them to.
	epSg := awsec2.NewSecurityGroup(stack, jsii.String("EndpointSg"), &awsec2.SecurityGroupProps{
		Vpc:              vpc,
		AllowAllOutbound: jsii.Bool(false),
		Description:      jsii.String("SSM interface endpoints"),
	})
	epSg.AddIngressRule(sg, awsec2.Port_Tcp(jsii.Number(443)), jsii.String("HTTPS from workstations"), nil)

	endpoints := []struct {
		id      string
		service awsec2.InterfaceVpcEndpointAwsService
	}{
		{"SsmEp", awsec2.InterfaceVpcEndpointAwsService_SSM()},
		{"SsmMsgEp", awsec2.InterfaceVpcEndpointAwsService_SSM_MESSAGES()},
		{"Ec2MsgEp", awsec2.InterfaceVpcEndpointAwsService_EC2_MESSAGES()},
	}
	for _, ep := range endpoints {
		awsec2.NewInterfaceVpcEndpoint(stack, jsii.String(ep.id), &awsec2.InterfaceVpcEndpointProps{
			Vpc:               vpc,
			Service:           ep.service,
			Open:              jsii.Bool(false),
			PrivateDnsEnabled: jsii.Bool(true),
			SecurityGroups:    &[]awsec2.ISecurityGroup{epSg},
			Subnets: &awsec2.SubnetSelection{
				SubnetType: awsec2.SubnetType_PUBLIC,
				OnePerAz:   jsii.Bool(true),
			},
		})
	}

	if !routeTablesKnown(s.Network) {
		log.Warnf("baseline: skipping S3 gateway endpoint, network.publicRouteTableIds is not set")
		return
	}
	awsec2.NewGatewayVpcEndpoint(stack, jsii.String("S3Ep"), &awsec2.GatewayVpcEndpointProps{
		Vpc:     vpc,
		Service: awsec2.GatewayVpcEndpointAwsService_S3(),
		Subnets: &[]*awsec2.SubnetSelection{{SubnetType: awsec2.SubnetType_PUBLIC}},
	})
}
