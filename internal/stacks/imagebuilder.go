// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacks

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsimagebuilder"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/staranto/wsinfra/internal/component"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/depgraph"
	"github.com/staranto/wsinfra/internal/log"
)

// ImageBuilderStackName is the construct id of the pipeline stack.
const ImageBuilderStackName = "ImageBuilderStack"

// Fixed names of the pipeline resources.
const (
	RoleName            = "EC2ImageBuilderInstanceRole"
	InstanceProfileName = "EC2ImageBuilderInstanceProfile"
	ComponentName       = "workstation-dev-tools"
	ComponentVersion    = "1.0.0"
	RecipeName          = "amazon-linux-workstation"
	RecipeVersion       = "1.0.0"
	ParentImage         = "{{ssm:/aws/service/ami-amazon-linux-latest/al2023-ami-kernel-6.1-x86_64}}"
	SecurityGroupName   = "imagebuilder-sg"
	InfraConfigName     = "workstation-infra-config"
	DistributionName    = "workstation-distribution"
	PipelineName        = "workstation-pipeline"
	AmiName             = "AL2023-Workstation-{{imagebuilder:buildDate}}"
	AmiNameTag          = "AL2023-Workstation"
)

// Output names exported by the pipeline stack.
const (
	OutputPipelineArn  = "PipelineArn"
	OutputComponentArn = "ComponentArn"
	OutputRecipeArn    = "RecipeArn"
)

// ImageBuilderStackProps configures NewImageBuilderStack.
type ImageBuilderStackProps struct {
	awscdk.StackProps
	Settings  config.Settings
	Component component.Data
}

// ImageBuilderStack is the pipeline stack plus handles on the resources that
// take part in explicit ordering, keyed by logical id.
type ImageBuilderStack struct {
	awscdk.Stack
	Resources map[string]awscdk.CfnResource
	Graph     *depgraph.Graph
}

// NewImageBuilderStack declares role -> instance profile -> component ->
// recipe -> security group -> infrastructure configuration -> distribution
// configuration -> pipeline, then records the depends-on edges of
// depgraph.ImagePipeline.
func NewImageBuilderStack(scope constructs.Construct, id string, props *ImageBuilderStackProps) (*ImageBuilderStack, error) {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)
	s := props.Settings

	role := awsiam.NewRole(stack, jsii.String("ImageBuilderInstanceRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(RoleName),
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("ec2.amazonaws.com"), nil),
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("EC2InstanceProfileForImageBuilder")),
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("AmazonSSMManagedInstanceCore")),
		},
	})

	profile := awsiam.NewCfnInstanceProfile(stack, jsii.String(depgraph.InstanceProfile), &awsiam.CfnInstanceProfileProps{
		InstanceProfileName: jsii.String(InstanceProfileName),
		Roles:               &[]*string{role.RoleName()},
	})

	comp := awsimagebuilder.NewCfnComponent(stack, jsii.String(depgraph.Component), &awsimagebuilder.CfnComponentProps{
		Name:        jsii.String(ComponentName),
		Platform:    jsii.String("Linux"),
		Version:     jsii.String(ComponentVersion),
		Description: jsii.String("Install essential development tools on Amazon Linux 2023"),
		Data:        jsii.String(props.Component.String()),
	})

	recipe := awsimagebuilder.NewCfnImageRecipe(stack, jsii.String(depgraph.Recipe), &awsimagebuilder.CfnImageRecipeProps{
		Name:        jsii.String(RecipeName),
		Version:     jsii.String(RecipeVersion),
		ParentImage: jsii.String(ParentImage),
		Description: jsii.String("Amazon Linux 2023 workstation with development tools"),
		Components: &[]interface{}{
			&awsimagebuilder.CfnImageRecipe_ComponentConfigurationProperty{
				ComponentArn: comp.AttrArn(),
			},
		},
		BlockDeviceMappings: &[]interface{}{
			&awsimagebuilder.CfnImageRecipe_InstanceBlockDeviceMappingProperty{
				DeviceName: jsii.String("/dev/xvda"),
				Ebs: &awsimagebuilder.CfnImageRecipe_EbsInstanceBlockDeviceSpecificationProperty{
					VolumeSize:          jsii.Number(float64(s.VolumeSize)),
					VolumeType:          jsii.String(s.VolumeType),
					Encrypted:           jsii.Bool(true),
					DeleteOnTermination: jsii.Bool(true),
				},
			},
		},
	})

	vpc := vpcFor(stack, "DefaultVpc", s.Network)

	sg := awsec2.NewSecurityGroup(stack, jsii.String("ImageBuilderSecurityGroup"), &awsec2.SecurityGroupProps{
		Vpc:               vpc,
		Description:       jsii.String("Security group for Image Builder instances"),
		SecurityGroupName: jsii.String(SecurityGroupName),
	})
	sg.AddEgressRule(awsec2.Peer_AnyIpv4(), awsec2.Port_AllTraffic(),
		jsii.String("Allow all outbound traffic for package downloads"), nil)

	infra := awsimagebuilder.NewCfnInfrastructureConfiguration(stack, jsii.String(depgraph.InfraConfig),
		&awsimagebuilder.CfnInfrastructureConfigurationProps{
			Name:                jsii.String(InfraConfigName),
			InstanceTypes:       jsii.Strings(s.InstanceType),
			InstanceProfileName: profile.InstanceProfileName(),
			SecurityGroupIds:    &[]*string{sg.SecurityGroupId()},
			SubnetId:            firstPublicSubnet(vpc),
			Description:         jsii.String("Infrastructure configuration for workstation AMI builds"),
		})

	dist := awsimagebuilder.NewCfnDistributionConfiguration(stack, jsii.String(depgraph.Distribution),
		&awsimagebuilder.CfnDistributionConfigurationProps{
			Name:        jsii.String(DistributionName),
			Description: jsii.String("Distribution configuration for workstation AMIs"),
			Distributions: &[]interface{}{
				&awsimagebuilder.CfnDistributionConfiguration_DistributionProperty{
					Region: stack.Region(),
					AmiDistributionConfiguration: &awsimagebuilder.CfnDistributionConfiguration_AmiDistributionConfigurationProperty{
						Name:        jsii.String(AmiName),
						Description: jsii.String("Custom Amazon Linux 2023 workstation AMI"),
						AmiTags: &map[string]*string{
							"Name":   jsii.String(AmiNameTag),
							"Source": jsii.String("ImageBuilder"),
						},
					},
				},
			},
		})

	// The schedule timezone stays in config.Settings; the CloudFormation
	// schedule property has no timezone field and runs in UTC.
	pipeline := awsimagebuilder.NewCfnImagePipeline(stack, jsii.String(depgraph.Pipeline), &awsimagebuilder.CfnImagePipelineProps{
		Name:                           jsii.String(PipelineName),
		Description:                    jsii.String("Automated pipeline for workstation AMI builds"),
		ImageRecipeArn:                 recipe.AttrArn(),
		InfrastructureConfigurationArn: infra.AttrArn(),
		DistributionConfigurationArn:   dist.AttrArn(),
		Schedule: &awsimagebuilder.CfnImagePipeline_ScheduleProperty{
			ScheduleExpression:              jsii.String(s.Schedule),
			PipelineExecutionStartCondition: jsii.String("EXPRESSION_MATCH_ONLY"),
		},
		ImageTestsConfiguration: &awsimagebuilder.CfnImagePipeline_ImageTestsConfigurationProperty{
			ImageTestsEnabled: jsii.Bool(true),
			TimeoutMinutes:    jsii.Number(float64(s.TestTimeout)),
		},
	})

	out := &ImageBuilderStack{
		Stack: stack,
		Resources: map[string]awscdk.CfnResource{
			depgraph.Component:       comp,
			depgraph.Recipe:          recipe,
			depgraph.InstanceProfile: profile,
			depgraph.InfraConfig:     infra,
			depgraph.Distribution:    dist,
			depgraph.Pipeline:        pipeline,
		},
		Graph: depgraph.ImagePipeline(),
	}
	if err := applyDependencies(out.Graph, out.Resources); err != nil {
		return nil, err
	}

	awscdk.NewCfnOutput(stack, jsii.String(OutputPipelineArn), &awscdk.CfnOutputProps{
		Value:       pipeline.AttrArn(),
		Description: jsii.String("Image Builder Pipeline ARN"),
	})
	awscdk.NewCfnOutput(stack, jsii.String(OutputComponentArn), &awscdk.CfnOutputProps{
		Value:       comp.AttrArn(),
		Description: jsii.String("Dev Tools Component ARN"),
	})
	awscdk.NewCfnOutput(stack, jsii.String(OutputRecipeArn), &awscdk.CfnOutputProps{
		Value:       recipe.AttrArn(),
		Description: jsii.String("Image Recipe ARN"),
	})

	return out, nil
}

// applyDependencies walks g in order and adds a DependsOn for every edge.
func applyDependencies(g *depgraph.Graph, resources map[string]awscdk.CfnResource) error {
	order, err := g.Order()
	if err != nil {
		return err
	}

	for _, id := range order {
		target, ok := resources[id]
		if !ok {
			return fmt.Errorf("no resource declared for %s", id)
		}
		deps, err := g.Dependencies(id)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			source, ok := resources[dep]
			if !ok {
				return fmt.Errorf("no resource declared for %s", dep)
			}
			log.Tracef("depends-on: %s -> %s", id, dep)
			target.AddDependency(source)
		}
	}
	return nil
}
