// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package hungarian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHungarian(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		id       string
		expected bool
	}{
		{"recipe", "AWS::ImageBuilder::ImageRecipe", "WorkstationImageRecipe", true},
		{"pipeline", "AWS::ImageBuilder::ImagePipeline", "WorkstationImagePipeline", true},
		{"component", "AWS::ImageBuilder::Component", "WorkstationDevToolsComponent", true},
		{"hashed role", "AWS::IAM::Role", "ImageBuilderInstanceRole4F0DCD53", true},
		{"security group", "AWS::EC2::SecurityGroup", "WsSg", false},
		{"group substring", "AWS::EC2::SecurityGroup", "buildgroupx", true},
		{"vendor ignored", "AWS::IAM::Role", "AwsThing", false},
		{"acronym token", "AWS::EC2::VPCEndpoint", "SsmVpcEp", true},
		{"no overlap", "AWS::ImageBuilder::DistributionConfiguration", "Dist", false},
		{"empty type", "", "Anything", false},
		{"empty id", "AWS::IAM::Role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsHungarian(tt.typ, tt.id))
		})
	}
}

func TestTypeTokens(t *testing.T) {
	assert.Equal(t, []string{"image", "builder", "recipe"}, TypeTokens("AWS::ImageBuilder::ImageRecipe"))
	assert.Equal(t, []string{"ec2", "security", "group"}, TypeTokens("AWS::EC2::SecurityGroup"))
	assert.Equal(t, []string{"custom"}, TypeTokens("Custom"))
}

func TestWords(t *testing.T) {
	tests := map[string][]string{
		"WorkstationImageRecipe": {"Workstation", "Image", "Recipe"},
		"VPCEndpoint":            {"VPC", "Endpoint"},
		"EC2":                    {"EC2"},
		"imagebuilder-sg":        {"imagebuilder", "sg"},
		"Role4F0DCD53":           {"Role4", "F0", "DCD53"},
		"":                       nil,
	}
	for in, want := range tests {
		assert.Equal(t, want, Words(in), in)
	}
}
