// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	t.Setenv(EnvFile, "/nonexistent/wsinfra.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	s, err := Resolve("/work")
	require.NoError(t, err)

	assert.Equal(t, Defaults("/work"), s)
	assert.Equal(t, "cron(0 9 ? * SUN *)", s.Schedule)
	assert.Equal(t, BaselinePlaceholder, s.Baseline.Mode)
	assert.False(t, s.Network.Complete())
	assert.Equal(t,
		filepath.Join("/work", "infra", "image-builder", "components", "workstation-dev-tools.yml"),
		s.ComponentFile())
}

func TestResolveOverlay(t *testing.T) {
	setupTestConfig(t, "full.yaml")

	s, err := Resolve("/work")
	require.NoError(t, err)

	assert.Equal(t, "210987654321", s.Account)
	assert.Equal(t, "eu-central-1", s.Region)
	assert.Equal(t, "m6i.large", s.InstanceType)
	assert.Equal(t, 64, s.VolumeSize)
	assert.Equal(t, DefaultVolumeType, s.VolumeType)
	assert.Equal(t, 120, s.TestTimeout)
	assert.Equal(t, BaselineSSM, s.Baseline.Mode)
	assert.True(t, s.Baseline.Endpoints)
	assert.True(t, s.Network.Complete())
	assert.Equal(t, "wsinfra-templates", s.Archive.Bucket)
	assert.Equal(t, "stacks", s.Archive.Prefix)
	assert.Equal(t, filepath.Join("/work", "components", "dev.yml"), s.ComponentFile())
}

func TestResolveRejects(t *testing.T) {
	tests := []struct {
		file    string
		message string
	}{
		{"bad-mode.yaml", "baseline.mode"},
		{"partial-network.yaml", "together"},
		{"uneven-network.yaml", "do not spread"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			setupTestConfig(t, tt.file)

			_, err := Resolve("/work")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate(t *testing.T) {
	s := Defaults("/work")
	assert.NoError(t, s.Validate())

	s.VolumeSize = 0
	assert.Error(t, s.Validate())

	s = Defaults("/work")
	s.Account = ""
	assert.Error(t, s.Validate())

	s = Defaults("/work")
	s.Timezone = "America/New_York"
	assert.ErrorContains(t, s.Validate(), "timezone must be UTC")

	s.Timezone = "UTC"
	assert.NoError(t, s.Validate())

	s.Network = Network{
		VpcID:             "vpc-0abc",
		AvailabilityZones: []string{"us-east-1a"},
		PublicSubnetIDs:   []string{"subnet-0001", "subnet-0002"},
		RouteTableIDs:     []string{"rtb-0001"},
	}
	assert.ErrorContains(t, s.Validate(), "route tables")

	s.Network.RouteTableIDs = append(s.Network.RouteTableIDs, "rtb-0002")
	assert.NoError(t, s.Validate())
}

func TestComponentFileAbsolute(t *testing.T) {
	s := Defaults("/work")
	s.ComponentPath = "/etc/components/x.yml"
	assert.Equal(t, "/etc/components/x.yml", s.ComponentFile())
}
