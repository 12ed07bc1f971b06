// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"path/filepath"

	"github.com/staranto/wsinfra/internal/schedule"
)

// Baseline stack revisions.
const (
	BaselinePlaceholder = "placeholder"
	BaselineSSM         = "ssm"
)

// Deployment defaults. These are the values the stacks were written against;
// the config file may override any of them.
const (
	DefaultAccount       = "123456789012"
	DefaultRegion        = "us-east-1"
	DefaultInstanceType  = "t3.medium"
	DefaultSchedule      = "cron(0 9 ? * SUN *)"
	DefaultTimezone      = "Etc/UTC"
	DefaultVolumeSize    = 30
	DefaultVolumeType    = "gp3"
	DefaultTestTimeout   = 90
	DefaultComponentPath = "infra/image-builder/components/workstation-dev-tools.yml"
	DefaultArchivePrefix = "wsinfra"
)

// Network is an explicit placement for the build instances. When complete,
// the stacks import the VPC instead of looking up the default one.
type Network struct {
	VpcID             string   `yaml:"vpcId" json:"vpcId"`
	AvailabilityZones []string `yaml:"availabilityZones" json:"availabilityZones"`
	PublicSubnetIDs   []string `yaml:"publicSubnetIds" json:"publicSubnetIds"`
	// RouteTableIDs are the public subnets' route tables, in subnet order.
	// Gateway endpoints need them.
	RouteTableIDs []string `yaml:"publicRouteTableIds,omitempty" json:"publicRouteTableIds,omitempty"`
}

// Complete reports whether the placement carries enough to import the VPC.
func (n Network) Complete() bool {
	return n.VpcID != "" && len(n.AvailabilityZones) > 0 && len(n.PublicSubnetIDs) > 0
}

// Baseline selects the baseline stack revision.
type Baseline struct {
	Mode      string `yaml:"mode" json:"mode"`
	Endpoints bool   `yaml:"endpoints" json:"endpoints"`
}

// Archive locates the S3 bucket that keeps published templates.
type Archive struct {
	Bucket string `yaml:"bucket" json:"bucket"`
	Prefix string `yaml:"prefix" json:"prefix"`
	Region string `yaml:"region" json:"region"`
}

// Settings are the resolved deployment parameters.
type Settings struct {
	Account       string   `yaml:"account" json:"account"`
	Region        string   `yaml:"region" json:"region"`
	InstanceType  string   `yaml:"instanceType" json:"instanceType"`
	Schedule      string   `yaml:"schedule" json:"schedule"`
	Timezone      string   `yaml:"timezone" json:"timezone"`
	VolumeSize    int      `yaml:"volumeSize" json:"volumeSize"`
	VolumeType    string   `yaml:"volumeType" json:"volumeType"`
	TestTimeout   int      `yaml:"testTimeout" json:"testTimeout"`
	ComponentPath string   `yaml:"componentPath" json:"componentPath"`
	ProjectDir    string   `yaml:"-" json:"-"`
	Baseline      Baseline `yaml:"baseline" json:"baseline"`
	Network       Network  `yaml:"network" json:"network"`
	Archive       Archive  `yaml:"archive" json:"archive"`
}

// Defaults returns the built-in settings rooted at projectDir.
func Defaults(projectDir string) Settings {
	return Settings{
		Account:       DefaultAccount,
		Region:        DefaultRegion,
		InstanceType:  DefaultInstanceType,
		Schedule:      DefaultSchedule,
		Timezone:      DefaultTimezone,
		VolumeSize:    DefaultVolumeSize,
		VolumeType:    DefaultVolumeType,
		TestTimeout:   DefaultTestTimeout,
		ComponentPath: DefaultComponentPath,
		ProjectDir:    projectDir,
		Baseline:      Baseline{Mode: BaselinePlaceholder},
		Archive:       Archive{Prefix: DefaultArchivePrefix},
	}
}

// Resolve overlays the loaded configuration onto Defaults and validates the
// result.
func Resolve(projectDir string) (Settings, error) {
	s := Defaults(projectDir)

	var err error
	str := func(key string, dst *string) {
		if err != nil {
			return
		}
		*dst, err = GetString(key, *dst)
	}
	num := func(key string, dst *int) {
		if err != nil {
			return
		}
		*dst, err = GetInt(key, *dst)
	}
	list := func(key string, dst *[]string) {
		if err != nil {
			return
		}
		*dst, err = GetStringSlice(key, *dst)
	}

	str("account", &s.Account)
	str("region", &s.Region)
	str("instanceType", &s.InstanceType)
	str("schedule", &s.Schedule)
	str("timezone", &s.Timezone)
	num("volumeSize", &s.VolumeSize)
	str("volumeType", &s.VolumeType)
	num("testTimeout", &s.TestTimeout)
	str("componentPath", &s.ComponentPath)
	str("baseline.mode", &s.Baseline.Mode)
	str("network.vpcId", &s.Network.VpcID)
	list("network.availabilityZones", &s.Network.AvailabilityZones)
	list("network.publicSubnetIds", &s.Network.PublicSubnetIDs)
	list("network.publicRouteTableIds", &s.Network.RouteTableIDs)
	str("archive.bucket", &s.Archive.Bucket)
	str("archive.prefix", &s.Archive.Prefix)
	str("archive.region", &s.Archive.Region)
	if err != nil {
		return Settings{}, err
	}

	if s.Baseline.Endpoints, err = GetBool("baseline.endpoints", false); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values the stacks cannot express.
func (s Settings) Validate() error {
	switch {
	case s.Account == "":
		return fmt.Errorf("account is required")
	case s.Region == "":
		return fmt.Errorf("region is required")
	case s.InstanceType == "":
		return fmt.Errorf("instanceType is required")
	case s.VolumeSize <= 0:
		return fmt.Errorf("volumeSize must be positive: %d", s.VolumeSize)
	case s.TestTimeout <= 0:
		return fmt.Errorf("testTimeout must be positive: %d", s.TestTimeout)
	case s.ComponentPath == "":
		return fmt.Errorf("componentPath is required")
	}

	// The pipeline schedule has no zone field; Image Builder evaluates cron
	// expressions in UTC.
	if !schedule.IsUTC(s.Timezone) {
		return fmt.Errorf("timezone must be UTC, the pipeline schedule cannot carry %q", s.Timezone)
	}

	if s.Baseline.Mode != BaselinePlaceholder && s.Baseline.Mode != BaselineSSM {
		return fmt.Errorf("baseline.mode must be one of %v: %q",
			[]string{BaselinePlaceholder, BaselineSSM}, s.Baseline.Mode)
	}

	n := s.Network
	if n.VpcID != "" || len(n.PublicSubnetIDs) > 0 || len(n.AvailabilityZones) > 0 {
		if !n.Complete() {
			return fmt.Errorf("network needs vpcId, availabilityZones and publicSubnetIds together")
		}
		if len(n.PublicSubnetIDs)%len(n.AvailabilityZones) != 0 {
			return fmt.Errorf("network: %d public subnets do not spread over %d availability zones",
				len(n.PublicSubnetIDs), len(n.AvailabilityZones))
		}
		if len(n.RouteTableIDs) > 0 && len(n.RouteTableIDs) != len(n.PublicSubnetIDs) {
			return fmt.Errorf("network: %d public route tables for %d public subnets",
				len(n.RouteTableIDs), len(n.PublicSubnetIDs))
		}
	}

	return nil
}

// ComponentFile returns the absolute component document path.
func (s Settings) ComponentFile() string {
	if filepath.IsAbs(s.ComponentPath) {
		return s.ComponentPath
	}
	return filepath.Join(s.ProjectDir, s.ComponentPath)
}
