// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
	"github.com/staranto/wsinfra/internal/network"
)

var lookupDefaultAttrs = []string{".availabilityZone", ".id", ".cidr", ".selected"}

// subnetRow is one public subnet of "lookup". Selected marks the subnets the
// stacks will use.
type subnetRow struct {
	network.Subnet
	VpcID    string `json:"vpcId"`
	Selected bool   `json:"selected"`
}

// lookupConfig is the config file fragment printed by "lookup --config".
type lookupConfig struct {
	Account string         `yaml:"account"`
	Region  string         `yaml:"region"`
	Network config.Network `yaml:"network"`
}

// lookupCommandAction discovers the default VPC and its public subnets,
// caches the result for later synths and lists the subnets.
func lookupCommandAction(ctx context.Context, cmd *cli.Command) error {
	var d network.Discovery

	fn := func(ctx context.Context, cmd *cli.Command) ([]subnetRow, error) {
		s, err := Settings(cmd)
		if err != nil {
			return nil, err
		}
		region := cmd.String("region")
		if region == "" {
			region = s.Region
		}

		ec2c, stsc, err := newLookupClients(ctx, cmd, region)
		if err != nil {
			return nil, err
		}
		if d, err = network.Discover(ctx, ec2c, stsc, region); err != nil {
			return nil, err
		}
		if err := network.Save(d); err != nil {
			log.WithError(err).Warnf("lookup not cached")
		}
		if d.Account != s.Account {
			log.Warnf("discovered account %s differs from configured account %s", d.Account, s.Account)
		}

		chosen := map[string]bool{}
		for _, id := range d.Network().PublicSubnetIDs {
			chosen[id] = true
		}
		rows := make([]subnetRow, 0, len(d.Subnets))
		for _, sn := range d.Subnets {
			rows = append(rows, subnetRow{Subnet: sn, VpcID: d.VpcID, Selected: chosen[sn.ID]})
		}
		return rows, nil
	}

	if cmd.Bool("config") {
		if _, err := fn(ctx, cmd); err != nil {
			return err
		}
		b, err := yaml.Marshal(lookupConfig{Account: d.Account, Region: d.Region, Network: d.Network()})
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(stdout(cmd), string(b))
		return err
	}

	return NewQueryActionRunner("lookup", "", lookupDefaultAttrs, fn).Run(ctx, cmd)
}

func lookupCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "lookup",
		Usage:     "discover the default VPC and public subnets",
		UsageText: "wsinfra lookup [ProjectDir] [options]",
		Flags: []cli.Flag{
			NewProfileFlag("lookup", meta.Config.Source),
			&cli.StringFlag{
				Name:  "region",
				Usage: "region to look in, defaults to the configured region",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("WSINFRA_REGION"),
				),
			},
			&cli.BoolFlag{
				Name:  "config",
				Usage: "print the result as a config file fragment",
				Value: false,
			},
		},
		Action: lookupCommandAction,
		Meta:   meta,
	}).Build()
}
