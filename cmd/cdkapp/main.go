// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command cdkapp is the CDK app entry point named in cdk.json. It builds the
// workstation stacks from the same settings wsinfra uses and leaves the
// assembly where the CDK CLI asked for it.
package main

import (
	"fmt"
	"os"

	"github.com/aws/jsii-runtime-go"

	"github.com/staranto/wsinfra/internal/component"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/network"
	"github.com/staranto/wsinfra/internal/stacks"
	"github.com/staranto/wsinfra/internal/util"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	defer jsii.Close()
	log.InitLogger()

	if _, err := config.Load(); err != nil {
		log.Debugf("no config, using defaults: err=%v", err)
	}

	cwd, _ := os.Getwd()
	s, err := config.Resolve(util.FindProjectDir(cwd))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if network.Fill(&s) {
		log.Debugf("network from lookup cache: vpc=%s", s.Network.VpcID)
	}

	data, err := component.Load(s.ComponentFile())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Outdir and context come from the CDK CLI through the environment.
	app, err := stacks.NewApp(s, data, stacks.AppOptions{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	app.Synth(nil)
	return 0
}
