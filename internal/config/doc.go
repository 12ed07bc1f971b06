// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads wsinfra's optional YAML configuration and resolves the
// fixed deployment parameters (account, region, instance type, schedule and
// so on) from built-in defaults overlaid by that file. The file is looked up
// at $WSINFRA_CFG_FILE or in the user's configuration directory:
//   - Linux/macOS: $XDG_CONFIG_HOME/wsinfra.yaml or $HOME/.config/wsinfra.yaml
//   - Windows: %APPDATA%/wsinfra.yaml
//
// A missing file is not an error; the defaults describe the stacks as they
// are meant to be deployed.
package config
