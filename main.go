// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/jsii-runtime-go"

	"github.com/staranto/wsinfra/internal/command"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/util"
	"github.com/staranto/wsinfra/internal/version"
)

var ctx = context.Background()

// closeRuntime removes the jsii runtime that synthesis extracts to the temp
// dir.
var closeRuntime = jsii.Close

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	return processOtherArgs(args)
}

// processOtherArgs makes sure the command's ProjectDir positional is present,
// inserting the project containing the CWD when it is not.
func processOtherArgs(args []string) []string {
	idx := command.ProjectArgIndex(args)
	if idx < 0 || len(args) < idx {
		return args
	}
	if len(args) > idx && isProjectArg(args[idx]) {
		return args
	}

	cwd, _ := os.Getwd()
	dir := util.FindProjectDir(cwd)
	log.Debugf("project dir inserted: dir=%s idx=%d", dir, idx)

	out := make([]string, 0, len(args)+1)
	out = append(out, args[:idx]...)
	out = append(out, dir)
	return append(out, args[idx:]...)
}

// isProjectArg reports whether arg names a project dir. A "::Stack" spec is
// taken as one even when it does not parse so the error surfaces later.
func isProjectArg(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	if strings.Contains(arg, "::") {
		return true
	}
	_, _, err := util.ParseProjectDir(arg)
	return err == nil
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		// A diff --exit-code result is not worth a message.
		if !errors.Is(err, command.ErrDiffers) {
			fmt.Fprintln(os.Stderr, err)
		}
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	defer closeRuntime()
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @set argument, in place, into the arguments
// stored under <command>.<set> in the config file.
func processSetOnly(args []string) []string {
	at := -1
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") {
			at = i
			break
		}
	}
	if at < 0 {
		return args
	}

	key := args[1] + "." + args[at][1:]
	setArgs, err := config.GetStringSlice(key)
	if err != nil {
		log.Debugf("arg set not found: key=%s err=%v", key, err)
	}

	out := make([]string, 0, len(args)+len(setArgs))
	out = append(out, args[:at]...)
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	return append(out, args[at+1:]...)
}
