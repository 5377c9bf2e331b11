// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/astrojobs/astrojobs/internal/command"
	"github.com/astrojobs/astrojobs/internal/config"
	"github.com/astrojobs/astrojobs/internal/log"
	"github.com/astrojobs/astrojobs/internal/output"
	"github.com/astrojobs/astrojobs/internal/update"
	"github.com/astrojobs/astrojobs/internal/version"
)

// abortMessage is printed when the run is interrupted.
const abortMessage = "Abort! astrojobs interrupted by a keyboard signal!"

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string, w io.Writer) bool {
	if len(args) < 2 {
		return false
	}
	for _, a := range args[1:] {
		if a == "--version" || a == "-v" {
			fmt.Fprintf(w, "%s %s\n", version.Name, version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no arguments are provided and reports
// whether it did.
func handleNakedCommand(args []string) ([]string, bool) {
	if len(args) <= 1 {
		return append(args, "--help"), true
	}
	return args, false
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(ctx context.Context, args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		if interrupted(ctx) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

// checkForUpdate prints a notice when a newer release is published. It
// never fails the run.
func checkForUpdate(ctx context.Context, p *output.Printer) {
	if update.Disabled() {
		log.Debug("update check disabled")
		return
	}
	if latest, ok := update.NewChecker(update.ConfigOptions()...).Check(ctx); ok {
		p.Box(update.Message(latest))
	}
}

func interrupted(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args, os.Stdout) {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Notices follow the requested format so json/yaml stay parseable.
	p := output.NewPrinter(os.Stdout, noticeFormat(args), output.ColorNever)

	args, naked := handleNakedCommand(args)
	if naked {
		p.Title()
	}

	code := initAndRunApp(ctx, args)
	if interrupted(ctx) {
		p.Box(abortMessage)
		return 0
	}

	checkForUpdate(ctx, p)
	return code
}

// noticeFormat resolves the output format with the same precedence the app
// uses: flag, then ASTROJOBS_OUTPUT, then the config file. Anything invalid
// falls back to text and the app reports the error itself.
func noticeFormat(args []string) output.Format {
	fallback, err := config.GetString("output", string(output.FormatText))
	if err != nil {
		fallback = string(output.FormatText)
	}
	if env := os.Getenv("ASTROJOBS_OUTPUT"); env != "" {
		fallback = env
	}

	format, err := output.ParseFormat(flagValue(args, "--output", "-o", fallback))
	if err != nil {
		return output.FormatText
	}
	return format
}

// flagValue returns the value of a string flag given as "--name value",
// "--name=value", "-n value" or "-n=value", or fallback when absent.
func flagValue(args []string, long, short, fallback string) string {
	for i := 1; i < len(args); i++ {
		a := args[i]
		for _, name := range []string{long, short} {
			switch {
			case a == name && i+1 < len(args):
				return args[i+1]
			case len(a) > len(name) && a[:len(name)+1] == name+"=":
				return a[len(name)+1:]
			}
		}
	}
	return fallback
}
