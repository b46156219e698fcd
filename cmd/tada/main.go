package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/tadalists/internal/cli"
	"github.com/Makepad-fr/tadalists/internal/config"
	"github.com/Makepad-fr/tadalists/internal/logging"
	"github.com/Makepad-fr/tadalists/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	cfg, args, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}
	ui.SetTheme(cfg.Theme)

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	// Hand the remaining args to the CLI runner.
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Group:  cfg.Group,
		Config: cfg,
		Logger: logger,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
