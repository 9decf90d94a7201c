// Command goldenbutterfly collects balances from bank portals and updates the
// Golden Butterfly portfolio spreadsheet.
//
// Usage:
//
//	goldenbutterfly [-config config.yml] sync
//	goldenbutterfly [-config config.yml] scrape
//	goldenbutterfly [-config config.yml] check-config
//	goldenbutterfly [-config config.yml] init
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"github.com/vadiminshakov/goldenbutterfly/config"
)

func main() {
	configPath := config.RegisterFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&syncCmd{configPath: configPath}, "")
	commander.Register(&scrapeCmd{configPath: configPath}, "")
	commander.Register(&checkConfigCmd{configPath: configPath}, "")
	commander.Register(&initCmd{configPath: configPath}, "")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
