package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/vadiminshakov/goldenbutterfly/internal/setup"
)

type initCmd struct {
	configPath *string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the configuration file interactively" }
func (*initCmd) Usage() string {
	return `goldenbutterfly [-config <path>] init

  Asks for browser, spreadsheet and bank settings and writes the configuration file.
`
}

func (*initCmd) SetFlags(*flag.FlagSet) {}

func (c *initCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := setup.RunWizard(ctx, *c.configPath); err != nil {
		printError(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
