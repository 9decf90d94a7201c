package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/internal"
	"github.com/vadiminshakov/goldenbutterfly/internal/prompt"
)

type syncCmd struct {
	configPath *string
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "scrape every configured bank and update the spreadsheet" }
func (*syncCmd) Usage() string {
	return `goldenbutterfly [-config <path>] sync

  Logs into every configured bank, sums the balances per asset class and
  writes the totals into the Golden Butterfly spreadsheet.
`
}

func (*syncCmd) SetFlags(*flag.FlagSet) {}

// Execute always exits normally: failures, including configuration errors, are only reported.
func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := newRunEnv(*c.configPath)
	if err != nil {
		printError(err)
		return subcommands.ExitSuccess
	}
	defer env.close()

	updater, err := internal.NewUpdater(env.conf, env.logger, prompt.NewTerminal())
	if err != nil {
		env.logger.Error("failed to create updater", zap.Error(err))
		return subcommands.ExitSuccess
	}
	if err := updater.Run(ctx); err != nil {
		env.logger.Error("portfolio update failed", zap.Error(err))
	}
	return subcommands.ExitSuccess
}
