package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/internal"
	"github.com/vadiminshakov/goldenbutterfly/internal/portfolio"
	"github.com/vadiminshakov/goldenbutterfly/internal/prompt"
)

type scrapeCmd struct {
	configPath *string
	assets     bool
}

func (*scrapeCmd) Name() string     { return "scrape" }
func (*scrapeCmd) Synopsis() string { return "scrape every configured bank and print the allocation" }
func (*scrapeCmd) Usage() string {
	return `goldenbutterfly [-config <path>] scrape [-assets]

  Logs into every configured bank and prints each asset class's share of the
  portfolio and its deviation from the 20% target. The spreadsheet is not touched.
`
}

func (c *scrapeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.assets, "assets", false, "also list every asset found")
}

func (c *scrapeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := newRunEnv(*c.configPath)
	if err != nil {
		printError(err)
		return subcommands.ExitFailure
	}
	defer env.close()

	updater, err := internal.NewUpdater(env.conf, env.logger, prompt.NewTerminal())
	if err != nil {
		env.logger.Error("failed to create updater", zap.Error(err))
		return subcommands.ExitFailure
	}
	assets, err := updater.Collect(ctx)
	if err != nil {
		env.logger.Error("scraping failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	if c.assets {
		fmt.Println(titleStyle.Render("Assets"))
		for _, a := range assets {
			fmt.Printf("  %s\n", a)
		}
	}
	if err := portfolio.Summarize(portfolio.Aggregate(assets)).Render(os.Stdout); err != nil {
		env.logger.Error("failed to print summary", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
