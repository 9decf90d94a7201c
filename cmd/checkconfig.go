package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/goldenbutterfly/config"
)

type checkConfigCmd struct {
	configPath *string
}

func (*checkConfigCmd) Name() string     { return "check-config" }
func (*checkConfigCmd) Synopsis() string { return "validate the configuration file" }
func (*checkConfigCmd) Usage() string {
	return `goldenbutterfly [-config <path>] check-config

  Loads and validates the configuration and prints it with credentials redacted.
`
}

func (*checkConfigCmd) SetFlags(*flag.FlagSet) {}

func (c *checkConfigCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, err := config.Load(*c.configPath)
	if err != nil {
		printError(err)
		return subcommands.ExitFailure
	}

	out, err := yaml.Marshal(conf)
	if err != nil {
		printError(err)
		return subcommands.ExitFailure
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s is valid", *c.configPath)))
	fmt.Print(string(out))
	return subcommands.ExitSuccess
}
