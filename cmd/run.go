package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/config"
	"github.com/vadiminshakov/goldenbutterfly/internal/logging"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

// runEnv what every run needs: the loaded configuration and a logger tagged with the run id.
type runEnv struct {
	conf   config.Config
	logger *zap.Logger
	close  func()
}

func newRunEnv(configPath string) (*runEnv, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "configuration error")
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:    conf.Logging.File,
		Level:   conf.Logging.Level,
		Console: os.Stderr,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up logging")
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("configuration loaded", zap.String("path", configPath))

	return &runEnv{conf: conf, logger: logger, close: closeLog}, nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
