// Package logging builds the application's zap logger: human-readable console output
// plus a debug-level file that rotates daily and is kept for a week.
package logging

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	retentionDays = 7
	maxSizeMB     = 100
)

// Options logger settings.
type Options struct {
	File  string
	Level string
	// Console receives info-level output; nil disables it.
	Console zapcore.WriteSyncer
}

// New returns a logger writing to the console and to a rotating file.
// The returned close function flushes and closes the file.
func New(opts Options) (*zap.Logger, func(), error) {
	fileLevel, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid log level")
	}

	rotator := &lumberjack.Logger{
		Filename:  opts.File,
		MaxSize:   maxSizeMB,
		MaxAge:    retentionDays,
		LocalTime: true,
	}
	if err := rotateDaily(rotator, time.Now()); err != nil {
		return nil, nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(rotator), fileLevel),
	}
	if opts.Console != nil {
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(opts.Console), zapcore.InfoLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	closeFn := func() {
		_ = logger.Sync()
		_ = rotator.Close()
	}
	return logger, closeFn, nil
}

// rotateDaily starts a new file when the current one was last written on an earlier day.
// Runs are short-lived, so checking at startup is enough to get one file per day.
func rotateDaily(l *lumberjack.Logger, now time.Time) error {
	info, err := os.Stat(l.Filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to stat log file")
	}
	if sameDay(info.ModTime(), now) {
		return nil
	}
	return errors.Wrap(l.Rotate(), "failed to rotate log file")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
