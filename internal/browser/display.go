package browser

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	displayNumber     = 99
	displayResolution = "1920x1080x24"
	displayStartup    = 500 * time.Millisecond
)

// virtualDisplay an Xvfb server the browser renders into when running unattended.
type virtualDisplay struct {
	logger *zap.Logger
	cmd    *exec.Cmd
	name   string
}

func newVirtualDisplay(logger *zap.Logger) *virtualDisplay {
	return &virtualDisplay{logger: logger, name: fmt.Sprintf(":%d", displayNumber)}
}

// Name returns the X display name, e.g. ":99".
func (d *virtualDisplay) Name() string { return d.name }

func (d *virtualDisplay) start(ctx context.Context) error {
	d.logger.Info("starting virtual display", zap.String("display", d.name))
	d.cmd = exec.CommandContext(ctx, "Xvfb", d.name, "-screen", "0", displayResolution, "-nolisten", "tcp")
	if err := d.cmd.Start(); err != nil {
		d.cmd = nil
		return errors.Wrap(err, "failed to start Xvfb")
	}

	select {
	case <-ctx.Done():
		d.stop()
		return ctx.Err()
	case <-time.After(displayStartup):
	}
	d.logger.Info("virtual display started", zap.String("display", d.name))
	return nil
}

func (d *virtualDisplay) stop() {
	if d.cmd == nil || d.cmd.Process == nil {
		return
	}
	d.logger.Info("stopping virtual display", zap.String("display", d.name))
	if err := d.cmd.Process.Kill(); err != nil {
		d.logger.Warn("failed to stop virtual display", zap.Error(err))
	}
	_ = d.cmd.Wait()
	d.cmd = nil
	d.logger.Info("virtual display stopped")
}
