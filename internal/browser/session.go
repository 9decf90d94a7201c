// Package browser wraps a single Chrome instance driven through chromedp.
// Every interaction is paced with randomized delays so portals see human-like timing.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	windowWidth  = 1920
	windowHeight = 1080
)

// Options browser session settings.
type Options struct {
	// VirtualDisplay runs the (non-headless) browser inside an Xvfb display.
	VirtualDisplay bool
	Delays         *Delays
}

// Session a running browser with a single tab.
type Session struct {
	logger  *zap.Logger
	delays  *Delays
	display *virtualDisplay

	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
}

// With starts a browser session, passes it to fn and always releases it afterwards.
func With(ctx context.Context, opts Options, logger *zap.Logger, fn func(*Session) error) error {
	s, err := Start(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

// Start launches the browser. The caller must call Close.
func Start(ctx context.Context, opts Options, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Delays == nil {
		return nil, errors.New("delays are required for a browser session")
	}

	s := &Session{logger: logger, delays: opts.Delays}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(windowWidth, windowHeight),
	)

	if opts.VirtualDisplay {
		s.display = newVirtualDisplay(logger)
		if err := s.display.start(ctx); err != nil {
			return nil, err
		}
		allocOpts = append(allocOpts, chromedp.Env("DISPLAY="+s.display.Name()))
	}

	logger.Info("starting browser")
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Errorf),
	)
	s.ctx, s.tabCancel, s.allocCancel = tabCtx, tabCancel, allocCancel

	// the first Run on a fresh context launches the browser process
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to start browser")
	}
	logger.Info("browser started successfully")

	return s, nil
}

// Close stops the browser and the virtual display. It is safe to call more than once.
func (s *Session) Close() {
	if s.tabCancel != nil {
		s.logger.Info("stopping browser")
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("failed to stop browser", zap.Error(err))
		}
		s.tabCancel()
		s.allocCancel()
		s.tabCancel, s.allocCancel = nil, nil
		s.logger.Info("browser stopped successfully")
	}
	if s.display != nil {
		s.display.stop()
	}
}

// Navigate loads url and waits a navigation delay.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("navigating", zap.String("url", url))
	if err := s.run(ctx, 0, chromedp.Navigate(url)); err != nil {
		s.logger.Error("navigation error", zap.String("url", url), zap.Error(err))
		return &NavigationError{URL: url, Err: err}
	}
	return s.Sleep(ctx, s.delays.Navigate())
}

// FindElement waits for the first element matching selector on the page.
func (s *Session) FindElement(ctx context.Context, selector, errMsg string) (*cdp.Node, error) {
	nodes, err := s.query(ctx, selector, errMsg, chromedp.ByQuery)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// FindElementIn returns the first element matching selector below parent.
func (s *Session) FindElementIn(ctx context.Context, parent *cdp.Node, selector, errMsg string) (*cdp.Node, error) {
	nodes, err := s.query(ctx, selector, errMsg, chromedp.ByQuery, chromedp.FromNode(parent))
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// FindAllElements waits for at least one element matching selector and returns all of them.
func (s *Session) FindAllElements(ctx context.Context, selector, errMsg string) ([]*cdp.Node, error) {
	return s.query(ctx, selector, errMsg, chromedp.ByQueryAll)
}

// Click clicks node and waits an action delay.
func (s *Session) Click(ctx context.Context, node *cdp.Node) error {
	if err := s.run(ctx, s.delays.WaitTimeout(), chromedp.MouseClickNode(node)); err != nil {
		return errors.Wrapf(err, "click %s", nodeName(node))
	}
	return s.Sleep(ctx, s.delays.Action())
}

// SendKeys types keys into node and waits an action delay.
func (s *Session) SendKeys(ctx context.Context, node *cdp.Node, keys string) error {
	if err := s.run(ctx, s.delays.WaitTimeout(), chromedp.SendKeys([]cdp.NodeID{node.NodeID}, keys, chromedp.ByNodeID)); err != nil {
		return errors.Wrapf(err, "send keys to %s", nodeName(node))
	}
	return s.Sleep(ctx, s.delays.Action())
}

// Text returns the visible text of node.
func (s *Session) Text(ctx context.Context, node *cdp.Node) (string, error) {
	var text string
	if err := s.run(ctx, s.delays.WaitTimeout(), chromedp.Text([]cdp.NodeID{node.NodeID}, &text, chromedp.ByNodeID)); err != nil {
		return "", errors.Wrapf(err, "read text of %s", nodeName(node))
	}
	return strings.TrimSpace(text), nil
}

// Attribute returns the value of the named attribute of node, or "" when it is not set.
func (s *Session) Attribute(ctx context.Context, node *cdp.Node, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	if err := s.run(ctx, s.delays.WaitTimeout(),
		chromedp.AttributeValue([]cdp.NodeID{node.NodeID}, name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", errors.Wrapf(err, "read attribute %s of %s", name, nodeName(node))
	}
	return value, nil
}

// Sleep pauses for d unless ctx is cancelled first.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	s.logger.Debug("sleeping", zap.Duration("delay", d))
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Session) query(ctx context.Context, selector, errMsg string, opts ...chromedp.QueryOption) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, s.delays.WaitTimeout(), chromedp.Nodes(selector, &nodes, opts...))
	if err == nil && len(nodes) == 0 {
		err = errors.New("no matching nodes")
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("element not found", zap.String("selector", selector), zap.String("reason", errMsg))
		return nil, &ElementNotFoundError{Selector: selector, Message: errMsg, Err: err}
	}
	return nodes, nil
}

// run executes actions on the session tab, bounded by timeout (if > 0) and by the caller's ctx.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if s.ctx == nil {
		return errors.New("browser is not running")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func nodeName(n *cdp.Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s id=%d>", strings.ToLower(n.NodeName), n.NodeID)
}
