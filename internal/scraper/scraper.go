// Package scraper logs into bank portals and turns what they display into assets.
package scraper

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/internal/browser"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

// Scraper produces the assets held at one bank.
// Assets never fails: errors are logged and an empty list is returned.
type Scraper interface {
	Name() string
	Assets(ctx context.Context) []domain.Asset
}

// Session the browser operations scrapers need.
type Session interface {
	Navigate(ctx context.Context, url string) error
	FindElement(ctx context.Context, selector, errMsg string) (*cdp.Node, error)
	FindElementIn(ctx context.Context, parent *cdp.Node, selector, errMsg string) (*cdp.Node, error)
	FindAllElements(ctx context.Context, selector, errMsg string) ([]*cdp.Node, error)
	Click(ctx context.Context, node *cdp.Node) error
	SendKeys(ctx context.Context, node *cdp.Node, keys string) error
	Text(ctx context.Context, node *cdp.Node) (string, error)
	Attribute(ctx context.Context, node *cdp.Node, name string) (string, error)
}

// CodePrompter asks the user for a login confirmation code.
type CodePrompter interface {
	ConfirmationCode(ctx context.Context, bank string) (string, error)
}

// LoginError is returned when the portal does not show the logged-in page after submitting credentials.
type LoginError struct {
	Bank   string
	Reason string
	Err    error
}

func (e *LoginError) Error() string {
	msg := fmt.Sprintf("%s login failed: %s", e.Bank, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoginError) Unwrap() error { return e.Err }

// collect runs fn and applies the per-scraper failure policy: any error or panic is logged
// by class and yields an empty list, so the rest of the run continues.
func collect(ctx context.Context, l *zap.Logger, bank string, fn func(ctx context.Context) ([]domain.Asset, error)) (assets []domain.Asset) {
	defer func() {
		if r := recover(); r != nil {
			l.Error("unexpected panic", zap.String("bank", bank), zap.Any("panic", r), zap.Stack("stack"))
			assets = []domain.Asset{}
		}
	}()

	assets, err := fn(ctx)
	if err == nil {
		return assets
	}

	var (
		loginErr    *LoginError
		navErr      *browser.NavigationError
		notFoundErr *browser.ElementNotFoundError
	)
	switch {
	case errors.As(err, &loginErr):
		l.Error("login failed", zap.String("bank", bank), zap.Error(err))
	case errors.As(err, &navErr):
		l.Error("navigation failed", zap.String("bank", bank), zap.String("url", navErr.URL), zap.Error(err))
	case errors.As(err, &notFoundErr):
		l.Error("element error", zap.String("bank", bank), zap.String("selector", notFoundErr.Selector), zap.Error(err))
	case errors.Is(err, context.Canceled):
		l.Warn("scraper cancelled", zap.String("bank", bank))
	default:
		l.Error("unexpected error", zap.String("bank", bank), zap.Error(err))
	}
	return []domain.Asset{}
}

// verifyLoggedIn turns a missing post-login marker into a LoginError.
func verifyLoggedIn(ctx context.Context, s Session, bank, marker string) error {
	if _, err := s.FindElement(ctx, marker, "Post-login page not shown"); err != nil {
		var notFoundErr *browser.ElementNotFoundError
		if errors.As(err, &notFoundErr) {
			return &LoginError{Bank: bank, Reason: "post-login marker not found", Err: err}
		}
		return err
	}
	return nil
}

// readAmount parses the euro amount displayed by node.
func readAmount(ctx context.Context, s Session, node *cdp.Node) (decimal.Decimal, error) {
	text, err := s.Text(ctx, node)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.ParseEuroAmount(text)
}

// sendDigits types one character per input, as PIN and code forms expect.
func sendDigits(ctx context.Context, s Session, inputs []*cdp.Node, digits string) error {
	if len(inputs) < len(digits) {
		return errors.Errorf("expected %d inputs, found %d", len(digits), len(inputs))
	}
	for i, d := range digits {
		if err := s.SendKeys(ctx, inputs[i], string(d)); err != nil {
			return err
		}
	}
	return nil
}

// holding one line of a bank's holdings page.
type holding struct {
	ISIN   string
	Name   string
	Amount decimal.Decimal
}

// matchHoldings keeps the holdings whose ISIN is tracked, typed with the tracked asset class.
func matchHoldings(l *zap.Logger, bank string, tracked domain.TrackedAssets, holdings []holding) []domain.Asset {
	assets := make([]domain.Asset, 0, len(holdings))
	found := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		t, ok := tracked.Find(h.ISIN)
		if !ok {
			l.Debug("ignoring untracked holding", zap.String("bank", bank), zap.String("isin", h.ISIN))
			continue
		}
		found[h.ISIN] = true

		name := h.Name
		if name == "" {
			name = h.ISIN
		}
		assets = append(assets, domain.NewAsset(fmt.Sprintf("%s %s", bank, name), h.Amount, t.AssetType))
		l.Info("holding retrieved",
			zap.String("bank", bank),
			zap.String("isin", h.ISIN),
			zap.String("asset_type", t.AssetType.String()),
			zap.String("amount", h.Amount.StringFixed(2)))
	}

	for isin := range tracked {
		if !found[isin] {
			l.Warn("tracked asset not found", zap.String("bank", bank), zap.String("isin", isin))
		}
	}
	return assets
}
