package internal

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/config"
	"github.com/vadiminshakov/goldenbutterfly/internal/browser"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
	"github.com/vadiminshakov/goldenbutterfly/internal/scraper"
)

type portfolioWriter interface {
	UpdatePortfolio(ctx context.Context, assets []domain.Asset) error
}

// browseFunc runs fn with a browser session that is released when fn returns.
type browseFunc func(ctx context.Context, fn func(scraper.Session) error) error

// Updater runs the scrapers one after another on a single browser and writes the result to the spreadsheet.
type Updater struct {
	Config config.Config

	logger   *zap.Logger
	browse   browseFunc
	scrapers func(s scraper.Session) []scraper.Scraper
	sheet    portfolioWriter
}

// NewUpdater creates an updater for conf.
func NewUpdater(conf config.Config, logger *zap.Logger, prompter scraper.CodePrompter) (*Updater, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := browserOptions(conf.Browser)
	if err != nil {
		return nil, err
	}

	return &Updater{
		Config: conf,
		logger: logger,
		browse: func(ctx context.Context, fn func(scraper.Session) error) error {
			return browser.With(ctx, opts, logger, func(s *browser.Session) error { return fn(s) })
		},
		scrapers: func(s scraper.Session) []scraper.Scraper {
			return NewScrapers(conf, logger, s, prompter)
		},
		sheet: NewSheetUpdater(conf.GoogleSheets, logger),
	}, nil
}

// Collect scrapes every configured bank. A failing bank contributes no assets;
// only a browser that cannot start is an error.
func (u *Updater) Collect(ctx context.Context) ([]domain.Asset, error) {
	if u.Config.TradeRepublic == nil && u.Config.MyInvestor == nil {
		u.logger.Warn("no bank configured, nothing to scrape")
		return nil, nil
	}

	var assets []domain.Asset
	err := u.browse(ctx, func(s scraper.Session) error {
		for _, sc := range u.scrapers(s) {
			if err := ctx.Err(); err != nil {
				return err
			}
			u.logger.Info("scraping", zap.String("bank", sc.Name()))
			found := sc.Assets(ctx)
			u.logger.Info("scraping finished", zap.String("bank", sc.Name()), zap.Int("assets", len(found)))
			assets = append(assets, found...)
		}
		return nil
	})
	if err != nil {
		return assets, errors.Wrap(err, "browser session failed")
	}
	return assets, nil
}

// Run scrapes every configured bank and updates the spreadsheet with what was found.
func (u *Updater) Run(ctx context.Context) error {
	u.logger.Info("starting portfolio update")

	assets, err := u.Collect(ctx)
	if err != nil {
		return err
	}
	for _, a := range assets {
		u.logger.Debug("asset", zap.String("name", a.Name), zap.String("asset_type", a.AssetType.String()),
			zap.String("amount", a.Amount.StringFixed(2)))
	}
	if len(assets) == 0 {
		u.logger.Warn("no assets retrieved, spreadsheet left untouched")
		return nil
	}

	if err := u.sheet.UpdatePortfolio(ctx, assets); err != nil {
		return errors.Wrap(err, "failed to update spreadsheet")
	}
	u.logger.Info("portfolio update finished", zap.Int("assets", len(assets)))
	return nil
}
