package internal

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/config"
	"github.com/vadiminshakov/goldenbutterfly/internal/browser"
	"github.com/vadiminshakov/goldenbutterfly/internal/scraper"
	"github.com/vadiminshakov/goldenbutterfly/internal/sheets"
)

// NewScrapers creates a scraper for every bank present in the configuration, in a fixed order.
func NewScrapers(conf config.Config, logger *zap.Logger, s scraper.Session, prompter scraper.CodePrompter) []scraper.Scraper {
	var scrapers []scraper.Scraper
	if conf.TradeRepublic != nil {
		scrapers = append(scrapers, scraper.NewTradeRepublic(logger, s, prompter, *conf.TradeRepublic))
	}
	if conf.MyInvestor != nil {
		scrapers = append(scrapers, scraper.NewMyInvestor(logger, s, *conf.MyInvestor))
	}
	return scrapers
}

// NewSheetUpdater creates the spreadsheet updater. It does not connect until first used.
func NewSheetUpdater(conf config.GoogleSheetsConfig, logger *zap.Logger) *sheets.Updater {
	ws := sheets.NewGoogleWorksheet(logger, conf.CredentialsPath, conf.SheetName)
	return sheets.NewUpdater(logger, ws)
}

// browserOptions maps the headless setting to a virtual display: the browser itself is never headless.
func browserOptions(conf config.BrowserConfig) (browser.Options, error) {
	delays, err := browser.NewDelays(conf.DelayProfile)
	if err != nil {
		return browser.Options{}, errors.Wrap(err, "failed to create browser delays")
	}
	return browser.Options{VirtualDisplay: conf.Headless, Delays: delays}, nil
}
