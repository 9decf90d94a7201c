package scraper

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/config"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

const (
	trBank = "Trade Republic"

	trLoginURL     = "https://app.traderepublic.com/login"
	trPortfolioURL = "https://app.traderepublic.com/portfolio"

	trCountryCodeButton = ".dropdownList__openButton"
	trCountryOption     = `[id="areaCode-%s"]`
	trPhoneInput        = "#loginPhoneNumber__input"
	trSubmitButton      = "button[type='submit']"
	trCodeInputs        = ".codeInput__character"
	trLoggedInMarker    = ".portfolioOverview"
	trCashBalance       = ".cashBalance__amount"
	trInstrumentRows    = ".portfolioInstrumentList__item"
	trInstrumentLink    = "a[href*='/instrument/']"
	trInstrumentName    = ".instrumentListItem__name"
	trInstrumentValue   = ".instrumentListItem__value"
)

// TradeRepublic scrapes cash and tracked holdings from the Trade Republic web app.
// Login needs a confirmation code the bank sends to the user's phone.
type TradeRepublic struct {
	l       *zap.Logger
	session Session
	prompt  CodePrompter
	account config.TradeRepublicAccount
	tracked domain.TrackedAssets
}

// NewTradeRepublic creates a Trade Republic scraper.
func NewTradeRepublic(l *zap.Logger, s Session, prompt CodePrompter, account config.TradeRepublicAccount) *TradeRepublic {
	if l == nil {
		l = zap.NewNop()
	}
	return &TradeRepublic{
		l:       l.With(zap.String("scraper", trBank)),
		session: s,
		prompt:  prompt,
		account: account,
		tracked: domain.NewTrackedAssets(account.TrackedAssets),
	}
}

func (t *TradeRepublic) Name() string { return trBank }

// Assets logs in and returns the cash balance and tracked holdings.
func (t *TradeRepublic) Assets(ctx context.Context) []domain.Asset {
	return collect(ctx, t.l, trBank, t.assets)
}

func (t *TradeRepublic) assets(ctx context.Context) ([]domain.Asset, error) {
	t.l.Info("logging into Trade Republic", zap.String("phone", t.account.PhoneCountryCode+" "+t.account.PhoneNumber))
	if err := t.logIn(ctx); err != nil {
		return nil, err
	}
	t.l.Info("logged in successfully")

	if err := t.session.Navigate(ctx, trPortfolioURL); err != nil {
		return nil, err
	}

	t.l.Info("retrieving cash balance")
	cashNode, err := t.session.FindElement(ctx, trCashBalance, "Cash balance not found")
	if err != nil {
		return nil, err
	}
	cash, err := readAmount(ctx, t.session, cashNode)
	if err != nil {
		return nil, errors.Wrap(err, "cash balance")
	}
	t.l.Info("cash balance retrieved", zap.String("amount", cash.StringFixed(2)))

	assets := []domain.Asset{domain.NewAsset(trBank+" Cash", cash, domain.AssetTypeCash)}
	if len(t.tracked) == 0 {
		return assets, nil
	}

	holdings, err := t.holdings(ctx)
	if err != nil {
		return nil, err
	}
	return append(assets, matchHoldings(t.l, trBank, t.tracked, holdings)...), nil
}

func (t *TradeRepublic) logIn(ctx context.Context) error {
	if err := t.session.Navigate(ctx, trLoginURL); err != nil {
		return err
	}
	if err := t.setPhoneCountryCode(ctx); err != nil {
		return err
	}
	if err := t.enterPhoneNumber(ctx); err != nil {
		return err
	}
	if err := t.pressNext(ctx); err != nil {
		return err
	}
	if err := t.enterCode(ctx, t.account.PIN.Reveal(), "PIN inputs not found"); err != nil {
		return err
	}

	code, err := t.prompt.ConfirmationCode(ctx, trBank)
	if err != nil {
		return &LoginError{Bank: trBank, Reason: "no confirmation code", Err: err}
	}
	if err := t.enterCode(ctx, code, "Confirmation code inputs not found"); err != nil {
		return err
	}

	return verifyLoggedIn(ctx, t.session, trBank, trLoggedInMarker)
}

func (t *TradeRepublic) setPhoneCountryCode(ctx context.Context) error {
	dropdown, err := t.session.FindElement(ctx, trCountryCodeButton, "Country code input not found")
	if err != nil {
		return err
	}
	if err := t.session.Click(ctx, dropdown); err != nil {
		return err
	}

	option, err := t.session.FindElement(ctx, fmt.Sprintf(trCountryOption, t.account.PhoneCountryCode),
		fmt.Sprintf("Country option for %s not found", t.account.PhoneCountryCode))
	if err != nil {
		return err
	}
	return t.session.Click(ctx, option)
}

func (t *TradeRepublic) enterPhoneNumber(ctx context.Context) error {
	input, err := t.session.FindElement(ctx, trPhoneInput, "Phone number input not found")
	if err != nil {
		return err
	}
	return t.session.SendKeys(ctx, input, t.account.PhoneNumber)
}

func (t *TradeRepublic) pressNext(ctx context.Context) error {
	next, err := t.session.FindElement(ctx, trSubmitButton, "Next button not found")
	if err != nil {
		return err
	}
	return t.session.Click(ctx, next)
}

// enterCode types a PIN or confirmation code, one digit per input field.
func (t *TradeRepublic) enterCode(ctx context.Context, code, errMsg string) error {
	inputs, err := t.session.FindAllElements(ctx, trCodeInputs, errMsg)
	if err != nil {
		return err
	}
	return sendDigits(ctx, t.session, inputs, code)
}

func (t *TradeRepublic) holdings(ctx context.Context) ([]holding, error) {
	rows, err := t.session.FindAllElements(ctx, trInstrumentRows, "Portfolio instruments not found")
	if err != nil {
		return nil, err
	}

	holdings := make([]holding, 0, len(rows))
	for _, row := range rows {
		link, err := t.session.FindElementIn(ctx, row, trInstrumentLink, "Instrument link not found")
		if err != nil {
			return nil, err
		}
		href, err := t.session.Attribute(ctx, link, "href")
		if err != nil {
			return nil, err
		}
		isin, ok := domain.FindISIN(href)
		if !ok {
			t.l.Debug("instrument without ISIN", zap.String("href", href))
			continue
		}
		if _, tracked := t.tracked.Find(isin); !tracked {
			holdings = append(holdings, holding{ISIN: isin})
			continue
		}

		h := holding{ISIN: isin}
		if nameNode, err := t.session.FindElementIn(ctx, row, trInstrumentName, "Instrument name not found"); err == nil {
			h.Name, _ = t.session.Text(ctx, nameNode)
		}
		valueNode, err := t.session.FindElementIn(ctx, row, trInstrumentValue, "Instrument value not found")
		if err != nil {
			return nil, err
		}
		if h.Amount, err = readAmount(ctx, t.session, valueNode); err != nil {
			return nil, errors.Wrapf(err, "value of %s", isin)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}
