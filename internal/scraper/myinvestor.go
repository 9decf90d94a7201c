package scraper

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/config"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

const (
	miBank = "MyInvestor"

	miSignInURL   = "https://app.myinvestor.es/auth/signin"
	miAccountsURL = "https://app.myinvestor.es/app/cuentas"

	miUsernameInput  = "input[name='customerId']"
	miPasswordInput  = "input[name='password']"
	miSubmitButton   = "button[type='submit']"
	miLoggedInMarker = "[data-testid='global-position']"
	miAccountBalance = "[data-testid='account-balance']"
	miPortfolioRows  = "[data-testid='portfolio-row']"
	miRowISIN        = "[data-testid='portfolio-row-isin']"
	miRowName        = "[data-testid='portfolio-row-name']"
	miRowValue       = "[data-testid='portfolio-row-value']"
)

// product pages, visited in this order
var miProductPages = []struct {
	productType domain.ProductType
	url         string
}{
	{domain.ProductTypeIndexFund, "https://app.myinvestor.es/app/inversion/fondos"},
	{domain.ProductTypeETF, "https://app.myinvestor.es/app/inversion/etfs"},
}

// MyInvestor scrapes account cash and tracked fund/ETF positions from MyInvestor.
type MyInvestor struct {
	l       *zap.Logger
	session Session
	account config.MyInvestorAccount
	tracked domain.TrackedAssets
}

func NewMyInvestor(l *zap.Logger, s Session, account config.MyInvestorAccount) *MyInvestor {
	if l == nil {
		l = zap.NewNop()
	}
	return &MyInvestor{
		l:       l.With(zap.String("scraper", miBank)),
		session: s,
		account: account,
		tracked: domain.NewTrackedAssets(account.TrackedAssets),
	}
}

func (m *MyInvestor) Name() string { return miBank }

// Assets logs in and returns the summed account cash and the tracked positions.
func (m *MyInvestor) Assets(ctx context.Context) []domain.Asset {
	return collect(ctx, m.l, miBank, m.assets)
}

func (m *MyInvestor) assets(ctx context.Context) ([]domain.Asset, error) {
	m.l.Info("logging into MyInvestor", zap.String("username", m.account.Username))
	if err := m.logIn(ctx); err != nil {
		return nil, err
	}
	m.l.Info("logged in successfully")

	cash, err := m.cash(ctx)
	if err != nil {
		return nil, err
	}
	m.l.Info("cash balance retrieved", zap.String("amount", cash.StringFixed(2)))
	assets := []domain.Asset{domain.NewAsset(miBank+" Cash", cash, domain.AssetTypeCash)}

	var holdings []holding
	for _, page := range miProductPages {
		if !m.tracked.HasProductType(page.productType) {
			continue
		}
		m.l.Info("retrieving positions", zap.String("product_type", page.productType.String()))
		h, err := m.positions(ctx, page.url)
		if err != nil {
			return nil, errors.Wrapf(err, "%s positions", page.productType)
		}
		holdings = append(holdings, h...)
	}
	if len(m.tracked) == 0 {
		return assets, nil
	}
	return append(assets, matchHoldings(m.l, miBank, m.tracked, holdings)...), nil
}

func (m *MyInvestor) logIn(ctx context.Context) error {
	if err := m.session.Navigate(ctx, miSignInURL); err != nil {
		return err
	}

	username, err := m.session.FindElement(ctx, miUsernameInput, "Username input not found")
	if err != nil {
		return err
	}
	if err := m.session.SendKeys(ctx, username, m.account.Username); err != nil {
		return err
	}

	password, err := m.session.FindElement(ctx, miPasswordInput, "Password input not found")
	if err != nil {
		return err
	}
	if err := m.session.SendKeys(ctx, password, m.account.Password.Reveal()); err != nil {
		return err
	}

	submit, err := m.session.FindElement(ctx, miSubmitButton, "Login button not found")
	if err != nil {
		return err
	}
	if err := m.session.Click(ctx, submit); err != nil {
		return err
	}

	return verifyLoggedIn(ctx, m.session, miBank, miLoggedInMarker)
}

// cash sums the balances of every account listed on the accounts page.
func (m *MyInvestor) cash(ctx context.Context) (decimal.Decimal, error) {
	if err := m.session.Navigate(ctx, miAccountsURL); err != nil {
		return decimal.Zero, err
	}
	nodes, err := m.session.FindAllElements(ctx, miAccountBalance, "Account balances not found")
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, n := range nodes {
		amount, err := readAmount(ctx, m.session, n)
		if err != nil {
			return decimal.Zero, errors.Wrap(err, "account balance")
		}
		total = total.Add(amount)
	}
	return total, nil
}

func (m *MyInvestor) positions(ctx context.Context, url string) ([]holding, error) {
	if err := m.session.Navigate(ctx, url); err != nil {
		return nil, err
	}
	rows, err := m.session.FindAllElements(ctx, miPortfolioRows, "Positions not found")
	if err != nil {
		return nil, err
	}

	holdings := make([]holding, 0, len(rows))
	for _, row := range rows {
		isinNode, err := m.session.FindElementIn(ctx, row, miRowISIN, "Position ISIN not found")
		if err != nil {
			return nil, err
		}
		text, err := m.session.Text(ctx, isinNode)
		if err != nil {
			return nil, err
		}
		isin, ok := domain.FindISIN(text)
		if !ok {
			m.l.Debug("position without ISIN", zap.String("text", text))
			continue
		}
		if _, tracked := m.tracked.Find(isin); !tracked {
			holdings = append(holdings, holding{ISIN: isin})
			continue
		}

		h := holding{ISIN: isin}
		if nameNode, err := m.session.FindElementIn(ctx, row, miRowName, "Position name not found"); err == nil {
			h.Name, _ = m.session.Text(ctx, nameNode)
		}
		valueNode, err := m.session.FindElementIn(ctx, row, miRowValue, "Position value not found")
		if err != nil {
			return nil, err
		}
		if h.Amount, err = readAmount(ctx, m.session, valueNode); err != nil {
			return nil, errors.Wrapf(err, "value of %s", isin)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}
