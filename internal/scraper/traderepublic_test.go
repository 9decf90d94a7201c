package scraper

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/config"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

func trAccount(tracked ...domain.TrackedAsset) config.TradeRepublicAccount {
	return config.TradeRepublicAccount{
		PhoneCountryCode: "+34",
		PhoneNumber:      "600111222",
		PIN:              domain.NewSecret("1234"),
		TrackedAssets:    tracked,
	}
}

// trPortal a logged-in Trade Republic page with one tracked and one untracked instrument.
func trPortal() *fakeSession {
	s := newFakeSession()
	s.add(trCountryCodeButton, 1)
	s.add(`[id="areaCode-+34"]`, 2)
	s.add(trPhoneInput, 3)
	s.add(trSubmitButton, 4)
	s.add(trCodeInputs, 10, 11, 12, 13)
	s.add(trLoggedInMarker, 5)
	s.add(trCashBalance, 6)
	s.text[6] = "2.293,16 €"

	s.add(trInstrumentRows, 20, 21)
	s.addChild(20, trInstrumentLink, 30)
	s.attrs[30] = map[string]string{"href": "/instrument/IE00B4L5Y983"}
	s.addChild(20, trInstrumentName, 31)
	s.text[31] = "Core MSCI World USD (Acc)"
	s.addChild(20, trInstrumentValue, 32)
	s.text[32] = "10.500,00 €"

	s.addChild(21, trInstrumentLink, 33)
	s.attrs[33] = map[string]string{"href": "/instrument/US0378331005"}
	return s
}

func TestTradeRepublic_Assets(t *testing.T) {
	s := trPortal()
	prompter := &mockPrompter{}
	prompter.On("ConfirmationCode", mock.Anything, "Trade Republic").Return("5678", nil).Once()

	tr := NewTradeRepublic(zap.NewNop(), s, prompter, trAccount(domain.TrackedAsset{
		ISIN: "IE00B4L5Y983", ProductType: domain.ProductTypeETF, AssetType: domain.AssetTypeLargeCap,
	}))

	assets := tr.Assets(context.Background())

	require.Len(t, assets, 2)
	assert.Equal(t, "Trade Republic Cash", assets[0].Name)
	assert.Equal(t, domain.AssetTypeCash, assets[0].AssetType)
	assertAmount(t, "2293.16", assets[0].Amount)

	assert.Equal(t, "Trade Republic Core MSCI World USD (Acc)", assets[1].Name)
	assert.Equal(t, domain.AssetTypeLargeCap, assets[1].AssetType)
	assertAmount(t, "10500", assets[1].Amount)

	assert.Equal(t, []string{trLoginURL, trPortfolioURL}, s.navigated)
	assert.Equal(t, "600111222", s.typed[3])
	// PIN digit then confirmation code digit in each input
	assert.Equal(t, "15", s.typed[10])
	assert.Equal(t, "48", s.typed[13])
	assert.Equal(t, "Trade Republic", tr.Name())
	prompter.AssertExpectations(t)
}

func TestTradeRepublic_WithoutTrackedAssetsReadsOnlyCash(t *testing.T) {
	s := trPortal()
	prompter := &mockPrompter{}
	prompter.On("ConfirmationCode", mock.Anything, "Trade Republic").Return("5678", nil)

	assets := NewTradeRepublic(zap.NewNop(), s, prompter, trAccount()).Assets(context.Background())

	require.Len(t, assets, 1)
	assertAmount(t, "2293.16", assets[0].Amount)
	assert.NotContains(t, s.queried, trInstrumentRows)
}

func TestTradeRepublic_MissingLoginMarker(t *testing.T) {
	s := trPortal()
	delete(s.nodes, trLoggedInMarker)
	prompter := &mockPrompter{}
	prompter.On("ConfirmationCode", mock.Anything, "Trade Republic").Return("5678", nil)

	assets := NewTradeRepublic(zap.NewNop(), s, prompter, trAccount()).Assets(context.Background())

	require.NotNil(t, assets)
	assert.Empty(t, assets)
	assert.Equal(t, []string{trLoginURL}, s.navigated)
}

func TestTradeRepublic_PromptFailure(t *testing.T) {
	s := trPortal()
	prompter := &mockPrompter{}
	prompter.On("ConfirmationCode", mock.Anything, "Trade Republic").Return("", errors.New("user aborted"))

	assets := NewTradeRepublic(zap.NewNop(), s, prompter, trAccount()).Assets(context.Background())

	assert.Empty(t, assets)
	// only the PIN was typed
	assert.Equal(t, "1", s.typed[10])
	prompter.AssertExpectations(t)
}

func TestTradeRepublic_NavigationFailure(t *testing.T) {
	s := trPortal()
	s.navErr[trPortfolioURL] = errors.New("net::ERR_CONNECTION_RESET")
	prompter := &mockPrompter{}
	prompter.On("ConfirmationCode", mock.Anything, "Trade Republic").Return("5678", nil)

	assets := NewTradeRepublic(zap.NewNop(), s, prompter, trAccount()).Assets(context.Background())

	assert.Empty(t, assets)
}

func TestTradeRepublic_HoldingFailureSkipsSource(t *testing.T) {
	s := trPortal()
	s.text[32] = "n/a"
	prompter := &mockPrompter{}
	prompter.On("ConfirmationCode", mock.Anything, "Trade Republic").Return("5678", nil)

	assets := NewTradeRepublic(zap.NewNop(), s, prompter, trAccount(domain.TrackedAsset{
		ISIN: "IE00B4L5Y983", ProductType: domain.ProductTypeETF, AssetType: domain.AssetTypeLargeCap,
	})).Assets(context.Background())

	assert.Empty(t, assets)
}

func TestTradeRepublic_PanicIsRecovered(t *testing.T) {
	s := trPortal()
	s.panicOn = trCodeInputs

	assets := NewTradeRepublic(zap.NewNop(), s, &mockPrompter{}, trAccount()).Assets(context.Background())

	require.NotNil(t, assets)
	assert.Empty(t, assets)
}
