package scraper

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/internal/browser"
	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

// fakeSession serves a static page: selectors map to nodes, nodes carry text and attributes.
type fakeSession struct {
	nodes    map[string][]*cdp.Node
	children map[cdp.NodeID]map[string]*cdp.Node
	text     map[cdp.NodeID]string
	attrs    map[cdp.NodeID]map[string]string
	navErr   map[string]error
	panicOn  string

	navigated []string
	queried   []string
	clicked   []cdp.NodeID
	typed     map[cdp.NodeID]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		nodes:    map[string][]*cdp.Node{},
		children: map[cdp.NodeID]map[string]*cdp.Node{},
		text:     map[cdp.NodeID]string{},
		attrs:    map[cdp.NodeID]map[string]string{},
		navErr:   map[string]error{},
		typed:    map[cdp.NodeID]string{},
	}
}

func node(id cdp.NodeID) *cdp.Node {
	return &cdp.Node{NodeID: id, NodeName: "DIV"}
}

func (f *fakeSession) add(selector string, ids ...cdp.NodeID) {
	for _, id := range ids {
		f.nodes[selector] = append(f.nodes[selector], node(id))
	}
}

func (f *fakeSession) addChild(parent cdp.NodeID, selector string, id cdp.NodeID) {
	if f.children[parent] == nil {
		f.children[parent] = map[string]*cdp.Node{}
	}
	f.children[parent][selector] = node(id)
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	if err, ok := f.navErr[url]; ok {
		return &browser.NavigationError{URL: url, Err: err}
	}
	return nil
}

func (f *fakeSession) FindElement(ctx context.Context, selector, errMsg string) (*cdp.Node, error) {
	nodes, err := f.FindAllElements(ctx, selector, errMsg)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

func (f *fakeSession) FindElementIn(_ context.Context, parent *cdp.Node, selector, errMsg string) (*cdp.Node, error) {
	if n, ok := f.children[parent.NodeID][selector]; ok {
		return n, nil
	}
	return nil, &browser.ElementNotFoundError{Selector: selector, Message: errMsg}
}

func (f *fakeSession) FindAllElements(_ context.Context, selector, errMsg string) ([]*cdp.Node, error) {
	f.queried = append(f.queried, selector)
	if selector == f.panicOn {
		panic("page crashed")
	}
	nodes, ok := f.nodes[selector]
	if !ok || len(nodes) == 0 {
		return nil, &browser.ElementNotFoundError{Selector: selector, Message: errMsg}
	}
	return nodes, nil
}

func (f *fakeSession) Click(_ context.Context, n *cdp.Node) error {
	f.clicked = append(f.clicked, n.NodeID)
	return nil
}

func (f *fakeSession) SendKeys(_ context.Context, n *cdp.Node, keys string) error {
	f.typed[n.NodeID] += keys
	return nil
}

func (f *fakeSession) Text(_ context.Context, n *cdp.Node) (string, error) {
	return f.text[n.NodeID], nil
}

func (f *fakeSession) Attribute(_ context.Context, n *cdp.Node, name string) (string, error) {
	return f.attrs[n.NodeID][name], nil
}

type mockPrompter struct {
	mock.Mock
}

func (m *mockPrompter) ConfirmationCode(ctx context.Context, bank string) (string, error) {
	args := m.Called(ctx, bank)
	return args.String(0), args.Error(1)
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestCollect_ReturnsAssetsOnSuccess(t *testing.T) {
	want := []domain.Asset{domain.NewAsset("Bank Cash", decimal.NewFromInt(10), domain.AssetTypeCash)}

	got := collect(context.Background(), zap.NewNop(), "Bank", func(context.Context) ([]domain.Asset, error) {
		return want, nil
	})
	assert.Equal(t, want, got)
}

func TestCollect_SwallowsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"login", &LoginError{Bank: "Bank", Reason: "post-login marker not found"}},
		{"navigation", &browser.NavigationError{URL: "https://bank.example", Err: errors.New("net::ERR_NAME_NOT_RESOLVED")}},
		{"element", errors.Wrap(&browser.ElementNotFoundError{Selector: "#x"}, "cash balance")},
		{"cancelled", context.Canceled},
		{"other", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(context.Background(), zap.NewNop(), "Bank", func(context.Context) ([]domain.Asset, error) {
				return []domain.Asset{domain.NewAsset("partial", decimal.NewFromInt(1), domain.AssetTypeCash)}, tt.err
			})
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestCollect_RecoversPanic(t *testing.T) {
	got := collect(context.Background(), zap.NewNop(), "Bank", func(context.Context) ([]domain.Asset, error) {
		panic("unexpected")
	})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoginError(t *testing.T) {
	cause := &browser.ElementNotFoundError{Selector: ".marker"}
	err := error(&LoginError{Bank: "MyInvestor", Reason: "post-login marker not found", Err: cause})

	assert.Contains(t, err.Error(), "MyInvestor login failed: post-login marker not found")

	var notFound *browser.ElementNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestVerifyLoggedIn(t *testing.T) {
	s := newFakeSession()
	s.add(".marker", 1)
	require.NoError(t, verifyLoggedIn(context.Background(), s, "Bank", ".marker"))

	err := verifyLoggedIn(context.Background(), newFakeSession(), "Bank", ".other")
	var loginErr *LoginError
	require.True(t, errors.As(err, &loginErr))
	assert.Equal(t, "Bank", loginErr.Bank)
}

func TestSendDigits(t *testing.T) {
	s := newFakeSession()
	inputs := []*cdp.Node{node(1), node(2), node(3), node(4)}

	require.NoError(t, sendDigits(context.Background(), s, inputs, "1234"))
	assert.Equal(t, "1", s.typed[1])
	assert.Equal(t, "4", s.typed[4])

	err := sendDigits(context.Background(), s, inputs[:2], "1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 inputs, found 2")
}

func TestMatchHoldings(t *testing.T) {
	tracked := domain.NewTrackedAssets([]domain.TrackedAsset{
		{ISIN: "IE00B4L5Y983", ProductType: domain.ProductTypeETF, AssetType: domain.AssetTypeLargeCap},
		{ISIN: "IE00BSPLC413", ProductType: domain.ProductTypeETF, AssetType: domain.AssetTypeSmallCap},
		{ISIN: "IE00B4ND3602", ProductType: domain.ProductTypeETF, AssetType: domain.AssetTypeGold},
	})
	holdings := []holding{
		{ISIN: "IE00B4L5Y983", Name: "MSCI World", Amount: decimal.NewFromInt(1000)},
		{ISIN: "US0378331005", Name: "Apple", Amount: decimal.NewFromInt(500)},
		{ISIN: "IE00BSPLC413", Amount: decimal.NewFromInt(250)},
	}

	assets := matchHoldings(zap.NewNop(), "Bank", tracked, holdings)

	require.Len(t, assets, 2)
	assert.Equal(t, "Bank MSCI World", assets[0].Name)
	assert.Equal(t, domain.AssetTypeLargeCap, assets[0].AssetType)
	assertAmount(t, "1000", assets[0].Amount)
	assert.Equal(t, "Bank IE00BSPLC413", assets[1].Name)
	assert.Equal(t, domain.AssetTypeSmallCap, assets[1].AssetType)
}
