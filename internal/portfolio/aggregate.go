// Package portfolio sums scraped assets per asset class and reports the allocation.
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

// Totals sum of asset amounts per asset type.
type Totals map[domain.AssetType]decimal.Decimal

// Aggregate sums amounts by asset type. The order of assets does not matter.
func Aggregate(assets []domain.Asset) Totals {
	totals := make(Totals, len(domain.AssetTypes))
	for _, a := range assets {
		totals[a.AssetType] = totals.Get(a.AssetType).Add(a.Amount)
	}
	return totals
}

// Get returns the total for assetType, zero when no asset of that type was found.
func (t Totals) Get(assetType domain.AssetType) decimal.Decimal {
	if v, ok := t[assetType]; ok {
		return v
	}
	return decimal.Zero
}

// Types returns the asset types present in t in portfolio order.
func (t Totals) Types() []domain.AssetType {
	types := make([]domain.AssetType, 0, len(t))
	for _, a := range domain.AssetTypes {
		if _, ok := t[a]; ok {
			types = append(types, a)
		}
	}
	return types
}

// Sum returns the portfolio total.
func (t Totals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t {
		sum = sum.Add(v)
	}
	return sum
}
