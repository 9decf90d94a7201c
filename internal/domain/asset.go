package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset a balance or holding found on a bank site.
type Asset struct {
	Name      string
	Amount    decimal.Decimal
	AssetType AssetType
}

// NewAsset creates an Asset.
func NewAsset(name string, amount decimal.Decimal, assetType AssetType) Asset {
	return Asset{Name: name, Amount: amount, AssetType: assetType}
}

// String returns the string representation.
func (a Asset) String() string {
	return fmt.Sprintf("%s (%s): %s", a.Name, a.AssetType, a.Amount.StringFixed(2))
}

// TrackedAsset declares a holding to look for on a brokerage site.
type TrackedAsset struct {
	ISIN        string      `yaml:"isin"`
	ProductType ProductType `yaml:"product_type"`
	AssetType   AssetType   `yaml:"asset_type"`
}

// TrackedAssets is a lookup of tracked assets by ISIN.
type TrackedAssets map[string]TrackedAsset

// NewTrackedAssets indexes the given tracked assets by ISIN.
func NewTrackedAssets(assets []TrackedAsset) TrackedAssets {
	t := make(TrackedAssets, len(assets))
	for _, a := range assets {
		t[a.ISIN] = a
	}
	return t
}

// Find returns the tracked asset for the given ISIN.
func (t TrackedAssets) Find(isin string) (TrackedAsset, bool) {
	a, ok := t[isin]
	return a, ok
}

// HasProductType reports whether any tracked asset is of the given product type.
func (t TrackedAssets) HasProductType(p ProductType) bool {
	for _, a := range t {
		if a.ProductType == p {
			return true
		}
	}
	return false
}
