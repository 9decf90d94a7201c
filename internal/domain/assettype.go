// Package domain defines core data structures shared by scrapers, the aggregator and the sheet updater.
package domain

import "fmt"

// AssetType asset class of the Golden Butterfly portfolio.
type AssetType string

const (
	// AssetTypeCash cash and cash equivalents.
	AssetTypeCash AssetType = "cash"
	// AssetTypeLongTermTreasury long-term government bonds.
	AssetTypeLongTermTreasury AssetType = "long_term_treasury"
	// AssetTypeGold gold.
	AssetTypeGold AssetType = "gold"
	// AssetTypeSmallCap small-cap (value) stocks.
	AssetTypeSmallCap AssetType = "small_cap_stocks"
	// AssetTypeLargeCap large-cap (total market) stocks.
	AssetTypeLargeCap AssetType = "large_cap_stocks"
)

// AssetTypes lists every asset type in portfolio order.
var AssetTypes = []AssetType{
	AssetTypeCash,
	AssetTypeLongTermTreasury,
	AssetTypeGold,
	AssetTypeSmallCap,
	AssetTypeLargeCap,
}

var assetTypeLabels = map[AssetType]string{
	AssetTypeCash:             "Cash",
	AssetTypeLongTermTreasury: "Long-Term Treasury",
	AssetTypeGold:             "Gold",
	AssetTypeSmallCap:         "Small-Cap",
	AssetTypeLargeCap:         "Large-Cap",
}

// String returns the string representation.
func (a AssetType) String() string {
	return string(a)
}

// IsValid checks if the AssetType value is valid.
func (a AssetType) IsValid() bool {
	_, ok := assetTypeLabels[a]
	return ok
}

// Label returns the row label used for this asset type in the portfolio sheet.
func (a AssetType) Label() (string, bool) {
	label, ok := assetTypeLabels[a]
	return label, ok
}

// ParseAssetType converts a configuration value into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	a := AssetType(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown asset type %q", s)
	}
	return a, nil
}

// ProductType kind of financial product a holding is bought as.
type ProductType string

const (
	// ProductTypeETF exchange traded fund.
	ProductTypeETF ProductType = "etf"
	// ProductTypeIndexFund mutual index fund.
	ProductTypeIndexFund ProductType = "index_fund"
)

// String returns the string representation.
func (p ProductType) String() string {
	return string(p)
}

// IsValid checks if the ProductType value is valid.
func (p ProductType) IsValid() bool {
	return p == ProductTypeETF || p == ProductTypeIndexFund
}

// ParseProductType converts a configuration value into a ProductType.
func ParseProductType(s string) (ProductType, error) {
	p := ProductType(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown product type %q", s)
	}
	return p, nil
}
