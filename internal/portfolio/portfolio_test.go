package portfolio

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregate(t *testing.T) {
	assets := []domain.Asset{
		domain.NewAsset("Trade Republic Cash", d("100.50"), domain.AssetTypeCash),
		domain.NewAsset("MSCI World", d("1000"), domain.AssetTypeLargeCap),
		domain.NewAsset("MyInvestor Cash", d("200.25"), domain.AssetTypeCash),
	}

	totals := Aggregate(assets)

	assert.True(t, d("300.75").Equal(totals.Get(domain.AssetTypeCash)))
	assert.True(t, d("1000").Equal(totals.Get(domain.AssetTypeLargeCap)))
	assert.True(t, totals.Get(domain.AssetTypeGold).IsZero())
	assert.True(t, d("1300.75").Equal(totals.Sum()))
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := domain.NewAsset("a", d("1.10"), domain.AssetTypeGold)
	b := domain.NewAsset("b", d("2.20"), domain.AssetTypeGold)

	forward := Aggregate([]domain.Asset{a, b})
	backward := Aggregate([]domain.Asset{b, a})

	assert.True(t, d("3.30").Equal(forward.Get(domain.AssetTypeGold)))
	assert.True(t, forward.Get(domain.AssetTypeGold).Equal(backward.Get(domain.AssetTypeGold)))
}

func TestAggregate_Empty(t *testing.T) {
	totals := Aggregate(nil)

	assert.Empty(t, totals.Types())
	assert.True(t, totals.Sum().IsZero())
}

func TestTotals_TypesInPortfolioOrder(t *testing.T) {
	totals := Aggregate([]domain.Asset{
		domain.NewAsset("x", d("1"), domain.AssetTypeLargeCap),
		domain.NewAsset("y", d("1"), domain.AssetTypeCash),
		domain.NewAsset("z", d("1"), domain.AssetTypeGold),
	})

	assert.Equal(t, []domain.AssetType{domain.AssetTypeCash, domain.AssetTypeGold, domain.AssetTypeLargeCap}, totals.Types())
}

func TestSummarize(t *testing.T) {
	totals := Totals{
		domain.AssetTypeCash:             d("100"),
		domain.AssetTypeLongTermTreasury: d("200"),
		domain.AssetTypeGold:             d("300"),
		domain.AssetTypeLargeCap:         d("400"),
	}

	s := Summarize(totals)

	require.Len(t, s.Allocations, len(domain.AssetTypes))
	assert.True(t, d("1000").Equal(s.Total))

	want := map[domain.AssetType]struct{ share, deviation string }{
		domain.AssetTypeCash:             {"10", "-10"},
		domain.AssetTypeLongTermTreasury: {"20", "0"},
		domain.AssetTypeGold:             {"30", "10"},
		domain.AssetTypeSmallCap:         {"0", "-20"},
		domain.AssetTypeLargeCap:         {"40", "20"},
	}
	sum := decimal.Zero
	for i, a := range s.Allocations {
		assert.Equal(t, domain.AssetTypes[i], a.AssetType)
		w := want[a.AssetType]
		assert.True(t, d(w.share).Equal(a.Share), "%s share %s", a.AssetType, a.Share)
		assert.True(t, d(w.deviation).Equal(a.Deviation), "%s deviation %s", a.AssetType, a.Deviation)
		sum = sum.Add(a.Share)
	}
	assert.True(t, hundred.Equal(sum))
}

func TestSummarize_ZeroTotal(t *testing.T) {
	s := Summarize(Totals{})

	for _, a := range s.Allocations {
		assert.True(t, a.Share.IsZero())
		assert.True(t, d("-20").Equal(a.Deviation))
	}
}

func TestSummary_Markdown(t *testing.T) {
	s := Summarize(Totals{domain.AssetTypeCash: d("1500"), domain.AssetTypeGold: d("500")})

	md := s.Markdown()

	assert.Contains(t, md, "| Cash | ")
	assert.Contains(t, md, "| 75.00% | +55.00% |")
	assert.Contains(t, md, "| Small-Cap | ")
	assert.Contains(t, md, "| 0.00% | -20.00% |")
	assert.Contains(t, md, "**Total**")
}

func TestSummary_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summarize(Totals{domain.AssetTypeCash: d("10")}).Render(&buf))
	assert.Contains(t, buf.String(), "Long-Term Treasury")
}

func TestFormatEUR(t *testing.T) {
	assert.Contains(t, FormatEUR(d("1234.567")), "1,234.57")
	assert.Contains(t, FormatEUR(d("0")), "0.00")
	assert.Contains(t, FormatEUR(d("10")), "€")
}
