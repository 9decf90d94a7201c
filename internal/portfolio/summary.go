package portfolio

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
)

const currency = money.EUR

// TargetShare Golden Butterfly target share of every asset class, in percent.
var TargetShare = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// Allocation one asset class of the summary. Share and Deviation are percentages.
type Allocation struct {
	AssetType domain.AssetType
	Amount    decimal.Decimal
	Share     decimal.Decimal
	Deviation decimal.Decimal
}

// Summary allocation of the portfolio against the Golden Butterfly targets.
type Summary struct {
	Allocations []Allocation
	Total       decimal.Decimal
}

// Summarize computes every asset class's share of the total and its deviation from TargetShare.
// All asset classes are listed, missing ones with a zero amount.
func Summarize(t Totals) Summary {
	s := Summary{Total: t.Sum(), Allocations: make([]Allocation, 0, len(domain.AssetTypes))}
	for _, assetType := range domain.AssetTypes {
		amount := t.Get(assetType)
		share := decimal.Zero
		if !s.Total.IsZero() {
			share = amount.Mul(hundred).Div(s.Total)
		}
		s.Allocations = append(s.Allocations, Allocation{
			AssetType: assetType,
			Amount:    amount,
			Share:     share,
			Deviation: share.Sub(TargetShare),
		})
	}
	return s
}

// Markdown renders the summary as a markdown table.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# Golden Butterfly allocation\n\n")
	b.WriteString("| Asset class | Amount | Share | Deviation |\n")
	b.WriteString("|---|--:|--:|--:|\n")
	for _, a := range s.Allocations {
		label, _ := a.AssetType.Label()
		fmt.Fprintf(&b, "| %s | %s | %s%% | %s%% |\n",
			label, FormatEUR(a.Amount), a.Share.StringFixed(2), signed(a.Deviation.Round(2)))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** | 100.00%% | |\n", FormatEUR(s.Total))
	return b.String()
}

// Render writes the summary to w styled for the terminal.
func (s Summary) Render(w io.Writer) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return errors.Wrap(err, "failed to create markdown renderer")
	}
	out, err := r.Render(s.Markdown())
	if err != nil {
		return errors.Wrap(err, "failed to render summary")
	}
	_, err = io.WriteString(w, out)
	return err
}

// FormatEUR formats amount as euros, rounded to cents.
func FormatEUR(amount decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	cents := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(cents.IntPart(), currency).Display()
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
