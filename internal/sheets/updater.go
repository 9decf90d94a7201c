package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/goldenbutterfly/internal/domain"
	"github.com/vadiminshakov/goldenbutterfly/internal/portfolio"
)

const (
	labelColumn     = 1
	deductionColumn = 2
	valueColumn     = 3
)

// DeductionLabels rows whose column 2 amounts are subtracted from the cash total.
var DeductionLabels = []string{"Emergency Fund", "Short-Term Expenses"}

// Updater writes asset-class totals next to their labels in a worksheet.
type Updater struct {
	l  *zap.Logger
	ws Worksheet
}

func NewUpdater(l *zap.Logger, ws Worksheet) *Updater {
	if l == nil {
		l = zap.NewNop()
	}
	return &Updater{l: l, ws: ws}
}

// UpdatePortfolio aggregates assets by type and writes each total into the row labelled for its type.
// The cash row gets a formula subtracting the deduction rows when any of them exists.
// Missing labels and failed rows are logged and skipped; only failing to read the labels is returned.
func (u *Updater) UpdatePortfolio(ctx context.Context, assets []domain.Asset) error {
	totals := portfolio.Aggregate(assets)

	labels, err := u.ws.ColValues(ctx, labelColumn)
	if err != nil {
		return errors.Wrap(err, "failed to read row labels")
	}
	rows := labelRows(labels)

	var deductionRows []int
	for _, label := range DeductionLabels {
		row, ok := rows[label]
		if !ok {
			u.l.Warn("deduction label not found", zap.String("label", label))
			continue
		}
		deductionRows = append(deductionRows, row)
	}

	updated := 0
	for _, assetType := range totals.Types() {
		label, ok := assetType.Label()
		if !ok {
			u.l.Warn("no label for asset type", zap.String("asset_type", assetType.String()))
			continue
		}
		row, ok := rows[label]
		if !ok {
			u.l.Warn("asset label not found", zap.String("label", label))
			continue
		}

		total := totals.Get(assetType)
		var value any = total.InexactFloat64()
		if assetType == domain.AssetTypeCash && len(deductionRows) > 0 {
			value = cashFormula(total, deductionRows)
		}

		if err := u.ws.UpdateCell(ctx, row, valueColumn, value); err != nil {
			u.l.Error("failed to update row", zap.String("label", label), zap.Int("row", row), zap.Error(err))
			continue
		}
		u.l.Info("row updated",
			zap.String("label", label),
			zap.Int("row", row),
			zap.String("total", total.StringFixed(2)),
			zap.Any("value", value))
		updated++
	}

	u.l.Info("spreadsheet updated", zap.Int("rows_updated", updated))
	return nil
}

// labelRows maps each label to the 1-based row of its first occurrence.
func labelRows(labels []string) map[string]int {
	rows := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, ok := rows[label]; !ok && label != "" {
			rows[label] = i + 1
		}
	}
	return rows
}

// cashFormula e.g. "=1500.5 - B10 - B11".
func cashFormula(total decimal.Decimal, deductionRows []int) string {
	var b strings.Builder
	b.WriteString("=" + total.String())
	for _, row := range deductionRows {
		fmt.Fprintf(&b, " - %s%d", columnName(deductionColumn), row)
	}
	return b.String()
}
