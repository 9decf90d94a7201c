// Package sheets writes asset-class totals into the portfolio spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
	valueInputOption    = "USER_ENTERED"
)

// Worksheet a single sheet addressed by 1-based row and column.
type Worksheet interface {
	ColValues(ctx context.Context, col int) ([]string, error)
	UpdateCell(ctx context.Context, row, col int, value any) error
}

// GoogleWorksheet the first worksheet of a spreadsheet found by name in the service account's Drive.
// It connects on first use.
type GoogleWorksheet struct {
	l               *zap.Logger
	credentialsPath string
	spreadsheetName string

	mu            sync.Mutex
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	title         string
}

func NewGoogleWorksheet(l *zap.Logger, credentialsPath, spreadsheetName string) *GoogleWorksheet {
	if l == nil {
		l = zap.NewNop()
	}
	return &GoogleWorksheet{l: l, credentialsPath: credentialsPath, spreadsheetName: spreadsheetName}
}

// ColValues returns the cells of column col from row 1 down to the last non-empty one.
func (w *GoogleWorksheet) ColValues(ctx context.Context, col int) ([]string, error) {
	if err := w.connect(ctx); err != nil {
		return nil, err
	}

	resp, err := w.values.Get(w.spreadsheetID, columnRange(w.title, col)).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read column %s", columnName(col))
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	cells := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		cells[i] = fmt.Sprint(v)
	}
	return cells, nil
}

// UpdateCell writes value as if typed by a user, so formulas are evaluated.
func (w *GoogleWorksheet) UpdateCell(ctx context.Context, row, col int, value any) error {
	if err := w.connect(ctx); err != nil {
		return err
	}

	rng := cellRange(w.title, row, col)
	_, err := w.values.Update(w.spreadsheetID, rng, &sheets.ValueRange{Values: [][]any{{value}}}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "failed to update %s", rng)
	}
	return nil
}

func (w *GoogleWorksheet) connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.values != nil {
		return nil
	}

	w.l.Info("connecting to Google Sheets", zap.String("spreadsheet", w.spreadsheetName))
	opts := []option.ClientOption{
		option.WithCredentialsFile(w.credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveReadonlyScope),
	}

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create Drive client")
	}
	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create Sheets client")
	}

	files, err := driveSvc.Files.List().
		Q(fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(w.spreadsheetName), spreadsheetMimeType)).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrap(err, "failed to search spreadsheet")
	}
	if len(files.Files) == 0 {
		return errors.Errorf("spreadsheet '%s' not found or not shared with the service account", w.spreadsheetName)
	}
	id := files.Files[0].Id

	spreadsheet, err := sheetsSvc.Spreadsheets.Get(id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "failed to open spreadsheet '%s'", w.spreadsheetName)
	}
	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return errors.Errorf("spreadsheet '%s' has no worksheets", w.spreadsheetName)
	}

	w.values = sheetsSvc.Spreadsheets.Values
	w.spreadsheetID = id
	w.title = spreadsheet.Sheets[0].Properties.Title
	w.l.Info("connected to Google Sheets", zap.String("spreadsheet_id", id), zap.String("worksheet", w.title))
	return nil
}

// escapeQuery escapes a string literal for a Drive search query.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
