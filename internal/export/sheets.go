// Package export writes monthly breakdown rows to a Google
// spreadsheet, the external consumer the flattened sheet view exists
// for.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
)

// SheetExporter pushes breakdown rows into the N:O columns of the
// configured sheet.
type SheetExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Config locates the target spreadsheet and the service-account
// credentials. Exactly one of CredentialsJSON / CredentialsFile is
// required.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, cfg Config) (*SheetExporter, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Breakdown"
	}

	var credentials []byte
	switch {
	case cfg.CredentialsJSON != "":
		credentials = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = raw
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetExporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// ExportBreakdown writes the rows for one month starting at N1. Amounts
// go out as plain numeric strings so USER_ENTERED parses them as
// numbers.
func (e *SheetExporter) ExportBreakdown(ctx context.Context, month string, rows []core.SheetRow) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{month, ""})
	for _, row := range rows {
		label := row[0]
		value := row[1]
		if d, ok := value.(decimal.Decimal); ok {
			value = d.String()
		}
		values = append(values, []any{label, value})
	}

	rng := fmt.Sprintf("%s!N1:O%d", e.sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}

	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update range %s: %w", rng, err)
	}
	return nil
}
