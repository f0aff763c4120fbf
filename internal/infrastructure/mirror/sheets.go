package mirror

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
)

// SheetsMirror rewrites one worksheet of a Google spreadsheet with the
// header row followed by the statistics rows.
type SheetsMirror struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsMirror authenticates with a service-account credentials file.
// Extra options are appended, for endpoints and transports.
func NewSheetsMirror(ctx context.Context, credsPath, spreadsheetID, sheetName string, opts ...option.ClientOption) (*SheetsMirror, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Match Statistics"
	}

	clientOpts := make([]option.ClientOption, 0, len(opts)+1)
	if strings.TrimSpace(credsPath) != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsMirror{
		service:       service,
		spreadsheetID: strings.TrimSpace(spreadsheetID),
		sheetName:     strings.TrimSpace(sheetName),
	}, nil
}

func (m *SheetsMirror) Replace(ctx context.Context, rows []matchstats.SheetRow) error {
	if err := m.ensureSheet(ctx); err != nil {
		return err
	}

	sheetRange := quoteSheetName(m.sheetName)
	if _, err := m.service.Spreadsheets.Values.Clear(m.spreadsheetID, sheetRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %q: %w", m.sheetName, err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toInterfaces(matchstats.SheetHeader))
	for _, row := range rows {
		values = append(values, toInterfaces(row.Values()))
	}

	_, err := m.service.Spreadsheets.Values.
		Update(m.spreadsheetID, sheetRange+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update sheet %q rows=%d: %w", m.sheetName, len(rows), err)
	}
	return nil
}

func (m *SheetsMirror) ensureSheet(ctx context.Context) error {
	spreadsheet, err := m.service.Spreadsheets.Get(m.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == m.sheetName {
			return nil
		}
	}

	_, err = m.service.Spreadsheets.BatchUpdate(m.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: m.sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %q: %w", m.sheetName, err)
	}
	return nil
}

func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
