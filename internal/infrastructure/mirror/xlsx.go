package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
)

// XLSXMirror rewrites a local workbook on every Replace.
type XLSXMirror struct {
	mu        sync.Mutex
	path      string
	sheetName string
}

func NewXLSXMirror(path, sheetName string) (*XLSXMirror, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("xlsx path is required")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Match Statistics"
	}
	return &XLSXMirror{path: strings.TrimSpace(path), sheetName: strings.TrimSpace(sheetName)}, nil
}

func (m *XLSXMirror) Replace(_ context.Context, rows []matchstats.SheetRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(m.sheetName)
	if err != nil {
		return fmt.Errorf("create worksheet %q: %w", m.sheetName, err)
	}
	f.SetActiveSheet(index)
	if m.sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("delete default worksheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := m.writeRow(f, 1, matchstats.SheetHeader); err != nil {
		return err
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(matchstats.SheetHeader), 1)
	if err := f.SetCellStyle(m.sheetName, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}
	for i, row := range rows {
		if err := m.writeRow(f, i+2, row.Values()); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(m.sheetName, "A", "C", 20)
	_ = f.SetColWidth(m.sheetName, "D", "F", 14)
	_ = f.SetColWidth(m.sheetName, "G", "H", 18)

	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workbook dir: %w", err)
		}
	}
	ext := filepath.Ext(m.path)
	tmp := strings.TrimSuffix(m.path, ext) + ".tmp" + ext
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace workbook %s: %w", m.path, err)
	}
	return nil
}

func (m *XLSXMirror) writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name row=%d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(m.sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
