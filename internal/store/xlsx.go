package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Downloads"

var xlsxHeader = []string{
	"post_id", "original_url", "saved_path", "kind",
	"success", "error", "naming_template", "created_at",
}

// XLSXStore appends one row per record to a workbook created at start time.
type XLSXStore struct {
	path string
	mu   sync.Mutex
}

func NewXLSXStore(dir string) *XLSXStore {
	name := fmt.Sprintf("downloads_%s.xlsx", time.Now().Format("20060102_150405"))
	return &XLSXStore{path: filepath.Join(dir, name)}
}

func (s *XLSXStore) SaveDownload(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, isNew, err := s.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	if isNew {
		if err := writeRow(f, 1, xlsxHeader); err != nil {
			return err
		}
	}
	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		return err
	}
	row := []string{
		rec.PostID, rec.OriginalURL, rec.SavedPath, rec.Kind,
		strconv.FormatBool(rec.Success), rec.Error, rec.NamingTemplate,
		rec.CreatedAt.Format(time.RFC3339),
	}
	if err := writeRow(f, len(rows)+1, row); err != nil {
		return err
	}
	return f.SaveAs(s.path)
}

func (s *XLSXStore) Close() error { return nil }

func (s *XLSXStore) openOrCreate() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		f, err := excelize.OpenFile(s.path)
		return f, false, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, false, err
	}
	f := excelize.NewFile()
	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, false, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")
	return f, true, nil
}

func writeRow(f *excelize.File, rowIdx int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
