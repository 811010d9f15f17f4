package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const archiveSheetName = "Sheet1"

// ArchiveService owns the on-disk archive state: per-market-area directories
// under a root, one file per (market area, data type, sub-table). Auction
// archives are spreadsheets, continuous and curve archives are CSV; the
// codec follows the file extension.
type ArchiveService struct {
	root string
}

func NewArchiveService(root string) (*ArchiveService, error) {
	if root == "" {
		return nil, errors.New("archive root is empty")
	}

	return &ArchiveService{root: root}, nil
}

// HourlyPath and the other path helpers define the archive layout. Callers
// never write archive files themselves.
func (s *ArchiveService) HourlyPath(marketArea string, dataType DataType) string {
	return filepath.Join(s.root, marketArea, fmt.Sprintf("%s_%s_hours_archive.xlsx", marketArea, dataType))
}

func (s *ArchiveService) BasePeakPath(marketArea string, dataType DataType) string {
	return filepath.Join(s.root, marketArea, fmt.Sprintf("%s_%s_base_peak_archive.xlsx", marketArea, dataType))
}

func (s *ArchiveService) CombinedPath(marketArea string, dataType DataType) string {
	return filepath.Join(s.root, marketArea, fmt.Sprintf("%s_%s_archive.csv", marketArea, dataType))
}

// Load reads an archive file into a table of raw string cells. A missing
// file yields an empty table, not an error.
func (s *ArchiveService) Load(path string) (Table, error) {
	if s == nil {
		return Table{}, errors.New("archive service is nil")
	}
	if path == "" {
		return Table{}, errors.New("archive path is empty")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Table{}, nil
	}

	var records [][]string
	var err error
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		records, err = readXlsx(path)
	} else {
		records, err = readCsv(path)
	}
	if err != nil {
		return Table{}, fmt.Errorf("load archive %s: %v: %w", path, err, ErrPersistence)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	table := Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make([]Cell, 0, len(record))
		for _, value := range record {
			if value == "" {
				row = append(row, Cell{})
				continue
			}
			row = append(row, TextCell(value))
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Exists projects the archive to matchColumns, deduplicates and reports
// whether a row equal to the key is present. Dates compare at day
// granularity through their canonical string form.
func (s *ArchiveService) Exists(path string, key []Cell, matchColumns []string) (bool, error) {
	if s == nil {
		return false, errors.New("archive service is nil")
	}
	if len(key) != len(matchColumns) {
		return false, fmt.Errorf("key has %d values for %d match columns", len(key), len(matchColumns))
	}

	archive, err := s.Load(path)
	if err != nil {
		return false, err
	}
	if len(archive.Rows) == 0 {
		return false, nil
	}

	projected, err := archive.Project(matchColumns)
	if err != nil {
		return false, fmt.Errorf("project archive %s: %w", path, err)
	}

	wanted := make([]string, 0, len(key))
	for _, cell := range key {
		wanted = append(wanted, cell.String())
	}
	wantedKey := CombinationKey(wanted)

	seen := map[string]bool{}
	for _, row := range projected {
		seen[CombinationKey(row)] = true
	}

	return seen[wantedKey], nil
}

// Append merges new rows into the archive and rewrites the file atomically:
// the full content goes to a temp file in the same directory which then
// replaces the archive, so readers never observe a partial write.
func (s *ArchiveService) Append(path string, table Table) (int, error) {
	if s == nil {
		return 0, errors.New("archive service is nil")
	}
	if len(table.Rows) == 0 {
		return 0, fmt.Errorf("no rows to append: %w", ErrPersistence)
	}

	existing, err := s.Load(path)
	if err != nil {
		return 0, err
	}

	columns := table.Columns
	if len(existing.Columns) > 0 {
		if len(existing.Columns) != len(table.Columns) {
			return 0, fmt.Errorf("archive %s has %d columns, new rows have %d: %w", path, len(existing.Columns), len(table.Columns), ErrPersistence)
		}
		columns = existing.Columns
	}

	records := make([][]string, 0, len(existing.Rows)+len(table.Rows)+1)
	records = append(records, columns)
	for _, row := range existing.Rows {
		records = append(records, rowStrings(row, len(columns)))
	}
	for _, row := range table.Rows {
		records = append(records, rowStrings(row, len(columns)))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create archive dir: %v: %w", err, ErrPersistence)
	}

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		err = writeFileAtomic(path, ".xlsx", func(tmp string) error {
			return writeXlsx(tmp, records)
		})
	} else {
		err = writeFileAtomic(path, ".csv", func(tmp string) error {
			return writeCsv(tmp, records)
		})
	}
	if err != nil {
		return 0, fmt.Errorf("write archive %s: %v: %w", path, err, ErrPersistence)
	}

	return len(table.Rows), nil
}

func rowStrings(row []Cell, length int) []string {
	values := make([]string, length)
	for i := 0; i < length && i < len(row); i++ {
		values[i] = row[i].String()
	}
	return values
}

func writeFileAtomic(path string, suffix string, write func(tmp string) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*"+suffix)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := write(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace file: %w", err)
	}

	return nil
}

func readCsv(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, readErr := reader.ReadAll()
	closeErr := file.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read csv: %w", readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close csv: %w", closeErr)
	}

	return records, nil
}

func writeCsv(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}

	writer := csv.NewWriter(file)
	writeErr := writer.WriteAll(records)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write csv: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close csv: %w", closeErr)
	}

	return nil
}

func readXlsx(path string) ([][]string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		closeErr := workbook.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("close workbook: %w", closeErr)
		}
		return nil, errors.New("workbook has no sheets")
	}

	rows, rowsErr := workbook.GetRows(sheets[0])
	closeErr := workbook.Close()
	if rowsErr != nil {
		return nil, fmt.Errorf("get rows for %s: %w", sheets[0], rowsErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close workbook: %w", closeErr)
	}

	return rows, nil
}

func writeXlsx(path string, records [][]string) error {
	workbook := excelize.NewFile()

	for i, record := range records {
		values := make([]interface{}, len(record))
		for j, value := range record {
			values[j] = value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("build cell name: %w", err)
		}
		if err := workbook.SetSheetRow(archiveSheetName, cell, &values); err != nil {
			return fmt.Errorf("set sheet row: %w", err)
		}
	}

	if err := workbook.SaveAs(path); err != nil {
		closeErr := workbook.Close()
		if closeErr != nil {
			return fmt.Errorf("close workbook: %w", closeErr)
		}
		return fmt.Errorf("save workbook: %w", err)
	}

	return workbook.Close()
}
