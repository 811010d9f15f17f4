package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testArchiveService(t *testing.T) (*ArchiveService, string) {
	t.Helper()

	root := t.TempDir()
	service, err := NewArchiveService(root)
	if err != nil {
		t.Fatalf("NewArchiveService: %v", err)
	}

	return service, root
}

func sampleAuctionTable(marketArea string, deliveryDate time.Time) Table {
	return Table{
		Columns: append([]string(nil), hourlyColumns...),
		Rows: [][]Cell{
			{
				TextCell(marketArea),
				DateCell(deliveryDate.AddDate(0, 0, -1)),
				DateCell(deliveryDate),
				TextCell("Auction"),
				TextCell("DayAhead"),
				TextCell("SDAC"),
				TextCell("21/08/2026 14:02:11"),
				TextCell("00 - 01"),
				NumberCell(100),
				NumberCell(90),
				NumberCell(190),
				NumberCell(85.25),
			},
		},
	}
}

func TestArchiveServicePaths(t *testing.T) {
	service, root := testArchiveService(t)

	hourly := service.HourlyPath("DE-LU", TypeDayahead)
	want := filepath.Join(root, "DE-LU", "DE-LU_dayahead_hours_archive.xlsx")
	if hourly != want {
		t.Fatalf("HourlyPath = %q, want %q", hourly, want)
	}

	combined := service.CombinedPath("GB", TypeContinuous)
	want = filepath.Join(root, "GB", "GB_continuous_archive.csv")
	if combined != want {
		t.Fatalf("CombinedPath = %q, want %q", combined, want)
	}
}

func TestArchiveServiceLoadMissingFile(t *testing.T) {
	service, root := testArchiveService(t)

	table, err := service.Load(filepath.Join(root, "absent.csv"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Columns) != 0 || len(table.Rows) != 0 {
		t.Fatalf("table = %+v, want empty", table)
	}
}

func TestArchiveServiceAppendAndLoadCsv(t *testing.T) {
	service, root := testArchiveService(t)
	path := filepath.Join(root, "DE-LU", "archive.csv")
	deliveryDate := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)

	appended, err := service.Append(path, sampleAuctionTable("DE-LU", deliveryDate))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if appended != 1 {
		t.Fatalf("appended = %d, want 1", appended)
	}

	if _, err := service.Append(path, sampleAuctionTable("DE-LU", deliveryDate.AddDate(0, 0, 1))); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	table, err := service.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Columns[0] != "MarketArea" {
		t.Fatalf("first column = %q, want %q", table.Columns[0], "MarketArea")
	}
	if table.Rows[1][2].String() != "2026-08-22" {
		t.Fatalf("delivery date = %q, want %q", table.Rows[1][2].String(), "2026-08-22")
	}
}

func TestArchiveServiceAppendAndLoadXlsx(t *testing.T) {
	service, root := testArchiveService(t)
	path := filepath.Join(root, "DE-LU", "archive.xlsx")
	deliveryDate := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)

	if _, err := service.Append(path, sampleAuctionTable("DE-LU", deliveryDate)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	table, err := service.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	if table.Rows[0][0].String() != "DE-LU" {
		t.Fatalf("market area = %q, want %q", table.Rows[0][0].String(), "DE-LU")
	}
	if table.Rows[0][11].String() != "85.25" {
		t.Fatalf("price = %q, want %q", table.Rows[0][11].String(), "85.25")
	}
}

func TestArchiveServiceAppendRejectsColumnMismatch(t *testing.T) {
	service, root := testArchiveService(t)
	path := filepath.Join(root, "DE-LU", "archive.csv")
	deliveryDate := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)

	if _, err := service.Append(path, sampleAuctionTable("DE-LU", deliveryDate)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	narrow := Table{Columns: []string{"MarketArea"}, Rows: [][]Cell{{TextCell("DE-LU")}}}
	if _, err := service.Append(path, narrow); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Append mismatch = %v, want ErrPersistence", err)
	}
}

func TestArchiveServiceAppendLeavesNoTempFiles(t *testing.T) {
	service, root := testArchiveService(t)
	path := filepath.Join(root, "DE-LU", "archive.csv")
	deliveryDate := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)

	if _, err := service.Append(path, sampleAuctionTable("DE-LU", deliveryDate)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir entries = %d, want 1", len(entries))
	}
	if entries[0].Name() != "archive.csv" {
		t.Fatalf("entry = %q, want %q", entries[0].Name(), "archive.csv")
	}
}

func TestArchiveServiceExistsMatchesWholeKey(t *testing.T) {
	service, root := testArchiveService(t)
	path := filepath.Join(root, "DE-LU", "archive.csv")
	deliveryDate := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)

	if _, err := service.Append(path, sampleAuctionTable("DE-LU", deliveryDate)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	key := []Cell{
		TextCell("DE-LU"),
		DateCell(deliveryDate.AddDate(0, 0, -1)),
		DateCell(deliveryDate),
		TextCell("Auction"),
		TextCell("DayAhead"),
		TextCell("SDAC"),
	}
	present, err := service.Exists(path, key, auctionKeyColumns)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !present {
		t.Fatalf("Exists = false, want true")
	}

	// Same dates and product, different market area.
	other := append([]Cell(nil), key...)
	other[0] = TextCell("FR")
	present, err = service.Exists(path, other, auctionKeyColumns)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if present {
		t.Fatalf("Exists = true for FR, want false")
	}
}

func TestArchiveServiceExistsMissingFile(t *testing.T) {
	service, root := testArchiveService(t)

	present, err := service.Exists(filepath.Join(root, "absent.csv"), []Cell{TextCell("DE-LU")}, []string{"MarketArea"})
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if present {
		t.Fatalf("Exists = true, want false")
	}
}
