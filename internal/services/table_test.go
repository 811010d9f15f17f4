package services

import (
	"testing"
	"time"
)

func TestCellString(t *testing.T) {
	if got := TextCell("SDAC").String(); got != "SDAC" {
		t.Fatalf("text cell = %q, want %q", got, "SDAC")
	}
	if got := NumberCell(1250.5).String(); got != "1250.5" {
		t.Fatalf("number cell = %q, want %q", got, "1250.5")
	}
	if got := NumberCell(900).String(); got != "900" {
		t.Fatalf("number cell = %q, want %q", got, "900")
	}
	date := time.Date(2026, time.August, 21, 13, 45, 0, 0, time.UTC)
	if got := DateCell(date).String(); got != "2026-08-21" {
		t.Fatalf("date cell = %q, want %q", got, "2026-08-21")
	}
	if got := (Cell{}).String(); got != "" {
		t.Fatalf("empty cell = %q, want empty", got)
	}
}

func TestTableClean(t *testing.T) {
	table := Table{
		Columns: []string{" MarketArea ", "DeliveryDate"},
		Rows: [][]Cell{
			{TextCell("  FR "), DateCell(time.Date(2026, time.August, 21, 23, 59, 0, 0, time.UTC))},
		},
	}

	table.Clean()

	if table.Columns[0] != "MarketArea" {
		t.Fatalf("column = %q, want %q", table.Columns[0], "MarketArea")
	}
	if table.Rows[0][0].Text != "FR" {
		t.Fatalf("text = %q, want %q", table.Rows[0][0].Text, "FR")
	}
	want := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)
	if !table.Rows[0][1].Date.Equal(want) {
		t.Fatalf("date = %v, want %v", table.Rows[0][1].Date, want)
	}
}

func TestTableIsPlausible(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  bool
	}{
		{
			name:  "no rows",
			table: Table{Columns: []string{"A"}},
			want:  false,
		},
		{
			name:  "no columns",
			table: Table{Rows: [][]Cell{{TextCell("x")}}},
			want:  false,
		},
		{
			name: "full column missing",
			table: Table{
				Columns: []string{"A", "B"},
				Rows: [][]Cell{
					{TextCell("x"), {}},
					{TextCell("y"), {}},
				},
			},
			want: false,
		},
		{
			name: "sparse but covered",
			table: Table{
				Columns: []string{"A", "B"},
				Rows: [][]Cell{
					{TextCell("x"), {}},
					{{}, NumberCell(1)},
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		if got := tt.table.IsPlausible(); got != tt.want {
			t.Fatalf("%s: IsPlausible = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTableProject(t *testing.T) {
	table := Table{
		Columns: []string{"MarketArea", "DeliveryDate", "Price"},
		Rows: [][]Cell{
			{TextCell("DE-LU"), DateCell(time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)), NumberCell(85.25)},
			{TextCell("FR"), DateCell(time.Date(2026, time.August, 22, 0, 0, 0, 0, time.UTC)), NumberCell(90)},
		},
	}

	projected, err := table.Project([]string{"MarketArea", "DeliveryDate"})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(projected) != 2 {
		t.Fatalf("projected length = %d, want 2", len(projected))
	}
	if projected[0][0] != "DE-LU" || projected[0][1] != "2026-08-21" {
		t.Fatalf("projected[0] = %v", projected[0])
	}

	if _, err := table.Project([]string{"Unknown"}); err == nil {
		t.Fatalf("Project unknown column: expected error")
	}
}
