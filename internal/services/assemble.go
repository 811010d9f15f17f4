package services

import (
	"fmt"
	"strings"
)

var hourlyColumns = []string{
	"MarketArea", "TradingDate", "DeliveryDate", "TradingModality", "SubModality", "AuctionName", "LastUpdate",
	"Hours", "BuyVolume(MWh)", "SellVolume(MWh)", "Volume(MWh)", "Price(EUR/MWh)",
}

var basePeakColumns = []string{
	"MarketArea", "TradingDate", "DeliveryDate", "TradingModality", "SubModality", "AuctionName", "LastUpdate",
	"Baseload(EUR/MWh)", "Peakload(EUR/MWh)",
}

var continuousColumns = []string{
	"MarketArea", "DeliveryDate", "TradingModality", "Product(min)", "LastUpdate", "Hours",
	"Low(EUR/MWh)", "High(EUR/MWh)", "Last(EUR/MWh)", "WeightAvg(EUR/MWh)",
	"IDFull(EUR/MWh)", "ID1(EUR/MWh)", "ID3(EUR/MWh)",
	"BuyVolume(MWh)", "SellVolume(MWh)", "Volume(MWh)",
	"RPD(GBP/MWh)", "RPD HH(GBP/MWh)",
}

var curveColumns = []string{
	"MarketArea", "TradingDate", "DeliveryDate", "TradingModality", "SubModality", "AuctionName", "LastUpdate",
	"Hours", "Participant", "Volume(MWh)", "Price(EUR/MWh)",
}

func auctionMetaCells(combination Combination, lastUpdate string) []Cell {
	return []Cell{
		TextCell(combination.MarketArea),
		DateCell(combination.TradingDate),
		DateCell(combination.DeliveryDate),
		TextCell(combination.Modality),
		TextCell(combination.SubModality),
		TextCell(combination.Product),
		TextCell(lastUpdate),
	}
}

// AssembleHourlyTable zips hour labels with numeric rows positionally. The
// two sequences are truncated to the shorter one; a mismatch is not an error.
func AssembleHourlyTable(combination Combination, lastUpdate string, hours []string, data [][]float64) (Table, error) {
	count := len(hours)
	if len(data) < count {
		count = len(data)
	}

	rows := make([][]Cell, 0, count)
	for i := 0; i < count; i++ {
		row := append(auctionMetaCells(combination, lastUpdate), TextCell(hours[i]))
		for _, value := range data[i] {
			row = append(row, NumberCell(value))
		}
		if len(row) != len(hourlyColumns) {
			return Table{}, fmt.Errorf("hourly row has %d cells, want %d: %w", len(row), len(hourlyColumns), ErrAssembly)
		}
		rows = append(rows, row)
	}

	table := Table{Columns: append([]string(nil), hourlyColumns...), Rows: rows}
	table.Clean()
	return table, nil
}

func AssembleBasePeakTable(combination Combination, lastUpdate string, baseload Cell, peakload Cell) Table {
	row := append(auctionMetaCells(combination, lastUpdate), baseload, peakload)
	table := Table{Columns: append([]string(nil), basePeakColumns...), Rows: [][]Cell{row}}
	table.Clean()
	return table
}

// ContinuousLayout captures which optional columns the source page rendered,
// computed once per document from the header labels and then consumed by a
// fixed-schema row builder.
type ContinuousLayout struct {
	HasIDFull bool
	HasID1    bool
	HasID3    bool
	HasRPD    bool
}

func DetectContinuousLayout(headers []string) ContinuousLayout {
	var layout ContinuousLayout
	for _, header := range headers {
		lower := strings.ToLower(header)
		if strings.Contains(lower, "id") && strings.Contains(lower, "full") {
			layout.HasIDFull = true
		}
		if strings.Contains(lower, "id") && strings.Contains(lower, "1") {
			layout.HasID1 = true
		}
		if strings.Contains(lower, "id") && strings.Contains(lower, "3") {
			layout.HasID3 = true
		}
		if strings.Contains(lower, "rpd") {
			layout.HasRPD = true
		}
	}
	return layout
}

// AssembleContinuousTable aligns the position-preserving numeric rows to the
// fixed 18-column schema. Columns the page did not render are null-filled;
// the GB regional price differentials land in the trailing RPD columns and
// stay null for every other market. Every value of a source row must be
// consumed, otherwise the page layout does not match the detected one.
func AssembleContinuousTable(combination Combination, lastUpdate string, hours []string, data [][]*float64, layout ContinuousLayout) (Table, error) {
	count := len(hours)
	if len(data) < count {
		count = len(data)
	}

	rows := make([][]Cell, 0, count)
	for i := 0; i < count; i++ {
		values := data[i]
		cursor := 0
		next := func() (Cell, error) {
			if cursor >= len(values) {
				return Cell{}, fmt.Errorf("continuous row %d is short for the detected layout: %w", i, ErrAssembly)
			}
			value := values[cursor]
			cursor++
			if value == nil {
				return Cell{}, nil
			}
			return NumberCell(*value), nil
		}

		row := []Cell{
			TextCell(combination.MarketArea),
			DateCell(combination.DeliveryDate),
			TextCell(combination.Modality),
			TextCell(combination.Product),
			TextCell(lastUpdate),
			TextCell(hours[i]),
		}

		var err error
		cells := make([]Cell, 0, 12)
		take := func(present bool) {
			if err != nil {
				return
			}
			if !present {
				cells = append(cells, Cell{})
				return
			}
			var cell Cell
			cell, err = next()
			cells = append(cells, cell)
		}

		take(true) // Low
		take(true) // High
		take(true) // Last
		take(true) // WeightAvg
		take(layout.HasIDFull)
		take(layout.HasID1 && !layout.HasRPD)
		take(layout.HasID3 && !layout.HasRPD)

		var rpd, rpdHH Cell
		if layout.HasRPD {
			if err == nil {
				rpd, err = next()
			}
			if err == nil {
				rpdHH, err = next()
			}
		}

		take(true) // BuyVolume
		take(true) // SellVolume
		take(true) // Volume
		if err != nil {
			return Table{}, err
		}
		if cursor != len(values) {
			return Table{}, fmt.Errorf("continuous row %d has %d unconsumed values: %w", i, len(values)-cursor, ErrAssembly)
		}

		row = append(row, cells...)
		row = append(row, rpd, rpdHH)
		if len(row) != len(continuousColumns) {
			return Table{}, fmt.Errorf("continuous row has %d cells, want %d: %w", len(row), len(continuousColumns), ErrAssembly)
		}
		rows = append(rows, row)
	}

	table := Table{Columns: append([]string(nil), continuousColumns...), Rows: rows}
	table.Clean()
	return table, nil
}

// AssembleCurvesTable flattens aggregated-curve points into rows. The
// delivery date embedded in each point overwrites the one the combination
// was requested for, because the source occasionally disagrees with the URL.
func AssembleCurvesTable(combination Combination, lastUpdate string, points []CurvePoint) Table {
	rows := make([][]Cell, 0, len(points))
	for _, point := range points {
		row := []Cell{
			TextCell(combination.MarketArea),
			DateCell(combination.TradingDate),
			DateCell(point.DeliveryDate),
			TextCell(combination.Modality),
			TextCell(combination.SubModality),
			TextCell(combination.Product),
			TextCell(lastUpdate),
			TextCell(point.HourRange),
			TextCell(point.Side),
			NumberCell(point.Volume),
			NumberCell(point.Price),
		}
		rows = append(rows, row)
	}

	table := Table{Columns: append([]string(nil), curveColumns...), Rows: rows}
	table.Clean()
	return table
}
