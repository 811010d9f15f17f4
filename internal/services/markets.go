package services

import (
	"net/url"
	"strings"
	"time"
)

type DataType string

const (
	TypeDayahead       DataType = "dayahead"
	TypeIntraday       DataType = "intraday"
	TypeContinuous     DataType = "continuous"
	TypeCurvesDayahead DataType = "aggregated_curves_dayahead"
	TypeCurvesIntraday DataType = "aggregated_curves_intraday"
)

func (t DataType) IsAuction() bool {
	return t == TypeDayahead || t == TypeIntraday
}

func (t DataType) IsCurves() bool {
	return t == TypeCurvesDayahead || t == TypeCurvesIntraday
}

func (t DataType) IsDayaheadFamily() bool {
	return t == TypeDayahead || t == TypeCurvesDayahead
}

// Combination is one unit of harvesting work. TradingDate and SubModality are
// unused for continuous trading, where Product is an interval length in
// minutes rather than an auction name.
type Combination struct {
	MarketArea   string
	TradingDate  time.Time
	DeliveryDate time.Time
	Modality     string
	SubModality  string
	Product      string
}

// KeyValues returns the ledger key of the combination in ledger column order.
func (c Combination) KeyValues(dataType DataType) []string {
	if dataType == TypeContinuous {
		return []string{
			c.MarketArea,
			c.DeliveryDate.Format("2006-01-02"),
			c.Modality,
			c.Product,
		}
	}

	return []string{
		c.MarketArea,
		c.TradingDate.Format("2006-01-02"),
		c.DeliveryDate.Format("2006-01-02"),
		c.Modality,
		c.SubModality,
		c.Product,
	}
}

// KeyCells returns the archive key of the combination, matching the metadata
// columns every archived row begins with.
func (c Combination) KeyCells(dataType DataType) []Cell {
	if dataType == TypeContinuous {
		return []Cell{
			TextCell(c.MarketArea),
			DateCell(c.DeliveryDate),
			TextCell(c.Modality),
			TextCell(c.Product),
		}
	}

	return []Cell{
		TextCell(c.MarketArea),
		DateCell(c.TradingDate),
		DateCell(c.DeliveryDate),
		TextCell(c.Modality),
		TextCell(c.SubModality),
		TextCell(c.Product),
	}
}

var auctionKeyColumns = []string{"MarketArea", "TradingDate", "DeliveryDate", "TradingModality", "SubModality", "AuctionName"}
var continuousKeyColumns = []string{"MarketArea", "DeliveryDate", "TradingModality", "Product(min)"}

func KeyColumns(dataType DataType) []string {
	if dataType == TypeContinuous {
		return continuousKeyColumns
	}
	return auctionKeyColumns
}

// Market-specific label quirks live in data, not control flow. Labels without
// an entry pass through unchanged.
var dayaheadQueryLabels = map[string]string{
	"SDAC":           "MRC",
	"GB DAA 1 (60')": "GB",
	"GB DAA 2 (30')": "30-call-GB",
}

var intradayQueryLabels = map[string]string{
	"SIDC IDA1": "IDA1",
	"SIDC IDA2": "IDA2",
	"SIDC IDA3": "IDA3",
}

var queryLabels = map[DataType]map[string]string{
	TypeDayahead:       dayaheadQueryLabels,
	TypeCurvesDayahead: dayaheadQueryLabels,
	TypeIntraday:       intradayQueryLabels,
	TypeCurvesIntraday: intradayQueryLabels,
}

// QueryProduct maps an archive-level product label to the label the results
// site expects in its query string.
func QueryProduct(dataType DataType, label string) string {
	if mapped, ok := queryLabels[dataType][label]; ok {
		return mapped
	}
	return label
}

// QueryMarketArea collapses suffixed GB areas to bare GB for the day-ahead
// family; every other area passes through.
func QueryMarketArea(dataType DataType, area string) string {
	if dataType.IsDayaheadFamily() && strings.Contains(area, "GB") {
		return "GB"
	}
	return area
}

// BuildURL assembles the market-results query for one combination.
func BuildURL(baseURL string, dataType DataType, combination Combination) string {
	values := url.Values{}
	values.Set("market_area", QueryMarketArea(dataType, combination.MarketArea))
	values.Set("underlying_year", "")
	values.Set("delivery_date", combination.DeliveryDate.Format("2006-01-02"))
	values.Set("technology", "")
	values.Set("period", "")
	values.Set("production_period", "")

	if dataType == TypeContinuous {
		values.Set("auction", "")
		values.Set("trading_date", "")
		values.Set("modality", "Continuous")
		values.Set("sub_modality", "")
		values.Set("data_mode", "table")
		values.Set("product", combination.Product)
	} else {
		values.Set("auction", QueryProduct(dataType, combination.Product))
		values.Set("trading_date", combination.TradingDate.Format("2006-01-02"))
		values.Set("modality", "Auction")
		values.Set("sub_modality", combination.SubModality)
		if dataType.IsCurves() {
			values.Set("data_mode", "aggregated")
		} else {
			values.Set("data_mode", "table")
		}
	}

	return baseURL + "?" + values.Encode()
}

type DatePair struct {
	TradingDate  time.Time
	DeliveryDate time.Time
}

// RelevantDays computes the date windows a scheduled run should cover:
// day-ahead trades today for tomorrow and may need the two previous days
// backfilled, intraday trades on the delivery day's eve, and continuous
// results are published for completed delivery days only.
func RelevantDays(dataType DataType, today time.Time) []DatePair {
	day := func(offset int) time.Time {
		return today.AddDate(0, 0, offset)
	}

	switch dataType {
	case TypeDayahead, TypeCurvesDayahead:
		return []DatePair{
			{TradingDate: day(0), DeliveryDate: day(1)},
			{TradingDate: day(-1), DeliveryDate: day(0)},
			{TradingDate: day(-2), DeliveryDate: day(-1)},
		}
	case TypeIntraday, TypeCurvesIntraday:
		return []DatePair{
			{TradingDate: day(-1), DeliveryDate: day(0)},
			{TradingDate: day(-2), DeliveryDate: day(-1)},
			{TradingDate: day(-3), DeliveryDate: day(-2)},
		}
	case TypeContinuous:
		return []DatePair{
			{TradingDate: day(-1), DeliveryDate: day(-1)},
			{TradingDate: day(-2), DeliveryDate: day(-2)},
		}
	default:
		return nil
	}
}
