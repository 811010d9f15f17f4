package config

import (
	"time"

	"github.com/MaurerErik/power-data-downloader/internal/services"
)

// Default market coverage. Products are archive labels; query-parameter
// cleaning happens at URL construction time, not here.
var dayaheadMarkets = []services.MarketProducts{
	{MarketArea: "AT", Products: []string{"SDAC"}},
	{MarketArea: "BE", Products: []string{"SDAC"}},
	{MarketArea: "DE-LU", Products: []string{"SDAC"}},
	{MarketArea: "DK1", Products: []string{"SDAC"}},
	{MarketArea: "DK2", Products: []string{"SDAC"}},
	{MarketArea: "FI", Products: []string{"SDAC"}},
	{MarketArea: "FR", Products: []string{"SDAC"}},
	{MarketArea: "NL", Products: []string{"SDAC"}},
	{MarketArea: "NO1", Products: []string{"SDAC"}},
	{MarketArea: "NO2", Products: []string{"SDAC"}},
	{MarketArea: "NO3", Products: []string{"SDAC"}},
	{MarketArea: "NO4", Products: []string{"SDAC"}},
	{MarketArea: "NO5", Products: []string{"SDAC"}},
	{MarketArea: "PL", Products: []string{"SDAC"}},
	{MarketArea: "SE1", Products: []string{"SDAC"}},
	{MarketArea: "SE2", Products: []string{"SDAC"}},
	{MarketArea: "SE3", Products: []string{"SDAC"}},
	{MarketArea: "SE4", Products: []string{"SDAC"}},
	{MarketArea: "CH", Products: []string{"CH"}},
	{MarketArea: "GB", Products: []string{"GB DAA 1 (60')", "GB DAA 2 (30')"}},
}

var intradayMarkets = []services.MarketProducts{
	{MarketArea: "AT", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "BE", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "DE-LU", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "DK1", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "DK2", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "FI", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "FR", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "NL", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "NO1", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "NO2", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "NO3", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "NO4", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "NO5", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "PL", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "SE1", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "SE2", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "SE3", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "SE4", Products: []string{"SIDC IDA1", "SIDC IDA2", "SIDC IDA3"}},
	{MarketArea: "CH", Products: []string{"CH-IDA1", "CH-IDA2"}},
	{MarketArea: "GB", Products: []string{"GB-IDA1", "GB-IDA2"}},
}

var continuousMarkets = []services.MarketProducts{
	{MarketArea: "AT", Products: []string{"60", "15"}},
	{MarketArea: "BE", Products: []string{"60", "30", "15"}},
	{MarketArea: "DE", Products: []string{"60", "30", "15"}},
	{MarketArea: "DK1", Products: []string{"60", "15"}},
	{MarketArea: "DK2", Products: []string{"60", "15"}},
	{MarketArea: "FI", Products: []string{"60", "15"}},
	{MarketArea: "FR", Products: []string{"60", "30"}},
	{MarketArea: "NL", Products: []string{"60", "30", "15"}},
	{MarketArea: "NO1", Products: []string{"60"}},
	{MarketArea: "NO2", Products: []string{"60"}},
	{MarketArea: "NO3", Products: []string{"60"}},
	{MarketArea: "NO4", Products: []string{"60"}},
	{MarketArea: "NO5", Products: []string{"60"}},
	{MarketArea: "PL", Products: []string{"60", "15"}},
	{MarketArea: "SE1", Products: []string{"60", "15"}},
	{MarketArea: "SE2", Products: []string{"60", "15"}},
	{MarketArea: "SE3", Products: []string{"60", "15"}},
	{MarketArea: "SE4", Products: []string{"60", "15"}},
	{MarketArea: "CH", Products: []string{"60", "30", "15"}},
	{MarketArea: "GB", Products: []string{"30"}},
}

// Jobs builds the five scheduled harvest passes for a given day. Date
// pairs are reversed to earliest-first so history fills in order.
func Jobs(today time.Time) []services.Job {
	build := func(dataType services.DataType, modality string, subModality string, markets []services.MarketProducts, ledgerFile string) services.Job {
		days := services.RelevantDays(dataType, today)
		dates := make([]services.DatePair, 0, len(days))
		for i := len(days) - 1; i >= 0; i-- {
			dates = append(dates, days[i])
		}

		return services.Job{
			DataType:    dataType,
			Modality:    modality,
			SubModality: subModality,
			Dates:       dates,
			Markets:     markets,
			LedgerFile:  ledgerFile,
		}
	}

	return []services.Job{
		build(services.TypeDayahead, "Auction", "DayAhead", dayaheadMarkets, "dayahead_tracking.csv"),
		build(services.TypeIntraday, "Auction", "Intraday", intradayMarkets, "intraday_tracking.csv"),
		build(services.TypeContinuous, "Continuous", "Intraday", continuousMarkets, "continuous_tracking.csv"),
		build(services.TypeCurvesDayahead, "Auction", "DayAhead", dayaheadMarkets, "aggregated_curves_tracking.csv"),
		build(services.TypeCurvesIntraday, "Auction", "Intraday", intradayMarkets, "aggregated_curves_tracking.csv"),
	}
}
