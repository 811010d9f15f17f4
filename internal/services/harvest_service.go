package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

type MarketProducts struct {
	MarketArea string
	Products   []string
}

// Job is one harvest pass: a data type with its date pairs, market areas
// and per-area product lists. Dates are expected earliest-first so older
// results land in the archives before newer ones.
type Job struct {
	DataType    DataType
	Modality    string
	SubModality string
	Dates       []DatePair
	Markets     []MarketProducts
	LedgerFile  string
}

type RunSummary struct {
	DataType   DataType
	StartedAt  time.Time
	FinishedAt time.Time
	Attempted  int
	Skipped    int
	Archived   int
	Errors     int
}

type HarvestService struct {
	pageService PageFetcher
	archive     ArchiveStore
	ledger      LedgerStore
	logService  LogWriter
	baseURL     string
	limiter     *rate.Limiter
	now         func() time.Time
}

func NewHarvestService(pageService PageFetcher, archive ArchiveStore, ledger LedgerStore, logService LogWriter, baseURL string, pace time.Duration) (*HarvestService, error) {
	if pageService == nil {
		return nil, errors.New("page service is nil")
	}
	if archive == nil {
		return nil, errors.New("archive store is nil")
	}
	if ledger == nil {
		return nil, errors.New("ledger store is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}
	if baseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if pace <= 0 {
		return nil, errors.New("pace must be positive")
	}

	return &HarvestService{
		pageService: pageService,
		archive:     archive,
		ledger:      ledger,
		logService:  logService,
		baseURL:     baseURL,
		limiter:     rate.NewLimiter(rate.Every(pace), 1),
		now:         time.Now,
	}, nil
}

// Run walks the full combination grid of the job, one combination at a
// time: skip check, fetch, extract, validate, append, ledger entry. A
// failing combination is recorded and the loop moves on; only a cancelled
// context or an unreadable ledger stops the run.
func (s *HarvestService) Run(ctx context.Context, job Job) (RunSummary, error) {
	if s == nil {
		return RunSummary{}, errors.New("harvest service is nil")
	}
	if job.DataType == "" {
		return RunSummary{}, errors.New("data type is empty")
	}
	if job.LedgerFile == "" {
		return RunSummary{}, errors.New("ledger file is empty")
	}

	summary := RunSummary{DataType: job.DataType, StartedAt: s.now().UTC()}
	eventID := uuid.NewString()

	ledgerPath := s.ledger.Path(job.LedgerFile)
	successful, err := s.ledger.LoadSuccessfulCombinations(ledgerPath, KeyColumns(job.DataType))
	if err != nil {
		failMsg := fmt.Sprintf("load ledger %s: %v", ledgerPath, err)
		_ = s.logService.CreateLog(ctx, &eventID, LogActionLedgerWrite, LogOutcomeFail, &failMsg)
		return summary, fmt.Errorf("load ledger: %w", err)
	}

	for _, dates := range job.Dates {
		for _, market := range job.Markets {
			for _, product := range market.Products {
				combination := Combination{
					MarketArea:   market.MarketArea,
					TradingDate:  dates.TradingDate,
					DeliveryDate: dates.DeliveryDate,
					Modality:     job.Modality,
					SubModality:  job.SubModality,
					Product:      product,
				}

				skip, err := s.skippable(combination, job.DataType, successful)
				if err != nil {
					failMsg := fmt.Sprintf("existence check for %s %s: %v", combination.MarketArea, product, err)
					_ = s.logService.CreateLog(ctx, &eventID, LogActionArchiveWrite, LogOutcomeFail, &failMsg)
				}
				if skip {
					summary.Skipped++
					continue
				}

				if err := s.limiter.Wait(ctx); err != nil {
					summary.FinishedAt = s.now().UTC()
					return summary, fmt.Errorf("pace wait: %w", err)
				}

				summary.Attempted++
				accessTime := s.now().UTC()
				outcome := s.attempt(ctx, job.DataType, combination, &eventID)

				switch outcome.Kind {
				case OutcomeSuccess:
					summary.Archived++
					successMsg := fmt.Sprintf("%s %s %s: %d rows archived", job.DataType, combination.MarketArea, combination.DeliveryDate.Format("2006-01-02"), outcome.Rows)
					_ = s.logService.CreateLog(ctx, &eventID, LogActionArchiveWrite, LogOutcomeSuccess, &successMsg)
				case OutcomeError:
					summary.Errors++
					failMsg := fmt.Sprintf("%s %s %s: %s", job.DataType, combination.MarketArea, combination.DeliveryDate.Format("2006-01-02"), outcome.Reason)
					_ = s.logService.CreateLog(ctx, &eventID, LogActionExtraction, LogOutcomeFail, &failMsg)
				}

				entry := append(combination.KeyValues(job.DataType), accessTime.Format(time.RFC3339), outcome.String())
				if err := s.ledger.Record(ledgerPath, LedgerHeader(job.DataType), entry); err != nil {
					failMsg := fmt.Sprintf("record ledger entry: %v", err)
					_ = s.logService.CreateLog(ctx, &eventID, LogActionLedgerWrite, LogOutcomeFail, &failMsg)
				}
			}
		}
	}

	summary.FinishedAt = s.now().UTC()
	runMsg := fmt.Sprintf("%s run finished: attempted=%d skipped=%d archived=%d errors=%d", job.DataType, summary.Attempted, summary.Skipped, summary.Archived, summary.Errors)
	_ = s.logService.CreateLog(ctx, &eventID, LogActionHarvestRun, LogOutcomeSuccess, &runMsg)

	return summary, nil
}

// skippable reports whether the combination was already ingested: either
// the ledger remembers a non-error attempt, or every archive of the data
// type family already contains the key.
func (s *HarvestService) skippable(combination Combination, dataType DataType, successful map[string]bool) (bool, error) {
	if successful[CombinationKey(combination.KeyValues(dataType))] {
		return true, nil
	}

	key := combination.KeyCells(dataType)
	columns := KeyColumns(dataType)
	for _, path := range s.archivePaths(combination.MarketArea, dataType) {
		present, err := s.archive.Exists(path, key, columns)
		if err != nil {
			return false, err
		}
		if !present {
			return false, nil
		}
	}

	return true, nil
}

func (s *HarvestService) archivePaths(marketArea string, dataType DataType) []string {
	if dataType.IsAuction() {
		return []string{
			s.archive.HourlyPath(marketArea, dataType),
			s.archive.BasePeakPath(marketArea, dataType),
		}
	}

	return []string{s.archive.CombinedPath(marketArea, dataType)}
}

// attempt runs fetch through archive append for one combination and folds
// any failure into an error outcome. The first failing stage wins; later
// stages are not evaluated.
func (s *HarvestService) attempt(ctx context.Context, dataType DataType, combination Combination, eventID *string) Outcome {
	url := BuildURL(s.baseURL, dataType, combination)

	doc, err := s.pageService.Fetch(ctx, url)
	if err != nil {
		failMsg := fmt.Sprintf("fetch %s: %v", url, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionPageFetch, LogOutcomeFail, &failMsg)
		return ErrorOutcome(fmt.Sprintf("fetch: %v", err))
	}

	lastUpdate, err := ExtractLastUpdate(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("last update: %v", err))
	}
	if len(lastUpdate) < 10 {
		return ErrorOutcome(fmt.Sprintf("last update %q is implausibly short: %v", lastUpdate, ErrValidation))
	}

	switch {
	case dataType.IsAuction():
		return s.attemptAuction(dataType, combination, doc, lastUpdate)
	case dataType == TypeContinuous:
		return s.attemptContinuous(combination, doc, lastUpdate)
	default:
		return s.attemptCurves(dataType, combination, doc, lastUpdate)
	}
}

func (s *HarvestService) attemptAuction(dataType DataType, combination Combination, doc *html.Node, lastUpdate string) Outcome {
	hours, err := ExtractHours(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("hours: %v", err))
	}
	if len(hours) == 0 {
		return ErrorOutcome(fmt.Sprintf("no hour labels: %v", ErrValidation))
	}
	if len(hours[0]) < 2 {
		return ErrorOutcome(fmt.Sprintf("hour label %q is implausibly short: %v", hours[0], ErrValidation))
	}

	data, err := ExtractNumericTable(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("volume and price data: %v", err))
	}
	if len(data) == 0 {
		return ErrorOutcome(fmt.Sprintf("no volume and price rows: %v", ErrValidation))
	}
	if len(data[0]) != 4 || len(data[len(data)-1]) != 4 {
		return ErrorOutcome(fmt.Sprintf("volume and price rows are not 4 columns wide: %v", ErrValidation))
	}

	hoursTable, err := AssembleHourlyTable(combination, lastUpdate, hours, data)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("hourly table: %v", err))
	}
	if !hoursTable.IsPlausible() {
		return ErrorOutcome(fmt.Sprintf("hourly table failed plausibility: %v", ErrValidation))
	}

	baseload, peakload, err := ExtractBasePeak(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("base and peak data: %v", err))
	}
	basePeakTable := AssembleBasePeakTable(combination, lastUpdate, baseload, peakload)
	if !basePeakTable.IsPlausible() {
		return ErrorOutcome(fmt.Sprintf("base peak table failed plausibility: %v", ErrValidation))
	}

	rows := 0
	key := combination.KeyCells(dataType)
	columns := KeyColumns(dataType)
	targets := []struct {
		path  string
		table Table
	}{
		{s.archive.HourlyPath(combination.MarketArea, dataType), hoursTable},
		{s.archive.BasePeakPath(combination.MarketArea, dataType), basePeakTable},
	}
	for _, target := range targets {
		appended, err := s.appendMissing(target.path, target.table, key, columns)
		if err != nil {
			return ErrorOutcome(fmt.Sprintf("archive %s: %v", target.path, err))
		}
		rows += appended
	}

	return SuccessOutcome(rows)
}

func (s *HarvestService) attemptContinuous(combination Combination, doc *html.Node, lastUpdate string) Outcome {
	hours, err := ExtractContinuousHours(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("hours: %v", err))
	}
	if len(hours) == 0 {
		return ErrorOutcome(fmt.Sprintf("no hour labels: %v", ErrValidation))
	}

	headers, err := ExtractTableHeaders(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("table headers: %v", err))
	}
	layout := DetectContinuousLayout(headers)

	data, err := ExtractContinuousTable(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("volume and price data: %v", err))
	}
	if len(data) == 0 {
		return ErrorOutcome(fmt.Sprintf("no volume and price rows: %v", ErrValidation))
	}

	table, err := AssembleContinuousTable(combination, lastUpdate, hours, data, layout)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("continuous table: %v", err))
	}
	if len(table.Rows) == 0 {
		return ErrorOutcome(fmt.Sprintf("assembled empty continuous table: %v", ErrValidation))
	}

	path := s.archive.CombinedPath(combination.MarketArea, TypeContinuous)
	rows, err := s.appendMissing(path, table, combination.KeyCells(TypeContinuous), KeyColumns(TypeContinuous))
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("archive %s: %v", path, err))
	}

	return SuccessOutcome(rows)
}

func (s *HarvestService) attemptCurves(dataType DataType, combination Combination, doc *html.Node, lastUpdate string) Outcome {
	points, err := ExtractAggregatedCurves(doc)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("aggregated curves: %v", err))
	}
	if len(points) == 0 {
		return ErrorOutcome(fmt.Sprintf("no curve points: %v", ErrValidation))
	}

	table := AssembleCurvesTable(combination, lastUpdate, points)
	if !table.IsPlausible() {
		return ErrorOutcome(fmt.Sprintf("curves table failed plausibility: %v", ErrValidation))
	}

	path := s.archive.CombinedPath(combination.MarketArea, dataType)
	rows, err := s.appendMissing(path, table, combination.KeyCells(dataType), KeyColumns(dataType))
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("archive %s: %v", path, err))
	}

	return SuccessOutcome(rows)
}

// appendMissing re-checks per-archive existence right before the append, so
// a partially archived combination only writes the sub-tables it is missing.
func (s *HarvestService) appendMissing(path string, table Table, key []Cell, matchColumns []string) (int, error) {
	present, err := s.archive.Exists(path, key, matchColumns)
	if err != nil {
		return 0, err
	}
	if present {
		return 0, nil
	}

	return s.archive.Append(path, table)
}
