package services

import (
	"context"

	"golang.org/x/net/html"
)

type LogWriter interface {
	CreateLog(ctx context.Context, eventID *string, action string, outcome string, message *string) error
}

type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*html.Node, error)
}

type ArchiveStore interface {
	HourlyPath(marketArea string, dataType DataType) string
	BasePeakPath(marketArea string, dataType DataType) string
	CombinedPath(marketArea string, dataType DataType) string
	Exists(path string, key []Cell, matchColumns []string) (bool, error)
	Append(path string, table Table) (int, error)
}

type LedgerStore interface {
	Path(name string) string
	Record(path string, header []string, entry []string) error
	LoadSuccessfulCombinations(path string, keyColumns []string) (map[string]bool, error)
}

type RunRecorder interface {
	CreateRun(ctx context.Context, run RunSummary) (string, error)
}

type HarvestRunner interface {
	Run(ctx context.Context, job Job) (RunSummary, error)
}
