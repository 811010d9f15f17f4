package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	successIndicatorColumn = "SuccessIndicator"
	keySeparator           = "\x1f"

	outcomeSkippedLabel = "Skipped"
	outcomeSuccessLabel = "Success"
	outcomeErrorLabel   = "Error"
)

// Outcome is the result of one harvest attempt as recorded in the ledger.
type Outcome struct {
	Kind   OutcomeKind
	Rows   int
	Reason string
}

type OutcomeKind int

const (
	OutcomeSkipped OutcomeKind = iota
	OutcomeSuccess
	OutcomeError
)

func SkippedOutcome() Outcome {
	return Outcome{Kind: OutcomeSkipped}
}

func SuccessOutcome(rows int) Outcome {
	return Outcome{Kind: OutcomeSuccess, Rows: rows}
}

func ErrorOutcome(reason string) Outcome {
	return Outcome{Kind: OutcomeError, Reason: reason}
}

// String renders the ledger form of the outcome. Row counts and reasons
// are kept for run summaries and logs, not for the ledger column.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSuccess:
		return outcomeSuccessLabel
	case OutcomeError:
		return outcomeErrorLabel
	default:
		return outcomeSkippedLabel
	}
}

// LedgerService owns the per-data-type tracking files. Entries are
// prepended below the header so the newest attempt reads first.
type LedgerService struct {
	root string
}

func NewLedgerService(root string) (*LedgerService, error) {
	if root == "" {
		return nil, errors.New("ledger root is empty")
	}

	return &LedgerService{root: root}, nil
}

func (s *LedgerService) Path(name string) string {
	return filepath.Join(s.root, name)
}

// LedgerHeader is the column layout of a tracking file: the dedup key of
// the data type followed by the attempt metadata.
func LedgerHeader(dataType DataType) []string {
	header := append([]string{}, KeyColumns(dataType)...)
	return append(header, "WebsiteAccessTimeUTC", successIndicatorColumn)
}

// Record prepends one entry directly after the header and rewrites the
// file atomically. An existing header is preserved verbatim; the given
// header is only written when the file does not exist yet.
func (s *LedgerService) Record(path string, header []string, entry []string) error {
	if s == nil {
		return errors.New("ledger service is nil")
	}
	if len(entry) != len(header) {
		return fmt.Errorf("ledger entry has %d values for %d columns: %w", len(entry), len(header), ErrPersistence)
	}

	records, err := s.load(path)
	if err != nil {
		return err
	}

	rewritten := make([][]string, 0, len(records)+2)
	if len(records) == 0 {
		rewritten = append(rewritten, header)
	} else {
		rewritten = append(rewritten, records[0])
	}
	rewritten = append(rewritten, entry)
	if len(records) > 1 {
		rewritten = append(rewritten, records[1:]...)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %v: %w", err, ErrPersistence)
	}

	err = writeFileAtomic(path, ".csv", func(tmp string) error {
		return writeCsv(tmp, rewritten)
	})
	if err != nil {
		return fmt.Errorf("write ledger %s: %v: %w", path, err, ErrPersistence)
	}

	return nil
}

// LoadSuccessfulCombinations returns the set of dedup keys whose latest
// recorded attempt list contains at least one non-error entry. Error rows
// stay in the file but never suppress a retry.
func (s *LedgerService) LoadSuccessfulCombinations(path string, keyColumns []string) (map[string]bool, error) {
	if s == nil {
		return nil, errors.New("ledger service is nil")
	}

	records, err := s.load(path)
	if err != nil {
		return nil, err
	}

	combinations := map[string]bool{}
	if len(records) == 0 {
		return combinations, nil
	}

	indices := make([]int, 0, len(keyColumns))
	statusIndex := -1
	for _, column := range keyColumns {
		index := -1
		for i, name := range records[0] {
			if name == column {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("ledger %s has no column %s: %w", path, column, ErrPersistence)
		}
		indices = append(indices, index)
	}
	for i, name := range records[0] {
		if name == successIndicatorColumn {
			statusIndex = i
			break
		}
	}
	if statusIndex < 0 {
		return nil, fmt.Errorf("ledger %s has no column %s: %w", path, successIndicatorColumn, ErrPersistence)
	}

	for _, record := range records[1:] {
		if statusIndex >= len(record) || record[statusIndex] == outcomeErrorLabel {
			continue
		}
		values := make([]string, 0, len(indices))
		valid := true
		for _, index := range indices {
			if index >= len(record) {
				valid = false
				break
			}
			values = append(values, record[index])
		}
		if !valid {
			continue
		}
		combinations[strings.Join(values, keySeparator)] = true
	}

	return combinations, nil
}

func (s *LedgerService) load(path string) ([][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	records, err := readCsv(path)
	if err != nil {
		return nil, fmt.Errorf("load ledger %s: %v: %w", path, err, ErrPersistence)
	}

	return records, nil
}

// CombinationKey joins the dedup key values for set membership checks.
func CombinationKey(values []string) string {
	return strings.Join(values, keySeparator)
}
