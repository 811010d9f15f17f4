package services

const (
	LogActionPageFetch    = "PAGE_FETCH"
	LogActionExtraction   = "EXTRACTION"
	LogActionArchiveWrite = "ARCHIVE_WRITE"
	LogActionLedgerWrite  = "LEDGER_WRITE"
	LogActionHarvestRun   = "HARVEST_RUN"
	LogOutcomeSuccess     = "SUCCESS"
	LogOutcomeFail        = "FAIL"
)
