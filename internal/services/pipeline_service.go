package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type PipelineService struct {
	harvestService HarvestRunner
	runService     RunRecorder
	logService     LogWriter
	jobs           func(today time.Time) []Job
	now            func() time.Time
}

func NewPipelineService(harvestService HarvestRunner, runService RunRecorder, logService LogWriter, jobs func(today time.Time) []Job) (*PipelineService, error) {
	if harvestService == nil {
		return nil, errors.New("harvest service is nil")
	}
	if runService == nil {
		return nil, errors.New("run service is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}
	if jobs == nil {
		return nil, errors.New("jobs source is nil")
	}

	return &PipelineService{
		harvestService: harvestService,
		runService:     runService,
		logService:     logService,
		jobs:           jobs,
		now:            time.Now,
	}, nil
}

// Refresh runs every configured job in sequence. A failing job is logged
// and the remaining jobs still run; the first failure is reported back.
func (s *PipelineService) Refresh(ctx context.Context) error {
	if s == nil {
		return errors.New("pipeline service is nil")
	}
	if s.harvestService == nil {
		return errors.New("harvest service is nil")
	}
	if s.runService == nil {
		return errors.New("run service is nil")
	}
	if s.logService == nil {
		return errors.New("log service is nil")
	}
	if s.jobs == nil {
		return errors.New("jobs source is nil")
	}

	startMsg := "harvest refresh started"
	if err := s.logService.CreateLog(ctx, nil, LogActionHarvestRun, LogOutcomeSuccess, &startMsg); err != nil {
		return err
	}

	var refreshErr error
	for _, job := range s.jobs(s.now().UTC()) {
		summary, err := s.harvestService.Run(ctx, job)
		if err != nil {
			failMsg := fmt.Sprintf("run %s: %v", job.DataType, err)
			_ = s.logService.CreateLog(ctx, nil, LogActionHarvestRun, LogOutcomeFail, &failMsg)
			if refreshErr == nil {
				refreshErr = fmt.Errorf("run %s: %w", job.DataType, err)
			}
			continue
		}

		if _, err := s.runService.CreateRun(ctx, summary); err != nil {
			failMsg := fmt.Sprintf("record run %s: %v", job.DataType, err)
			_ = s.logService.CreateLog(ctx, nil, LogActionHarvestRun, LogOutcomeFail, &failMsg)
			if refreshErr == nil {
				refreshErr = fmt.Errorf("record run %s: %w", job.DataType, err)
			}
		}
	}

	return refreshErr
}
