package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/MaurerErik/power-data-downloader/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RunService struct {
	db *gorm.DB
}

func NewRunService(db *gorm.DB) (*RunService, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}

	return &RunService{db: db}, nil
}

func (s *RunService) CreateRun(ctx context.Context, run RunSummary) (string, error) {
	if s == nil {
		return "", errors.New("run service is nil")
	}
	if s.db == nil {
		return "", errors.New("db is nil")
	}
	if run.DataType == "" {
		return "", errors.New("data type is empty")
	}
	if run.StartedAt.IsZero() {
		return "", errors.New("start time is zero")
	}

	entry := models.HarvestRun{
		ID:         uuid.NewString(),
		DataType:   string(run.DataType),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Attempted:  run.Attempted,
		Skipped:    run.Skipped,
		Archived:   run.Archived,
		Errors:     run.Errors,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return "", fmt.Errorf("create harvest run: %w", err)
	}

	return entry.ID, nil
}

func (s *RunService) GetRuns(ctx context.Context, limit int, dataType string) ([]models.HarvestRun, error) {
	if s == nil {
		return nil, errors.New("run service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	query := s.db.WithContext(ctx).Order("started_at desc").Limit(limit)
	if dataType != "" {
		query = query.Where("data_type = ?", dataType)
	}

	var runs []models.HarvestRun
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("get harvest runs: %w", err)
	}

	return runs, nil
}
