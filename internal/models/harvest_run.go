package models

import "time"

type HarvestRun struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	DataType   string    `gorm:"type:text;not null" json:"data_type"`
	StartedAt  time.Time `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at;not null" json:"finished_at"`
	Attempted  int       `gorm:"not null" json:"attempted"`
	Skipped    int       `gorm:"not null" json:"skipped"`
	Archived   int       `gorm:"not null" json:"archived"`
	Errors     int       `gorm:"not null" json:"errors"`
}
