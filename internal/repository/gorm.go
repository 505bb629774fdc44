package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a GormRunRepository and auto-migrates the
// RunRecord table.
func NewGormRunRepository(db *gorm.DB) (*GormRunRepository, error) {
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate run_records: %w", err)
	}
	return &GormRunRepository{db: db}, nil
}

// SaveRun persists run; it returns an error when run has no id.
func (r *GormRunRepository) SaveRun(ctx context.Context, run *RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("run record must have an id")
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// GetRun retrieves a run record by id.
func (r *GormRunRepository) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	var run RunRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run record not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get run record: %w", err)
	}
	return &run, nil
}

// ListRuns lists the most recent runs for algorithm (all algorithms when
// algorithm is empty), newest first.
func (r *GormRunRepository) ListRuns(ctx context.Context, algorithm string, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if algorithm != "" {
		query = query.Where("algorithm = ?", algorithm)
	}

	var runs []*RunRecord
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	return runs, nil
}
