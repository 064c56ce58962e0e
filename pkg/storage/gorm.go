package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloudcore-io/triggers/pkg/core"
	"github.com/cloudcore-io/triggers/pkg/security"
)

// GormStore implements core.RunStore using GORM. It works against SQLite
// for single-node deployments and PostgreSQL for shared ones.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed run store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the necessary tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&core.JobRun{}, &core.ProgressEntry{})
}

// CreateRun records a new run. A missing ID or status is filled in.
func (s *GormStore) CreateRun(ctx context.Context, run *core.JobRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = core.RunRunning
	}
	return s.db.WithContext(ctx).Create(run).Error
}

// AppendProgress appends a message to the run's progress log. The next
// per-run sequence number is assigned inside a transaction so concurrent
// readers never observe a torn or reordered entry. A run that already
// reached a terminal status is immutable; appending to one returns
// ErrRunFinished, which closes the door on abandoned handlers still
// reporting progress after their run was recorded as timed out.
func (s *GormStore) AppendProgress(ctx context.Context, runID, message string) error {
	message = security.SanitizeProgressMessage(message)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var run core.JobRun
		if err := tx.First(&run, "id = ?", runID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return core.ErrRunNotFound
			}
			return err
		}
		if run.Status != core.RunRunning {
			return core.ErrRunFinished
		}

		var maxSeq int
		if err := tx.Model(&core.ProgressEntry{}).
			Where("run_id = ?", runID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}

		entry := &core.ProgressEntry{
			RunID:   runID,
			Seq:     maxSeq + 1,
			Message: message,
		}
		return tx.Create(entry).Error
	})
}

// CompleteRun transitions a run from running to succeeded.
func (s *GormStore) CompleteRun(ctx context.Context, runID string, result []byte) error {
	now := time.Now()
	return s.finishRun(ctx, runID, map[string]any{
		"status":      core.RunSucceeded,
		"result":      result,
		"finished_at": &now,
	})
}

// FailRun transitions a run from running to failed.
func (s *GormStore) FailRun(ctx context.Context, runID string, code int, message string) error {
	now := time.Now()
	return s.finishRun(ctx, runID, map[string]any{
		"status":        core.RunFailed,
		"error_code":    code,
		"error_message": security.SanitizeErrorMessage(message),
		"finished_at":   &now,
	})
}

// finishRun applies a terminal update guarded on the running status, so a
// terminal status is set exactly once.
func (s *GormStore) finishRun(ctx context.Context, runID string, updates map[string]any) error {
	res := s.db.WithContext(ctx).
		Model(&core.JobRun{}).
		Where("id = ? AND status = ?", runID, core.RunRunning).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&core.JobRun{}).Where("id = ?", runID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return core.ErrRunNotFound
		}
		return core.ErrRunFinished
	}
	return nil
}

// GetRun returns the run record.
func (s *GormStore) GetRun(ctx context.Context, runID string) (*core.JobRun, error) {
	var run core.JobRun
	err := s.db.WithContext(ctx).First(&run, "id = ?", runID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// GetProgress returns the run's progress entries ordered by sequence.
func (s *GormStore) GetProgress(ctx context.Context, runID string) ([]core.ProgressEntry, error) {
	var entries []core.ProgressEntry
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetRunsByStatus returns up to limit runs in the given status, newest first.
func (s *GormStore) GetRunsByStatus(ctx context.Context, status core.RunStatus, limit int) ([]*core.JobRun, error) {
	var runs []*core.JobRun
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
