package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"showcase-backend/cache"
	"showcase-backend/models"
)

type ProjectRepo struct {
	db          *gorm.DB
	invalidator cache.Invalidator
}

func NewProjectRepo(db *gorm.DB, invalidator cache.Invalidator) *ProjectRepo {
	return &ProjectRepo{db, invalidator}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// Upsert inserts the project or fully replaces the existing row with the
// same id. Re-ingesting a repository therefore converges on one row instead
// of accumulating duplicates.
func (r *ProjectRepo) Upsert(project *models.Project) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(project).Error
	if err != nil {
		return err
	}
	return r.invalidate()
}

// Delete removes the project with the given id. The boolean reports whether
// a row actually existed, so callers can tell a removal from a no-op.
func (r *ProjectRepo) Delete(id string) (bool, error) {
	result := r.db.Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	return true, r.invalidate()
}

// ReplaceAll swaps the entire collection inside one transaction: everything
// present is deleted, then the new set is bulk inserted. A full resync uses
// this instead of per-row upserts so projects whose repositories disappeared
// fall out of the collection.
func (r *ProjectRepo) ReplaceAll(projects []*models.Project) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Project{}).Error; err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		if len(projects) == 0 {
			return nil
		}
		if err := tx.Create(&projects).Error; err != nil {
			return fmt.Errorf("failed to insert %d projects: %w", len(projects), err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.invalidate()
}

// FindAll returns projects newest first, optionally filtered by technology.
// The filter matches either the primary technology or any entry of the tech
// stack. A limit of 0 means no limit.
func (r *ProjectRepo) FindAll(tech string, limit int) ([]*models.Project, error) {
	query := r.db.Order("created_at DESC")

	if tech != "" {
		member, err := json.Marshal([]string{tech})
		if err != nil {
			return nil, fmt.Errorf("failed to encode tech filter: %w", err)
		}
		query = query.Where("primary_tech = ? OR tech_stack @> ?::jsonb", tech, string(member))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var projects []*models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByID returns the project with the given slug id, or nil when absent.
func (r *ProjectRepo) FindByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Technologies returns the distinct primary technologies across the
// collection, sorted alphabetically.
func (r *ProjectRepo) Technologies() ([]string, error) {
	var techs []string
	err := r.db.Model(&models.Project{}).
		Distinct().
		Order("primary_tech ASC").
		Pluck("primary_tech", &techs).Error
	if err != nil {
		return nil, err
	}
	return techs, nil
}

// invalidate flushes the read cache after a successful write. The write is
// not reported as complete until this returns, so stale reads cannot outlive
// a mutation.
func (r *ProjectRepo) invalidate() error {
	if r.invalidator == nil {
		return nil
	}
	if err := r.invalidator.InvalidateProjects(); err != nil {
		return fmt.Errorf("project write committed but cache invalidation failed: %w", err)
	}
	return nil
}
