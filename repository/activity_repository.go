package repository

import (
	"fmt"
	"log"

	"github.com/camden-git/familyvault/models"
	"gorm.io/gorm"
)

type GormActivityRepository struct {
	db       *gorm.DB
	maxRows  int
	onLogged func(entry models.ActivityEntry)
}

// NewGormActivityRepository creates an activity log backed by GORM. maxRows
// caps the table size; the oldest rows are pruned after each insert. onLogged,
// if non-nil, is invoked after a successful insert (used for the realtime feed).
func NewGormActivityRepository(db *gorm.DB, maxRows int, onLogged func(entry models.ActivityEntry)) ActivityRepository {
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &GormActivityRepository{db: db, maxRows: maxRows, onLogged: onLogged}
}

func (r *GormActivityRepository) Log(action, username, details string) error {
	entry := models.ActivityEntry{Action: action, Username: username, Details: details}
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write activity entry: %w", err)
	}

	// keep only the newest maxRows entries
	var count int64
	if err := r.db.Model(&models.ActivityEntry{}).Count(&count).Error; err == nil && count > int64(r.maxRows) {
		cutoff := r.db.Model(&models.ActivityEntry{}).
			Select("id").
			Order("id DESC").
			Limit(r.maxRows)
		if err := r.db.Where("id NOT IN (?)", cutoff).Delete(&models.ActivityEntry{}).Error; err != nil {
			log.Printf("warning: failed to prune activity log: %v", err)
		}
	}

	if r.onLogged != nil {
		r.onLogged(entry)
	}
	return nil
}

func (r *GormActivityRepository) Latest(limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	err := r.db.Order("id DESC").Limit(limit).Find(&entries).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load activity log: %w", err)
	}
	return entries, nil
}
