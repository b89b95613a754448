package repository

import (
	"fmt"

	"github.com/camden-git/familyvault/models"
	"gorm.io/gorm"
)

type GormUploadRepository struct {
	db *gorm.DB
}

func NewGormUploadRepository(db *gorm.DB) UploadRepository {
	return &GormUploadRepository{db: db}
}

func (r *GormUploadRepository) Create(upload *models.Upload) error {
	if err := r.db.Create(upload).Error; err != nil {
		return fmt.Errorf("failed to create upload record for %s: %w", upload.Filename, err)
	}
	return nil
}

func (r *GormUploadRepository) GetByFilename(filename string) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.Where("filename = ?", filename).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *GormUploadRepository) ListAll() ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.Order("created_at DESC").Find(&uploads).Error
	return uploads, err
}

func (r *GormUploadRepository) Update(upload *models.Upload) error {
	return r.db.Save(upload).Error
}

func (r *GormUploadRepository) Reassign(filename, newUser string) error {
	result := r.db.Model(&models.Upload{}).
		Where("filename = ?", filename).
		Update("assigned_to", newUser)
	if result.Error != nil {
		return fmt.Errorf("failed to reassign upload %s: %w", filename, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUploadRepository) DeleteByFilename(filename string) error {
	result := r.db.Where("filename = ?", filename).Delete(&models.Upload{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete upload record %s: %w", filename, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
