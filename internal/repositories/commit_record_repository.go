package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"commitforge/internal/models"
)

type CommitRecordRepository interface {
	Create(record *models.CommitMessageRecord) error
	GetByID(id string) (*models.CommitMessageRecord, error)
	List(limit int) ([]models.CommitMessageRecord, error)
	LatestByFingerprint(fingerprint string) (*models.CommitMessageRecord, error)
	UpdateFeedback(id string, rating int, comment string, edited bool) error
	Delete(id string) error
}

type commitRecordRepository struct {
	db *gorm.DB
}

func NewCommitRecordRepository(db *gorm.DB) CommitRecordRepository {
	return &commitRecordRepository{db: db}
}

func (r *commitRecordRepository) Create(record *models.CommitMessageRecord) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	return r.db.Create(record).Error
}

func (r *commitRecordRepository) GetByID(id string) (*models.CommitMessageRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("record id is required")
	}
	var record models.CommitMessageRecord
	if err := r.db.Where("id = ?", id).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *commitRecordRepository) List(limit int) ([]models.CommitMessageRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []models.CommitMessageRecord
	if err := r.db.Order("created_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *commitRecordRepository) LatestByFingerprint(fingerprint string) (*models.CommitMessageRecord, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("fingerprint is required")
	}
	var record models.CommitMessageRecord
	err := r.db.Where("diff_fingerprint = ?", fingerprint).Order("created_at desc").Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// UpdateFeedback touches feedback fields only; the generated text columns
// are never part of the update set.
func (r *commitRecordRepository) UpdateFeedback(id string, rating int, comment string, edited bool) error {
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	res := r.db.Model(&models.CommitMessageRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback_rating":  rating,
			"feedback_comment": comment,
			"user_edited":      edited,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commitRecordRepository) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	return r.db.Where("id = ?", id).Delete(&models.CommitMessageRecord{}).Error
}
