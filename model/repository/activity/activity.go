package activity

import (
	"gorm.io/gorm"

	"vsdc.GO/model/entity"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(eventKind, detail string) error {
	return r.db.Create(&entity.ActivityLog{EventKind: eventKind, Detail: detail}).Error
}

func (r *ActivityRepository) Recent(limit int) ([]entity.ActivityLog, error) {
	var rows []entity.ActivityLog
	err := r.db.Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *ActivityRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entity.ActivityLog{}).Count(&n).Error
	return n, err
}
