package checkpoint

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vsdc.GO/core/vsdc"
	"vsdc.GO/model/entity"
)

// Feed names, one checkpoint row each.
const (
	FeedStandardCodes  = "StandardCodes"
	FeedItemClassCodes = "ItemClassCodes"
	FeedNotices        = "ZRANotices"
	FeedImports        = "ImportsData"
	FeedPurchases      = "PurchasesData"
)

type CheckpointRepository struct {
	db *gorm.DB
}

func NewCheckpointRepository(db *gorm.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Get returns the stored watermark for a feed, or the default watermark if
// the feed has never synced.
func (r *CheckpointRepository) Get(feed string) (string, error) {
	var cp entity.SyncCheckpoint
	err := r.db.Where("feed = ?", feed).First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vsdc.DefaultWatermark, nil
	}
	if err != nil {
		return "", err
	}
	return cp.LastReqDt, nil
}

// Set advances a feed's watermark, creating the row on first sync.
func (r *CheckpointRepository) Set(feed, lastReqDt string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feed"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_req_dt", "updated_at"}),
	}).Create(&entity.SyncCheckpoint{Feed: feed, LastReqDt: lastReqDt}).Error
}

func (r *CheckpointRepository) All() ([]entity.SyncCheckpoint, error) {
	var rows []entity.SyncCheckpoint
	err := r.db.Order("feed").Find(&rows).Error
	return rows, err
}
