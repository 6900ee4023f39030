package entity

import "time"

// SyncCheckpoint stores the last-successful-request watermark for one feed.
// Watermarks only move forward; a failed cycle leaves the row untouched.
type SyncCheckpoint struct {
	Feed      string    `gorm:"column:feed;primaryKey" json:"feed"`
	LastReqDt string    `gorm:"column:last_req_dt;not null" json:"lastReqDt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (SyncCheckpoint) TableName() string {
	return "sync_checkpoints"
}
