package entity

import "time"

// ActivityLog is the append-only audit trail. Rows are never updated or
// individually deleted.
type ActivityLog struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	EventKind string    `gorm:"column:event_type;not null;index" json:"eventType"`
	Detail    string    `gorm:"column:details;type:text;not null" json:"details"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime;index" json:"timestamp"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
