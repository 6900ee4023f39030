package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Submission carries the round-trip bookkeeping every submitted document
// shares: the raw inbound payload, the payload actually sent to the
// authority, the authority's raw response and the confirmation flag.
// The document row is written before the remote call (durability first);
// processed payload, response and confirmation arrive in a second write.
type Submission struct {
	OriginalPayload  datatypes.JSON `gorm:"column:original_payload" json:"originalPayload,omitempty"`
	ProcessedPayload datatypes.JSON `gorm:"column:processed_payload" json:"processedPayload,omitempty"`
	Response         datatypes.JSON `gorm:"column:response" json:"response,omitempty"`
	Confirmed        bool           `gorm:"column:confirmed;default:false;index" json:"confirmed"`
	ReceivedAt       time.Time      `gorm:"column:received_at;autoCreateTime;index" json:"receivedAt"`
}
