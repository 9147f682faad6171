package entities

import "time"

// AuditEventType groups activity by the store that produced it.
type AuditEventType string

const (
	AuditEventAuth     AuditEventType = "auth"
	AuditEventAccount  AuditEventType = "account"
	AuditEventCatalog  AuditEventType = "catalog"
	AuditEventReview   AuditEventType = "review"
	AuditEventFavorite AuditEventType = "favorite"
)

// Entity names recorded in AuditEvent.EntityType.
const (
	AuditEntityUser     = "user"
	AuditEntityBook     = "book"
	AuditEntityReview   = "review"
	AuditEntityFavorite = "favorite"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one row of a user's activity trail. Login attempts carry the
// client address; store mutations carry the affected entity.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`
	Description string         `gorm:"size:500" json:"description"`
	EntityType  string         `gorm:"size:50" json:"entity_type"`
	EntityID    *uint          `gorm:"index" json:"entity_id,omitempty"`
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string { return "audit_events" }
