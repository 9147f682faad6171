package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/entities"
)

const defaultRecentLimit = 50

// Repository persists the activity trail in audit_events.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// RecentEvents lists newest first. A zero userID spans all users and a
// non-positive limit falls back to 50.
func (r *Repository) RecentEvents(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	tx := r.db.WithContext(ctx)
	if userID != 0 {
		tx = tx.Where(&entities.AuditEvent{UserID: userID})
	}

	events := make([]entities.AuditEvent, 0, limit)
	if err := tx.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteOldEvents prunes events created before cutoff and returns how many
// were removed.
func (r *Repository) DeleteOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
