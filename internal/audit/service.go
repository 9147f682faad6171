package audit

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/events"
)

// Store persists audit events.
type Store interface {
	LogEvent(ctx context.Context, event *entities.AuditEvent) error
	RecentEvents(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error)
	DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// Service provides high-level audit logging functionality. Persisted events
// are mirrored to the activity publisher.
type Service struct {
	repo      Store
	publisher events.Publisher
	log       *zap.Logger
	wg        sync.WaitGroup
}

// NewService creates a new audit service. A nil publisher disables mirroring.
func NewService(repo Store, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, log: log.Named("audit")}
}

// Log records an event and publishes it. A publish failure is logged, not returned.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	if err := s.repo.LogEvent(ctx, event); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, toActivity(event)); err != nil {
		s.log.Warn("failed to publish activity", zap.String("action", event.Action), zap.Error(err))
	}
	return nil
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Log(ctx, event); err != nil {
			s.log.Error("failed to log audit event", zap.String("action", event.Action), zap.Error(err))
		}
	}()
}

// Wait blocks until all background writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogChange records a successful mutation of a library entity.
func (s *Service) LogChange(userID uint, eventType entities.AuditEventType, action, entityType string, entityID uint, description string) {
	s.LogAsync(&entities.AuditEvent{
		UserID:      userID,
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action string, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// RecentEvents returns a user's most recent events.
func (s *Service) RecentEvents(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error) {
	return s.repo.RecentEvents(ctx, userID, limit)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func toActivity(event *entities.AuditEvent) events.Activity {
	return events.Activity{
		UserID:      event.UserID,
		Type:        string(event.EventType),
		Action:      event.Action,
		EntityType:  event.EntityType,
		EntityID:    event.EntityID,
		Status:      string(event.Status),
		Description: event.Description,
		OccurredAt:  event.CreatedAt,
	}
}

// truncate caps s at maxLen bytes, cutting on a rune boundary.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
