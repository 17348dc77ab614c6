package store

import (
	"context"
	"fmt"
	"time"

	"cash-flow/internal/models"
)

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// ActiveSession returns the session when it is neither revoked nor expired at now.
func (s *Store) ActiveSession(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("id = ? AND revoked = ? AND expires_at > ?", id, false, now).
		First(&sess).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sess, nil
}

func (s *Store) RevokeSession(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Update("revoked", true)
	if res.Error != nil {
		return fmt.Errorf("revoke session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpiredSessions deletes revoked and expired sessions.
func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("revoked = ? OR expires_at <= ?", true, now).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
