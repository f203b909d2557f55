package store

import (
	"context"
	"time"

	"blogapi/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{s.DB} }

func (ss *SessionStore) Create(ctx context.Context, s *domain.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return ss.db.WithContext(ctx).Create(s).Error
}

func (ss *SessionStore) GetByDeviceID(ctx context.Context, deviceID domain.DeviceID) (*domain.Session, error) {
	var s domain.Session
	if err := ss.db.WithContext(ctx).First(&s, "device_id = ?", deviceID).Error; err != nil {
		return nil, translateErr(err)
	}
	return &s, nil
}

func (ss *SessionStore) AllActiveForUser(ctx context.Context, userID domain.UserID) ([]domain.Session, error) {
	var out []domain.Session
	err := ss.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// Rotate advances the refresh lineage for a device session, conditioned on the
// stored issued_at still matching the presented token's iat. Of two racing
// refreshes only the first matches; the second sees zero rows and reports a
// stale token.
func (ss *SessionStore) Rotate(ctx context.Context, deviceID domain.DeviceID, prevIssuedAt, issuedAt, expiresAt time.Time, ip string) (bool, error) {
	tx := ss.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("device_id = ? AND issued_at = ? AND deleted_at IS NULL", deviceID, prevIssuedAt).
		Updates(map[string]any{
			"issued_at":  issuedAt,
			"expires_at": expiresAt,
			"ip":         ip,
		})
	return tx.RowsAffected > 0, tx.Error
}

// Revoke soft-deletes the session, failing on double revocation.
func (ss *SessionStore) Revoke(ctx context.Context, s *domain.Session, at time.Time) error {
	if err := s.MarkDeleted(at); err != nil {
		return err
	}
	return ss.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ? AND deleted_at IS NULL", s.ID).
		Update("deleted_at", s.DeletedAt).Error
}
