package domain

import "time"

// Session binds one refresh-token lineage to one user and one client device.
// IssuedAt mirrors the iat claim of the currently valid refresh token for the
// device; refresh rotation advances it, so any presented token whose iat does
// not match is stale.
type Session struct {
	ID         SessionID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID     UserID    `gorm:"type:uuid;index" db:"user_id"`
	DeviceID   DeviceID  `gorm:"type:uuid;uniqueIndex:ux_sessions_device" db:"device_id"`
	DeviceName string    `gorm:"type:text" db:"device_name"`
	IP         string    `gorm:"type:inet" db:"ip"`
	IssuedAt   time.Time `gorm:"not null" db:"issued_at"`
	ExpiresAt  time.Time `gorm:"not null" db:"expires_at"`
	CreatedAt  time.Time `gorm:"not null" db:"created_at"`
	SoftDeletable
}

func (Session) TableName() string { return "sessions" }

func (s *Session) Active(now time.Time) bool {
	return !s.Deleted() && now.Before(s.ExpiresAt)
}
