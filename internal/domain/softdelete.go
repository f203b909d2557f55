package domain

import "time"

// SoftDeletable is embedded by entities that are revoked/removed by marker
// rather than by row deletion.
type SoftDeletable struct {
	DeletedAt *time.Time `gorm:"index" db:"deleted_at" json:"-"`
}

func (s SoftDeletable) Deleted() bool { return s.DeletedAt != nil }

// MarkDeleted sets the deletion marker. A second call fails: callers rely on
// this to reject double revocation instead of silently succeeding.
func (s *SoftDeletable) MarkDeleted(now time.Time) error {
	if s.DeletedAt != nil {
		return ErrAlreadyDeleted
	}
	at := now
	s.DeletedAt = &at
	return nil
}
