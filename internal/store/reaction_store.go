package store

import (
	"context"
	"errors"
	"time"

	"blogapi/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionStore is the reaction ledger: one row per (user, target), overwritten
// in place on every status change and never deleted.
type ReactionStore struct{ db *gorm.DB }

func (s *Store) Reactions() *ReactionStore { return &ReactionStore{s.DB} }

func (rs *ReactionStore) FindByUser(ctx context.Context, userID domain.UserID, targetID domain.TargetID) (*domain.Reaction, error) {
	var r domain.Reaction
	err := rs.db.WithContext(ctx).First(&r, "user_id = ? AND target_id = ?", userID, targetID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &r, nil
}

// SetReaction upserts the user's reaction and reports the status transition.
// The previous status is None when no row existed. A repeat of the current
// status leaves the row untouched: updated_at marks the last status change,
// so a repeated Like keeps its place in the newest-likers ordering.
func (rs *ReactionStore) SetReaction(ctx context.Context, userID domain.UserID, targetID domain.TargetID, targetType domain.TargetType, status domain.ReactionStatus) (domain.ReactionTransition, error) {
	previous := domain.ReactionNone
	if existing, err := rs.FindByUser(ctx, userID, targetID); err == nil {
		previous = existing.Status
		if previous == status {
			return domain.ReactionTransition{Previous: previous, Current: status}, nil
		}
	} else if !errors.Is(err, ErrRecordNotFound) {
		return domain.ReactionTransition{}, err
	}

	now := time.Now().UTC()
	row := &domain.Reaction{
		ID:         uuid.New(),
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := rs.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return domain.ReactionTransition{}, err
	}
	return domain.ReactionTransition{Previous: previous, Current: status}, nil
}

// RecentLikes returns up to limit Like reactions for the target, most recent
// first.
func (rs *ReactionStore) RecentLikes(ctx context.Context, targetID domain.TargetID, limit int) ([]domain.Reaction, error) {
	var out []domain.Reaction
	err := rs.db.WithContext(ctx).
		Where("target_id = ? AND status = ?", targetID, domain.ReactionLike).
		Order("updated_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
