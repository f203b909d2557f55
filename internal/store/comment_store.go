package store

import (
	"context"
	"time"

	"blogapi/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentStore struct{ db *gorm.DB }

func (s *Store) Comments() *CommentStore { return &CommentStore{s.DB} }

func (cs *CommentStore) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return cs.db.WithContext(ctx).Create(c).Error
}

func (cs *CommentStore) GetByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	var c domain.Comment
	if err := cs.db.WithContext(ctx).First(&c, "id = ? AND deleted_at IS NULL", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (cs *CommentStore) ListByPost(ctx context.Context, postID domain.PostID) ([]domain.Comment, error) {
	var out []domain.Comment
	err := cs.db.WithContext(ctx).
		Where("post_id = ? AND deleted_at IS NULL", postID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (cs *CommentStore) Update(ctx context.Context, c *domain.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	return cs.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ? AND deleted_at IS NULL", c.ID).
		Updates(map[string]any{
			"content":    c.Content,
			"updated_at": c.UpdatedAt,
		}).Error
}

// ApplyCountDeltas adds the transition deltas in SQL so concurrent reactions
// from different users both land.
func (cs *CommentStore) ApplyCountDeltas(ctx context.Context, id domain.CommentID, likesDelta, dislikesDelta int) error {
	return cs.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"likes_count":    gorm.Expr("likes_count + ?", likesDelta),
			"dislikes_count": gorm.Expr("dislikes_count + ?", dislikesDelta),
		}).Error
}

func (cs *CommentStore) SoftDelete(ctx context.Context, c *domain.Comment, at time.Time) error {
	if err := c.MarkDeleted(at); err != nil {
		return err
	}
	return cs.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ? AND deleted_at IS NULL", c.ID).
		Update("deleted_at", c.DeletedAt).Error
}
