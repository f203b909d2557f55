package store

import (
	"context"
	"time"

	"blogapi/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostStore struct{ db *gorm.DB }

func (s *Store) Posts() *PostStore { return &PostStore{s.DB} }

func (ps *PostStore) Create(ctx context.Context, p *domain.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.NewestLikes == nil {
		p.NewestLikes = domain.NewestLikes{}
	}
	return ps.db.WithContext(ctx).Create(p).Error
}

func (ps *PostStore) GetByID(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	var p domain.Post
	if err := ps.db.WithContext(ctx).First(&p, "id = ? AND deleted_at IS NULL", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (ps *PostStore) ListByBlog(ctx context.Context, blogID domain.BlogID) ([]domain.Post, error) {
	var out []domain.Post
	err := ps.db.WithContext(ctx).
		Where("blog_id = ? AND deleted_at IS NULL", blogID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (ps *PostStore) Update(ctx context.Context, p *domain.Post) error {
	p.UpdatedAt = time.Now().UTC()
	return ps.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ? AND deleted_at IS NULL", p.ID).
		Updates(map[string]any{
			"title":             p.Title,
			"short_description": p.ShortDescription,
			"content":           p.Content,
			"updated_at":        p.UpdatedAt,
		}).Error
}

// ApplyReactionDeltas moves the counters by the transition deltas and replaces
// the newest-likers cache in one write. The deltas are added in SQL, so
// concurrent reactions from different users both land.
func (ps *PostStore) ApplyReactionDeltas(ctx context.Context, id domain.PostID, likesDelta, dislikesDelta int, newest domain.NewestLikes) error {
	if newest == nil {
		newest = domain.NewestLikes{}
	}
	return ps.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"likes_count":    gorm.Expr("likes_count + ?", likesDelta),
			"dislikes_count": gorm.Expr("dislikes_count + ?", dislikesDelta),
			"newest_likes":   newest,
		}).Error
}

// ApplyCountDeltas adjusts the counters only, leaving the newest-likers cache
// untouched (Dislike↔None transitions).
func (ps *PostStore) ApplyCountDeltas(ctx context.Context, id domain.PostID, likesDelta, dislikesDelta int) error {
	return ps.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"likes_count":    gorm.Expr("likes_count + ?", likesDelta),
			"dislikes_count": gorm.Expr("dislikes_count + ?", dislikesDelta),
		}).Error
}

func (ps *PostStore) SoftDelete(ctx context.Context, p *domain.Post, at time.Time) error {
	if err := p.MarkDeleted(at); err != nil {
		return err
	}
	return ps.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ? AND deleted_at IS NULL", p.ID).
		Update("deleted_at", p.DeletedAt).Error
}
