package store

import (
	"context"
	"time"

	"blogapi/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogStore struct{ db *gorm.DB }

func (s *Store) Blogs() *BlogStore { return &BlogStore{s.DB} }

func (bs *BlogStore) Create(ctx context.Context, b *domain.Blog) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return bs.db.WithContext(ctx).Create(b).Error
}

func (bs *BlogStore) GetByID(ctx context.Context, id domain.BlogID) (*domain.Blog, error) {
	var b domain.Blog
	if err := bs.db.WithContext(ctx).First(&b, "id = ? AND deleted_at IS NULL", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &b, nil
}

func (bs *BlogStore) List(ctx context.Context) ([]domain.Blog, error) {
	var out []domain.Blog
	err := bs.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (bs *BlogStore) Update(ctx context.Context, b *domain.Blog) error {
	b.UpdatedAt = time.Now().UTC()
	return bs.db.WithContext(ctx).
		Model(&domain.Blog{}).
		Where("id = ? AND deleted_at IS NULL", b.ID).
		Updates(map[string]any{
			"name":        b.Name,
			"description": b.Description,
			"website_url": b.WebsiteURL,
			"updated_at":  b.UpdatedAt,
		}).Error
}

func (bs *BlogStore) SoftDelete(ctx context.Context, b *domain.Blog, at time.Time) error {
	if err := b.MarkDeleted(at); err != nil {
		return err
	}
	return bs.db.WithContext(ctx).
		Model(&domain.Blog{}).
		Where("id = ? AND deleted_at IS NULL", b.ID).
		Update("deleted_at", b.DeletedAt).Error
}
