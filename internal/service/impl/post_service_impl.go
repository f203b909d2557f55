package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/dto"
	"blogapi/internal/service"
	"blogapi/internal/store"

	"github.com/google/uuid"
)

var _ service.PostService = (*PostServiceImpl)(nil)

type PostServiceImpl struct {
	store *store.Store
	now   func() time.Time
}

func NewPostServiceImpl(st *store.Store) *PostServiceImpl {
	return &PostServiceImpl{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (p *PostServiceImpl) Create(ctx context.Context, blogID domain.BlogID, callerID domain.UserID, in dto.PostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.New("post title is required")
	}

	blog, err := p.store.Blogs().GetByID(ctx, blogID)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	if blog.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}

	now := p.now()
	post := &domain.Post{
		ID:               uuid.New(),
		BlogID:           blogID,
		Title:            title,
		ShortDescription: in.ShortDescription,
		Content:          in.Content,
		CreatedAt:        now,
		UpdatedAt:        now,
		NewestLikes:      domain.NewestLikes{},
	}
	if err := p.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (p *PostServiceImpl) Get(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	post, err := p.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	return post, nil
}

func (p *PostServiceImpl) ListByBlog(ctx context.Context, blogID domain.BlogID) ([]domain.Post, error) {
	if _, err := p.store.Blogs().GetByID(ctx, blogID); err != nil {
		return nil, translateTargetErr(err)
	}
	return p.store.Posts().ListByBlog(ctx, blogID)
}

func (p *PostServiceImpl) Update(ctx context.Context, id domain.PostID, callerID domain.UserID, in dto.PostInput) error {
	post, err := p.ownedPost(ctx, id, callerID)
	if err != nil {
		return err
	}
	post.Title = strings.TrimSpace(in.Title)
	post.ShortDescription = in.ShortDescription
	post.Content = in.Content
	return p.store.Posts().Update(ctx, post)
}

func (p *PostServiceImpl) Delete(ctx context.Context, id domain.PostID, callerID domain.UserID) error {
	post, err := p.ownedPost(ctx, id, callerID)
	if err != nil {
		return err
	}
	return p.store.Posts().SoftDelete(ctx, post, p.now())
}

func (p *PostServiceImpl) ownedPost(ctx context.Context, id domain.PostID, callerID domain.UserID) (*domain.Post, error) {
	post, err := p.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	blog, err := p.store.Blogs().GetByID(ctx, post.BlogID)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	if blog.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	return post, nil
}
