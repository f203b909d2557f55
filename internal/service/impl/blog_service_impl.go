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

var _ service.BlogService = (*BlogServiceImpl)(nil)

type BlogServiceImpl struct {
	store *store.Store
	now   func() time.Time
}

func NewBlogServiceImpl(st *store.Store) *BlogServiceImpl {
	return &BlogServiceImpl{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (b *BlogServiceImpl) Create(ctx context.Context, ownerID domain.UserID, in dto.BlogInput) (*domain.Blog, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("blog name is required")
	}
	now := b.now()
	blog := &domain.Blog{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: in.Description,
		WebsiteURL:  in.WebsiteURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.store.Blogs().Create(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (b *BlogServiceImpl) Get(ctx context.Context, id domain.BlogID) (*domain.Blog, error) {
	blog, err := b.store.Blogs().GetByID(ctx, id)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	return blog, nil
}

func (b *BlogServiceImpl) List(ctx context.Context) ([]domain.Blog, error) {
	return b.store.Blogs().List(ctx)
}

func (b *BlogServiceImpl) Update(ctx context.Context, id domain.BlogID, callerID domain.UserID, in dto.BlogInput) error {
	blog, err := b.ownedBlog(ctx, id, callerID)
	if err != nil {
		return err
	}
	blog.Name = strings.TrimSpace(in.Name)
	blog.Description = in.Description
	blog.WebsiteURL = in.WebsiteURL
	return b.store.Blogs().Update(ctx, blog)
}

func (b *BlogServiceImpl) Delete(ctx context.Context, id domain.BlogID, callerID domain.UserID) error {
	blog, err := b.ownedBlog(ctx, id, callerID)
	if err != nil {
		return err
	}
	return b.store.Blogs().SoftDelete(ctx, blog, b.now())
}

func (b *BlogServiceImpl) ownedBlog(ctx context.Context, id domain.BlogID, callerID domain.UserID) (*domain.Blog, error) {
	blog, err := b.store.Blogs().GetByID(ctx, id)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	if blog.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	return blog, nil
}
