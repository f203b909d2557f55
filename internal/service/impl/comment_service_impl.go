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

var _ service.CommentService = (*CommentServiceImpl)(nil)

type CommentServiceImpl struct {
	store *store.Store
	now   func() time.Time
}

func NewCommentServiceImpl(st *store.Store) *CommentServiceImpl {
	return &CommentServiceImpl{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *CommentServiceImpl) Create(ctx context.Context, postID domain.PostID, authorID domain.UserID, in dto.CommentInput) (*domain.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, errors.New("comment content is required")
	}

	if _, err := c.store.Posts().GetByID(ctx, postID); err != nil {
		return nil, translateTargetErr(err)
	}

	now := c.now()
	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.Comments().Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *CommentServiceImpl) Get(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	comment, err := c.store.Comments().GetByID(ctx, id)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	return comment, nil
}

func (c *CommentServiceImpl) ListByPost(ctx context.Context, postID domain.PostID) ([]domain.Comment, error) {
	if _, err := c.store.Posts().GetByID(ctx, postID); err != nil {
		return nil, translateTargetErr(err)
	}
	return c.store.Comments().ListByPost(ctx, postID)
}

func (c *CommentServiceImpl) Update(ctx context.Context, id domain.CommentID, callerID domain.UserID, in dto.CommentInput) error {
	comment, err := c.authoredComment(ctx, id, callerID)
	if err != nil {
		return err
	}
	comment.Content = strings.TrimSpace(in.Content)
	return c.store.Comments().Update(ctx, comment)
}

func (c *CommentServiceImpl) Delete(ctx context.Context, id domain.CommentID, callerID domain.UserID) error {
	comment, err := c.authoredComment(ctx, id, callerID)
	if err != nil {
		return err
	}
	return c.store.Comments().SoftDelete(ctx, comment, c.now())
}

func (c *CommentServiceImpl) authoredComment(ctx context.Context, id domain.CommentID, callerID domain.UserID) (*domain.Comment, error) {
	comment, err := c.store.Comments().GetByID(ctx, id)
	if err != nil {
		return nil, translateTargetErr(err)
	}
	if comment.AuthorID != callerID {
		return nil, domain.ErrForbidden
	}
	return comment, nil
}
