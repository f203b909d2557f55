package service

import (
	"context"

	"blogapi/internal/domain"
	"blogapi/internal/dto"
)

type BlogService interface {
	Create(ctx context.Context, ownerID domain.UserID, in dto.BlogInput) (*domain.Blog, error)
	Get(ctx context.Context, id domain.BlogID) (*domain.Blog, error)
	List(ctx context.Context) ([]domain.Blog, error)
	Update(ctx context.Context, id domain.BlogID, callerID domain.UserID, in dto.BlogInput) error
	Delete(ctx context.Context, id domain.BlogID, callerID domain.UserID) error
}

type PostService interface {
	Create(ctx context.Context, blogID domain.BlogID, callerID domain.UserID, in dto.PostInput) (*domain.Post, error)
	Get(ctx context.Context, id domain.PostID) (*domain.Post, error)
	ListByBlog(ctx context.Context, blogID domain.BlogID) ([]domain.Post, error)
	Update(ctx context.Context, id domain.PostID, callerID domain.UserID, in dto.PostInput) error
	Delete(ctx context.Context, id domain.PostID, callerID domain.UserID) error
}

type CommentService interface {
	Create(ctx context.Context, postID domain.PostID, authorID domain.UserID, in dto.CommentInput) (*domain.Comment, error)
	Get(ctx context.Context, id domain.CommentID) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID domain.PostID) ([]domain.Comment, error)
	Update(ctx context.Context, id domain.CommentID, callerID domain.UserID, in dto.CommentInput) error
	Delete(ctx context.Context, id domain.CommentID, callerID domain.UserID) error
}
