package service

import (
	"context"

	"blogapi/internal/domain"
)

type ReactionService interface {
	SetPostReaction(ctx context.Context, userID domain.UserID, postID domain.PostID, status domain.ReactionStatus) error
	SetCommentReaction(ctx context.Context, userID domain.UserID, commentID domain.CommentID, status domain.ReactionStatus) error
}
