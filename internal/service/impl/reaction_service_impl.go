package impl

import (
	"context"
	"errors"

	"blogapi/internal/domain"
	"blogapi/internal/observability/metrics"
	"blogapi/internal/service"
	"blogapi/internal/store"
)

var _ service.ReactionService = (*ReactionServiceImpl)(nil)

// ReactionServiceImpl records a user's reaction in the ledger and keeps the
// target's derived state consistent: counters move by relative per-transition
// deltas added in SQL, and the bounded newest-likers cache on posts is rebuilt
// wholesale from the ledger whenever a like arrives or an existing like goes
// away, so it self-heals after the evicted-then-removed case.
//
// Conflicting reactions from the same user racing on the same target serialize
// through the ledger's upsert (last write wins on the stored status); counter
// drift under that race is an accepted best-effort bound, not a transaction.
type ReactionServiceImpl struct {
	Ledger   reactionLedger
	Posts    postReactionStore
	Comments commentReactionStore
	Users    loginResolver
}

type reactionLedger interface {
	SetReaction(ctx context.Context, userID domain.UserID, targetID domain.TargetID, targetType domain.TargetType, status domain.ReactionStatus) (domain.ReactionTransition, error)
	RecentLikes(ctx context.Context, targetID domain.TargetID, limit int) ([]domain.Reaction, error)
}

type postReactionStore interface {
	GetByID(ctx context.Context, id domain.PostID) (*domain.Post, error)
	ApplyReactionDeltas(ctx context.Context, id domain.PostID, likesDelta, dislikesDelta int, newest domain.NewestLikes) error
	ApplyCountDeltas(ctx context.Context, id domain.PostID, likesDelta, dislikesDelta int) error
}

type commentReactionStore interface {
	GetByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error)
	ApplyCountDeltas(ctx context.Context, id domain.CommentID, likesDelta, dislikesDelta int) error
}

type loginResolver interface {
	LoginsByIDs(ctx context.Context, ids []domain.UserID) (map[domain.UserID]string, error)
}

func NewReactionServiceImpl(st *store.Store) *ReactionServiceImpl {
	return &ReactionServiceImpl{
		Ledger:   st.Reactions(),
		Posts:    st.Posts(),
		Comments: st.Comments(),
		Users:    st.Users(),
	}
}

func (r *ReactionServiceImpl) SetPostReaction(ctx context.Context, userID domain.UserID, postID domain.PostID, status domain.ReactionStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	if _, err := r.Posts.GetByID(ctx, postID); err != nil {
		return translateTargetErr(err)
	}

	transition, err := r.Ledger.SetReaction(ctx, userID, postID, domain.TargetPost, status)
	if err != nil {
		return err
	}
	if !transition.Changed() {
		return nil
	}

	likesDelta, dislikesDelta := transition.Deltas()

	if transition.TouchesLikes() {
		newest, err := r.rebuildNewestLikes(ctx, postID)
		if err != nil {
			return err
		}
		if err := r.Posts.ApplyReactionDeltas(ctx, postID, likesDelta, dislikesDelta, newest); err != nil {
			return err
		}
	} else if err := r.Posts.ApplyCountDeltas(ctx, postID, likesDelta, dislikesDelta); err != nil {
		return err
	}

	metrics.ReactionsAppliedTotal.WithLabelValues("post", string(status)).Inc()
	return nil
}

func (r *ReactionServiceImpl) SetCommentReaction(ctx context.Context, userID domain.UserID, commentID domain.CommentID, status domain.ReactionStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	if _, err := r.Comments.GetByID(ctx, commentID); err != nil {
		return translateTargetErr(err)
	}

	transition, err := r.Ledger.SetReaction(ctx, userID, commentID, domain.TargetComment, status)
	if err != nil {
		return err
	}
	if !transition.Changed() {
		return nil
	}

	likesDelta, dislikesDelta := transition.Deltas()
	if err := r.Comments.ApplyCountDeltas(ctx, commentID, likesDelta, dislikesDelta); err != nil {
		return err
	}

	metrics.ReactionsAppliedTotal.WithLabelValues("comment", string(status)).Inc()
	return nil
}

// rebuildNewestLikes replaces the cache from the ledger rather than patching
// it: fetch the freshest likes, resolve display logins, done.
func (r *ReactionServiceImpl) rebuildNewestLikes(ctx context.Context, postID domain.PostID) (domain.NewestLikes, error) {
	likes, err := r.Ledger.RecentLikes(ctx, postID, domain.NewestLikesLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]domain.UserID, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	logins, err := r.Users.LoginsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return domain.BuildNewestLikes(likes, logins), nil
}

func translateTargetErr(err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
