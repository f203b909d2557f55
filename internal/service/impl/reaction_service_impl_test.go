package impl

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/store"

	"github.com/google/uuid"
)

// ---- fakes ----

type ledgerKey struct {
	user   domain.UserID
	target domain.TargetID
}

type memoryLedger struct {
	rows map[ledgerKey]*domain.Reaction
	now  func() time.Time
}

func newMemoryLedger(now func() time.Time) *memoryLedger {
	return &memoryLedger{rows: make(map[ledgerKey]*domain.Reaction), now: now}
}

func (m *memoryLedger) SetReaction(ctx context.Context, userID domain.UserID, targetID domain.TargetID, targetType domain.TargetType, status domain.ReactionStatus) (domain.ReactionTransition, error) {
	key := ledgerKey{user: userID, target: targetID}
	prev := domain.ReactionNone
	row, ok := m.rows[key]
	if ok {
		prev = row.Status
		// updated_at marks the last status change; a repeat leaves it alone.
		if prev != status {
			row.Status = status
			row.UpdatedAt = m.now()
		}
	} else {
		m.rows[key] = &domain.Reaction{
			ID:         uuid.New(),
			UserID:     userID,
			TargetID:   targetID,
			TargetType: targetType,
			Status:     status,
			CreatedAt:  m.now(),
			UpdatedAt:  m.now(),
		}
	}
	return domain.ReactionTransition{Previous: prev, Current: status}, nil
}

func (m *memoryLedger) RecentLikes(ctx context.Context, targetID domain.TargetID, limit int) ([]domain.Reaction, error) {
	var out []domain.Reaction
	for _, row := range m.rows {
		if row.TargetID == targetID && row.Status == domain.ReactionLike {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryPostStore struct {
	posts map[domain.PostID]*domain.Post
}

func (m *memoryPostStore) GetByID(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPostStore) ApplyReactionDeltas(ctx context.Context, id domain.PostID, likesDelta, dislikesDelta int, newest domain.NewestLikes) error {
	p, ok := m.posts[id]
	if !ok {
		return store.ErrRecordNotFound
	}
	p.LikesCount += likesDelta
	p.DislikesCount += dislikesDelta
	p.NewestLikes = newest
	return nil
}

func (m *memoryPostStore) ApplyCountDeltas(ctx context.Context, id domain.PostID, likesDelta, dislikesDelta int) error {
	p, ok := m.posts[id]
	if !ok {
		return store.ErrRecordNotFound
	}
	p.LikesCount += likesDelta
	p.DislikesCount += dislikesDelta
	return nil
}

type memoryCommentStore struct {
	comments map[domain.CommentID]*domain.Comment
}

func (m *memoryCommentStore) GetByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryCommentStore) ApplyCountDeltas(ctx context.Context, id domain.CommentID, likesDelta, dislikesDelta int) error {
	c, ok := m.comments[id]
	if !ok {
		return store.ErrRecordNotFound
	}
	c.LikesCount += likesDelta
	c.DislikesCount += dislikesDelta
	return nil
}

type staticLoginResolver map[domain.UserID]string

func (r staticLoginResolver) LoginsByIDs(ctx context.Context, ids []domain.UserID) (map[domain.UserID]string, error) {
	out := make(map[domain.UserID]string, len(ids))
	for _, id := range ids {
		if login, ok := r[id]; ok {
			out[id] = login
		}
	}
	return out, nil
}

// ---- fixtures ----

type reactionFixture struct {
	svc      *ReactionServiceImpl
	ledger   *memoryLedger
	posts    *memoryPostStore
	comments *memoryCommentStore
	logins   staticLoginResolver
	clock    *time.Time
	postID   domain.PostID
}

func newReactionFixture() *reactionFixture {
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := &reactionFixture{
		logins: staticLoginResolver{},
		clock:  &clock,
	}
	f.ledger = newMemoryLedger(func() time.Time { return *f.clock })
	f.postID = uuid.New()
	f.posts = &memoryPostStore{posts: map[domain.PostID]*domain.Post{
		f.postID: {ID: f.postID, Title: "a post"},
	}}
	f.comments = &memoryCommentStore{comments: map[domain.CommentID]*domain.Comment{}}
	f.svc = &ReactionServiceImpl{
		Ledger:   f.ledger,
		Posts:    f.posts,
		Comments: f.comments,
		Users:    f.logins,
	}
	return f
}

func (f *reactionFixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func (f *reactionFixture) newUser(login string) domain.UserID {
	id := uuid.New()
	f.logins[id] = login
	return id
}

func (f *reactionFixture) react(t *testing.T, userID domain.UserID, status domain.ReactionStatus) {
	t.Helper()
	if err := f.svc.SetPostReaction(context.Background(), userID, f.postID, status); err != nil {
		t.Fatalf("set reaction %s: %v", status, err)
	}
}

func (f *reactionFixture) post(t *testing.T) *domain.Post {
	t.Helper()
	p, err := f.posts.GetByID(context.Background(), f.postID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	return p
}

// ---- tests ----

func TestSetPostReactionRoundTrip(t *testing.T) {
	f := newReactionFixture()
	user := f.newUser("alice")

	f.react(t, user, domain.ReactionLike)
	p := f.post(t)
	if p.LikesCount != 1 || p.DislikesCount != 0 {
		t.Fatalf("after like: %d/%d", p.LikesCount, p.DislikesCount)
	}
	if len(p.NewestLikes) != 1 || p.NewestLikes[0].Login != "alice" {
		t.Fatalf("newest likes after like: %+v", p.NewestLikes)
	}

	f.advance(time.Second)
	f.react(t, user, domain.ReactionDislike)
	p = f.post(t)
	if p.LikesCount != 0 || p.DislikesCount != 1 {
		t.Fatalf("after dislike: %d/%d", p.LikesCount, p.DislikesCount)
	}
	// The like turned into a dislike, so the likers cache loses the entry.
	if len(p.NewestLikes) != 0 {
		t.Fatalf("newest likes after switch to dislike: %+v", p.NewestLikes)
	}

	f.advance(time.Second)
	f.react(t, user, domain.ReactionNone)
	p = f.post(t)
	if p.LikesCount != 0 || p.DislikesCount != 0 {
		t.Fatalf("after none: %d/%d", p.LikesCount, p.DislikesCount)
	}
}

func TestSetPostReactionSameStatusIsNoop(t *testing.T) {
	f := newReactionFixture()
	user := f.newUser("alice")

	f.react(t, user, domain.ReactionLike)
	f.advance(time.Second)
	f.react(t, user, domain.ReactionLike)

	p := f.post(t)
	if p.LikesCount != 1 {
		t.Fatalf("repeated like must not double count: %d", p.LikesCount)
	}
}

func TestNewestLikesEvictsOldest(t *testing.T) {
	f := newReactionFixture()
	users := []domain.UserID{
		f.newUser("first"), f.newUser("second"),
		f.newUser("third"), f.newUser("fourth"),
	}
	for _, u := range users {
		f.react(t, u, domain.ReactionLike)
		f.advance(time.Second)
	}

	p := f.post(t)
	if p.LikesCount != 4 {
		t.Fatalf("expected 4 likes, got %d", p.LikesCount)
	}
	if len(p.NewestLikes) != domain.NewestLikesLimit {
		t.Fatalf("cache must hold %d entries, got %d", domain.NewestLikesLimit, len(p.NewestLikes))
	}
	// Most recent first, the earliest liker is evicted.
	want := []string{"fourth", "third", "second"}
	for i, login := range want {
		if p.NewestLikes[i].Login != login {
			t.Fatalf("position %d: want %q, got %q", i, login, p.NewestLikes[i].Login)
		}
	}
}

func TestNewestLikesBackfillsAfterUnlike(t *testing.T) {
	f := newReactionFixture()
	first := f.newUser("first")
	second := f.newUser("second")
	third := f.newUser("third")
	fourth := f.newUser("fourth")
	for _, u := range []domain.UserID{first, second, third, fourth} {
		f.react(t, u, domain.ReactionLike)
		f.advance(time.Second)
	}

	// "fourth" withdraws: the cache is rebuilt from the ledger, so the
	// previously evicted "first" reappears.
	f.react(t, fourth, domain.ReactionNone)

	p := f.post(t)
	if p.LikesCount != 3 {
		t.Fatalf("expected 3 likes, got %d", p.LikesCount)
	}
	want := []string{"third", "second", "first"}
	for i, login := range want {
		if p.NewestLikes[i].Login != login {
			t.Fatalf("position %d: want %q, got %q", i, login, p.NewestLikes[i].Login)
		}
	}
}

func TestRepeatLikeDoesNotRepromote(t *testing.T) {
	f := newReactionFixture()
	first := f.newUser("first")
	second := f.newUser("second")
	third := f.newUser("third")

	firstLikedAt := *f.clock
	f.react(t, first, domain.ReactionLike)
	f.advance(time.Second)
	f.react(t, second, domain.ReactionLike)
	f.advance(time.Second)

	// "first" repeats the Like; the ledger row keeps its original timestamp.
	f.react(t, first, domain.ReactionLike)
	f.advance(time.Second)

	// A fresh like triggers a rebuild; ordering must still be insertion order.
	f.react(t, third, domain.ReactionLike)

	p := f.post(t)
	want := []string{"third", "second", "first"}
	for i, login := range want {
		if p.NewestLikes[i].Login != login {
			t.Fatalf("position %d: want %q, got %q", i, login, p.NewestLikes[i].Login)
		}
	}
	if !p.NewestLikes[2].AddedAt.Equal(firstLikedAt) {
		t.Fatalf("repeat like moved addedAt: %v != %v", p.NewestLikes[2].AddedAt, firstLikedAt)
	}
}

// stalePostReads serves reads from a snapshot taken at construction while
// writes go to the live store, modeling a reader whose baseline is outdated by
// the time its write lands.
type stalePostReads struct {
	*memoryPostStore
	snapshot map[domain.PostID]domain.Post
}

func (s *stalePostReads) GetByID(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	p, ok := s.snapshot[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func TestReactionCountsSurviveStaleReads(t *testing.T) {
	f := newReactionFixture()
	snapshot := map[domain.PostID]domain.Post{}
	for id, p := range f.posts.posts {
		snapshot[id] = *p
	}
	f.svc.Posts = &stalePostReads{memoryPostStore: f.posts, snapshot: snapshot}

	// Both reactions observe the same zero-count baseline; deltas must still
	// both land.
	f.react(t, f.newUser("first"), domain.ReactionLike)
	f.advance(time.Second)
	f.react(t, f.newUser("second"), domain.ReactionLike)

	p := f.post(t)
	if p.LikesCount != 2 {
		t.Fatalf("a concurrent like was lost: %d", p.LikesCount)
	}
}

func TestDislikesNeverEnterNewestLikes(t *testing.T) {
	f := newReactionFixture()
	f.react(t, f.newUser("hater"), domain.ReactionDislike)

	p := f.post(t)
	if p.DislikesCount != 1 {
		t.Fatalf("expected 1 dislike, got %d", p.DislikesCount)
	}
	if len(p.NewestLikes) != 0 {
		t.Fatalf("dislike must not appear in newest likes: %+v", p.NewestLikes)
	}
}

func TestSetPostReactionInvalidStatus(t *testing.T) {
	f := newReactionFixture()
	err := f.svc.SetPostReaction(context.Background(), uuid.New(), f.postID, domain.ReactionStatus("Meh"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSetPostReactionUnknownPost(t *testing.T) {
	f := newReactionFixture()
	err := f.svc.SetPostReaction(context.Background(), uuid.New(), uuid.New(), domain.ReactionLike)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetCommentReactionCountsOnly(t *testing.T) {
	f := newReactionFixture()
	commentID := uuid.New()
	f.comments.comments[commentID] = &domain.Comment{ID: commentID, Content: "a comment"}

	user := f.newUser("alice")
	if err := f.svc.SetCommentReaction(context.Background(), user, commentID, domain.ReactionLike); err != nil {
		t.Fatalf("set comment reaction: %v", err)
	}
	c, _ := f.comments.GetByID(context.Background(), commentID)
	if c.LikesCount != 1 || c.DislikesCount != 0 {
		t.Fatalf("comment counts: %d/%d", c.LikesCount, c.DislikesCount)
	}

	f.advance(time.Second)
	if err := f.svc.SetCommentReaction(context.Background(), user, commentID, domain.ReactionDislike); err != nil {
		t.Fatalf("switch comment reaction: %v", err)
	}
	c, _ = f.comments.GetByID(context.Background(), commentID)
	if c.LikesCount != 0 || c.DislikesCount != 1 {
		t.Fatalf("comment counts after switch: %d/%d", c.LikesCount, c.DislikesCount)
	}
}
