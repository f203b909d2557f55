package domain

// ReactionsCount is the aggregate embedded in posts and comments. It is kept
// equal to the number of Like/Dislike reactions for the target by applying
// per-transition deltas, never by rescanning.
type ReactionsCount struct {
	LikesCount    int `gorm:"not null;default:0" db:"likes_count" json:"likesCount"`
	DislikesCount int `gorm:"not null;default:0" db:"dislikes_count" json:"dislikesCount"`
}

// Apply returns the counts after one status transition. Callers only pass
// transitions the ledger actually recorded, which is what keeps the counters
// non-negative.
func (c ReactionsCount) Apply(t ReactionTransition) ReactionsCount {
	likes, dislikes := t.Deltas()
	c.LikesCount += likes
	c.DislikesCount += dislikes
	return c
}
