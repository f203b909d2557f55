package domain

import "time"

type ReactionStatus string

const (
	ReactionNone    ReactionStatus = "None"
	ReactionLike    ReactionStatus = "Like"
	ReactionDislike ReactionStatus = "Dislike"
)

func (s ReactionStatus) Valid() bool {
	switch s {
	case ReactionNone, ReactionLike, ReactionDislike:
		return true
	}
	return false
}

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Reaction is one user's current sentiment toward one target. Exactly one row
// exists per (user, target); a None status is a terminal toggle-off state, the
// row is reused and never deleted.
type Reaction struct {
	ID         ReactionID     `gorm:"type:uuid;primaryKey" db:"id"`
	UserID     UserID         `gorm:"type:uuid;uniqueIndex:ux_reactions_user_target" db:"user_id"`
	TargetID   TargetID       `gorm:"type:uuid;uniqueIndex:ux_reactions_user_target;index" db:"target_id"`
	TargetType TargetType     `gorm:"type:text;not null" db:"target_type"`
	Status     ReactionStatus `gorm:"type:text;not null" db:"status"`
	CreatedAt  time.Time      `gorm:"not null" db:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" db:"updated_at"`
}

func (Reaction) TableName() string { return "reactions" }

// ReactionTransition reports what a ledger upsert changed.
type ReactionTransition struct {
	Previous ReactionStatus
	Current  ReactionStatus
}

func (t ReactionTransition) Changed() bool { return t.Previous != t.Current }

// Deltas returns the counter movement for the transition: the previous status
// releases its counter, the current one claims its counter. Stores add these
// relative deltas in SQL so concurrent reactions from different users never
// clobber each other's counts.
func (t ReactionTransition) Deltas() (likes, dislikes int) {
	switch t.Previous {
	case ReactionLike:
		likes--
	case ReactionDislike:
		dislikes--
	}
	switch t.Current {
	case ReactionLike:
		likes++
	case ReactionDislike:
		dislikes++
	}
	return likes, dislikes
}

// TouchesLikes reports whether the transition can change the newest-likers
// cache: a like arrived, or an existing like was removed or replaced.
func (t ReactionTransition) TouchesLikes() bool {
	return t.Current == ReactionLike || (t.Previous == ReactionLike && t.Current != ReactionLike)
}
