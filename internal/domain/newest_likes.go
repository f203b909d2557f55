package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NewestLikesLimit bounds the recent-likers cache on a post.
const NewestLikesLimit = 3

type NewestLike struct {
	AddedAt time.Time `json:"addedAt"`
	UserID  UserID    `json:"userId"`
	Login   string    `json:"login"`
}

// NewestLikes is stored as a jsonb column, most-recent first.
type NewestLikes []NewestLike

func (n NewestLikes) Value() (driver.Value, error) {
	if n == nil {
		n = NewestLikes{}
	}
	return json.Marshal(n)
}

func (n *NewestLikes) Scan(src any) error {
	if src == nil {
		*n = NewestLikes{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan newest likes: unsupported type %T", src)
	}
	return json.Unmarshal(raw, n)
}

// BuildNewestLikes shapes ledger rows (already ordered most-recent first) into
// the cache entries, resolving display logins. Unresolvable users keep an
// empty login rather than dropping the entry.
func BuildNewestLikes(likes []Reaction, logins map[UserID]string) NewestLikes {
	out := make(NewestLikes, 0, NewestLikesLimit)
	for _, r := range likes {
		if len(out) == NewestLikesLimit {
			break
		}
		out = append(out, NewestLike{
			AddedAt: r.UpdatedAt,
			UserID:  r.UserID,
			Login:   logins[r.UserID],
		})
	}
	return out
}
