package domain

import "time"

type Post struct {
	ID               PostID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	BlogID           BlogID    `gorm:"type:uuid;index" db:"blog_id" json:"blogId"`
	Title            string    `gorm:"type:text;not null" db:"title" json:"title"`
	ShortDescription string    `gorm:"type:text" db:"short_description" json:"shortDescription"`
	Content          string    `gorm:"type:text" db:"content" json:"content"`
	CreatedAt        time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`

	ReactionsCount `gorm:"embedded"`
	// NewestLikes holds up to NewestLikesLimit most recent likers.
	NewestLikes NewestLikes `gorm:"type:jsonb;not null;default:'[]'" db:"newest_likes" json:"newestLikes"`

	SoftDeletable
}

func (Post) TableName() string { return "posts" }
