package domain

import "time"

type Comment struct {
	ID        CommentID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	PostID    PostID    `gorm:"type:uuid;index" db:"post_id" json:"postId"`
	AuthorID  UserID    `gorm:"type:uuid;index" db:"author_id" json:"authorId"`
	Content   string    `gorm:"type:text;not null" db:"content" json:"content"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`

	ReactionsCount `gorm:"embedded"`

	SoftDeletable
}

func (Comment) TableName() string { return "comments" }
