package domain

import "time"

type Blog struct {
	ID          BlogID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	OwnerID     UserID    `gorm:"type:uuid;index" db:"owner_id" json:"ownerId"`
	Name        string    `gorm:"type:text;not null" db:"name" json:"name"`
	Description string    `gorm:"type:text" db:"description" json:"description"`
	WebsiteURL  string    `gorm:"type:text" db:"website_url" json:"websiteUrl"`
	CreatedAt   time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
	SoftDeletable
}

func (Blog) TableName() string { return "blogs" }
