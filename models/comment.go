package models

import "time"

// Comment is an immutable note attached to a leak.
type Comment struct {
	ID        int       `gorm:"primaryKey"                    json:"id"`
	LeakID    int       `gorm:"column:leak_id;not null;index" json:"leakId"`
	Leak      *Leak     `gorm:"foreignKey:LeakID"             json:"-"`
	UserID    *int      `gorm:"column:user_id"                json:"userId"`
	User      *User     `gorm:"foreignKey:UserID"             json:"-"`
	Content   string    `gorm:"column:content;not null"       json:"content"`
	CreatedAt time.Time `gorm:"column:created_at"             json:"createdAt"`
}

type CommentInput struct {
	LeakID  int     `json:"leakId"           validate:"required"`
	UserID  *int    `json:"userId,omitempty"`
	Content *string `json:"content"          validate:"required"`
}
