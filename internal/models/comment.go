package models

import "time"

// Comment belongs to exactly one article and is removed together with it.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ArticleID uint      `gorm:"not null;index" json:"articleId"`
	Article   *Article  `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
