package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Article is a published post. Announce, FullText, Photo and UserID are omitted
// from JSON when empty so the trimmed projection joined to comments stays small.
// TitleSearch is Title lowercased in Go, so search never relies on the
// database collation to fold Cyrillic.
type Article struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:250;not null" json:"title"`
	TitleSearch string     `gorm:"size:250;not null;default:'';index" json:"-"`
	Announce    string     `gorm:"size:300;not null" json:"announce,omitempty"`
	FullText    string     `gorm:"type:text;not null" json:"fullText,omitempty"`
	Photo       *string    `json:"photo,omitempty"`
	CreateDate  time.Time  `gorm:"not null;index" json:"createDate"`
	UserID      *uint      `gorm:"index" json:"userId,omitempty"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Categories  []Category `gorm:"many2many:article_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Comments    []Comment  `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// SearchKey folds a title or a query for case-insensitive matching.
func SearchKey(s string) string {
	return strings.ToLower(s)
}

// BeforeSave keeps TitleSearch in step with Title on struct writes. Map
// updates set the column themselves.
func (a *Article) BeforeSave(*gorm.DB) error {
	a.TitleSearch = SearchKey(a.Title)
	return nil
}

// ArticlePage is one page of articles together with the total row count.
type ArticlePage struct {
	Count    int64      `json:"count"`
	Articles []*Article `json:"articles"`
}

// CategoryArticles is the article listing of a single category.
type CategoryArticles struct {
	Category           *Category  `json:"category"`
	Count              int64      `json:"count"`
	ArticlesByCategory []*Article `json:"articlesByCategory"`
}

// HomeFeed is the data behind the home page widgets.
type HomeFeed struct {
	BestCommentedArticles []*Article `json:"bestCommentedArticles"`
	LastComments          []*Comment `json:"lastComments"`
}
