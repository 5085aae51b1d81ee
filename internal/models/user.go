// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered account. The first account created becomes the blog owner.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       *string   `json:"avatar,omitempty"`
	IsOwner      bool      `gorm:"default:false" json:"isOwner"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
