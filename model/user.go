// Package model defines database models
package model

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	FullName     string `json:"fullName"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	// When disabled the user won't receive share notification mails
	NotificationsEnabled bool  `gorm:"default:true" json:"notificationsEnabled"`
	CreatedAt            int64 `gorm:"not null" json:"created_at"`

	Files        []File        `gorm:"foreignKey:UserID" json:"-"`
	Stats        Stats         `gorm:"foreignKey:UserID" json:"-"`
	StarredFiles []StarredFile `gorm:"foreignKey:UserID" json:"-"`
}
