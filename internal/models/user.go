package models

import "time"

// User はユーザーのデータベース構造体を表します。
// 認証は外部のOAuthプロバイダーで行い、(Provider, Subject) で一意になります。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Provider  string    `gorm:"size:50;not null;uniqueIndex:idx_users_provider_subject" json:"provider"`
	Subject   string    `gorm:"size:255;not null;uniqueIndex:idx_users_provider_subject" json:"-"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []Item `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Identity はIDプロバイダーから取得したユーザー情報です。
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
}

type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
