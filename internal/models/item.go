// Package models はItemとUserのデータ構造を定義します。
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item はInbox/Backlogのタスクのデータベース構造体を表します。
// DueDate が nil の場合はBacklog、値がある場合はその日のInboxに属します。
type Item struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	UserID      uint           `gorm:"not null;index:idx_items_owner_due" json:"user_id"` // 所有者
	Title       string         `gorm:"size:255;not null" json:"title"`
	DueDate     *time.Time     `gorm:"index:idx_items_owner_due" json:"due_date"`
	Status      StoredStatus   `gorm:"size:20;not null" json:"status"`
	CompletedAt *time.Time     `json:"completed_at"`
	Order       int            `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除
}

// BeforeCreate はIDが未設定の場合にUUIDを採番します。
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// InBacklog はItemがBacklogに属しているかを返します。
func (i *Item) InBacklog() bool {
	return i.DueDate == nil
}

// ItemView はクライアントに返すItemの形です。
// Date は表示用の日付 (YYYY-MM-DD) で、Backlogの場合は null になります。
type ItemView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	Date        *string    `json:"date"`
	Order       int        `json:"order"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CreateItemRequest はItem作成リクエストの構造体です。
// Date は省略すると今日になります (Backlogでは無視されます)。
type CreateItemRequest struct {
	Title string  `json:"title" binding:"required"`
	Date  *string `json:"date"`
}

// UpdateItemRequest はItemの部分更新リクエストです。nil のフィールドは変更しません。
type UpdateItemRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
	Date   *string `json:"date"`
	Order  *int    `json:"order"`
}

// MoveToInboxRequest はBacklogからInboxへの移動リクエストです。
type MoveToInboxRequest struct {
	Date *string `json:"date"`
}
