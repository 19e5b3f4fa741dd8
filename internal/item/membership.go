package item

import (
	"time"

	"inbox-todo/backend/internal/models"
)

// MoveToInbox はBacklogのItemを due のInboxに入れます。
// ステータスは常に not_started に戻ります。
func MoveToInbox(it *models.Item, due time.Time, order int) {
	d := due.UTC()
	it.DueDate = &d
	it.Status = models.StoredNotStarted
	it.CompletedAt = nil
	it.Order = order
}

// MoveToBacklog はInboxのItemをBacklogに戻します。ステータスは変更しません。
func MoveToBacklog(it *models.Item, order int) {
	it.DueDate = nil
	it.Order = order
}
