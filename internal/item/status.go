package item

import (
	"time"

	"inbox-todo/backend/internal/models"
)

// cycle はステータスの巡回順です。
var cycle = [...]models.Status{
	models.StatusNotStarted,
	models.StatusInProgress,
	models.StatusCompleted,
}

// Next は巡回順で次のステータスを返します。
// completed の次は not_started に戻ります。
func Next(s models.Status) models.Status {
	for i, c := range cycle {
		if c == s {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return models.StatusNotStarted
}

// ApplyStatus はItemのステータスを変更し、completed_at を合わせます。
// completed に入るときだけ now を記録し、completed 以外では必ず nil にします。
func ApplyStatus(it *models.Item, next models.Status, now time.Time) {
	prev := it.Status.View()
	it.Status = models.StoredFor(next, it.Status)

	if next != models.StatusCompleted {
		it.CompletedAt = nil
		return
	}
	if prev != models.StatusCompleted || it.CompletedAt == nil {
		t := now.UTC()
		it.CompletedAt = &t
	}
}
