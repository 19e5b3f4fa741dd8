package item

import (
	"time"

	"inbox-todo/backend/internal/models"
)

// VisibleOn はItemが day のInboxに表示されるかを返します。
//
//  1. 期日が day 当日
//  2. 期日が day より前で、未完了 (繰り越し)
//  3. day 当日に完了した
//
// 期日が day より後のItemは表示しません。
func VisibleOn(it *models.Item, day time.Time, loc *time.Location) bool {
	if it.DueDate == nil || it.DeletedAt.Valid {
		return false
	}
	start, next := Bounds(day, loc)
	due := *it.DueDate
	switch {
	case !due.Before(next):
		return false
	case !due.Before(start):
		return true
	case it.Status.View() != models.StatusCompleted:
		return true
	default:
		return completedWithin(it, start, next)
	}
}

func completedWithin(it *models.Item, start, next time.Time) bool {
	c := it.CompletedAt
	return c != nil && !c.Before(start) && c.Before(next)
}

// DisplayDate は day のInboxで表示する日付を返します。
// day に完了したItemは day、それ以外は自分の期日です。
func DisplayDate(it *models.Item, day time.Time, loc *time.Location) string {
	start, next := Bounds(day, loc)
	if completedWithin(it, start, next) || it.DueDate == nil {
		return FormatDay(start, loc)
	}
	return FormatDay(*it.DueDate, loc)
}

// ToView はItemをクライアント向けの形に変換します。日付は期日そのものです。
func ToView(it *models.Item, loc *time.Location) models.ItemView {
	v := models.ItemView{
		ID:          it.ID,
		Title:       it.Title,
		Status:      it.Status.View(),
		Order:       it.Order,
		CompletedAt: it.CompletedAt,
	}
	if it.DueDate != nil {
		d := FormatDay(*it.DueDate, loc)
		v.Date = &d
	}
	return v
}

// ViewOn は day のInbox用にItemを変換します。
func ViewOn(it *models.Item, day time.Time, loc *time.Location) models.ItemView {
	v := ToView(it, loc)
	d := DisplayDate(it, day, loc)
	v.Date = &d
	return v
}
