// Package item はInbox/Backlogの表示ルールとステータスの遷移を扱います。
// データベースには触れず、時刻と time.Location だけで判定します。
package item

import "time"

// DateLayout はAPIで扱う日付の形式です。
const DateLayout = "2006-01-02"

// StartOfDay は loc におけるtの日付の0時を返します。
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Bounds は day の開始時刻と翌日の開始時刻をUTCで返します。
// 範囲は [start, next) で、end(D) を含む半開区間です。
func Bounds(day time.Time, loc *time.Location) (start, next time.Time) {
	s := StartOfDay(day, loc)
	return s.UTC(), s.AddDate(0, 0, 1).UTC()
}

// FormatDay は loc での日付を YYYY-MM-DD で返します。
func FormatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
