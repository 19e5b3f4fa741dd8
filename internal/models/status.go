package models

import "strings"

// Status はクライアントに見せる3状態のステータスです。
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus は文字列をStatusに変換します。
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusNotStarted:
		return StatusNotStarted, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// Valid はStatusが3状態のいずれかであるかを返します。
func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// StoredStatus はデータベースに保存されるステータスです。
// WAITING (相手待ち) は表示上 in_progress として扱います。
type StoredStatus string

const (
	StoredNotStarted StoredStatus = "NOT_STARTED"
	StoredInProgress StoredStatus = "IN_PROGRESS"
	StoredWaiting    StoredStatus = "WAITING"
	StoredCompleted  StoredStatus = "COMPLETED"
)

// View は保存値を表示用のStatusに変換します。
func (s StoredStatus) View() Status {
	switch s {
	case StoredInProgress, StoredWaiting:
		return StatusInProgress
	case StoredCompleted:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// StoredFor は表示用のStatusを保存値に変換します。
// v が current の表示値と同じ場合は current をそのまま返すため、WAITING は失われません。
func StoredFor(v Status, current StoredStatus) StoredStatus {
	if current.View() == v {
		return current
	}
	switch v {
	case StatusInProgress:
		return StoredInProgress
	case StatusCompleted:
		return StoredCompleted
	default:
		return StoredNotStarted
	}
}
