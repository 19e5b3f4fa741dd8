package item

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"inbox-todo/backend/internal/models"
)

var relativeDayRegex = regexp.MustCompile(`^([+-]?\d+)\s+(day|days|week|weeks)$`)

// ParseDay は日付の入力を解釈し、loc における0時を返します。
// 空文字列の場合は nil を返し、呼び出し側で今日として扱います。
// 対応する形式:
// - today / tomorrow / yesterday
// - YYYY-MM-DD (例: "2024-01-03")
// - N days / N weeks (例: "3 days", "-1 day")
func ParseDay(input string, now time.Time, loc *time.Location) (*time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil, nil
	}

	today := StartOfDay(now, loc)
	switch input {
	case "today":
		return &today, nil
	case "tomorrow":
		d := today.AddDate(0, 0, 1)
		return &d, nil
	case "yesterday":
		d := today.AddDate(0, 0, -1)
		return &d, nil
	}

	if d, err := time.ParseInLocation(DateLayout, input, loc); err == nil {
		return &d, nil
	}

	matches := relativeDayRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("%w: invalid date %q. Use: YYYY-MM-DD, today, tomorrow, yesterday, X days or X weeks", models.ErrValidation, input)
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number in %q", models.ErrValidation, input)
	}
	if strings.HasPrefix(matches[2], "week") {
		n *= 7
	}
	d := today.AddDate(0, 0, n)
	return &d, nil
}
