package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"inbox-todo/backend/internal/models"
)

const (
	colorAccent   = "#7C3AED"
	colorMuted    = "#6D7383"
	colorProgress = "#F59E0B"
	colorDone     = "#22C55E"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDone)).Strikethrough(true)
)

var statusMarks = map[models.Status]string{
	models.StatusNotStarted: "[ ]",
	models.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color(colorProgress)).Render("[~]"),
	models.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorDone)).Render("[x]"),
}

const maxTitleWidth = 48

// renderItems はItemの一覧を端末向けに整形して書き出します。
func renderItems(w io.Writer, title string, items []models.ItemView) error {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("  (no items)"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, it := range items {
		name := it.Title
		if r := []rune(name); len(r) > maxTitleWidth {
			name = string(r[:maxTitleWidth-3]) + "..."
		}
		if it.Status == models.StatusCompleted {
			name = doneStyle.Render(name)
		}

		line := fmt.Sprintf("  %s %s", statusMarks[it.Status], name)
		if it.Date != nil {
			line += " " + mutedStyle.Render(*it.Date)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
