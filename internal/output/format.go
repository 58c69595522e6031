// Package output provides plain-text formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"mstodo/internal/service"
)

const (
	// Checkbox glyphs mirror the note syntax so output can be pasted
	// back into a note.
	boxOpen = "[ ]"
	boxDone = "[x]"

	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// FormatTask formats one task line, optionally with its due date.
// Format: "{BOX}  {TITLE}" plus "  (due YYYY-MM-DD)" when requested.
func FormatTask(w io.Writer, task service.TaskItem, showDue bool) {
	box := boxOpen
	if task.Completed() {
		box = boxDone
	}
	line := fmt.Sprintf("%s  %s", box, normalizeTitle(task.Title))
	if showDue && task.DueDate != nil {
		line += fmt.Sprintf("  (due %s)", task.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintln(w, line)
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, title string, selected bool) {
	display := normalizeTitle(title)
	if selected {
		display += " [selected]"
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, display)
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats one list line for the lists command.
func FormatListName(w io.Writer, list service.TaskList, selected bool) {
	title := normalizeTitle(list.Title)
	if selected {
		title += " [selected]"
	}
	fmt.Fprintln(w, title)
}

// FormatGathered formats one gathered note item as a checklist line.
func FormatGathered(w io.Writer, title string, done bool) {
	box := boxOpen
	if done {
		box = boxDone
	}
	fmt.Fprintf(w, "- %s %s\n", box, title)
}

// normalizeTitle flattens newlines and substitutes a placeholder for
// empty titles.
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
