// Package note extracts checklist items from Markdown notes.
package note

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"mstodo/internal/service"
)

// Item is one checklist line: the trimmed text after the brackets and
// whether the box is checked.
type Item struct {
	Title string
	Done  bool
}

// checklistRe matches "- [ ]" / "- [x]" lines with optional leading
// whitespace.
var checklistRe = regexp.MustCompile(`^\s*- \[([ xX])\]\s*(.*)$`)

// Parse returns the checklist items of a note, in order. Lines whose
// title trims to nothing are dropped.
func Parse(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		m := checklistRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		items = append(items, Item{
			Title: title,
			Done:  m[1] == "x" || m[1] == "X",
		})
	}
	return items
}

// ReadFile parses the checklist items of one note file. A missing file
// surfaces as ErrNoActiveNote.
func ReadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, service.ErrNoActiveNote
	}
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// GatherDir parses every .md file under dir (recursively, in path
// order) and merges their checklist items into one ordered title→done
// map. A title seen more than once keeps its first position but takes
// the last state seen, matching the remote fetch collapse rule.
func GatherDir(dir string) (titles []string, states map[string]bool, err error) {
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, service.ErrNoActiveNote
		}
		return nil, nil, err
	}
	sort.Strings(paths)

	states = make(map[string]bool)
	for _, path := range paths {
		items, err := ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		for _, item := range items {
			if _, seen := states[item.Title]; !seen {
				titles = append(titles, item.Title)
			}
			states[item.Title] = item.Done
		}
	}
	return titles, states, nil
}
