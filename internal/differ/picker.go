// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Item is one pickable version. Items are listed newest first.
type Item struct {
	ID    string
	Label string
}

// Pick lets the operator mark two items and returns them oldest first. It
// returns nil when the picker is abandoned.
func Pick(items []Item) ([]Item, error) {
	m, err := tea.NewProgram(picker{items: items}).Run()
	if err != nil {
		return nil, err
	}
	return m.(picker).result(), nil
}

type picker struct {
	items    []Item
	cursor   int
	selected []int
	done     bool
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.selected = nil
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		m.toggle()
	case "enter":
		if len(m.selected) == 2 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *picker) toggle() {
	if len(m.items) == 0 {
		return
	}
	for i, s := range m.selected {
		if s == m.cursor {
			m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			return
		}
	}
	if len(m.selected) < 2 {
		m.selected = append(m.selected, m.cursor)
	}
}

func (m picker) isSelected(i int) bool {
	for _, s := range m.selected {
		if s == i {
			return true
		}
	}
	return false
}

// result returns the two picks, the older (larger index) first.
func (m picker) result() []Item {
	if !m.done || len(m.selected) != 2 {
		return nil
	}
	a, b := m.selected[0], m.selected[1]
	if a < b {
		a, b = b, a
	}
	return []Item{m.items[a], m.items[b]}
}

func (m picker) View() string {
	var sb strings.Builder
	sb.WriteString("Select two template versions:\n\n")
	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if m.isSelected(i) {
			mark = "x"
		}
		fmt.Fprintf(&sb, "%s [%s] %s\n", cursor, mark, item.Label)
	}
	sb.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return sb.String()
}
