// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxHistory bounds the saved console history.
const maxHistory = 1000

// HistoryFile is where the console keeps its history, ~/.wsinfra_ti_history.
func HistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wsinfra_ti_history"
	}
	return filepath.Join(home, ".wsinfra_ti_history")
}

type exchange struct {
	query  string
	answer string
}

// Console is the bubbletea model of the interactive inspector.
type Console struct {
	inspector   *Inspector
	input       textinput.Model
	historyFile string
	history     []string
	histIndex   int
	banner      []string
	session     []exchange
}

// NewConsole prepares a console over i. An empty historyFile disables
// history persistence.
func NewConsole(i *Inspector, historyFile string) Console {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	return Console{
		inspector:   i,
		input:       ti,
		historyFile: historyFile,
		history:     loadHistory(historyFile),
		histIndex:   -1,
		banner: []string{
			i.Summary(),
			"Type 'help' for syntax, 'exit' or Ctrl+C to quit.",
		},
	}
}

func (c Console) Init() tea.Cmd {
	return textinput.Blink
}

func (c Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	switch key.String() {
	case "enter":
		entry := strings.TrimSpace(c.input.Value())
		c.input.SetValue("")
		if entry == "" {
			return c, nil
		}
		if entry == "exit" || entry == "quit" {
			return c, tea.Quit
		}

		answer := Help
		if entry != "help" {
			answer = c.answer(entry)
		}
		c.history = append(c.history, entry)
		c.histIndex = -1
		c.session = append(c.session, exchange{query: entry, answer: answer})
		saveHistory(c.historyFile, c.history)
		return c, nil

	case "up":
		if len(c.history) == 0 {
			return c, nil
		}
		if c.histIndex == -1 {
			c.histIndex = len(c.history) - 1
		} else if c.histIndex > 0 {
			c.histIndex--
		}
		c.input.SetValue(c.history[c.histIndex])
		c.input.CursorEnd()
		return c, nil

	case "down":
		if c.histIndex >= 0 && c.histIndex < len(c.history)-1 {
			c.histIndex++
			c.input.SetValue(c.history[c.histIndex])
			c.input.CursorEnd()
		} else {
			c.histIndex = -1
			c.input.SetValue("")
		}
		return c, nil

	case "ctrl+c", "esc":
		return c, tea.Quit
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c Console) answer(entry string) string {
	out, err := c.inspector.Query(entry)
	switch {
	case err != nil:
		return "Error: " + err.Error()
	case out == "":
		return "No results found."
	}
	return out
}

func (c Console) View() string {
	prompt := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9900")).Render("> ")

	lines := append([]string{}, c.banner...)
	for _, e := range c.session {
		lines = append(lines, prompt+e.query, e.answer)
	}
	lines = append(lines, prompt+c.input.View())

	return strings.Join(lines, "\n")
}

// Run starts the console on the terminal and blocks until it exits.
func Run(i *Inspector, historyFile string) error {
	_, err := tea.NewProgram(NewConsole(i, historyFile)).Run()
	return err
}

// Help is the console syntax summary.
const Help = `Query syntax:
  .Resources.WorkstationImageRecipe.Properties   JSON at a template path
  .Outputs.PipelineArn.Value                     [n] and [*] index lists

  resources | outputs | parameters               list names
  AWS::ImageBuilder::                            logical ids by type prefix
  WorkstationImagePipeline                       type and construct path

  Anything else is an HCL expression, '/' forces it:
    resources.WorkstationImagePipeline.properties.Schedule
    keys(resources)
    bytype("AWS::IAM::")
    dependents("WorkstationImageRecipe")
    intrinsic(outputs.PipelineArn.value)
    [for id, r in resources : id if r.type == "AWS::EC2::SecurityGroup"]

  Navigation:
    up/down   history
    Ctrl+C    exit`

func loadHistory(filename string) []string {
	var history []string
	if filename == "" {
		return history
	}

	file, err := os.Open(filename)
	if err != nil {
		return history
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			history = append(history, line)
		}
	}
	return history
}

func saveHistory(filename string, history []string) {
	if filename == "" {
		return
	}

	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		return
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range history[start:] {
		fmt.Fprintln(w, line)
	}
	w.Flush()
}
