// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// generatedMsg ends the progress display.
type generatedMsg struct {
	source ruleset.SourceKind
}

// progressModel shows a spinner while a ruleset is being generated.
type progressModel struct {
	spinner  spinner.Model
	provider string
	start    time.Time
	now      func() time.Time
	source   ruleset.SourceKind
	done     bool
}

func newProgressModel(provider string) *progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return &progressModel{spinner: s, provider: provider, start: time.Now(), now: time.Now}
}

// Init implements tea.Model.
func (m *progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		m.done = true
		m.source = msg.source
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *progressModel) View() string {
	elapsed := helpStyle.Render(m.now().Sub(m.start).Truncate(time.Second).String())
	if !m.done {
		return fmt.Sprintf("%s Generating ruleset with %s  %s\n", m.spinner.View(), m.provider, elapsed)
	}
	if m.source == ruleset.FallbackTemplate {
		return fmt.Sprintf("%s Served fallback template  %s\n", warnStyle.Render("!"), elapsed)
	}
	return fmt.Sprintf("%s Ruleset generated by %s  %s\n", successStyle.Render("✓"), m.provider, elapsed)
}

// withProgress runs generate, showing a spinner on w when it is a terminal.
func withProgress(w io.Writer, provider string, generate func() ruleset.Ruleset) ruleset.Ruleset {
	if !isTerminal(w) {
		return generate()
	}

	p := tea.NewProgram(newProgressModel(provider), tea.WithOutput(w), tea.WithInput(nil))
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()

	rs := generate()
	p.Send(generatedMsg{source: rs.SourceKind})
	<-done
	return rs
}
