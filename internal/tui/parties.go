package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/loomworks/tradeledger/internal/client"
	"github.com/loomworks/tradeledger/internal/report"
)

type partiesLoadedMsg struct {
	lines []report.PartyBalanceLine
	err   error
}

type partyListModel struct {
	lines   []report.PartyBalanceLine
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *partyListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		lines, err := c.PartyBalances(context.Background(), "")
		return partiesLoadedMsg{lines: lines, err: err}
	}
}

func (m partyListModel) update(msg tea.Msg) (partyListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case partiesLoadedMsg:
		m.loading = false
		m.lines = msg.lines
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.lines)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *partyListModel) view() string {
	if m.loading {
		return "Loading parties..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.lines) == 0 {
		return dimStyle.Render("No parties found.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Party Balances"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-14s %-28s %-14s %14s", "ID", "NAME", "KIND", "BALANCE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.lines) && i < start+maxRows; i++ {
		p := m.lines[i]
		name := p.PartyName
		if len(name) > 26 {
			name = name[:26] + ".."
		}
		line := fmt.Sprintf("  %-14s %-28s %-14s %14s", p.PartyID, name, p.Kind, formatMinor(p.Balance))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d parties", len(m.lines)))
	return b.String()
}
