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

type stockLoadedMsg struct {
	lines []report.StockLine
	err   error
}

type stockModel struct {
	lines   []report.StockLine
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *stockModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		lines, err := c.StockOnHand(context.Background())
		return stockLoadedMsg{lines: lines, err: err}
	}
}

func (m stockModel) update(msg tea.Msg) (stockModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stockLoadedMsg:
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

func (m *stockModel) view() string {
	if m.loading {
		return "Loading stock..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.lines) == 0 {
		return dimStyle.Render("No items found.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Stock On Hand"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-14s %-28s %-8s %12s %12s", "ITEM", "NAME", "PACKING", "STOCK", "WEIGHT KG")
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
		s := m.lines[i]
		name := s.ItemName
		if len(name) > 26 {
			name = name[:26] + ".."
		}
		line := fmt.Sprintf("  %-14s %-28s %-8s %12s %12s", s.ItemID, name, s.PackingType, s.Stock.String(), s.WeightKg.StringFixed(2))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d items", len(m.lines)))
	return b.String()
}
