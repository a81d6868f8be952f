package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/loomworks/tradeledger/internal/client"
	"github.com/loomworks/tradeledger/internal/report"
)

type trialLoadedMsg struct {
	tb  *report.TrialBalance
	err error
}

type trialBalanceModel struct {
	tb      *report.TrialBalance
	loading bool
	err     error
	width   int
	height  int
}

func (m *trialBalanceModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		tb, err := c.TrialBalance(context.Background())
		return trialLoadedMsg{tb: tb, err: err}
	}
}

func (m trialBalanceModel) update(msg tea.Msg) (trialBalanceModel, tea.Cmd) {
	if msg, ok := msg.(trialLoadedMsg); ok {
		m.loading = false
		m.tb = msg.tb
		m.err = msg.err
	}
	return m, nil
}

func (m *trialBalanceModel) view() string {
	if m.loading {
		return "Loading trial balance..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.tb == nil || len(m.tb.Lines) == 0 {
		return dimStyle.Render("No postings yet.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Trial Balance"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-14s %-32s %14s %14s", "ACCOUNT", "NAME", "DEBIT", "CREDIT")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, line := range m.tb.Lines {
		name := line.AccountName
		if len(name) > 30 {
			name = name[:30] + ".."
		}
		b.WriteString(fmt.Sprintf("  %-14s %-32s %14s %14s\n",
			line.AccountID, name, formatMinor(line.Debit), formatMinor(line.Credit)))
	}

	b.WriteString(fmt.Sprintf("\n  %-47s %14s %14s\n", "TOTAL",
		formatMinor(m.tb.TotalDebit), formatMinor(m.tb.TotalCredit)))
	if m.tb.Balanced {
		b.WriteString(successStyle.Render("  balanced"))
	} else {
		b.WriteString(errorStyle.Render("  NOT BALANCED"))
	}

	return b.String()
}
