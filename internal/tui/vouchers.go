package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/loomworks/tradeledger/internal/client"
)

type vouchersLoadedMsg struct {
	vouchers []client.VoucherView
	err      error
}

type voucherListModel struct {
	vouchers []client.VoucherView
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

func (m *voucherListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		vouchers, err := c.ListVouchers(context.Background())
		return vouchersLoadedMsg{vouchers: vouchers, err: err}
	}
}

func (m voucherListModel) update(msg tea.Msg) (voucherListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case vouchersLoadedMsg:
		m.loading = false
		m.vouchers = msg.vouchers
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.vouchers)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *voucherListModel) view() string {
	if m.loading {
		return "Loading vouchers..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.vouchers) == 0 {
		return dimStyle.Render("No vouchers posted yet.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Vouchers"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-10s %-38s %-10s %5s", "CODE", "VOUCHER", "TYPE", "LEGS")
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

	for i := start; i < len(m.vouchers) && i < start+maxRows; i++ {
		v := m.vouchers[i]
		line := fmt.Sprintf("  %-10s %-38s %-10s %5d", v.Code, v.VoucherID, v.EntryType, len(v.Legs))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	// Selected voucher legs
	if m.cursor >= 0 && m.cursor < len(m.vouchers) {
		v := m.vouchers[m.cursor]
		b.WriteString("\n")
		for _, leg := range v.Legs {
			side := "DR"
			amount := leg.Debit
			if leg.Credit > 0 {
				side = "CR"
				amount = leg.Credit
			}
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s %-14s %12s  %s", side, leg.Account, formatMinor(amount), leg.Description)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
