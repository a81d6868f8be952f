package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/loomworks/tradeledger/internal/client"
	"github.com/loomworks/tradeledger/internal/ledger"
)

type invoicesLoadedMsg struct {
	invoices []ledger.SalesInvoice
	err      error
}

// invoicePostRequestMsg is sent when the user asks to post the selected invoice.
type invoicePostRequestMsg struct {
	id string
}

// invoicePostedMsg is sent after the server processes the post.
type invoicePostedMsg struct {
	id  string
	err error
}

type invoiceListModel struct {
	invoices []ledger.SalesInvoice
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

func (m *invoiceListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		invoices, err := c.ListInvoices(context.Background(), "")
		return invoicesLoadedMsg{invoices: invoices, err: err}
	}
}

func (m invoiceListModel) update(msg tea.Msg) (invoiceListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case invoicesLoadedMsg:
		m.loading = false
		m.invoices = msg.invoices
		m.err = msg.err

	case invoicePostedMsg:
		if msg.err != nil {
			m.err = msg.err
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.invoices)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Post):
			if id := m.selectedID(); id != "" {
				m.err = nil
				return m, func() tea.Msg {
					return invoicePostRequestMsg{id: id}
				}
			}
		}
	}
	return m, nil
}

func (m *invoiceListModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.invoices) {
		return m.invoices[m.cursor].ID
	}
	return ""
}

func (m *invoiceListModel) view() string {
	if m.loading {
		return "Loading invoices..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.invoices) == 0 {
		return dimStyle.Render("No invoices found.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Sales Invoices"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-38s %-14s %-10s %5s", "ID", "CUSTOMER", "STATUS", "LINES")
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

	for i := start; i < len(m.invoices) && i < start+maxRows; i++ {
		inv := m.invoices[i]
		line := fmt.Sprintf("  %-38s %-14s %-10s %5d", inv.ID, inv.CustomerID, inv.Status, len(inv.Items))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d invoices", len(m.invoices)))
	return b.String()
}
