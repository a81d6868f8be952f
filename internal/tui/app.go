package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/loomworks/tradeledger/internal/client"
	"github.com/loomworks/tradeledger/internal/ledger"
)

type mode int

const (
	modeParties mode = iota
	modeInvoices
	modeStock
	modeVouchers
	modeTrialBalance
)

var tabModes = []mode{modeParties, modeInvoices, modeStock, modeVouchers, modeTrialBalance}

func tabLabel(m mode) string {
	switch m {
	case modeParties:
		return "Parties"
	case modeInvoices:
		return "Invoices"
	case modeStock:
		return "Stock"
	case modeVouchers:
		return "Vouchers"
	case modeTrialBalance:
		return "Trial Balance"
	default:
		return ""
	}
}

func formatMinor(v int64) string {
	return ledger.FormatMinor(v)
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string

	parties  partyListModel
	invoices invoiceListModel
	stock    stockModel
	vouchers voucherListModel
	trial    trialBalanceModel
}

func NewApp(c *client.Client) *App {
	return &App{
		client:   c,
		mode:     modeParties,
		tabIndex: 0,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.parties.init(a.client),
		a.invoices.init(a.client),
		a.stock.init(a.client),
		a.vouchers.init(a.client),
		a.trial.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.parties.width = msg.Width
		a.parties.height = msg.Height - 6
		a.invoices.width = msg.Width
		a.invoices.height = msg.Height - 6
		a.stock.width = msg.Width
		a.stock.height = msg.Height - 6
		a.vouchers.width = msg.Width
		a.vouchers.height = msg.Height - 6
		a.trial.width = msg.Width
		a.trial.height = msg.Height - 6
		return a, nil
	}

	// Route data-loaded messages to the correct sub-model regardless of active
	// mode: Init() fires all loads concurrently but the bottom delegation only
	// routes to the active mode's model.
	switch typedMsg := msg.(type) {
	case partiesLoadedMsg:
		var cmd tea.Cmd
		a.parties, cmd = a.parties.update(msg)
		return a, cmd
	case invoicesLoadedMsg:
		var cmd tea.Cmd
		a.invoices, cmd = a.invoices.update(msg)
		return a, cmd
	case stockLoadedMsg:
		var cmd tea.Cmd
		a.stock, cmd = a.stock.update(msg)
		return a, cmd
	case vouchersLoadedMsg:
		var cmd tea.Cmd
		a.vouchers, cmd = a.vouchers.update(msg)
		return a, cmd
	case trialLoadedMsg:
		var cmd tea.Cmd
		a.trial, cmd = a.trial.update(msg)
		return a, cmd
	case invoicePostRequestMsg:
		id := typedMsg.id
		return a, func() tea.Msg {
			_, err := a.client.PostInvoice(context.Background(), id, "tui")
			return invoicePostedMsg{id: id, err: err}
		}
	case invoicePostedMsg:
		if typedMsg.err != nil {
			a.invoices, _ = a.invoices.update(msg)
			return a, nil
		}
		a.statusMsg = "Invoice " + typedMsg.id + " posted"
		return a, tea.Batch(
			a.invoices.init(a.client),
			a.parties.init(a.client),
			a.stock.init(a.client),
			a.vouchers.init(a.client),
			a.trial.init(a.client),
		)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Refresh):
			a.statusMsg = ""
			return a, a.refreshTab()
		}
	}

	// Delegate update to active sub-model
	var cmd tea.Cmd
	switch a.mode {
	case modeParties:
		a.parties, cmd = a.parties.update(msg)
	case modeInvoices:
		a.invoices, cmd = a.invoices.update(msg)
	case modeStock:
		a.stock, cmd = a.stock.update(msg)
	case modeVouchers:
		a.vouchers, cmd = a.vouchers.update(msg)
	case modeTrialBalance:
		a.trial, cmd = a.trial.update(msg)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeParties:
		return a.parties.init(a.client)
	case modeInvoices:
		return a.invoices.init(a.client)
	case modeStock:
		return a.stock.init(a.client)
	case modeVouchers:
		return a.vouchers.init(a.client)
	case modeTrialBalance:
		return a.trial.init(a.client)
	}
	return nil
}

func (a *App) View() string {
	// Tab bar
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	// Content
	var content string
	switch a.mode {
	case modeParties:
		content = a.parties.view()
	case modeInvoices:
		content = a.invoices.view()
	case modeStock:
		content = a.stock.view()
	case modeVouchers:
		content = a.vouchers.view()
	case modeTrialBalance:
		content = a.trial.view()
	}

	// Status bar
	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := dimStyle.Render("tab:switch  up/down:move  p:post invoice  r:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}
