package state

import (
	"sort"

	"github.com/loomworks/tradeledger/internal/ledger"
)

// Collection names addressable by commands.
const (
	ColJournalEntries    = "journalEntries"
	ColSalesInvoices     = "salesInvoices"
	ColProductions       = "productions"
	ColOriginalPurchases = "originalPurchases"
	ColItems             = "items"
	ColParties           = "parties"
)

// Aggregate is the whole application state: every collection plus the
// voucher counters. It is mutated only through the Dispatcher, one batch
// at a time, and mirrored wholesale to the snapshot store.
type Aggregate struct {
	Entries     map[string]ledger.JournalEntry
	Invoices    map[string]ledger.SalesInvoice
	Productions map[string]ledger.Production
	Purchases   map[string]ledger.OriginalPurchase
	Items       map[string]ledger.Item
	Parties     map[string]ledger.Party
	Counters    Counters
	Version     uint64
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		Entries:     make(map[string]ledger.JournalEntry),
		Invoices:    make(map[string]ledger.SalesInvoice),
		Productions: make(map[string]ledger.Production),
		Purchases:   make(map[string]ledger.OriginalPurchase),
		Items:       make(map[string]ledger.Item),
		Parties:     make(map[string]ledger.Party),
		Counters:    NewCounters(),
	}
}

func (a *Aggregate) clone() *Aggregate {
	c := &Aggregate{
		Entries:     make(map[string]ledger.JournalEntry, len(a.Entries)),
		Invoices:    make(map[string]ledger.SalesInvoice, len(a.Invoices)),
		Productions: make(map[string]ledger.Production, len(a.Productions)),
		Purchases:   make(map[string]ledger.OriginalPurchase, len(a.Purchases)),
		Items:       make(map[string]ledger.Item, len(a.Items)),
		Parties:     make(map[string]ledger.Party, len(a.Parties)),
		Counters:    a.Counters,
		Version:     a.Version,
	}
	for k, v := range a.Entries {
		c.Entries[k] = v
	}
	for k, v := range a.Invoices {
		v.Items = append([]ledger.InvoiceLine(nil), v.Items...)
		c.Invoices[k] = v
	}
	for k, v := range a.Productions {
		c.Productions[k] = v
	}
	for k, v := range a.Purchases {
		c.Purchases[k] = v
	}
	for k, v := range a.Items {
		c.Items[k] = v
	}
	for k, v := range a.Parties {
		c.Parties[k] = v
	}
	return c
}

// EntriesForAccount returns all legs against an account, ordered by ID.
func (a *Aggregate) EntriesForAccount(accountID string) []ledger.JournalEntry {
	var out []ledger.JournalEntry
	for _, e := range a.Entries {
		if e.Account == accountID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// EntriesForEntity returns all entity-linked legs for a party, ordered by ID.
func (a *Aggregate) EntriesForEntity(entityID string) []ledger.JournalEntry {
	var out []ledger.JournalEntry
	for _, e := range a.Entries {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// EntriesForVoucher returns the legs of one voucher, ordered by ID.
func (a *Aggregate) EntriesForVoucher(voucherID string) []ledger.JournalEntry {
	var out []ledger.JournalEntry
	for _, e := range a.Entries {
		if e.VoucherID == voucherID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// AllEntries returns every leg, ordered by ID.
func (a *Aggregate) AllEntries() []ledger.JournalEntry {
	out := make([]ledger.JournalEntry, 0, len(a.Entries))
	for _, e := range a.Entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out
}

func sortEntries(entries []ledger.JournalEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
