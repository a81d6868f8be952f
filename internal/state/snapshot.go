package state

import (
	"fmt"
	"sort"

	"github.com/loomworks/tradeledger/internal/ledger"
)

// Snapshot is the serializable form of the whole aggregate: every
// collection plus the counters and the version the write was produced at.
// The store persists and restores it wholesale; collections are replaced,
// never merged field-by-field, so deleted records cannot resurface.
type Snapshot struct {
	Version           uint64                    `json:"version"`
	JournalEntries    []ledger.JournalEntry     `json:"journal_entries"`
	SalesInvoices     []ledger.SalesInvoice     `json:"sales_invoices"`
	Productions       []ledger.Production       `json:"productions"`
	OriginalPurchases []ledger.OriginalPurchase `json:"original_purchases"`
	Items             []ledger.Item             `json:"items"`
	Parties           []ledger.Party            `json:"parties"`
	Counters          Counters                  `json:"counters"`
}

// Normalize replaces absent collections with empty ones. The domain model
// uses absence freely; the document store does not accept missing fields,
// so the boundary flattens them here.
func (s *Snapshot) Normalize() {
	if s.JournalEntries == nil {
		s.JournalEntries = []ledger.JournalEntry{}
	}
	if s.SalesInvoices == nil {
		s.SalesInvoices = []ledger.SalesInvoice{}
	}
	if s.Productions == nil {
		s.Productions = []ledger.Production{}
	}
	if s.OriginalPurchases == nil {
		s.OriginalPurchases = []ledger.OriginalPurchase{}
	}
	if s.Items == nil {
		s.Items = []ledger.Item{}
	}
	if s.Parties == nil {
		s.Parties = []ledger.Party{}
	}
}

// Snapshot deep-copies the aggregate for persistence or inspection.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dispatcher) snapshotLocked() Snapshot {
	a := d.agg
	s := Snapshot{
		Version:        a.Version,
		JournalEntries: a.AllEntries(),
		Counters:       a.Counters,
	}
	for _, v := range a.Invoices {
		v.Items = append([]ledger.InvoiceLine(nil), v.Items...)
		s.SalesInvoices = append(s.SalesInvoices, v)
	}
	for _, v := range a.Productions {
		s.Productions = append(s.Productions, v)
	}
	for _, v := range a.Purchases {
		s.OriginalPurchases = append(s.OriginalPurchases, v)
	}
	for _, v := range a.Items {
		s.Items = append(s.Items, v)
	}
	for _, v := range a.Parties {
		s.Parties = append(s.Parties, v)
	}
	sort.Slice(s.SalesInvoices, func(i, j int) bool { return s.SalesInvoices[i].ID < s.SalesInvoices[j].ID })
	sort.Slice(s.Productions, func(i, j int) bool { return s.Productions[i].ID < s.Productions[j].ID })
	sort.Slice(s.OriginalPurchases, func(i, j int) bool { return s.OriginalPurchases[i].ID < s.OriginalPurchases[j].ID })
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].ID < s.Items[j].ID })
	sort.Slice(s.Parties, func(i, j int) bool { return s.Parties[i].ID < s.Parties[j].ID })
	s.Normalize()
	return s
}

// Restore replaces the in-memory aggregate with an incoming snapshot. The
// snapshot is applied only when its version is newer than the last version
// this client produced: an echo of our own write, or anything older,
// returns ErrStaleSnapshot and leaves local state untouched.
func (d *Dispatcher) Restore(snap Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if snap.Version <= d.lastLocalVersion {
		return fmt.Errorf("%w: incoming version %d, local version %d",
			ledger.ErrStaleSnapshot, snap.Version, d.lastLocalVersion)
	}
	d.agg = buildAggregate(snap)
	return nil
}

// Seed loads a snapshot at startup, before any local write exists. Unlike
// Restore it accepts any version.
func (d *Dispatcher) Seed(snap Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.agg = buildAggregate(snap)
}

func buildAggregate(snap Snapshot) *Aggregate {
	agg := NewAggregate()
	agg.Version = snap.Version
	agg.Counters = snap.Counters
	for _, e := range snap.JournalEntries {
		agg.Entries[e.ID] = e
	}
	for _, v := range snap.SalesInvoices {
		agg.Invoices[v.ID] = v
	}
	for _, v := range snap.Productions {
		agg.Productions[v.ID] = v
	}
	for _, v := range snap.OriginalPurchases {
		agg.Purchases[v.ID] = v
	}
	for _, v := range snap.Items {
		agg.Items[v.ID] = v
	}
	for _, v := range snap.Parties {
		agg.Parties[v.ID] = v
	}
	return agg
}
