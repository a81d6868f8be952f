package state

import (
	"fmt"
	"sync"

	"github.com/loomworks/tradeledger/internal/ledger"
)

// Action is one of the three primitive commands; a Batch is the fourth
// (BATCH_UPDATE), applied atomically in order.
type Action string

const (
	ActionAdd    Action = "ADD_ENTITY"
	ActionUpdate Action = "UPDATE_ENTITY"
	ActionDelete Action = "DELETE_ENTITY"
)

// Op addresses one record in one named collection. Record carries the new
// value for add/update; delete needs only ID.
type Op struct {
	Action     Action
	Collection string
	ID         string
	Record     any
}

// Batch is an ordered list of ops applied as an indivisible unit.
type Batch []Op

func AddEntry(e ledger.JournalEntry) Op {
	return Op{Action: ActionAdd, Collection: ColJournalEntries, ID: e.ID, Record: e}
}

func DeleteEntry(id string) Op {
	return Op{Action: ActionDelete, Collection: ColJournalEntries, ID: id}
}

func UpdateInvoice(inv ledger.SalesInvoice) Op {
	return Op{Action: ActionUpdate, Collection: ColSalesInvoices, ID: inv.ID, Record: inv}
}

func UpdateParty(p ledger.Party) Op {
	return Op{Action: ActionUpdate, Collection: ColParties, ID: p.ID, Record: p}
}

// Dispatcher is the single logical writer over the aggregate. Batches are
// applied to a private clone first, so a failing op never leaves partial
// state behind.
type Dispatcher struct {
	mu    sync.Mutex
	chart *ledger.Chart
	agg   *Aggregate

	// lastLocalVersion tags locally produced writes so an incoming
	// snapshot that is merely the store's echo of our own write is not
	// mistaken for a remote change and applied over newer local state.
	lastLocalVersion uint64

	onChange func(Snapshot)
}

func NewDispatcher(chart *ledger.Chart) *Dispatcher {
	return &Dispatcher{chart: chart, agg: NewAggregate()}
}

// OnChange registers the persistence hook invoked (outside posting logic,
// fire-and-forget) after every successful local mutation.
func (d *Dispatcher) OnChange(fn func(Snapshot)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Dispatcher) Chart() *ledger.Chart { return d.chart }

// View runs fn with read access to the aggregate under the dispatch lock.
// fn must not retain or mutate the aggregate.
func (d *Dispatcher) View(fn func(*Aggregate)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.agg)
}

// Apply runs a batch atomically: every op succeeds or none does. Voucher
// numbers are assigned here, once per new voucherId, and every voucher
// touched must balance before the clone is swapped in.
func (d *Dispatcher) Apply(batch Batch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applyLocked(batch)
}

// ApplyWith computes a batch from the current aggregate and applies it
// without releasing the dispatch lock in between, so posting decisions
// and their writes are one serial command.
func (d *Dispatcher) ApplyWith(build func(*Aggregate) (Batch, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	batch, err := build(d.agg)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}
	return d.applyLocked(batch)
}

func (d *Dispatcher) applyLocked(batch Batch) error {
	next := d.agg.clone()
	touched := make(map[string]bool)
	for i, op := range batch {
		if err := applyOp(next, d.chart, op, touched); err != nil {
			return fmt.Errorf("batch op %d (%s %s/%s): %w", i, op.Action, op.Collection, op.ID, err)
		}
	}

	for vid := range touched {
		legs := next.EntriesForVoucher(vid)
		if err := ledger.CheckVouchersBalanced(legs); err != nil {
			return err
		}
	}

	next.Version++
	d.agg = next
	d.lastLocalVersion = next.Version
	if d.onChange != nil {
		d.onChange(d.snapshotLocked())
	}
	return nil
}

func applyOp(agg *Aggregate, chart *ledger.Chart, op Op, touched map[string]bool) error {
	switch op.Collection {
	case ColJournalEntries:
		return applyEntryOp(agg, chart, op, touched)
	case ColSalesInvoices:
		return applyTypedOp(agg.Invoices, op, func(v ledger.SalesInvoice) error { return v.Validate() })
	case ColProductions:
		return applyTypedOp(agg.Productions, op, func(ledger.Production) error { return nil })
	case ColOriginalPurchases:
		return applyTypedOp(agg.Purchases, op, func(ledger.OriginalPurchase) error { return nil })
	case ColItems:
		if op.Action == ActionDelete {
			return deleteItem(agg, op.ID)
		}
		return applyTypedOp(agg.Items, op, func(v ledger.Item) error { return v.Validate() })
	case ColParties:
		if op.Action == ActionDelete {
			return deleteParty(agg, op.ID)
		}
		return applyTypedOp(agg.Parties, op, func(v ledger.Party) error { return v.Validate() })
	default:
		return fmt.Errorf("%w: %s", ledger.ErrUnknownCollection, op.Collection)
	}
}

func applyEntryOp(agg *Aggregate, chart *ledger.Chart, op Op, touched map[string]bool) error {
	switch op.Action {
	case ActionAdd:
		e, ok := op.Record.(ledger.JournalEntry)
		if !ok {
			return fmt.Errorf("record is not a journal entry")
		}
		if err := e.Validate(); err != nil {
			return err
		}
		if _, err := chart.ResolveAccount(e.Account); err != nil {
			return err
		}
		if _, exists := agg.Entries[e.ID]; exists {
			return fmt.Errorf("journal entry %s already exists", e.ID)
		}
		// First leg of a new voucher advances the counter; later legs
		// of the same voucher reuse the assigned number.
		if prior := agg.EntriesForVoucher(e.VoucherID); len(prior) > 0 {
			e.VoucherNo = prior[0].VoucherNo
		} else {
			e.VoucherNo = agg.Counters.next(e.EntryType)
		}
		agg.Entries[e.ID] = e
		touched[e.VoucherID] = true
		return nil
	case ActionDelete:
		e, exists := agg.Entries[op.ID]
		if !exists {
			return ledger.ErrEntryNotFound
		}
		delete(agg.Entries, op.ID)
		touched[e.VoucherID] = true
		return nil
	default:
		// Legs are never partially edited: amount changes go through
		// wholesale delete+recreate in one batch.
		return fmt.Errorf("%w: journal entries do not support %s", ledger.ErrInvalidAction, op.Action)
	}
}

func applyTypedOp[T any](col map[string]T, op Op, validate func(T) error) error {
	switch op.Action {
	case ActionAdd, ActionUpdate:
		rec, ok := op.Record.(T)
		if !ok {
			return fmt.Errorf("record type does not match collection %s", op.Collection)
		}
		if err := validate(rec); err != nil {
			return err
		}
		_, exists := col[op.ID]
		if op.Action == ActionAdd && exists {
			return fmt.Errorf("%s/%s already exists", op.Collection, op.ID)
		}
		if op.Action == ActionUpdate && !exists {
			return fmt.Errorf("%s/%s does not exist", op.Collection, op.ID)
		}
		col[op.ID] = rec
		return nil
	case ActionDelete:
		if _, exists := col[op.ID]; !exists {
			return fmt.Errorf("%s/%s does not exist", op.Collection, op.ID)
		}
		delete(col, op.ID)
		return nil
	default:
		return fmt.Errorf("%w: %s", ledger.ErrInvalidAction, op.Action)
	}
}

// deleteParty refuses when the party is referenced by invoices or by any
// non-opening-balance ledger entry. The opening pair itself is no bar: it
// is deleted alongside the party by the caller's batch.
func deleteParty(agg *Aggregate, id string) error {
	if _, exists := agg.Parties[id]; !exists {
		return ledger.ErrPartyNotFound
	}
	for _, inv := range agg.Invoices {
		if inv.CustomerID == id || inv.ForwarderID == id || inv.AgentID == id || inv.ClearingAgentID == id {
			return fmt.Errorf("%w: party %s on invoice %s", ledger.ErrPartyReferenced, id, inv.ID)
		}
	}
	obDebit, obCredit := ledger.OpeningDebitLegID(id), ledger.OpeningCreditLegID(id)
	for _, e := range agg.Entries {
		if e.EntityID == id && e.ID != obDebit && e.ID != obCredit {
			return fmt.Errorf("%w: party %s on journal entry %s", ledger.ErrPartyReferenced, id, e.ID)
		}
	}
	delete(agg.Parties, id)
	return nil
}

// deleteItem refuses when the item appears on invoices or non-synthetic
// production records. The synthetic opening-stock production is reversed
// by the caller's batch, not by cascade.
func deleteItem(agg *Aggregate, id string) error {
	if _, exists := agg.Items[id]; !exists {
		return ledger.ErrItemNotFound
	}
	for _, inv := range agg.Invoices {
		for _, line := range inv.Items {
			if line.ItemID == id {
				return fmt.Errorf("%w: item %s on invoice %s", ledger.ErrItemReferenced, id, inv.ID)
			}
		}
	}
	for _, p := range agg.Productions {
		if p.ItemID == id && !p.Synthetic {
			return fmt.Errorf("%w: item %s on production %s", ledger.ErrItemReferenced, id, p.ID)
		}
	}
	delete(agg.Items, id)
	return nil
}
