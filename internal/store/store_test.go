package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testSnapshot(version uint64) state.Snapshot {
	snap := state.Snapshot{
		Version: version,
		JournalEntries: []ledger.JournalEntry{
			{ID: "je-1", VoucherID: "JV-x", VoucherNo: 1, EntryType: ledger.EntryJournal,
				Account: ledger.AccountReceivable, Debit: 5000, EntityID: "cust-1"},
			{ID: "je-2", VoucherID: "JV-x", VoucherNo: 1, EntryType: ledger.EntryJournal,
				Account: ledger.AccountEquityPlug, Credit: 5000},
		},
		Parties: []ledger.Party{
			{ID: "cust-1", Name: "Khan Textiles", Kind: ledger.KindCustomer, Currency: ledger.BaseCurrency},
		},
		Counters: state.NewCounters(),
	}
	snap.Normalize()
	return snap
}

func TestLoadSnapshotEmptyStore(t *testing.T) {
	st := openTestStore(t)

	_, ok, err := st.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveSnapshotRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	want := testSnapshot(3)
	require.NoError(t, st.SaveSnapshot(ctx, want))

	got, ok, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Version, got.Version)
	require.Len(t, got.JournalEntries, 2)
	assert.Equal(t, "je-1", got.JournalEntries[0].ID)
	assert.Equal(t, int64(5000), got.JournalEntries[0].Debit)
	assert.Equal(t, int64(1), got.JournalEntries[0].VoucherNo)
	require.Len(t, got.Parties, 1)
	assert.Equal(t, "Khan Textiles", got.Parties[0].Name)
	assert.Equal(t, want.Counters, got.Counters)
	assert.NotNil(t, got.Items, "collections come back normalized, not nil")
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveSnapshot(ctx, testSnapshot(1)))

	newer := testSnapshot(2)
	newer.Parties = append(newer.Parties, ledger.Party{
		ID: "sup-1", Name: "Raw Cotton Co", Kind: ledger.KindSupplier, Currency: ledger.BaseCurrency,
	})
	require.NoError(t, st.SaveSnapshot(ctx, newer))

	got, ok, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.Version)
	assert.Len(t, got.Parties, 2)
}

func TestSaveSnapshotIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	snap := testSnapshot(7)
	require.NoError(t, st.SaveSnapshot(ctx, snap))
	require.NoError(t, st.SaveSnapshot(ctx, snap))

	got, ok, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(7), got.Version)
	assert.Len(t, got.JournalEntries, 2)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")
	ctx := context.Background()

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.SaveSnapshot(ctx, testSnapshot(5)))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	got, ok, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(5), got.Version)
	assert.Len(t, got.JournalEntries, 2)
}

func TestSaverPersistsLatest(t *testing.T) {
	st := openTestStore(t)

	saver := NewSaver(st)
	saver.Schedule(testSnapshot(1))
	saver.Schedule(testSnapshot(2))
	saver.Close()

	got, ok, err := st.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.Version)

	status, lastErr := saver.Status()
	assert.Equal(t, StatusSynced, status)
	assert.NoError(t, lastErr)
}

func TestSaverStatusAfterSchedule(t *testing.T) {
	st := openTestStore(t)

	saver := NewSaver(st)
	defer saver.Close()
	saver.Schedule(testSnapshot(1))

	// The background save should settle quickly.
	deadline := time.Now().Add(5 * time.Second)
	for {
		status, _ := saver.Status()
		if status == StatusSynced || time.Now().After(deadline) {
			assert.Equal(t, StatusSynced, status)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}
