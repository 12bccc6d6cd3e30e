package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/txcache/internal/application/usecase/transaction"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

type mapKV struct {
	mu     sync.Mutex
	values map[string][]byte
	err    error
}

func newMapKV() *mapKV {
	return &mapKV{values: map[string][]byte{}}
}

func (m *mapKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mapKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func sampleRaw() []entity.Transaction {
	created := time.Date(2024, 1, 2, 8, 0, 0, 123_000_000, time.UTC)
	end := time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)
	return []entity.Transaction{
		{
			ID: "12", Type: entity.TransactionTypeExpense, Amount: decimal.RequireFromString("99.9"),
			Date: time.Date(2024, 1, 2, 7, 30, 0, 0, time.FixedZone("CST", -6*60*60)), CategoryID: "3",
			PaymentMethod: "card", Note: "super", CreatedAt: &created,
		},
		{
			ID: "local-abc", Type: entity.TransactionTypeIncome, Amount: decimal.NewFromInt(1500),
			Date: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), CategoryID: "4",
			IsRecurring: true, Recurrence: entity.RecurrenceMonthly, EndDate: &end,
		},
	}
}

func TestKeysCarrySchemaVersion(t *testing.T) {
	assert.Equal(t, "TXS_v1_user-1", TransactionsKey("user-1"))
	assert.Equal(t, "META_v1_user-1", MetaKey("user-1"))
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMapKV())
	txs := transaction.Normalize(sampleRaw(), []entity.Category{{ID: "3", Name: "Comida"}})
	meta := entity.CacheMeta{LastSyncAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), WindowStartDay: "2023-01-03"}

	require.NoError(t, store.Set(ctx, "user-1", txs, meta))

	entry, ok, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, txs, entry.Transactions)
	assert.Equal(t, meta, entry.Meta)

	_, ok, err = store.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, ok, "identities never share entries")
}

func TestStore_RoundTripIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewStore(kv)
	raw := sampleRaw()
	for _, id := range []entity.ID{"007", "+5", "-0"} {
		extra := raw[0]
		extra.ID = id
		extra.CategoryID = id
		raw = append(raw, extra)
	}
	txs := transaction.Normalize(raw, []entity.Category{{ID: "3", Name: "Comida"}})

	require.NoError(t, store.Set(ctx, "first", txs, entity.CacheMeta{}))
	entry, ok, err := store.Get(ctx, "first")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, txs, entry.Transactions)

	require.NoError(t, store.Set(ctx, "second", entry.Transactions, entity.CacheMeta{}))
	assert.Equal(t, string(kv.values[TransactionsKey("first")]), string(kv.values[TransactionsKey("second")]))
}

func TestStore_CorruptEntriesAreMisses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"object instead of list", `{"items":[]}`},
		{"record missing date", `[{"id":1,"type":"expense","amount":"1"}]`},
		{"unknown type", `[{"id":1,"type":"gasto","amount":"1","date":"2024-01-01T00:00:00Z"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMapKV()
			kv.values[TransactionsKey("u")] = []byte(tt.raw)

			_, ok, err := NewStore(kv).Get(ctx, "u")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_MissingOrCorruptMetaIsMiss(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		meta []byte
	}{
		{"missing", nil},
		{"corrupt", []byte("nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMapKV()
			store := NewStore(kv)
			require.NoError(t, store.Set(ctx, "u", transaction.Normalize(sampleRaw(), nil), entity.CacheMeta{WindowStartDay: "2024-01-01"}))
			if tt.meta == nil {
				delete(kv.values, MetaKey("u"))
			} else {
				kv.values[MetaKey("u")] = tt.meta
			}

			_, ok, err := store.Get(ctx, "u")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_AppendLocalPrepends(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMapKV())
	txs := transaction.Normalize(sampleRaw(), nil)
	require.NoError(t, store.Set(ctx, "u", txs, entity.CacheMeta{WindowStartDay: "2024-01-01"}))

	added := entity.Transaction{ID: "900", Type: entity.TransactionTypeExpense, Amount: decimal.NewFromInt(5), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.AppendLocal(ctx, "u", added))

	entry, ok, err := store.Get(ctx, "u")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, entry.Transactions, 3)
	assert.Equal(t, entity.ID("900"), entry.Transactions[0].ID)
	assert.Equal(t, "2024-01-01", entry.Meta.WindowStartDay, "meta is untouched")
}

func TestStore_AppendLocalOnEmptyCacheStaysMiss(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewStore(kv)

	added := entity.Transaction{ID: "1", Type: entity.TransactionTypeIncome, Amount: decimal.NewFromInt(5), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.AppendLocal(ctx, "u", added))
	assert.Contains(t, kv.values, TransactionsKey("u"))

	_, ok, err := store.Get(ctx, "u")
	require.NoError(t, err)
	assert.False(t, ok, "a lone local transaction must not pass for a synced cache")

	require.NoError(t, store.Set(ctx, "u", []entity.Transaction{added}, entity.CacheMeta{WindowStartDay: "2024-01-01"}))
	entry, ok, err := store.Get(ctx, "u")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, entry.Transactions, 1)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewStore(kv)
	require.NoError(t, store.Set(ctx, "u", transaction.Normalize(sampleRaw(), nil), entity.CacheMeta{}))

	require.NoError(t, store.Remove(ctx, "u"))

	assert.Empty(t, kv.values)
}

func TestStore_EmptyIdentityIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewStore(kv)

	require.NoError(t, store.Set(ctx, "", transaction.Normalize(sampleRaw(), nil), entity.CacheMeta{}))
	require.NoError(t, store.AppendLocal(ctx, "", entity.Transaction{ID: "1"}))
	_, ok, err := store.Get(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, kv.values)
}

func TestStore_MediumFailure(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	kv.err = errors.New("disk full")
	store := NewStore(kv)

	_, _, err := store.Get(ctx, "u")
	var cacheErr *domainerror.CacheError
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, domainerror.ErrCodeCacheRead, cacheErr.Code)

	err = store.Set(ctx, "u", nil, entity.CacheMeta{})
	require.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, domainerror.ErrCodeCacheWrite, cacheErr.Code)
}
