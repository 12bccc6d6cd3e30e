// Package cache persists the normalized transactions of each identity.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

// SchemaVersion tags every key. Bumping it orphans old entries, which then read as misses.
const SchemaVersion = "v1"

// TransactionsKey is the key of the cached transaction list of an identity.
func TransactionsKey(identityKey string) string {
	return "TXS_" + SchemaVersion + "_" + identityKey
}

// MetaKey is the key of the sync metadata of an identity.
func MetaKey(identityKey string) string {
	return "META_" + SchemaVersion + "_" + identityKey
}

// Store owns the persisted cache. Writes replace whole values, so concurrent
// writers for one identity resolve as last write wins.
type Store struct {
	kv     adapter.KeyValueStore
	logger *slog.Logger
}

// NewStore creates a Store over a key-value medium.
func NewStore(kv adapter.KeyValueStore) *Store {
	return &Store{
		kv:     kv,
		logger: slog.Default().With("component", "cache_store"),
	}
}

// Get returns the cached entry of an identity. Missing, corrupt, or old-shaped
// entries are reported as a miss; only medium failures are errors. Set writes the
// meta last, so a list without readable meta was never completed by a sync and
// is a miss too.
func (s *Store) Get(ctx context.Context, identityKey string) (*entity.CacheEntry, bool, error) {
	if identityKey == "" {
		return nil, false, nil
	}

	txs, ok, err := s.readTransactions(ctx, identityKey)
	if err != nil || !ok {
		return nil, false, err
	}

	raw, found, err := s.kv.Get(ctx, MetaKey(identityKey))
	if err != nil {
		return nil, false, domainerror.NewCacheError(domainerror.ErrCodeCacheRead, "failed to read cache meta", err)
	}
	if !found {
		s.logger.Debug("Cached transactions have no meta", "identity", identityKey)
		return nil, false, nil
	}

	var meta metaRecord
	if err := json.Unmarshal(raw, &meta); err != nil {
		s.logger.Warn("Ignoring cache entry with corrupt meta", "identity", identityKey, "error", err)
		return nil, false, nil
	}

	return &entity.CacheEntry{
		Transactions: txs,
		Meta: entity.CacheMeta{
			LastSyncAt:     meta.LastSyncAt,
			WindowStartDay: meta.WindowStartDay,
		},
	}, true, nil
}

// Set replaces the cached transactions and metadata of an identity.
func (s *Store) Set(ctx context.Context, identityKey string, txs []entity.Transaction, meta entity.CacheMeta) error {
	if identityKey == "" {
		return nil
	}

	if err := s.writeTransactions(ctx, identityKey, txs); err != nil {
		return err
	}

	raw, err := json.Marshal(metaRecord{
		LastSyncAt:     meta.LastSyncAt.UTC(),
		WindowStartDay: meta.WindowStartDay,
	})
	if err != nil {
		return domainerror.NewCacheError(domainerror.ErrCodeCacheWrite, "failed to encode cache meta", err)
	}
	if err := s.kv.Set(ctx, MetaKey(identityKey), raw); err != nil {
		return domainerror.NewCacheError(domainerror.ErrCodeCacheWrite, "failed to write cache meta", err)
	}

	s.logger.Debug("Cache written", "identity", identityKey, "count", len(txs))
	return nil
}

// AppendLocal prepends tx to the persisted list of an identity. It never writes
// meta, so appending to an empty cache still reads as a miss.
func (s *Store) AppendLocal(ctx context.Context, identityKey string, tx entity.Transaction) error {
	if identityKey == "" {
		return nil
	}

	current, _, err := s.readTransactions(ctx, identityKey)
	if err != nil {
		return err
	}

	next := make([]entity.Transaction, 0, len(current)+1)
	next = append(next, tx)
	next = append(next, current...)

	return s.writeTransactions(ctx, identityKey, next)
}

// Remove deletes everything cached for an identity.
func (s *Store) Remove(ctx context.Context, identityKey string) error {
	if identityKey == "" {
		return nil
	}

	for _, key := range []string{TransactionsKey(identityKey), MetaKey(identityKey)} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return domainerror.NewCacheError(domainerror.ErrCodeCacheWrite, "failed to remove cache entry", err)
		}
	}

	s.logger.Info("Cache removed", "identity", identityKey)
	return nil
}

func (s *Store) readTransactions(ctx context.Context, identityKey string) ([]entity.Transaction, bool, error) {
	raw, found, err := s.kv.Get(ctx, TransactionsKey(identityKey))
	if err != nil {
		return nil, false, domainerror.NewCacheError(domainerror.ErrCodeCacheRead, "failed to read cached transactions", err)
	}
	if !found {
		return nil, false, nil
	}

	var records []transactionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn("Ignoring corrupt cache entry", "identity", identityKey, "error", err)
		return nil, false, nil
	}

	txs := make([]entity.Transaction, 0, len(records))
	for i, r := range records {
		if !r.valid() {
			s.logger.Warn("Ignoring cache entry with invalid record", "identity", identityKey, "index", i)
			return nil, false, nil
		}
		txs = append(txs, r.ToEntity())
	}
	return txs, true, nil
}

func (s *Store) writeTransactions(ctx context.Context, identityKey string, txs []entity.Transaction) error {
	records := make([]transactionRecord, len(txs))
	for i, tx := range txs {
		records[i] = transactionRecordFromEntity(tx)
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return domainerror.NewCacheError(domainerror.ErrCodeCacheWrite, "failed to encode transactions", err)
	}
	if err := s.kv.Set(ctx, TransactionsKey(identityKey), raw); err != nil {
		return domainerror.NewCacheError(domainerror.ErrCodeCacheWrite, "failed to write cached transactions", err)
	}
	return nil
}
