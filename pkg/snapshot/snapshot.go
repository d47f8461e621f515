// Package snapshot periodically serializes the live order book to
// Redis, giving external readers (a journal, a UI) a point-in-time view
// without coupling the matcher to any particular format.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kestrel-markets/lobengine/internal/book"
)

// Level is one price level in a serialized snapshot.
type Level struct {
	Price    int64 `json:"price"`
	TotalQty int64 `json:"total_qty"`
	Orders   int   `json:"orders"`
}

// Snapshot is the full-book point-in-time view written to Redis.
type Snapshot struct {
	TakenAtUnixNano int64   `json:"taken_at_unix_nano"`
	BestBid         int64   `json:"best_bid"`
	BestAsk         int64   `json:"best_ask"`
	Bids            []Level `json:"bids"`
	Asks            []Level `json:"asks"`
}

// RedisSnapshotStore implements book.Observer just enough to receive
// BindSnapshot; it does not react to individual accept/cancel/trade
// callbacks, since a snapshot is a pull-based, periodic view rather
// than an event stream.
type RedisSnapshotStore struct {
	mu     sync.RWMutex
	client *redis.Client
	key    string
	logger *zap.Logger

	bids book.PriceLevels
	asks book.PriceLevels
}

// NewRedisSnapshotStore wraps an existing Redis client. key is the
// single key every snapshot is written to (each write overwrites the
// last — there is no history).
func NewRedisSnapshotStore(client *redis.Client, key string, logger *zap.Logger) *RedisSnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSnapshotStore{client: client, key: key, logger: logger}
}

func (s *RedisSnapshotStore) OnAccepted(*book.OrderNode) {}
func (s *RedisSnapshotStore) OnCanceled(*book.OrderNode) {}
func (s *RedisSnapshotStore) OnTrade(restingID, takerID book.OrderId, price book.Tick, qty book.Quantity, ts book.Timestamp) {
}

// BindSnapshot records the read-only ladders so Capture/Run can walk
// them on their own schedule.
func (s *RedisSnapshotStore) BindSnapshot(bids, asks book.PriceLevels) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids = bids
	s.asks = asks
}

// Capture walks both ladders once and writes the resulting snapshot to
// Redis as JSON.
func (s *RedisSnapshotStore) Capture(ctx context.Context) error {
	s.mu.RLock()
	bids, asks := s.bids, s.asks
	s.mu.RUnlock()

	if bids == nil || asks == nil {
		return fmt.Errorf("snapshot: BindSnapshot was never called")
	}

	snap := Snapshot{
		TakenAtUnixNano: time.Now().UnixNano(),
		BestBid:         int64(bids.Best()),
		BestAsk:         int64(asks.Best()),
		Bids:            walkLevels(bids),
		Asks:            walkLevels(asks),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		s.logger.Error("snapshot: redis set failed", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("snapshot: redis set: %w", err)
	}
	return nil
}

// Run calls Capture on every tick of the given interval until ctx is
// canceled.
func (s *RedisSnapshotStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Capture(ctx); err != nil {
				s.logger.Warn("snapshot: capture failed", zap.Error(err))
			}
		}
	}
}

// walkLevels collects every non-empty level on side, starting at the
// cached best and following NextBest until the side's empty sentinel
// is reached.
func walkLevels(side book.PriceLevels) []Level {
	var out []Level
	empty := book.MaxTick
	if side.Side() == book.Bid {
		empty = book.MinTick
	}

	for p := side.Best(); p != empty; p = side.NextBest(p) {
		lvl := side.GetLevel(p)
		if !lvl.Empty() {
			out = append(out, Level{Price: int64(p), TotalQty: int64(lvl.TotalQty()), Orders: lvl.Len()})
		}
	}
	return out
}

var _ book.Observer = (*RedisSnapshotStore)(nil)
