package book

// PriceLevels is the per-side ladder abstraction: a mapping from Tick to
// LevelFIFO plus a cached best-price sentinel. Two implementations exist
// (ContiguousLevels for a bounded, dense tick band; SparseLevels for a
// wide or unknown-bound band) behind this one capability set.
type PriceLevels interface {
	// GetLevel returns the LevelFIFO at px, auto-creating an empty one
	// on first access. The caller is responsible for updating Best.
	GetLevel(px Tick) *LevelFIFO
	// HasLevel reports whether px currently has a (possibly empty)
	// bucket, without creating one.
	HasLevel(px Tick) bool
	// Best returns the cached best price for this side, or the
	// side's empty sentinel if the side holds no resting orders.
	Best() Tick
	// SetBest overwrites the cached best price.
	SetBest(px Tick)
	// NextBest returns the next-best non-empty level strictly away
	// from px (i.e. next_ask_after(px) for an ask ladder: the first
	// key strictly greater than px with a non-empty FIFO; next_bid_
	// before(px) for a bid ladder: the first key strictly less than
	// px with a non-empty FIFO), or this side's empty sentinel if
	// none exists.
	NextBest(px Tick) Tick
	// Side reports which side this ladder indexes.
	Side() Side
}

// refreshBest walks the ladder from px (the price that was just
// depleted) to find the new best non-empty level, or the empty
// sentinel if none exists. Best is never written to the empty sentinel
// directly on depletion — a side can still hold resting orders at
// other prices, and a direct sentinel write would hide them.
func refreshBest(levels PriceLevels, px Tick) {
	levels.SetBest(levels.NextBest(px))
}
