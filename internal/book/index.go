package book

// indexEntry is what the id index stores per resting order: enough to
// go straight to its LevelFIFO without a price lookup. Entries exist
// iff the order is currently resting; they hold a non-owning reference
// to the node — the ladder is the sole owner.
type indexEntry struct {
	side Side
	px   Tick
	node *OrderNode
}
