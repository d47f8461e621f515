package book

// ContiguousLevels is the array-backed PriceLevels implementation: a
// bounded tick band [minTick, maxTick] indexed directly by px-minTick.
// NextBest scans linearly from the given index, which is O(gap) but
// cache-friendly and allocation-free — the right choice when the band
// is bounded and dense.
type ContiguousLevels struct {
	side    Side
	minTick Tick
	maxTick Tick
	levels  []LevelFIFO
	best    Tick
}

// NewContiguousLevels allocates a ladder covering [minTick, maxTick]
// inclusive for the given side.
func NewContiguousLevels(side Side, minTick, maxTick Tick) *ContiguousLevels {
	if maxTick < minTick {
		panic("book: ContiguousLevels requires maxTick >= minTick")
	}
	span := int64(maxTick-minTick) + 1
	return &ContiguousLevels{
		side:    side,
		minTick: minTick,
		maxTick: maxTick,
		levels:  make([]LevelFIFO, span),
		best:    emptySentinel(side),
	}
}

// idx converts a tick to a slice index, panicking (a programmer error)
// if px falls outside the configured band.
func (c *ContiguousLevels) idx(px Tick) int {
	if px < c.minTick || px > c.maxTick {
		panic("book: price out of band for ContiguousLevels")
	}
	return int(px - c.minTick)
}

// InBand reports whether px falls within this ladder's configured band.
func (c *ContiguousLevels) InBand(px Tick) bool {
	return px >= c.minTick && px <= c.maxTick
}

func (c *ContiguousLevels) GetLevel(px Tick) *LevelFIFO {
	return &c.levels[c.idx(px)]
}

func (c *ContiguousLevels) HasLevel(px Tick) bool {
	return c.InBand(px)
}

func (c *ContiguousLevels) Best() Tick {
	return c.best
}

func (c *ContiguousLevels) SetBest(px Tick) {
	c.best = px
}

func (c *ContiguousLevels) Side() Side {
	return c.side
}

// NextBest scans away from px toward worse prices (upward for asks,
// downward for bids) and returns the first non-empty level found, or
// the side's empty sentinel if the scan runs off the end of the band.
func (c *ContiguousLevels) NextBest(px Tick) Tick {
	if c.side == Ask {
		start := px + 1
		if start < c.minTick {
			start = c.minTick
		}
		for p := start; p <= c.maxTick; p++ {
			if !c.levels[c.idx(p)].Empty() {
				return p
			}
		}
		return emptySentinel(Ask)
	}

	start := px - 1
	if start > c.maxTick {
		start = c.maxTick
	}
	for p := start; p >= c.minTick; p-- {
		if !c.levels[c.idx(p)].Empty() {
			return p
		}
	}
	return emptySentinel(Bid)
}
