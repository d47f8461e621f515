package book

import "sort"

// SparseLevels is the ordered-map-backed PriceLevels implementation: a
// tick-keyed map plus a sorted slice of every tick that has ever had a
// bucket allocated, used to binary-search for the next populated
// neighbor. Suitable when the tick band is sparse or not known up
// front.
type SparseLevels struct {
	side   Side
	levels map[Tick]*LevelFIFO
	keys   []Tick // ascending, may include stale now-empty entries
	best   Tick
}

// NewSparseLevels allocates an empty sparse ladder for the given side.
func NewSparseLevels(side Side) *SparseLevels {
	return &SparseLevels{
		side:   side,
		levels: make(map[Tick]*LevelFIFO),
		best:   emptySentinel(side),
	}
}

func (s *SparseLevels) GetLevel(px Tick) *LevelFIFO {
	if l, ok := s.levels[px]; ok {
		return l
	}
	l := &LevelFIFO{}
	s.levels[px] = l
	s.insertKey(px)
	return l
}

func (s *SparseLevels) HasLevel(px Tick) bool {
	_, ok := s.levels[px]
	return ok
}

func (s *SparseLevels) Best() Tick {
	return s.best
}

func (s *SparseLevels) SetBest(px Tick) {
	s.best = px
}

func (s *SparseLevels) Side() Side {
	return s.side
}

// insertKey keeps keys sorted ascending; it is a no-op if px is
// already present.
func (s *SparseLevels) insertKey(px Tick) {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= px })
	if i < len(s.keys) && s.keys[i] == px {
		return
	}
	s.keys = append(s.keys, 0)
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = px
}

// NextBest returns the first key strictly greater than px with a
// non-empty FIFO (ask ladders) or the first key strictly less than px
// with a non-empty FIFO (bid ladders), amortized O(L) in the number of
// empty intermediate levels traversed, or this side's empty sentinel
// if the scan exhausts the key list.
func (s *SparseLevels) NextBest(px Tick) Tick {
	if s.side == Ask {
		i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] > px })
		for ; i < len(s.keys); i++ {
			if l := s.levels[s.keys[i]]; l != nil && !l.Empty() {
				return s.keys[i]
			}
		}
		return emptySentinel(Ask)
	}

	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= px }) - 1
	for ; i >= 0; i-- {
		if l := s.levels[s.keys[i]]; l != nil && !l.Empty() {
			return s.keys[i]
		}
	}
	return emptySentinel(Bid)
}
