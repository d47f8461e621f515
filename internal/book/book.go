package book

// BookCore owns both sides of the ladder and the order-id index for a
// single venue/symbol. Every public method is synchronous and runs to
// completion before the next starts — the core is single-threaded by
// design; callers funnel a single ordered event stream through one
// BookCore.
type BookCore struct {
	bids PriceLevels
	asks PriceLevels

	index map[OrderId]indexEntry

	observer Observer

	// lastTradePrice supports stop-order activation: it holds the
	// price of the most recent trade, zero until the first one occurs.
	lastTradePrice Tick
	hasTraded      bool

	stopBook *stopBook
	oco      map[OrderId]OrderId
}

// NewBookCore creates a BookCore over the given bid/ask ladders. The
// two ladders may be either ContiguousLevels or SparseLevels, or one of
// each — BookCore only depends on the PriceLevels capability set.
func NewBookCore(bids, asks PriceLevels) *BookCore {
	if bids.Side() != Bid || asks.Side() != Ask {
		panic("book: NewBookCore requires a Bid ladder and an Ask ladder")
	}
	return &BookCore{
		bids:     bids,
		asks:     asks,
		index:    make(map[OrderId]indexEntry),
		observer: NopObserver{},
		stopBook: newStopBook(),
		oco:      make(map[OrderId]OrderId),
	}
}

// SetObserver binds the egress event logger. Passing nil restores the
// no-op default. BindSnapshot is invoked immediately so the observer
// can capture snapshots against the live ladders.
func (bc *BookCore) SetObserver(obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}
	bc.observer = obs
	bc.observer.BindSnapshot(bc.bids, bc.asks)
}

// Bids and Asks expose the ladders for read-only top-of-book queries.
func (bc *BookCore) Bids() PriceLevels { return bc.bids }
func (bc *BookCore) Asks() PriceLevels { return bc.asks }

// GetOrder returns the live node for id, or nil if it is not currently
// resting on the tradable ladder (never was, already filled, canceled,
// or sitting untriggered in the stop book).
func (bc *BookCore) GetOrder(id OrderId) *OrderNode {
	e, ok := bc.index[id]
	if !ok {
		return nil
	}
	return e.node
}

func (bc *BookCore) ladder(side Side) PriceLevels {
	if side == Bid {
		return bc.bids
	}
	return bc.asks
}

// SubmitLimit rests or matches a limit order. qty <= 0 is a no-op that
// returns a zero Result.
func (bc *BookCore) SubmitLimit(o NewOrder) Result {
	if o.Qty <= 0 {
		return Result{}
	}

	filled := bc.matchAgainst(o.ID, o.Side, o.User, o.Flags, o.Qty, o.Price, o.TS)
	if filled > 0 {
		bc.triggerStops()
	}
	leftover := o.Qty - filled
	if leftover <= 0 {
		return Result{Filled: filled, Remaining: 0}
	}

	node := &OrderNode{
		ID:    o.ID,
		User:  o.User,
		Side:  o.Side,
		Price: o.Price,
		Qty:   leftover,
		TS:    o.TS,
		Flags: o.Flags,
	}
	same := bc.ladder(o.Side)
	same.GetLevel(o.Price).Enqueue(node)
	bc.updateBestOnRest(same, o.Side, o.Price)
	bc.index[o.ID] = indexEntry{side: o.Side, px: o.Price, node: node}

	bc.observer.OnAccepted(node)

	return Result{Filled: filled, Remaining: leftover}
}

// updateBestOnRest updates the cached best price when a new order
// rests: it only moves if the new order strictly improves on the
// current best, otherwise best is unchanged.
func (bc *BookCore) updateBestOnRest(ladder PriceLevels, side Side, px Tick) {
	best := ladder.Best()
	if side == Bid {
		if best == emptySentinel(Bid) || px > best {
			ladder.SetBest(px)
		}
		return
	}
	if best == emptySentinel(Ask) || px < best {
		ladder.SetBest(px)
	}
}

// SubmitMarket matches against the opposite ladder with the price
// bound set to the worst-possible sentinel, so only level exhaustion
// stops matching. A market order never rests.
func (bc *BookCore) SubmitMarket(o NewOrder) Result {
	if o.Qty <= 0 {
		return Result{}
	}

	worst := emptySentinel(o.Side.Opposite())
	filled := bc.matchAgainst(o.ID, o.Side, o.User, o.Flags, o.Qty, worst, o.TS)
	if filled > 0 {
		bc.triggerStops()
	}
	return Result{Filled: filled, Remaining: o.Qty - filled}
}

// Cancel removes a resting order. Returns false if id is not currently
// resting.
func (bc *BookCore) Cancel(id OrderId) bool {
	e, ok := bc.index[id]
	if !ok {
		return false
	}
	bc.removeResting(e)
	bc.observer.OnCanceled(e.node)
	bc.cascadeOCO(id)
	return true
}

// removeResting erases a node from its level, deletes the index entry,
// and refreshes the cached best if the level it sat in is now empty
// and used to be the best. Cancel, Modify and OCO cascades use it; the
// matching loop does the same bookkeeping inline for full fills and
// STP removals.
func (bc *BookCore) removeResting(e indexEntry) {
	ladder := bc.ladder(e.side)
	level := ladder.GetLevel(e.px)
	level.Erase(e.node)
	delete(bc.index, e.node.ID)

	if level.Empty() && ladder.Best() == e.px {
		refreshBest(ladder, e.px)
	}
}

// Modify changes a resting order's price and/or quantity. A price
// change loses time priority and re-enters matching at the new price;
// an in-place quantity change at the same price keeps priority.
func (bc *BookCore) Modify(r ModifyOrder) Result {
	e, ok := bc.index[r.ID]
	if !ok {
		return Result{}
	}

	if r.NewPrice == e.px {
		level := bc.ladder(e.side).GetLevel(e.px)
		if r.NewQty <= 0 {
			bc.Cancel(r.ID)
			return Result{}
		}
		level.AdjustQty(e.node, r.NewQty-e.node.Qty)
		e.node.TS = r.TS
		e.node.Flags = r.Flags
		return Result{}
	}

	// Different price: loses time priority. Cancel and resubmit as a
	// brand-new limit order at the new price/qty, which may cross.
	user := e.node.User
	side := e.node.Side
	bc.removeResting(e)

	if r.NewQty <= 0 {
		bc.observer.OnCanceled(e.node)
		bc.cascadeOCO(r.ID)
		return Result{}
	}

	return bc.SubmitLimit(NewOrder{
		TS:    r.TS,
		ID:    r.ID,
		User:  user,
		Side:  side,
		Price: r.NewPrice,
		Qty:   r.NewQty,
		Flags: r.Flags,
	})
}

// matchAgainst runs the crossing loop against the opposite ladder. It
// returns the quantity filled; no trade price is materialized on the
// taker itself — every match is reported to the Observer at the
// resting order's price, the instant it happens.
func (bc *BookCore) matchAgainst(takerID OrderId, takerSide Side, takerUser UserId, takerFlags Flags, want Quantity, pxLimit Tick, ts Timestamp) Quantity {
	opposite := bc.ladder(takerSide.Opposite())
	var filled Quantity

	for want > 0 {
		best := opposite.Best()
		if best == emptySentinel(takerSide.Opposite()) {
			break // book exhausted
		}
		if !crosses(takerSide, best, pxLimit) {
			break // limit price would be violated
		}

		level := opposite.GetLevel(best)
		if level.Empty() {
			// Stale best left over from a prior cancel; heal and retry.
			refreshBest(opposite, best)
			continue
		}

		h := level.Head()

		if takerFlags.Has(FlagSTP) && h.User == takerUser {
			level.Erase(h)
			delete(bc.index, h.ID)
			bc.observer.OnCanceled(h)
			bc.cascadeOCO(h.ID)
			if level.Empty() {
				refreshBest(opposite, best)
			}
			continue
		}

		tr := want
		if h.Qty < tr {
			tr = h.Qty
		}
		level.AdjustQty(h, -tr)
		want -= tr
		filled += tr

		bc.lastTradePrice = best
		bc.hasTraded = true
		bc.observer.OnTrade(h.ID, takerID, best, tr, ts)

		if h.Qty == 0 {
			level.Erase(h)
			delete(bc.index, h.ID)
			bc.cascadeOCO(h.ID)
			if level.Empty() {
				refreshBest(opposite, best)
			}
		}
	}

	return filled
}

// crosses reports whether a resting order at bestPx crosses a taker
// bounded by pxLimit: a resting ask crosses a bid taker iff
// bestPx <= pxLimit; a resting bid crosses an ask taker iff
// bestPx >= pxLimit.
func crosses(takerSide Side, bestPx, pxLimit Tick) bool {
	if takerSide == Bid {
		return bestPx <= pxLimit
	}
	return bestPx >= pxLimit
}
