package book

// Observer is the optional egress event logger hook. BookCore invokes
// it at the natural points — after mutation, before returning. Each
// callback is a synchronous call: BookCore waits for it to return
// before going on. If no Observer is bound, NopObserver
// absorbs every callback silently.
type Observer interface {
	// OnAccepted fires when a limit order rests on the book.
	OnAccepted(node *OrderNode)
	// OnCanceled fires when a resting order is removed without a
	// trade — explicit cancel, STP removal, or OCO cancellation.
	OnCanceled(node *OrderNode)
	// OnTrade fires once per match: restingID is the maker that was
	// hit, takerID the incoming order, price the resting order's
	// price (trades always occur at the maker's price), qty the
	// matched quantity, ts the time of the match.
	OnTrade(restingID, takerID OrderId, price Tick, qty Quantity, ts Timestamp)
	// BindSnapshot grants read-only traversal rights over both
	// ladders so the observer can capture full-book snapshots on its
	// own schedule. The snapshot format is entirely the observer's
	// concern — BookCore does not define one.
	BindSnapshot(bids, asks PriceLevels)
}

// NopObserver is the default Observer: every callback is a no-op. It
// is the direct analogue of a mock message sender used when nothing
// downstream needs to see book events.
type NopObserver struct{}

func (NopObserver) OnAccepted(*OrderNode)                                    {}
func (NopObserver) OnCanceled(*OrderNode)                                    {}
func (NopObserver) OnTrade(restingID, takerID OrderId, price Tick, qty Quantity, ts Timestamp) {}
func (NopObserver) BindSnapshot(bids, asks PriceLevels)                      {}

var _ Observer = NopObserver{}
