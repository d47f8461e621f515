package book

import "testing"

// newTestBook builds a BookCore over a contiguous [90,130] tick band,
// wide enough for every scenario in this file.
func newTestBook() *BookCore {
	return NewBookCore(NewContiguousLevels(Bid, 90, 130), NewContiguousLevels(Ask, 90, 130))
}

func limit(id OrderId, user UserId, side Side, price Tick, qty Quantity) NewOrder {
	return NewOrder{ID: id, User: user, Side: side, Price: price, Qty: qty}
}

func market(id OrderId, user UserId, side Side, qty Quantity) NewOrder {
	return NewOrder{ID: id, User: user, Side: side, Qty: qty}
}

// S1 — FIFO at same price.
func TestScenario_S1_FIFOAtSamePrice(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(101, 1, Bid, 105, 5))
	bc.SubmitLimit(limit(102, 1, Bid, 105, 7))
	bc.SubmitLimit(limit(103, 1, Bid, 105, 3))

	res := bc.SubmitMarket(market(900, 2, Ask, 10))
	if res.Filled != 10 || res.Remaining != 0 {
		t.Fatalf("expected filled=10 remaining=0, got %+v", res)
	}

	level := bc.Bids().GetLevel(105)
	if level.TotalQty() != 5 {
		t.Fatalf("expected total_qty(105)=5, got %d", level.TotalQty())
	}
	head := level.Head()
	if head.ID != 102 || head.Qty != 2 {
		t.Fatalf("expected head id=102 qty=2, got id=%d qty=%d", head.ID, head.Qty)
	}
	tail := head.next
	if tail == nil || tail.ID != 103 || tail.Qty != 3 {
		t.Fatalf("expected second node id=103 qty=3, got %+v", tail)
	}
}

// S2 — Market sweep multiple levels.
func TestScenario_S2_MarketSweepMultipleLevels(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Ask, 101, 3))
	bc.SubmitLimit(limit(2, 1, Ask, 102, 4))
	bc.SubmitLimit(limit(3, 1, Ask, 103, 2))

	res := bc.SubmitMarket(market(900, 2, Bid, 10))
	if res.Filled != 9 || res.Remaining != 1 {
		t.Fatalf("expected filled=9 remaining=1, got %+v", res)
	}
	if bc.Asks().Best() != MaxTick {
		t.Fatalf("expected best_ask empty sentinel, got %d", bc.Asks().Best())
	}
	for _, px := range []Tick{101, 102, 103} {
		if !bc.Asks().GetLevel(px).Empty() {
			t.Fatalf("expected level %d empty after sweep", px)
		}
	}
}

// S3 — Market on empty book.
func TestScenario_S3_MarketOnEmptyBook(t *testing.T) {
	bc := newTestBook()
	res := bc.SubmitMarket(market(900, 2, Bid, 10))
	if res.Filled != 0 || res.Remaining != 10 {
		t.Fatalf("expected filled=0 remaining=10, got %+v", res)
	}
	if bc.Bids().Best() != MinTick || bc.Asks().Best() != MaxTick {
		t.Fatalf("expected both sides empty, got bid=%d ask=%d", bc.Bids().Best(), bc.Asks().Best())
	}
}

// S4 — Modify to worse price.
func TestScenario_S4_ModifyToWorsePrice(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(101, 1, Bid, 105, 5))
	bc.SubmitLimit(limit(102, 1, Bid, 105, 5))

	bc.Modify(ModifyOrder{ID: 101, NewPrice: 104, NewQty: 5})

	if head := bc.Bids().GetLevel(105).Head(); head == nil || head.ID != 102 {
		t.Fatalf("expected 105's head to be id=102, got %+v", head)
	}
	if head := bc.Bids().GetLevel(104).Head(); head == nil || head.ID != 101 {
		t.Fatalf("expected 104's head to be id=101, got %+v", head)
	}
	if bc.Bids().Best() != 105 {
		t.Fatalf("expected best_bid to remain 105, got %d", bc.Bids().Best())
	}
}

// S5 — Modify to better price crosses.
func TestScenario_S5_ModifyToBetterPriceCrosses(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(201, 9, Ask, 106, 3))
	bc.SubmitLimit(limit(301, 1, Bid, 105, 5))

	res := bc.Modify(ModifyOrder{ID: 301, NewPrice: 106, NewQty: 5})
	if res.Filled != 3 || res.Remaining != 2 {
		t.Fatalf("expected filled=3 remaining=2, got %+v", res)
	}
	if bc.Asks().Best() != MaxTick {
		t.Fatalf("expected best_ask empty sentinel, got %d", bc.Asks().Best())
	}
	if bc.Bids().Best() != 106 {
		t.Fatalf("expected best_bid=106, got %d", bc.Bids().Best())
	}
	level := bc.Bids().GetLevel(106)
	if level.TotalQty() != 2 {
		t.Fatalf("expected 2 resting at 106, got %d", level.TotalQty())
	}
}

// S6 — STP.
func TestScenario_S6_STP(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 9001, Ask, 105, 5))

	res := bc.SubmitMarket(NewOrder{ID: 900, User: 9001, Side: Bid, Qty: 10, Flags: FlagSTP})
	if res.Filled != 0 || res.Remaining != 10 {
		t.Fatalf("expected filled=0 remaining=10, got %+v", res)
	}
	if bc.GetOrder(1) != nil {
		t.Fatalf("expected resting ask removed by STP")
	}
	if bc.Asks().Best() != MaxTick {
		t.Fatalf("expected best_ask empty sentinel after STP removal, got %d", bc.Asks().Best())
	}
}

func TestSubmitLimit_ZeroQtyIsNoOp(t *testing.T) {
	bc := newTestBook()
	res := bc.SubmitLimit(limit(1, 1, Bid, 100, 0))
	if res != (Result{}) {
		t.Fatalf("expected zero-value result for qty<=0, got %+v", res)
	}
	if bc.GetOrder(1) != nil {
		t.Fatalf("expected no order stored for a zero-qty submission")
	}
}

func TestSubmitLimit_FilledPlusRemainingEqualsQty(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Ask, 100, 4))
	res := bc.SubmitLimit(limit(2, 2, Bid, 100, 10))
	if res.Filled+res.Remaining != 10 {
		t.Fatalf("expected filled+remaining==10, got %+v", res)
	}
}

func TestCancel_UnknownIDReturnsFalse(t *testing.T) {
	bc := newTestBook()
	if bc.Cancel(999) {
		t.Fatalf("expected cancel of unknown id to return false")
	}
}

func TestCancel_TwiceReturnsFalseSecondTime(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Bid, 100, 5))
	if !bc.Cancel(1) {
		t.Fatalf("expected first cancel to succeed")
	}
	if bc.Cancel(1) {
		t.Fatalf("expected second cancel of the same id to return false")
	}
}

func TestModify_UnknownIDIsNoOp(t *testing.T) {
	bc := newTestBook()
	res := bc.Modify(ModifyOrder{ID: 999, NewPrice: 100, NewQty: 5})
	if res != (Result{}) {
		t.Fatalf("expected zero-value result for unknown id, got %+v", res)
	}
}

func TestModify_SamePricePreservesPriority(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Bid, 100, 5))
	bc.SubmitLimit(limit(2, 1, Bid, 100, 5))

	bc.Modify(ModifyOrder{ID: 1, NewPrice: 100, NewQty: 50, TS: 42})

	level := bc.Bids().GetLevel(100)
	if level.Head().ID != 1 {
		t.Fatalf("expected id=1 to keep head-of-queue priority after in-place modify, got %d", level.Head().ID)
	}
	if level.Head().Qty != 50 {
		t.Fatalf("expected qty updated to 50, got %d", level.Head().Qty)
	}
	if level.TotalQty() != 55 {
		t.Fatalf("expected level totalQty=55, got %d", level.TotalQty())
	}
}

func TestModify_SamePriceQtyToZeroCancels(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Bid, 100, 5))
	bc.Modify(ModifyOrder{ID: 1, NewPrice: 100, NewQty: 0})
	if bc.GetOrder(1) != nil {
		t.Fatalf("expected order removed after modify to qty<=0")
	}
	if bc.Bids().Best() != MinTick {
		t.Fatalf("expected best_bid empty sentinel, got %d", bc.Bids().Best())
	}
}

func TestBuyLimitNeverTradesAboveItsLimit(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Ask, 110, 5))

	var seenTradePx Tick = -1
	bc.SetObserver(&recordingObserver{onTrade: func(_, _ OrderId, px Tick, _ Quantity, _ Timestamp) {
		seenTradePx = px
	}})

	res := bc.SubmitLimit(limit(2, 2, Bid, 105, 5))
	if res.Filled != 0 {
		t.Fatalf("expected no fill when buy limit 105 cannot reach ask 110, got filled=%d", res.Filled)
	}
	if seenTradePx != -1 {
		t.Fatalf("expected no trade to have been observed, saw price %d", seenTradePx)
	}
}

func TestCancel_RefreshesBestToNextLevel(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Bid, 105, 5))
	bc.SubmitLimit(limit(2, 1, Bid, 100, 5))

	bc.Cancel(1)

	if bc.Bids().Best() != 100 {
		t.Fatalf("expected best_bid to walk down to 100 after canceling 105, got %d", bc.Bids().Best())
	}
}

func TestCancel_AtNonBestLevelLeavesBestUnchanged(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Bid, 105, 5))
	bc.SubmitLimit(limit(2, 1, Bid, 100, 5))

	bc.Cancel(2)

	if bc.Bids().Best() != 105 {
		t.Fatalf("expected best_bid to remain 105, got %d", bc.Bids().Best())
	}
}

func TestSubmitLimitThenCancel_RoundTripsBookState(t *testing.T) {
	bc := newTestBook()
	bc.SubmitLimit(limit(1, 1, Ask, 110, 5))
	bestBefore := bc.Asks().Best()

	bc.SubmitLimit(limit(2, 1, Ask, 100, 3))
	bc.Cancel(2)

	if bc.Asks().Best() != bestBefore {
		t.Fatalf("expected best_ask restored to %d after submit+cancel round trip, got %d", bestBefore, bc.Asks().Best())
	}
	if bc.GetOrder(2) != nil {
		t.Fatalf("expected id 2 absent from the index after cancel")
	}
}

// recordingObserver is a minimal Observer used to assert on callback
// invocations in tests without pulling in the eventlog package.
type recordingObserver struct {
	onAccepted func(*OrderNode)
	onCanceled func(*OrderNode)
	onTrade    func(restingID, takerID OrderId, price Tick, qty Quantity, ts Timestamp)
}

func (r *recordingObserver) OnAccepted(n *OrderNode) {
	if r.onAccepted != nil {
		r.onAccepted(n)
	}
}

func (r *recordingObserver) OnCanceled(n *OrderNode) {
	if r.onCanceled != nil {
		r.onCanceled(n)
	}
}

func (r *recordingObserver) OnTrade(restingID, takerID OrderId, price Tick, qty Quantity, ts Timestamp) {
	if r.onTrade != nil {
		r.onTrade(restingID, takerID, price, qty, ts)
	}
}

func (r *recordingObserver) BindSnapshot(bids, asks PriceLevels) {}

var _ Observer = &recordingObserver{}
