package book

// NewOrder is the ingress record consumed by SubmitLimit/SubmitMarket.
// It is an in-memory struct; no wire format is defined at this layer.
type NewOrder struct {
	Seq   SeqNo
	TS    Timestamp
	ID    OrderId
	User  UserId
	Side  Side
	Price Tick // ignored for market orders
	Qty   Quantity
	Flags Flags
}

// ModifyOrder is the ingress record consumed by Modify.
type ModifyOrder struct {
	Seq      SeqNo
	TS       Timestamp
	ID       OrderId
	NewPrice Tick
	NewQty   Quantity
	Flags    Flags
}

// CancelOrder is the ingress record consumed by Cancel.
type CancelOrder struct {
	ID OrderId
}

// Result is the {filled, remaining} pair every submit/modify returns.
type Result struct {
	Filled    Quantity
	Remaining Quantity
}
