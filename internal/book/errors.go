package book

import "errors"

// Sentinel errors for book operations. BookCore's methods do not return
// them: invalid input and unknown ids come back as a false or zero-value
// result, never as a panic.
var (
	ErrInvalidQuantity = errors.New("book: invalid quantity")
	ErrInvalidPrice    = errors.New("book: invalid price")
	ErrUnknownOrder    = errors.New("book: unknown order id")
	ErrOrderExists     = errors.New("book: order id already resting")
	ErrNotStopOrder    = errors.New("book: order is not a stop order")
)
