package mining

import "errors"

var (
	// ErrInvalidParameter reports a threshold or divisor outside its valid
	// range. It is returned before any counting starts.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateItemset reports an itemset whose support is missing or zero
	// where the pipeline guarantees a positive value. It indicates a logic
	// defect in the caller or engine, never bad input data.
	ErrDegenerateItemset = errors.New("degenerate itemset")
)
