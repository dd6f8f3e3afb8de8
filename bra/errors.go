package bra

import (
	"errors"
	"fmt"
)

// Standard errors returned by the reader.
var (
	// ErrIndexOutOfRange is matched (via errors.Is) by every *IndexError.
	ErrIndexOutOfRange = errors.New("bra: index out of range")

	// ErrInvalidRange is returned by Slice for a span without an end bound.
	ErrInvalidRange = errors.New("bra: range end must be bounded")

	errNegativeOffset = errors.New("bra: negative offset")
)

// IndexError describes an indexed request the source could not satisfy,
// either because it ended too early or because the span was malformed.
type IndexError struct {
	Start int // first requested index
	End   int // one past the last requested index
	Len   int // bytes retained when the request failed
}

func (e *IndexError) Error() string {
	if e.End == e.Start+1 {
		return fmt.Sprintf("bra: index %d out of range (retained %d)", e.Start, e.Len)
	}
	return fmt.Sprintf("bra: range [%d, %d) out of range (retained %d)", e.Start, e.End, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
