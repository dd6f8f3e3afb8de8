package bra

import (
	"fmt"
	"math"
)

// Bound tells how the end of a Span is to be read.
type Bound uint8

const (
	// Unbounded spans run to the end of the stream. Slice rejects them.
	Unbounded Bound = iota
	// Excluded ends stop right before End.
	Excluded
	// Included ends contain the byte at End.
	Included
)

// Span is a range of absolute indices, start inclusive.
//
// The constructors mirror the usual range expressions:
//
//	Range(a, b)            a..b
//	RangeInclusive(a, b)   a..=b
//	RangeTo(b)             ..b
//	RangeToInclusive(b)    ..=b
//	RangeFrom(a)           a..   (unbounded, rejected by Slice)
type Span struct {
	Start    int
	End      int
	EndBound Bound
}

func Range(start, end int) Span {
	return Span{Start: start, End: end, EndBound: Excluded}
}

func RangeInclusive(start, end int) Span {
	return Span{Start: start, End: end, EndBound: Included}
}

func RangeTo(end int) Span {
	return Span{End: end, EndBound: Excluded}
}

func RangeToInclusive(end int) Span {
	return Span{End: end, EndBound: Included}
}

func RangeFrom(start int) Span {
	return Span{Start: start, EndBound: Unbounded}
}

// Bounds resolves the span into a half-open [start, end) pair.
// It fails with ErrInvalidRange when the end is unbounded, and with
// ErrIndexOutOfRange when an inclusive end has no representable successor.
func (s Span) Bounds() (start, end int, err error) {
	switch s.EndBound {
	case Excluded:
		return s.Start, s.End, nil
	case Included:
		if s.End == math.MaxInt {
			return 0, 0, fmt.Errorf("bra: inclusive end %d: %w", s.End, ErrIndexOutOfRange)
		}
		return s.Start, s.End + 1, nil
	default:
		return 0, 0, ErrInvalidRange
	}
}

func (s Span) String() string {
	switch s.EndBound {
	case Excluded:
		return fmt.Sprintf("%d..%d", s.Start, s.End)
	case Included:
		return fmt.Sprintf("%d..=%d", s.Start, s.End)
	default:
		return fmt.Sprintf("%d..", s.Start)
	}
}
