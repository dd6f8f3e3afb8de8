package bra

import (
	"io"
	"math"
)

// Get returns the byte at index, reading from the source only if it has
// not been retained yet. It does not move the sequential read cursor.
//
// If the source ends before index, the error matches ErrIndexOutOfRange.
func (r *GreedyAccessReader) Get(index int) (byte, error) {
	if index >= 0 && index < len(r.buf) {
		return r.buf[index], nil
	}
	if index < 0 {
		return 0, &IndexError{Start: index, End: index + 1, Len: len(r.buf)}
	}
	if err := r.prefetch(index); err != nil {
		return 0, err
	}
	if index >= len(r.buf) {
		return 0, &IndexError{Start: index, End: index + 1, Len: len(r.buf)}
	}
	return r.buf[index], nil
}

// Slice returns the retained bytes covered by s, reading from the source as
// far as the end of the span. It does not move the sequential read cursor.
//
// The span must have an end bound; RangeFrom spans fail with ErrInvalidRange.
// Malformed spans (start after end) and spans past the end of the source
// fail with an error matching ErrIndexOutOfRange.
//
// The returned slice aliases the internal buffer: it is only valid until
// the next call that reads or clears, and must not be modified. Use
// SliceCopy to keep the bytes around.
func (r *GreedyAccessReader) Slice(s Span) ([]byte, error) {
	start, end, err := s.Bounds()
	if err != nil {
		return nil, err
	}
	if start < 0 || start > end {
		return nil, &IndexError{Start: start, End: end, Len: len(r.buf)}
	}
	if end > 0 {
		if err := r.prefetch(end - 1); err != nil {
			return nil, err
		}
	}
	if end > len(r.buf) {
		return nil, &IndexError{Start: start, End: end, Len: len(r.buf)}
	}
	return r.buf[start:end:end], nil
}

// SliceCopy is like Slice but returns a copy the caller owns.
func (r *GreedyAccessReader) SliceCopy(s Span) ([]byte, error) {
	view, err := r.Slice(s)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

// ReadAt implements io.ReaderAt over absolute indices. It prefetches as far
// as off+len(p) and copies what is available; a short read reports io.EOF.
// It does not move the sequential read cursor.
func (r *GreedyAccessReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off > math.MaxInt {
		return 0, io.EOF
	}
	i := int(off)
	last := i + len(p) - 1
	if last < i {
		last = math.MaxInt
	}
	if err := r.prefetch(last); err != nil {
		return 0, err
	}
	if i >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[i:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
