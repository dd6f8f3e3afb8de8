// Package bra provides buffered random access over a sequential source of
// data. A GreedyAccessReader retains every byte it reads from an io.Reader,
// so callers can look at any absolute position of the stream while the
// source itself is only ever read forward.
//
// Indices are relative to the position of the source when it was handed
// to New or NewSize, until Clear is called.
package bra

import (
	"io"
	"math"
)

// minCapacity is the first capacity tried when the buffer has to grow.
// Every further step doubles it.
const minCapacity = 16

// GreedyAccessReader is a buffered reader that greedily keeps all the
// memory it has read.
//
// Like bufio.Reader it pulls bytes from the source in bulk. On top of that
// it serves single bytes (Get) and byte ranges (Slice) at arbitrary
// positions, reading as much of the source as needed to reach them.
//
// The reader is not safe for concurrent use.
type GreedyAccessReader struct {
	// src is the forward-only byte provider. It is owned by the reader.
	src io.Reader
	// buf holds every byte read from src since construction or the last Clear.
	// len(buf) is what has been retained, cap(buf) what has been reserved.
	buf []byte
	// consumed counts the leading bytes of buf already handed out by the
	// sequential side (Read, ReadByte, Consume).
	consumed int
}

// New creates a greedy buffered reader over src.
func New(src io.Reader) *GreedyAccessReader {
	return &GreedyAccessReader{
		src: src,
	}
}

// NewSize creates a greedy buffered reader over src whose buffer can hold
// about capacity bytes before it has to grow.
func NewSize(src io.Reader, capacity int) *GreedyAccessReader {
	if capacity < 0 {
		capacity = 0
	}
	return &GreedyAccessReader{
		src: src,
		buf: make([]byte, 0, capacity),
	}
}

// Len returns the number of retained bytes, consumed or not.
func (r *GreedyAccessReader) Len() int { return len(r.buf) }

// Buffered returns the number of retained bytes not yet consumed.
func (r *GreedyAccessReader) Buffered() int { return len(r.buf) - r.consumed }

// Consumed returns the position of the sequential read cursor.
func (r *GreedyAccessReader) Consumed() int { return r.consumed }

// Cap returns the capacity reserved for the buffer.
func (r *GreedyAccessReader) Cap() int { return cap(r.buf) }

// Unwrap returns the underlying source. Any data left in the buffer is lost
// and the reader must not be used afterwards.
func (r *GreedyAccessReader) Unwrap() io.Reader {
	return r.src
}

// Buffer returns the retained bytes in their current state, discarding
// the source. The reader must not be used afterwards.
func (r *GreedyAccessReader) Buffer() []byte {
	return r.buf
}

// Parts returns both the source and the retained bytes. The source is
// positioned right after the last retained byte.
func (r *GreedyAccessReader) Parts() (io.Reader, []byte) {
	return r.src, r.buf
}

// reserve makes room for at least n bytes. The new capacity is the first
// doubling of minCapacity that covers both n and the current capacity,
// or n itself once doubling would overflow.
// It never shrinks the buffer and leaves len(buf) untouched.
func (r *GreedyAccessReader) reserve(n int) {
	if n <= cap(r.buf) {
		return
	}
	size := minCapacity
	for size < n || size < cap(r.buf) {
		if size > math.MaxInt/2 {
			size = n
			break
		}
		size *= 2
	}
	buf := make([]byte, len(r.buf), size)
	copy(buf, r.buf)
	r.buf = buf
}

// readMore runs a single growth-and-read cycle: if the buffer is full it
// grows by one doubling step, then the free tail is handed to one call of
// src.Read. Whatever the source delivered is kept, even along with an error.
func (r *GreedyAccessReader) readMore() (int, error) {
	if len(r.buf) == cap(r.buf) {
		if cap(r.buf) == math.MaxInt {
			return 0, io.EOF
		}
		r.reserve(cap(r.buf) + 1)
	}
	l := len(r.buf)
	n, err := r.src.Read(r.buf[l:cap(r.buf)])
	if n < 0 || n > cap(r.buf)-l {
		panic("bra: source returned invalid count from Read")
	}
	r.buf = r.buf[:l+n]
	return n, err
}

// prefetch reads from the source until index is retained or a read makes
// no progress. A read that makes no progress, including io.EOF, is the end
// of the available data and not an error. Other source errors are returned
// as they are.
//
// The buffer grows one doubling at a time as the source delivers, so the
// memory held stays proportional to the data read, not to index.
func (r *GreedyAccessReader) prefetch(index int) error {
	if index < len(r.buf) {
		return nil
	}
	for len(r.buf) <= index {
		n, err := r.readMore()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			// no extra data since the last call, retreat
			return nil
		}
	}
	return nil
}
