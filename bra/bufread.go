package bra

import "io"

// Fill returns the retained bytes that have not been consumed yet. When
// there are none it runs exactly one growth-and-read cycle against the
// source first.
//
// The returned slice aliases the internal buffer and is only valid until
// the next call that reads or clears. io.EOF is only reported together with
// an empty slice.
func (r *GreedyAccessReader) Fill() ([]byte, error) {
	if r.consumed == len(r.buf) {
		if _, err := r.readMore(); err != nil {
			if err == io.EOF && r.consumed < len(r.buf) {
				err = nil
			}
			return r.buf[r.consumed:], err
		}
	}
	return r.buf[r.consumed:], nil
}

// Consume marks n more bytes as consumed. The bytes must have been seen
// through Fill; n is clamped to what has been retained.
func (r *GreedyAccessReader) Consume(n int) {
	if n <= 0 {
		return
	}
	r.consumed += n
	if r.consumed > len(r.buf) {
		r.consumed = len(r.buf)
	}
}

// Read implements io.Reader on top of the retained buffer. It refills at
// most once per call, so it may return fewer bytes than len(p).
func (r *GreedyAccessReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var err error
	avail := r.buf[r.consumed:]
	if len(avail) == 0 {
		avail, err = r.Fill()
		if len(avail) == 0 {
			// an empty fill is the end of the source, even without io.EOF
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
	}
	n := copy(p, avail)
	r.Consume(n)
	return n, err
}

// ReadByte implements io.ByteReader.
func (r *GreedyAccessReader) ReadByte() (byte, error) {
	if r.consumed == len(r.buf) {
		avail, err := r.Fill()
		if len(avail) == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
	}
	c := r.buf[r.consumed]
	r.consumed++
	return c, nil
}

// Clear forgets every consumed byte. The reader behaves as if freshly
// constructed, except that bytes already prefetched but not yet consumed
// are kept: the next byte to be read becomes index 0.
// The source is not touched.
func (r *GreedyAccessReader) Clear() {
	if r.consumed < len(r.buf) {
		rest := make([]byte, len(r.buf)-r.consumed)
		copy(rest, r.buf[r.consumed:])
		r.buf = rest
	} else {
		r.buf = nil
	}
	r.consumed = 0
}

// ShrinkToFit releases the capacity reserved beyond the retained bytes.
func (r *GreedyAccessReader) ShrinkToFit() {
	if cap(r.buf) == len(r.buf) {
		return
	}
	if len(r.buf) == 0 {
		r.buf = nil
		return
	}
	buf := make([]byte, len(r.buf))
	copy(buf, r.buf)
	r.buf = buf
}
