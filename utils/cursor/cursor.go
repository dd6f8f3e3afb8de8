package cursor

// cursor.go walks a randomly accessible byte stream by absolute offset.
//
// Purpose:
// - A bra.GreedyAccessReader can serve any index, but decoders usually move forward through a record.
// - Reader keeps the "current offset" for them and pulls bytes through Get/Slice, so only the part of the stream that is actually decoded gets fetched.
// - Unlike a plain slice cursor it never panics: reading past the end of the stream returns the source's index error.
// - Integers are big-endian, the same byte order as the lachesis-base helpers used to encode them.

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"

	"github.com/rony4d/go-bra/bra"
)

// Source is the random-access side of a bra.GreedyAccessReader.
type Source interface {
	Get(index int) (byte, error)
	Slice(s bra.Span) ([]byte, error)
}

type Reader struct {
	// src serves the bytes; it is only asked for what gets decoded.
	src Source
	// offset is the absolute index of the next byte to decode.
	offset int
}

type Writer struct {
	// buf is the accumulating byte slice.
	buf []byte
}

// NewReader creates a Reader decoding src from the given absolute offset.
func NewReader(src Source, offset int) *Reader {
	return &Reader{
		src:    src,
		offset: offset,
	}
}

// NewWriter creates a Writer that appends to the provided initial slice.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte to the buffer.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes to the buffer.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// U32 appends v in big-endian order.
func (b *Writer) U32(v uint32) {
	b.buf = append(b.buf, bigendian.Uint32ToBytes(v)...)
}

// U64 appends v in big-endian order.
func (b *Writer) U64(v uint64) {
	b.buf = append(b.buf, bigendian.Uint64ToBytes(v)...)
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Read returns the next n bytes and advances past them.
//
// The result shares memory with the source's buffer and is only valid until
// the source reads or clears again.
func (b *Reader) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("cursor: negative length %d", n)
	}
	res, err := b.src.Slice(bra.Range(b.offset, b.offset+n))
	if err != nil {
		return nil, fmt.Errorf("cursor: read %d bytes at %d: %w", n, b.offset, err)
	}
	b.offset += n
	return res, nil
}

// ReadByte returns the next byte and advances past it.
func (b *Reader) ReadByte() (byte, error) {
	res, err := b.src.Get(b.offset)
	if err != nil {
		return 0, fmt.Errorf("cursor: read byte at %d: %w", b.offset, err)
	}
	b.offset++
	return res, nil
}

// U32 decodes a big-endian uint32.
func (b *Reader) U32() (uint32, error) {
	buf, err := b.Read(4)
	if err != nil {
		return 0, err
	}
	return bigendian.BytesToUint32(buf), nil
}

// U64 decodes a big-endian uint64.
func (b *Reader) U64() (uint64, error) {
	buf, err := b.Read(8)
	if err != nil {
		return 0, err
	}
	return bigendian.BytesToUint64(buf), nil
}

// Skip advances the offset by n bytes without fetching them.
func (b *Reader) Skip(n int) {
	b.offset += n
}

// Seek moves the cursor to an absolute offset. Going back is fine, the
// source retains what it has read.
func (b *Reader) Seek(offset int) {
	b.offset = offset
}

// Position returns the absolute offset of the next byte to decode.
func (b *Reader) Position() int {
	return b.offset
}

// Empty reports whether the stream ends at the current offset. It may read
// from the source to find out.
func (b *Reader) Empty() (bool, error) {
	_, err := b.src.Get(b.offset)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, bra.ErrIndexOutOfRange) {
		return true, nil
	}
	return false, err
}
