package bra

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"io/ioutil"
	"math"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample is 16 ascending bytes followed by a sentinel.
var sample = []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 50}

// countingReader records how often and how much the reader pulled from src.
type countingReader struct {
	src   io.Reader
	calls int
	bytes int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls++
	n, err := c.src.Read(p)
	c.bytes += n
	return n, err
}

// repeatReader is an endless source of a single byte value.
type repeatReader byte

func (b repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

// stallReader returns (0, nil) on the listed call numbers and delegates otherwise.
type stallReader struct {
	src    io.Reader
	stalls map[int]bool
	calls  int
}

func (s *stallReader) Read(p []byte) (int, error) {
	s.calls++
	if s.stalls[s.calls] {
		return 0, nil
	}
	return s.src.Read(p)
}

var errBoom = errors.New("boom")

// TestGreedy_ReadThrough verifies that reading the whole source through the
// reader yields exactly the bytes of the source, whatever the read pattern.
func TestGreedy_ReadThrough(t *testing.T) {
	big := make([]byte, 10000)
	_, _ = rand.Read(big)

	sources := map[string]func(b []byte) io.Reader{
		"bulk":     func(b []byte) io.Reader { return bytes.NewReader(b) },
		"one byte": func(b []byte) io.Reader { return iotest.OneByteReader(bytes.NewReader(b)) },
		"half":     func(b []byte) io.Reader { return iotest.HalfReader(bytes.NewReader(b)) },
		"data+eof": func(b []byte) io.Reader { return iotest.DataErrReader(bytes.NewReader(b)) },
	}

	for name, mk := range sources {
		t.Run(name, func(t *testing.T) {
			for _, data := range [][]byte{sample, big, {}} {
				out, err := ioutil.ReadAll(New(mk(data)))
				require.NoError(t, err)
				require.Equal(t, len(data), len(out))
				require.True(t, bytes.Equal(data, out), "read-through mismatch")
			}
		})
	}

	t.Run("testing/iotest", func(t *testing.T) {
		require.NoError(t, iotest.TestReader(New(bytes.NewReader(big)), big))
	})
}

func TestGreedy_Get(t *testing.T) {
	r := New(bytes.NewReader(sample))

	for _, c := range []struct {
		index int
		want  byte
	}{{1, 2}, {2, 3}, {16, 50}, {10, 11}} {
		got, err := r.Get(c.index)
		require.NoError(t, err)
		require.Equal(t, c.want, got, "Get(%d)", c.index)
	}

	_, err := r.Get(17)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))

	var ie *IndexError
	require.True(t, errors.As(err, &ie))
	require.Equal(t, 17, ie.Start)
	require.Equal(t, 17, ie.Len)

	_, err = r.Get(-1)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))

	require.Equal(t, 0, r.Consumed(), "indexed access must not move the cursor")
}

// TestGreedy_GetIdempotent verifies that a repeated Get is served from memory.
func TestGreedy_GetIdempotent(t *testing.T) {
	src := &countingReader{src: bytes.NewReader(sample)}
	r := New(src)

	first, err := r.Get(5)
	require.NoError(t, err)
	calls := src.calls
	require.NotZero(t, calls)

	second, err := r.Get(5)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, calls, src.calls, "second Get must not touch the source")
}

// TestGreedy_PrefetchMinimality checks how much is pulled from the source.
// A source delivering one byte per call shows the exact amount needed;
// a bulk source may fill the reserved capacity but never more.
func TestGreedy_PrefetchMinimality(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}

	t.Run("one byte source", func(t *testing.T) {
		src := &countingReader{src: iotest.OneByteReader(bytes.NewReader(data))}
		r := New(src)

		_, err := r.Get(10)
		require.NoError(t, err)
		require.Equal(t, 11, src.bytes)

		_, err = r.Slice(Range(3, 8))
		require.NoError(t, err)
		_, err = r.Get(0)
		require.NoError(t, err)
		require.Equal(t, 11, src.bytes, "covered indices must not be fetched again")

		_, err = r.Slice(RangeInclusive(20, 40))
		require.NoError(t, err)
		require.Equal(t, 41, src.bytes)
	})

	t.Run("bulk source", func(t *testing.T) {
		src := &countingReader{src: bytes.NewReader(data)}
		r := New(src)

		for _, i := range []int{0, 15, 16, 100, 99, 513} {
			v, err := r.Get(i)
			require.NoError(t, err)
			require.Equal(t, byte(i), v)
			require.LessOrEqual(t, src.bytes, r.Cap())
		}
		require.Equal(t, 1000, src.bytes)
		require.Equal(t, 1024, r.Cap())
	})
}

func TestGreedy_Slice(t *testing.T) {
	r := New(bytes.NewReader(sample))

	tests := []struct {
		span Span
		want []byte
	}{
		{Range(0, 0), []byte{}},
		{Range(1, 2), []byte{2}},
		{RangeToInclusive(5), []byte{1, 2, 3, 4, 5, 6}},
		{RangeInclusive(14, 16), []byte{15, 16, 50}},
		{Range(10, 12), []byte{11, 12}},
		{RangeTo(3), []byte{1, 2, 3}},
	}
	for _, test := range tests {
		got, err := r.Slice(test.span)
		require.NoError(t, err, test.span.String())
		require.Equal(t, len(test.want), len(got), test.span.String())
		if len(test.want) > 0 {
			require.Equal(t, test.want, got, test.span.String())
		}
	}

	for _, bad := range []Span{Range(7, 18), Range(6, 5), Range(-1, 2)} {
		_, err := r.Slice(bad)
		require.True(t, errors.Is(err, ErrIndexOutOfRange), bad.String())
	}

	require.Equal(t, 0, r.Consumed())
}

func TestGreedy_SliceUnbounded(t *testing.T) {
	src := &countingReader{src: bytes.NewReader(sample)}
	r := New(src)

	_, err := r.Slice(RangeFrom(3))
	require.True(t, errors.Is(err, ErrInvalidRange))
	require.False(t, errors.Is(err, ErrIndexOutOfRange))
	require.Zero(t, src.calls, "an unbounded span is rejected before any read")
}

func TestGreedy_SliceCopy(t *testing.T) {
	r := New(bytes.NewReader(sample))

	cp, err := r.SliceCopy(Range(0, 4))
	require.NoError(t, err)
	cp[0] = 99

	v, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, byte(1), v, "SliceCopy must not alias the buffer")

	view, err := r.Slice(Range(0, 4))
	require.NoError(t, err)
	require.Equal(t, 4, cap(view), "views are capped so append cannot clobber the buffer")
}

func TestGreedy_Infinite(t *testing.T) {
	const b = 0x33
	r := New(repeatReader(b))

	for _, i := range []int{4, 13, 24389, 156, 9006, 2019, 100000} {
		v, err := r.Get(i)
		require.NoError(t, err)
		require.Equal(t, byte(b), v, "Get(%d)", i)
	}
	require.Equal(t, 131072, r.Cap())
}

// TestGreedy_HugeIndex verifies that indices far beyond a finite source are
// reported as out of range, and that the buffer only grows with the data
// actually delivered.
func TestGreedy_HugeIndex(t *testing.T) {
	for _, i := range []int{1 << 45, 1 << 62, math.MaxInt} {
		r := New(bytes.NewReader(sample))

		_, err := r.Get(i)
		require.True(t, errors.Is(err, ErrIndexOutOfRange), "Get(%d)", i)
		require.Equal(t, len(sample), r.Len())
		require.LessOrEqual(t, r.Cap(), 32, "Get(%d)", i)
	}

	r := New(bytes.NewReader(sample))
	for _, span := range []Span{Range(0, 1<<62), RangeInclusive(3, math.MaxInt), RangeTo(math.MaxInt)} {
		_, err := r.Slice(span)
		require.True(t, errors.Is(err, ErrIndexOutOfRange), span.String())
	}
	require.LessOrEqual(t, r.Cap(), 32)

	p := make([]byte, 3)
	for _, off := range []int64{1 << 62, math.MaxInt64} {
		n, err := r.ReadAt(p, off)
		require.Equal(t, io.EOF, err, "ReadAt(%d)", off)
		require.Zero(t, n)
	}

	v, err := r.Get(16)
	require.NoError(t, err)
	require.Equal(t, byte(50), v, "retained data survives the failed lookups")
}

func TestGreedy_Clear(t *testing.T) {
	r := New(bytes.NewReader(sample))

	get := func(i int) byte {
		v, err := r.Get(i)
		require.NoError(t, err)
		return v
	}

	require.Equal(t, byte(1), get(0))
	require.Equal(t, byte(9), get(8))
	require.Equal(t, byte(50), get(16))

	chunk := make([]byte, 8)
	_, err := io.ReadFull(r, chunk)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, chunk)

	require.Equal(t, byte(1), get(0))
	require.Equal(t, byte(9), get(8))
	require.Equal(t, byte(50), get(16))

	r.Clear()
	require.Equal(t, 0, r.Consumed())
	require.Equal(t, 9, r.Len())

	require.Equal(t, byte(9), get(0))
	require.Equal(t, byte(50), get(8))
	_, err = r.Get(16)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = io.ReadFull(r, chunk)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 10, 11, 12, 13, 14, 15, 16}, chunk)

	require.Equal(t, byte(9), get(0))
	require.Equal(t, byte(50), get(8))
	_, err = r.Get(16)
	require.Error(t, err)

	rest, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte{50}, rest)

	r.Clear()
	require.Zero(t, r.Len())
	_, err = r.Get(0)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))
}

// TestGreedy_ClearKeepsPrefetched verifies that compaction does not refetch
// bytes that were prefetched but not consumed.
func TestGreedy_ClearKeepsPrefetched(t *testing.T) {
	src := &countingReader{src: iotest.OneByteReader(bytes.NewReader(sample))}
	r := New(src)

	_, err := r.Get(9)
	require.NoError(t, err)
	require.Equal(t, 10, src.bytes)

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(1), b)

	r.Clear()
	require.Equal(t, 9, r.Len())
	calls := src.calls

	v, err := r.Get(8)
	require.NoError(t, err)
	require.Equal(t, byte(10), v)
	require.Equal(t, calls, src.calls)
}

// TestGreedy_Parts verifies that the recovered source continues exactly
// after the last retained byte.
func TestGreedy_Parts(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	r := New(bytes.NewReader(data))

	_, err := r.Get(20)
	require.NoError(t, err)
	small := make([]byte, 3)
	_, err = io.ReadFull(r, small)
	require.NoError(t, err)

	src, buf := r.Parts()
	rest, err := ioutil.ReadAll(src)
	require.NoError(t, err)

	require.Equal(t, data, append(append([]byte{}, buf...), rest...))

	t.Run("Unwrap", func(t *testing.T) {
		r := New(bytes.NewReader(data))
		_, err := r.Get(40)
		require.NoError(t, err)
		kept := r.Len()
		rest, err := ioutil.ReadAll(r.Unwrap())
		require.NoError(t, err)
		require.Equal(t, data[kept:], rest)
	})

	t.Run("Buffer", func(t *testing.T) {
		r := New(bytes.NewReader(data))
		_, err := r.Slice(Range(0, 10))
		require.NoError(t, err)
		require.Equal(t, data[:r.Len()], r.Buffer())
	})
}

func TestGreedy_SourceError(t *testing.T) {
	t.Run("propagated unchanged", func(t *testing.T) {
		r := New(iotest.TimeoutReader(bytes.NewReader(sample)))

		v, err := r.Get(0)
		require.NoError(t, err)
		require.Equal(t, byte(1), v)

		// the second read of TimeoutReader fails
		_, err = r.Get(16)
		require.True(t, errors.Is(err, iotest.ErrTimeout))
		require.False(t, errors.Is(err, ErrIndexOutOfRange))
	})

	t.Run("data kept with error", func(t *testing.T) {
		src := io.MultiReader(bytes.NewReader(sample[:4]), iotest.ErrReader(errBoom))
		r := New(src)

		// the first read delivers 4 bytes, the second one fails
		_, err := r.Get(10)
		require.True(t, errors.Is(err, errBoom))
		require.Equal(t, 4, r.Len())

		got, err := r.Slice(Range(0, 4))
		require.NoError(t, err, "retained bytes stay readable after a failure")
		require.Equal(t, sample[:4], got)

		_, err = r.Get(10)
		require.True(t, errors.Is(err, errBoom), "no retry hides the failure")
	})

	t.Run("sequential", func(t *testing.T) {
		r := New(iotest.ErrReader(errBoom))
		_, err := r.Read(make([]byte, 4))
		require.True(t, errors.Is(err, errBoom))
		_, err = r.ReadByte()
		require.True(t, errors.Is(err, errBoom))
	})
}

// TestGreedy_ZeroRead pins the handling of a read that returns no bytes and
// no error: the prefetch stops there, and a later request tries again.
func TestGreedy_ZeroRead(t *testing.T) {
	src := &stallReader{src: bytes.NewReader(sample), stalls: map[int]bool{1: true}}
	r := New(src)

	_, err := r.Get(0)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))
	require.Equal(t, 1, src.calls)

	v, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, byte(1), v)

	t.Run("mid prefetch", func(t *testing.T) {
		src := &stallReader{
			src:    iotest.OneByteReader(bytes.NewReader(sample)),
			stalls: map[int]bool{3: true},
		}
		r := New(src)

		_, err := r.Get(5)
		require.True(t, errors.Is(err, ErrIndexOutOfRange))
		require.Equal(t, 2, r.Len())

		v, err := r.Get(5)
		require.NoError(t, err)
		require.Equal(t, byte(6), v)
	})

	t.Run("sequential", func(t *testing.T) {
		src := &stallReader{src: bytes.NewReader(sample), stalls: map[int]bool{1: true}}
		r := New(src)

		n, err := r.Read(make([]byte, 4))
		require.Zero(t, n)
		require.Equal(t, io.EOF, err)
	})
}

func TestGreedy_ReadAt(t *testing.T) {
	r := New(bytes.NewReader(sample))

	p := make([]byte, 3)
	n, err := r.ReadAt(p, 14)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{15, 16, 50}, p)

	n, err = r.ReadAt(p, 15)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{16, 50}, p[:n])

	n, err = r.ReadAt(p, 17)
	require.Equal(t, io.EOF, err)
	require.Zero(t, n)

	_, err = r.ReadAt(p, -1)
	require.Error(t, err)

	require.Equal(t, 0, r.Consumed())

	var _ io.ReaderAt = r
}

func TestGreedy_FillConsume(t *testing.T) {
	src := &countingReader{src: bytes.NewReader(sample)}
	r := New(src)

	view, err := r.Fill()
	require.NoError(t, err)
	require.Equal(t, sample[:16], view, "the first fill reads a full baseline buffer")
	require.Equal(t, 1, src.calls)

	r.Consume(10)
	require.Equal(t, 10, r.Consumed())
	require.Equal(t, 6, r.Buffered())

	view, err = r.Fill()
	require.NoError(t, err)
	require.Equal(t, sample[10:16], view)
	require.Equal(t, 1, src.calls, "buffered data is served without a read")

	r.Consume(6)
	view, err = r.Fill()
	require.NoError(t, err)
	require.Equal(t, []byte{50}, view)
	require.Equal(t, 32, r.Cap(), "a full buffer grows by one doubling step")

	r.Consume(100)
	require.Equal(t, r.Len(), r.Consumed(), "Consume is clamped to the retained bytes")

	view, err = r.Fill()
	require.Equal(t, io.EOF, err)
	require.Empty(t, view)
}

func TestGreedy_ReadByte(t *testing.T) {
	r := New(iotest.HalfReader(bytes.NewReader(sample)))

	var got []byte
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, b)
	}
	require.Equal(t, sample, got)

	var _ io.ByteReader = r
}

func TestGreedy_ShrinkToFit(t *testing.T) {
	r := NewSize(bytes.NewReader(sample), 1024)
	_, err := r.Get(3)
	require.NoError(t, err)
	require.Equal(t, 1024, r.Cap())

	head := make([]byte, 2)
	_, err = io.ReadFull(r, head)
	require.NoError(t, err)

	before, err := r.SliceCopy(RangeTo(r.Len()))
	require.NoError(t, err)
	consumed := r.Consumed()

	r.ShrinkToFit()
	require.Equal(t, r.Len(), r.Cap())
	require.Equal(t, consumed, r.Consumed())

	after, err := r.Slice(RangeTo(r.Len()))
	require.NoError(t, err)
	require.Equal(t, before, after)

	rest, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, sample[2:], rest)
}

func TestGreedy_Reserve(t *testing.T) {
	r := New(bytes.NewReader(nil))
	require.Zero(t, r.Cap())

	steps := []struct{ n, cap int }{
		{1, 16}, {16, 16}, {17, 32}, {10, 32}, {100, 128}, {129, 256},
	}
	for _, s := range steps {
		r.reserve(s.n)
		assert.Equal(t, s.cap, r.Cap(), "reserve(%d)", s.n)
		assert.Zero(t, r.Len())
	}

	r = NewSize(bytes.NewReader(nil), 20)
	r.reserve(10)
	require.Equal(t, 20, r.Cap(), "enough room already, nothing to do")
	r.reserve(21)
	require.Equal(t, 32, r.Cap())
}

// Benchmark compares sequential reads through the greedy reader with
// bufio.Reader, and indexed access against a plain slice.
func Benchmark(b *testing.B) {
	src := make([]byte, 64*1024)
	_, _ = rand.Read(src)
	p := make([]byte, 512)

	b.Run("Read", func(b *testing.B) {
		b.Run("Std", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				r := bufio.NewReader(bytes.NewReader(src))
				for {
					if _, err := r.Read(p); err != nil {
						break
					}
				}
			}
		})
		b.Run("Greedy", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				r := New(bytes.NewReader(src))
				for {
					if _, err := r.Read(p); err != nil {
						break
					}
				}
			}
		})
	})

	b.Run("Get", func(b *testing.B) {
		r := New(bytes.NewReader(src))
		_, err := r.Get(len(src) - 1)
		require.NoError(b, err)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = r.Get(i % len(src))
		}
	})
}
