package bitstream

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// bytePeeker is satisfied by *bufio.Reader. Mirrors the teacher's
// codec/h264/h264dec/bits.bytePeeker shape so Reader can be built directly
// over a source that already provides Peek, avoiding a redundant wrap.
type bytePeeker interface {
	io.ByteReader
	Peek(int) ([]byte, error)
}

// Reader reads big-endian bit fields, Plex(n) variable-length integers, and
// null-terminated ASCII strings from an underlying byte source. A Reader
// owns no shared state with any other Reader: distinct element trees may be
// parsed concurrently from distinct Readers on distinct goroutines.
type Reader struct {
	r bytePeeker

	// accum holds the accBits low bits of the most recently read byte that
	// have not yet been consumed by ReadBits. accBits is always in [0,8);
	// a new byte is pulled only once the current one is fully drained, so
	// the accumulator never needs to hold more than a single byte.
	accum   uint64
	accBits int
	nRead   int // bytes pulled from the underlying source.
}

// NewReader returns a Reader sourcing bits from r.
func NewReader(r io.Reader) *Reader {
	bp, ok := r.(bytePeeker)
	if !ok {
		bp = bufio.NewReader(r)
	}
	return &Reader{r: bp}
}

// ReadBits reads the top n bits (1 <= n <= 64) of the stream MSB-first,
// returning them right-justified in the result.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > maxBitWidth {
		return 0, errors.Errorf("bitstream: invalid field width %d", n)
	}
	var v uint64
	remaining := n
	for remaining > 0 {
		if r.accBits == 0 {
			b, err := r.r.ReadByte()
			if err == io.EOF {
				return 0, ErrEndOfStream
			}
			if err != nil {
				return 0, errors.Wrap(err, "bitstream: read byte")
			}
			r.nRead++
			r.accum = uint64(b)
			r.accBits = 8
		}
		take := remaining
		if take > r.accBits {
			take = r.accBits
		}
		shift := r.accBits - take
		v = (v << uint(take)) | ((r.accum >> uint(shift)) & mask(take))
		r.accBits -= take
		remaining -= take
	}
	return v, nil
}

// PeekBits returns the next n bits without advancing the reader.
func (r *Reader) PeekBits(n int) (uint64, error) {
	if n < 0 || n > maxBitWidth {
		return 0, errors.Errorf("bitstream: invalid field width %d", n)
	}
	var extra []byte
	need := n - r.accBits
	if need > 0 {
		nbytes := (need + 7) / 8
		peeked, err := r.r.Peek(nbytes)
		if err != nil {
			if err == io.EOF || err == bufio.ErrBufferFull {
				return 0, ErrEndOfStream
			}
			return 0, errors.Wrap(err, "bitstream: peek")
		}
		extra = peeked
	}
	var v uint64
	remaining := n
	if r.accBits > 0 {
		take := remaining
		if take > r.accBits {
			take = r.accBits
		}
		shift := r.accBits - take
		v = (r.accum >> uint(shift)) & mask(take)
		remaining -= take
	}
	for _, b := range extra {
		if remaining <= 0 {
			break
		}
		take := remaining
		if take > 8 {
			take = 8
		}
		shift := 8 - take
		v = (v << uint(take)) | ((uint64(b) >> uint(shift)) & mask(take))
		remaining -= take
	}
	return v, nil
}

// ByteAligned reports whether the reader is currently positioned at a byte
// boundary.
func (r *Reader) ByteAligned() bool {
	return r.accBits%8 == 0
}

// Align advances the cursor to the next byte boundary, discarding any
// partial-byte bits still held in the accumulator.
func (r *Reader) Align() {
	r.accBits -= r.accBits % 8
}

// BytesRead returns the number of bytes pulled from the underlying source,
// including any bytes still buffered in the bit accumulator.
func (r *Reader) BytesRead() int {
	return r.nRead
}

// Position returns the reader's current byte offset from the start of the
// stream. It is only valid when ByteAligned reports true.
func (r *Reader) Position() (int64, error) {
	if !r.ByteAligned() {
		return 0, ErrNotByteAligned
	}
	return int64(r.nRead - r.accBits/8), nil
}

// ReadPlexN reads a Plex(n)-coded variable-length unsigned integer, n being
// the base group width (4 or 8 in ST 2098-2). The maximal value
// representable in the current group width is never a literal value: it
// signals that the true value is coded in a group twice as wide, repeating
// until a group holds a value strictly less than its own maximum.
func (r *Reader) ReadPlexN(n int) (uint64, error) {
	width := n
	for {
		v, err := r.ReadBits(width)
		if err != nil {
			if err == ErrEndOfStream && width > n {
				return 0, ErrMalformedPlex
			}
			return 0, err
		}
		if width >= 64 {
			// No wider group is representable; the value is taken literally
			// even if every bit is set.
			return v, nil
		}
		if v < mask(width) {
			return v, nil
		}
		width *= 2
		if width > 64 {
			return 0, ErrMalformedPlex
		}
	}
}

// PeekPlexN reads a Plex(n) value as ReadPlexN would, without advancing the
// reader. Unlike ReadPlexN it is built entirely on PeekBits, which never
// consumes from the underlying source, so no snapshot/restore is needed.
func (r *Reader) PeekPlexN(n int) (uint64, error) {
	width := n
	for {
		v, err := r.PeekBits(width)
		if err != nil {
			if err == ErrEndOfStream && width > n {
				return 0, ErrMalformedPlex
			}
			return 0, err
		}
		if width >= 64 {
			return v, nil
		}
		if v < mask(width) {
			return v, nil
		}
		width *= 2
		if width > 64 {
			return 0, ErrMalformedPlex
		}
	}
}

// ReadCString reads bytes up to and including a trailing 0x00, returning the
// bytes preceding the terminator as a string. The terminator is consumed but
// excluded from the result.
func (r *Reader) ReadCString() (string, error) {
	var buf []byte
	for {
		b, err := r.ReadBits(8)
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, byte(b))
	}
}

// ReadBytes reads n raw bytes. The reader must be byte-aligned; use Align
// first if the preceding field left a partial byte.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if !r.ByteAligned() {
		return nil, ErrNotByteAligned
	}
	buf := make([]byte, n)
	for i := range buf {
		v, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		buf[i] = byte(v)
	}
	return buf, nil
}

func mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
