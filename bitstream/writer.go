package bitstream

import (
	"io"

	"github.com/pkg/errors"
)

// Writer writes big-endian bit fields, Plex(n) variable-length integers, and
// null-terminated ASCII strings to an underlying byte sink. A Writer owns no
// shared state with any other Writer.
type Writer struct {
	w io.Writer

	// accum holds the accBits low bits not yet flushed to w, left-packed
	// into the eventual output byte. accBits is always in [0,8).
	accum   uint64
	accBits int
	nWrite  int
}

// NewWriter returns a Writer sinking bits to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteBits appends the low n bits of value (1 <= n <= 64) to the stream
// MSB-first. It returns ErrValueOutOfRange if value does not fit in n bits,
// and ErrShortBuffer if the underlying sink rejects the write.
func (w *Writer) WriteBits(value uint64, n int) error {
	if n < 0 || n > maxBitWidth {
		return errors.Errorf("bitstream: invalid field width %d", n)
	}
	if n < 64 && value > mask(n) {
		return ErrValueOutOfRange
	}
	remaining := n
	for remaining > 0 {
		room := 8 - w.accBits
		take := remaining
		if take > room {
			take = room
		}
		shift := remaining - take
		w.accum = (w.accum << uint(take)) | ((value >> uint(shift)) & mask(take))
		w.accBits += take
		remaining -= take
		if w.accBits == 8 {
			if _, err := w.w.Write([]byte{byte(w.accum)}); err != nil {
				return errors.Wrap(ErrShortBuffer, err.Error())
			}
			w.nWrite++
			w.accum = 0
			w.accBits = 0
		}
	}
	return nil
}

// Align pads the stream with zero bits up to the next byte boundary.
func (w *Writer) Align() error {
	if w.accBits == 0 {
		return nil
	}
	return w.WriteBits(0, 8-w.accBits)
}

// ByteAligned reports whether the writer is currently positioned at a byte
// boundary.
func (w *Writer) ByteAligned() bool {
	return w.accBits == 0
}

// BytesWritten returns the number of whole bytes flushed to the underlying
// sink so far.
func (w *Writer) BytesWritten() int {
	return w.nWrite
}

// WritePlexN Plex(n)-encodes value: while value does not fit strictly below
// the maximal value representable in the current group width, a full group
// of one-bits is emitted as an escape and the group width doubles.
func (w *Writer) WritePlexN(n int, value uint64) error {
	width := n
	for {
		if width >= 64 || value < mask(width) {
			return w.WriteBits(value, width)
		}
		if err := w.WriteBits(mask(width), width); err != nil {
			return err
		}
		width *= 2
	}
}

// WriteBytes writes raw bytes. The writer must be byte-aligned; use Align
// first if the preceding field left a partial byte.
func (w *Writer) WriteBytes(b []byte) error {
	if !w.ByteAligned() {
		return ErrNotByteAligned
	}
	for _, v := range b {
		if err := w.WriteBits(uint64(v), 8); err != nil {
			return err
		}
	}
	return nil
}

// WriteCString writes s followed by a trailing 0x00 byte.
func (w *Writer) WriteCString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := w.WriteBits(uint64(s[i]), 8); err != nil {
			return err
		}
	}
	return w.WriteBits(0, 8)
}
