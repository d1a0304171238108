/*
DESCRIPTION
  reader_test.go provides testing for the bit-level decoding in reader.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package bitstream

import (
	"bytes"
	"io"
	"testing"
)

func TestReadBits(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		n    int
		want uint64
	}{
		{name: "single byte, full width", data: []byte{0xA5}, n: 8, want: 0xA5},
		{name: "single byte, top nibble", data: []byte{0xA5}, n: 4, want: 0xA},
		{name: "straddles byte boundary", data: []byte{0xF0, 0x0F}, n: 12, want: 0xF00},
		{name: "32-bit field", data: []byte{0x01, 0x02, 0x03, 0x04}, n: 32, want: 0x01020304},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(test.data))
			got, err := r.ReadBits(test.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("got: 0x%x, want: 0x%x", got, test.want)
			}
		})
	}
}

func TestReadBitsSequence(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xB2})) // 1011 0010
	first, err := r.ReadBits(4)
	if err != nil {
		t.Fatalf("unexpected error reading first nibble: %v", err)
	}
	if first != 0xB {
		t.Fatalf("got: 0x%x, want: 0xB", first)
	}
	second, err := r.ReadBits(4)
	if err != nil {
		t.Fatalf("unexpected error reading second nibble: %v", err)
	}
	if second != 0x2 {
		t.Fatalf("got: 0x%x, want: 0x2", second)
	}
}

func TestReadBitsEndOfStream(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xFF}))
	if _, err := r.ReadBits(16); err != ErrEndOfStream {
		t.Errorf("got: %v, want: ErrEndOfStream", err)
	}
}

func TestPeekBitsDoesNotAdvance(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x12, 0x34}))
	peeked, err := r.PeekBits(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peeked != 0x1234 {
		t.Fatalf("got: 0x%x, want: 0x1234", peeked)
	}
	read, err := r.ReadBits(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if read != peeked {
		t.Errorf("read after peek diverged: got: 0x%x, want: 0x%x", read, peeked)
	}
}

func TestPeekBitsPartialAccum(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xFF, 0x00}))
	if _, err := r.ReadBits(4); err != nil {
		t.Fatalf("unexpected error priming accumulator: %v", err)
	}
	peeked, err := r.PeekBits(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peeked != 0xF0 {
		t.Fatalf("got: 0x%x, want: 0xF0", peeked)
	}
}

func TestAlignAndByteAligned(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xFF, 0xAB}))
	if !r.ByteAligned() {
		t.Fatalf("reader should start byte aligned")
	}
	if _, err := r.ReadBits(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ByteAligned() {
		t.Errorf("reader should not be byte aligned after reading 3 bits")
	}
	r.Align()
	if !r.ByteAligned() {
		t.Errorf("reader should be byte aligned after Align")
	}
	v, err := r.ReadBits(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0xAB {
		t.Errorf("got: 0x%x, want: 0xAB", v)
	}
}

func TestPosition(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos, err := r.Position()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != 1 {
		t.Errorf("got: %d, want: 1", pos)
	}
	if _, err := r.ReadBits(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Position(); err != ErrNotByteAligned {
		t.Errorf("got: %v, want: ErrNotByteAligned", err)
	}
}

func TestReadPlexN(t *testing.T) {
	tests := []struct {
		name string
		n    int
		data []byte
		want uint64
	}{
		// Plex(8): a value below 0xFF is literal in the first group.
		{name: "plex8 literal", n: 8, data: []byte{0x05}, want: 0x05},
		// Plex(8): 0xFF escapes to a 16-bit group holding 0x0100.
		{name: "plex8 one escalation", n: 8, data: []byte{0xFF, 0x01, 0x00}, want: 0x0100},
		// Plex(4): a value below 0xF is literal in the first group.
		{name: "plex4 literal", n: 4, data: []byte{0x30}, want: 0x3},
		// Plex(4): 0xF escapes to an 8-bit group holding 0x20 (top nibble of
		// the next byte feeds the escalated group).
		{name: "plex4 one escalation", n: 4, data: []byte{0xF2, 0x00}, want: 0x20},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(test.data))
			got, err := r.ReadPlexN(test.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("got: 0x%x, want: 0x%x", got, test.want)
			}
		})
	}
}

func TestPeekPlexNMatchesReadPlexN(t *testing.T) {
	data := []byte{0xFF, 0x01, 0x00, 0xAB}
	r := NewReader(bytes.NewReader(data))
	peeked, err := r.PeekPlexN(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	read, err := r.ReadPlexN(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peeked != read {
		t.Fatalf("peek/read diverged: peeked: 0x%x, read: 0x%x", peeked, read)
	}
	// The byte after the escalated group must still be available.
	rest, err := r.ReadBits(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != 0xAB {
		t.Errorf("got: 0x%x, want: 0xAB (peek must not consume from the source)", rest)
	}
}

func TestReadCString(t *testing.T) {
	data := append([]byte("Dolby IAB"), 0x00, 0xFF)
	r := NewReader(bytes.NewReader(data))
	s, err := r.ReadCString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "Dolby IAB" {
		t.Errorf("got: %q, want: %q", s, "Dolby IAB")
	}
	rest, err := r.ReadBits(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != 0xFF {
		t.Errorf("got: 0x%x, want: 0xFF", rest)
	}
}

func TestReadCStringUnterminated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("no terminator")))
	if _, err := r.ReadCString(); err != ErrEndOfStream {
		t.Errorf("got: %v, want: ErrEndOfStream", err)
	}
}

type shortReader struct{}

func (shortReader) Read(p []byte) (int, error) { return 0, io.EOF }

func TestNewReaderEmptySource(t *testing.T) {
	r := NewReader(shortReader{})
	if _, err := r.ReadBits(1); err != ErrEndOfStream {
		t.Errorf("got: %v, want: ErrEndOfStream", err)
	}
}

func TestReadBytes(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	got, err := r.ReadBytes(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(got, want) {
		t.Errorf("got: %v, want: %v", got, want)
	}
}

func TestReadBytesRequiresByteAlignment(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xFF, 0xFF}))
	if _, err := r.ReadBits(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.ReadBytes(1); err != ErrNotByteAligned {
		t.Errorf("got: %v, want: ErrNotByteAligned", err)
	}
}
