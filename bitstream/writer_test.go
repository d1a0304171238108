/*
DESCRIPTION
  writer_test.go provides testing for the bit-level encoding in writer.go,
  including round-trips against reader.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package bitstream

import (
	"bytes"
	"testing"
)

func TestWriteBits(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		n     int
		want  []byte
	}{
		{name: "single byte", value: 0xA5, n: 8, want: []byte{0xA5}},
		{name: "nibble", value: 0xA, n: 4, want: []byte{0xA0}},
		{name: "32-bit field", value: 0x01020304, n: 32, want: []byte{0x01, 0x02, 0x03, 0x04}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			if err := w.WriteBits(test.value, test.n); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := w.Align(); err != nil {
				t.Fatalf("unexpected error aligning: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), test.want) {
				t.Errorf("got: % x, want: % x", buf.Bytes(), test.want)
			}
		})
	}
}

func TestWriteBitsValueOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteBits(0x10, 4); err != ErrValueOutOfRange {
		t.Errorf("got: %v, want: ErrValueOutOfRange", err)
	}
}

func TestWriteBitsSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteBits(0xB, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.WriteBits(0x2, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xB2}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got: % x, want: % x", buf.Bytes(), want)
	}
}

func TestWritePlexN(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		value uint64
		want  []byte
	}{
		{name: "plex8 literal", n: 8, value: 0x05, want: []byte{0x05}},
		{name: "plex8 escalation", n: 8, value: 0x0100, want: []byte{0xFF, 0x01, 0x00}},
		{name: "plex4 literal", n: 4, value: 0x3, want: []byte{0x30}},
		{name: "plex4 escalation", n: 4, value: 0x20, want: []byte{0xF2, 0x00}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			if err := w.WritePlexN(test.n, test.value); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := w.Align(); err != nil {
				t.Fatalf("unexpected error aligning: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), test.want) {
				t.Errorf("got: % x, want: % x", buf.Bytes(), test.want)
			}
		})
	}
}

// TestPlexRoundTrip checks read_plex_n(write_plex_n(v)) == v across both
// group widths used by ST 2098-2, spanning values that stay literal in the
// first group, values that escalate once, and values that escalate
// repeatedly.
func TestPlexRoundTrip(t *testing.T) {
	for _, n := range []int{4, 8} {
		values := []uint64{
			0, 1, mask(n) - 1, // literal in the first group
			mask(n) + 1, mask(2 * n) - 1, // escalate exactly once
			mask(2*n) + 1, mask(4*n) - 1, // escalate twice
			1 << 20, 1<<32 - 1, 1 << 40,
		}
		for _, v := range values {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			if err := w.WritePlexN(n, v); err != nil {
				t.Fatalf("n=%d v=%d: unexpected write error: %v", n, v, err)
			}
			if err := w.Align(); err != nil {
				t.Fatalf("n=%d v=%d: unexpected align error: %v", n, v, err)
			}
			r := NewReader(bytes.NewReader(buf.Bytes()))
			got, err := r.ReadPlexN(n)
			if err != nil {
				t.Fatalf("n=%d v=%d: unexpected read error: %v", n, v, err)
			}
			if got != v {
				t.Errorf("n=%d v=%d: round trip got %d", n, v, got)
			}
		}
	}
}

func TestWriteCStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteCString("Dolby IAB"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewReader(bytes.NewReader(buf.Bytes()))
	got, err := r.ReadCString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Dolby IAB" {
		t.Errorf("got: %q, want: %q", got, "Dolby IAB")
	}
}

func TestBytesWritten(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteBits(0xFF, 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.WriteBits(0xFF, 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.BytesWritten(); got != 2 {
		t.Errorf("got: %d, want: 2", got)
	}
}

func TestWriteBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	in := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := w.WriteBytes(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewReader(&buf)
	got, err := r.ReadBytes(len(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("got: %v, want: %v", got, in)
	}
}

func TestWriteBytesRequiresByteAlignment(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteBits(1, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.WriteBytes([]byte{0x01}); err != ErrNotByteAligned {
		t.Errorf("got: %v, want: ErrNotByteAligned", err)
	}
}
