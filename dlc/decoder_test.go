/*
NAME
  decoder_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

import "testing"

// TestDecode96kZerosRoundTrip covers the 96kHz all-zero scenario: the
// anti-aliasing filter, decimator, and interpolator are all linear, so an
// all-zero input must decode back to all zero regardless of filter delay
// state, across more than one frame (to exercise the persistent cross-frame
// delay buffers).
func TestDecode96kZerosRoundTrip(t *testing.T) {
	e, err := NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := e.Configure(SampleRate96k, FrameRate24, 24); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	d, err := NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	in := make([]int32, 4000)
	for frame := 0; frame < 3; frame++ {
		data, err := e.Encode(in)
		if err != nil {
			t.Fatalf("frame %d: Encode: %v", frame, err)
		}
		out := make([]int32, data.SampleCount96())
		if err := d.Decode(out, SampleRate96k, data); err != nil {
			t.Fatalf("frame %d: Decode: %v", frame, err)
		}
		for i, v := range out {
			if v != 0 {
				t.Fatalf("frame %d, sample %d: got %d, want 0", frame, i, v)
			}
		}
	}
}

// TestDecode96kTo48kOnly covers the supplemented 96kHz-to-48kHz-output
// decode mode: requesting 48kHz output from 96kHz-coded data reconstructs
// only the base layer.
func TestDecode96kTo48kOnly(t *testing.T) {
	e, err := NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := e.Configure(SampleRate96k, FrameRate24, 24); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	data, err := e.Encode(make([]int32, 4000))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d, err := NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	out := make([]int32, data.SampleCount48())
	if err := d.Decode(out, SampleRate48k, data); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 2000 {
		t.Fatalf("got %d samples, want 2000", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: got %d, want 0", i, v)
		}
	}
}

func TestDecodeUnsupportedSampleRate(t *testing.T) {
	e, err := NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := e.Configure(SampleRate48k, FrameRate24, 24); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	data, err := e.Encode(make([]int32, 2000))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d, err := NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	// data is 48kHz-coded: requesting 96kHz output is invalid.
	out := make([]int32, 4000)
	if err := d.Decode(out, SampleRate96k, data); err != ErrUnsupportedSampleRate {
		t.Fatalf("got %v, want ErrUnsupportedSampleRate", err)
	}
}

func TestDecodeInvalidSampleCount(t *testing.T) {
	e, err := NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := e.Configure(SampleRate48k, FrameRate24, 24); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	data, err := e.Encode(make([]int32, 2000))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d, err := NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	out := make([]int32, 1999)
	if err := d.Decode(out, SampleRate48k, data); err != ErrInvalidSampleCount {
		t.Fatalf("got %v, want ErrInvalidSampleCount", err)
	}
}

func TestPredRegion96QuirkDefault(t *testing.T) {
	d, err := NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if !d.Quirks.PredRegion96UsesPredRegion48 {
		t.Fatalf("default Quirks.PredRegion96UsesPredRegion48 = false, want true")
	}
}
