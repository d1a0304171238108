/*
NAME
  tables_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

import "testing"

func TestFrameSizingKnownRates(t *testing.T) {
	cases := []struct {
		sr                                    SampleRate
		fr                                    FrameRate
		frameSize, numSubBlocks, subBlockSize int
	}{
		{SampleRate48k, FrameRate24, 2000, 10, 200},
		{SampleRate48k, FrameRate30, 1600, 8, 200},
		{SampleRate48k, FrameRate120, 400, 4, 100},
		{SampleRate96k, FrameRate24, 4000, 10, 400},
		{SampleRate96k, FrameRate60, 1600, 4, 400},
		{SampleRate96k, FrameRate100, 960, 4, 240},
	}
	for _, c := range cases {
		fs, nb, sb, err := FrameSizing(c.sr, c.fr)
		if err != nil {
			t.Fatalf("FrameSizing(%v, %v): %v", c.sr, c.fr, err)
		}
		if fs != c.frameSize || nb != c.numSubBlocks || sb != c.subBlockSize {
			t.Errorf("FrameSizing(%v, %v) = (%d,%d,%d), want (%d,%d,%d)",
				c.sr, c.fr, fs, nb, sb, c.frameSize, c.numSubBlocks, c.subBlockSize)
		}
		if nb*sb != fs {
			t.Errorf("FrameSizing(%v, %v): numSubBlocks*subBlockSize = %d, want frameSize %d",
				c.sr, c.fr, nb*sb, fs)
		}
	}
}

func TestFrameSizingUnsupportedFrameRate(t *testing.T) {
	if _, _, _, err := FrameSizing(SampleRate48k, FrameRate23_976); err != ErrUnsupportedFrameRate {
		t.Fatalf("got %v, want ErrUnsupportedFrameRate", err)
	}
	if _, _, _, err := FrameSizing(SampleRate96k, FrameRate23_976); err != ErrUnsupportedFrameRate {
		t.Fatalf("got %v, want ErrUnsupportedFrameRate", err)
	}
}

func TestNumSubBlocksForFrameRate(t *testing.T) {
	cases := []struct {
		fr   FrameRate
		want int
	}{
		{FrameRate24, 8},
		{FrameRate25, 8},
		{FrameRate30, 8},
		{FrameRate48, 4},
		{FrameRate50, 4},
		{FrameRate60, 4},
		{FrameRate96, 2},
		{FrameRate100, 2},
		{FrameRate120, 2},
	}
	for _, c := range cases {
		got, err := NumSubBlocksForFrameRate(c.fr)
		if err != nil {
			t.Fatalf("NumSubBlocksForFrameRate(%v): %v", c.fr, err)
		}
		if got != c.want {
			t.Errorf("NumSubBlocksForFrameRate(%v) = %d, want %d", c.fr, got, c.want)
		}
	}
}

func TestNumSubBlocksForFrameRateUnsupported(t *testing.T) {
	if _, err := NumSubBlocksForFrameRate(FrameRate23_976); err != ErrUnsupportedFrameRate {
		t.Fatalf("got %v, want ErrUnsupportedFrameRate", err)
	}
}

func TestInterpolatorFilterCoeffsSymmetric(t *testing.T) {
	for i := 0; i <= InterpFiltOrder; i++ {
		if InterpolatorFilterCoeffs[i] != InterpolatorFilterCoeffs[InterpFiltOrder-i] {
			t.Fatalf("InterpolatorFilterCoeffs[%d]=%d != InterpolatorFilterCoeffs[%d]=%d",
				i, InterpolatorFilterCoeffs[i], InterpFiltOrder-i, InterpolatorFilterCoeffs[InterpFiltOrder-i])
		}
	}
}

func TestLowPassFilterCoeffsSymmetric(t *testing.T) {
	for i := 0; i <= LPF96kFiltOrder; i++ {
		if LowPassFilterCoeffs[i] != LowPassFilterCoeffs[LPF96kFiltOrder-i] {
			t.Fatalf("LowPassFilterCoeffs[%d]=%d != LowPassFilterCoeffs[%d]=%d",
				i, LowPassFilterCoeffs[i], LPF96kFiltOrder-i, LowPassFilterCoeffs[LPF96kFiltOrder-i])
		}
	}
}
