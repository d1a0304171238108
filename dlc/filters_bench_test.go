package dlc

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

// TestLPFFilter96kMatchesFloatConvolution cross-checks lpfFilter96k's
// fixed-point convolution against an independent float64 dot-product
// computed with gonum, for the first output sample of a freshly
// configured (all-zero delay line) Encoder.
func TestLPFFilter96kMatchesFloatConvolution(t *testing.T) {
	e, err := NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := e.Configure(SampleRate96k, FrameRate24, 24); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	n := 64
	samples := make([]int32, n)
	for i := range samples {
		samples[i] = int32(i * 100)
	}

	got := e.lpfFilter96k(samples)

	// Reconstruct the window lpfFilter96k convolves for output index 0:
	// delayLine[n-1+k] for k in [0, LPF96kFiltOrder], with delayLine[n-1] =
	// samples[0] and everything past index n-1 still zero (a fresh
	// Configure zeroed the whole delay line and only indices [0, n) were
	// written).
	window := make([]float64, LPF96kFiltOrder+1)
	window[0] = float64(samples[0])

	coeffs := make([]float64, LPF96kFiltOrder+1)
	for k := range coeffs {
		coeffs[k] = float64(LowPassFilterCoeffs[k])
	}

	want := int32(int64(floats.Dot(coeffs, window)) >> LPFCoeffIntBitLength)
	if got[0] != want {
		t.Fatalf("lpfFilter96k[0] = %d, want %d (float cross-check)", got[0], want)
	}
}
