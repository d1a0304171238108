/*
NAME
  filters.go

DESCRIPTION
  The 96kHz encoder pipeline: anti-aliasing low-pass filtering, 2:1
  decimation to the 48kHz base layer, and the polyphase interpolator used
  both to synthesize the base-band prediction the extension-band residual
  is computed against, and (by the decoder) to reconstruct 96kHz output
  from a 48kHz base layer plus extension-band residual.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

// lpfFilter96k band-limits a 96kHz frame to prevent aliasing before
// decimation, using the persistent delay line so the convolution sees the
// tail of the previous frame. The delay line stores samples in reverse
// order, matching the reference implementation's convolution indexing.
func (e *Encoder) lpfFilter96k(samples []int32) []int32 {
	n := len(samples)
	for i := 0; i < n; i++ {
		e.lpfDelayLine[n-i-1] = samples[i]
	}
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		var accum int64
		for k := 0; k <= LPF96kFiltOrder; k++ {
			accum += LowPassFilterCoeffs[k] * int64(e.lpfDelayLine[(n-1-i)+k])
		}
		out[i] = int32(accum >> LPFCoeffIntBitLength)
	}
	for i := LPF96kFiltOrder - 1; i >= 0; i-- {
		e.lpfDelayLine[i+n] = e.lpfDelayLine[i]
	}
	return out
}

// downSample96kTo48k decimates by 2, taking every even-indexed sample.
func downSample96kTo48k(samples []int32) []int32 {
	out := make([]int32, len(samples)/2)
	for i := range out {
		out[i] = samples[2*i]
	}
	return out
}

// upSample48kTo96k reconstructs a 96kHz signal from its 48kHz base layer
// using the ST 2098-2 Annex B.9 polyphase interpolator: even-phase output
// is simply the delayed base sample, odd-phase output is the convolution
// of the odd-indexed interpolator taps against the 64-entry history.
func upSample48kTo96k(samples48k []int32) []int32 {
	out := make([]int32, len(samples48k)*2)
	var buffer [64]int32
	index1 := 0
	for k, n := 0, 0; k < len(samples48k); k, n = k+1, n+2 {
		buffer[index1] = samples48k[k]

		index2 := (index1 - 8) & 63
		out[n] = buffer[index2]

		index2 = index1
		var accum int64
		for i := 1; i < InterpFiltOrder+1; i += 2 {
			accum += int64(buffer[index2]) * InterpolatorFilterCoeffs[i]
			index2 = (index2 - 1) & 63
		}
		out[n+1] = int32(accum >> 15)

		index1 = (index1 + 1) & 63
	}
	return out
}

// delayPCM96k delays samples by TotalFiltGrpDelay96k using the encoder's
// persistent cross-frame delay buffer, so the extension-band residual
// (delayed original minus upsampled base band) is computed from
// time-aligned samples.
func (e *Encoder) delayPCM96k(samples []int32) []int32 {
	n := len(samples)
	out := make([]int32, n)

	var swap [TotalFiltGrpDelay96k]int32
	copy(swap[:], samples[n-TotalFiltGrpDelay96k:n])

	for i := n - 1; i >= TotalFiltGrpDelay96k; i-- {
		out[i] = samples[i-TotalFiltGrpDelay96k]
	}
	for i := 0; i < TotalFiltGrpDelay96k; i++ {
		out[i] = e.delayBuffer96k[i]
		e.delayBuffer96k[i] = swap[i]
	}
	return out
}

// latticeToDirectForm converts order reflection coefficients (stored
// unsigned, biased by 512, Q11 after the bias shift) to order direct-form
// Q20 prediction coefficients, following ST 2098-2's recursive lattice
// expansion. aCoeff[0] is always the Q20 representation of 1.0.
func latticeToDirectForm(order uint8, kCoeff [32]uint16) [32]int32 {
	var a [32]int32
	a[0] = 1 << 20
	var tmp [32]int32
	for j := 1; j <= int(order); j++ {
		k := (int32(kCoeff[j]) - 512) << 11
		a[j] = 0
		for p := 1; p <= j; p++ {
			accum := int64(k) * int64(a[j-p])
			tmp[p] = a[p] + int32(accum>>20)
		}
		for p := 1; p <= j; p++ {
			a[p] = tmp[p]
		}
	}
	return a
}

// applyIIR runs the direct-form predictor over residuals, using and
// updating the shared 64-entry circular history buffer and index so that
// successive predictor regions of the same layer continue the same
// history, matching the reference decoder.
func applyIIR(residuals []int32, order uint8, aCoeff [32]int32, buffer *[64]int32, index *int) []int32 {
	out := make([]int32, len(residuals))
	idx := *index
	for i, r := range residuals {
		index2 := idx
		var accum int64
		for p := 1; p <= int(order); p++ {
			accum -= int64(buffer[index2]) * int64(aCoeff[p])
			index2 = (index2 - 1) & 63
		}
		output := int32(accum>>20) + r
		idx = (idx + 1) & 63
		buffer[idx] = output
		out[i] = output
	}
	*index = idx
	return out
}
