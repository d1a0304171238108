/*
NAME
  decoder.go

DESCRIPTION
  Decoder implements ST 2098-2's full DLC decoder: lattice predictor
  reconstruction (direct-form IIR over a 64-entry circular history),
  96kHz base+extension recombination via the polyphase interpolator, and
  the final ShiftBits left shift. Unlike the encoder, the decoder must
  handle every residual coding and predictor configuration a conformant
  encoder may have produced.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

// Decoder reconstructs PCM samples from an AudioData. The lattice
// predictor's IIR state is scoped to a single Decode call (it is
// stateless across calls, unlike the encoder's filter state), so one
// Decoder may freely service concurrent or repeated Decode calls.
type Decoder struct {
	Quirks Quirks
	log    Log
}

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*Decoder) error

// WithDecoderLog installs a logging function for diagnostics.
func WithDecoderLog(l Log) DecoderOption {
	return func(d *Decoder) error {
		d.log = l
		return nil
	}
}

// WithQuirks overrides the default reference-decoder-compatible Quirks.
func WithQuirks(q Quirks) DecoderOption {
	return func(d *Decoder) error {
		d.Quirks = q
		return nil
	}
}

// NewDecoder returns a Decoder defaulting to reference-decoder-compatible
// Quirks.
func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{Quirks: DefaultQuirks(), log: noopLog}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Decode reconstructs PCM samples from data at outRate, writing them into
// dst. outRate may differ from data.SampleRate only when data is
// 96kHz-coded and outRate is 48kHz, in which case only the base layer is
// reconstructed (the supplemented "96kHz-to-48kHz output" decode mode).
func (d *Decoder) Decode(dst []int32, outRate SampleRate, data *AudioData) error {
	switch {
	case outRate == SampleRate48k:
		if len(dst) != data.SampleCount48() {
			return ErrInvalidSampleCount
		}
	case outRate == SampleRate96k:
		if data.SampleRate != SampleRate96k {
			return ErrUnsupportedSampleRate
		}
		if len(dst) != data.SampleCount96() {
			return ErrInvalidSampleCount
		}
	default:
		return ErrUnsupportedSampleRate
	}
	decodeTo48kOnly := outRate == SampleRate48k

	stride := 1
	if data.SampleRate == SampleRate96k && !decodeTo48kOnly {
		stride = 2
	}

	pos := 0
	if data.NumPredRegions48 == 0 {
		// No prediction: sub-block residuals are already the final PCM
		// samples.
		for _, b := range data.SubBlocks48 {
			for _, r := range b.Residuals {
				dst[pos] = r
				pos += stride
			}
		}
	} else {
		// Lattice-to-direct-form conversion and IIR reconstruction: each
		// predictor region consumes the next RegionLength sub-blocks in
		// order, continuing the same circular history across regions.
		var buffer [64]int32
		index := 0
		curBlock := 0
		for i := 0; i < int(data.NumPredRegions48); i++ {
			pr := data.PredRegions48[i]
			aCoeff := latticeToDirectForm(pr.Order, pr.KCoeff)
			for j := uint8(0); j < pr.RegionLength; j++ {
				if curBlock >= len(data.SubBlocks48) {
					return ErrUndefinedSubBlock
				}
				b := data.SubBlocks48[curBlock]
				curBlock++
				reconstructed := applyIIR(b.Residuals, pr.Order, aCoeff, &buffer, &index)
				for _, v := range reconstructed {
					dst[pos] = v
					pos += stride
				}
			}
		}
	}

	if data.SampleRate == SampleRate96k && !decodeTo48kOnly {
		if err := d.decode96kExtension(dst, data); err != nil {
			return err
		}
	}

	shift := data.ShiftBits
	for i := range dst {
		dst[i] <<= shift
	}
	return nil
}

func (d *Decoder) decode96kExtension(dst []int32, data *AudioData) error {
	n := len(dst)
	residuals96 := make([]int32, n)
	pos := 0
	for _, b := range data.SubBlocks96 {
		copy(residuals96[pos:], b.Residuals)
		pos += len(b.Residuals)
	}

	if data.NumPredRegions96 > 0 {
		var buffer [64]int32
		index := 0
		curBlock := 0
		rpos := 0
		for i := 0; i < int(data.NumPredRegions96); i++ {
			var pr PredRegion
			if d.Quirks.PredRegion96UsesPredRegion48 {
				pr = data.PredRegions48[i]
			} else {
				pr = data.PredRegions96[i]
			}
			aCoeff := latticeToDirectForm(pr.Order, pr.KCoeff)
			for j := uint8(0); j < pr.RegionLength; j++ {
				if curBlock >= len(data.SubBlocks96) {
					return ErrUndefinedSubBlock
				}
				b := data.SubBlocks96[curBlock]
				curBlock++
				reconstructed := applyIIR(b.Residuals, pr.Order, aCoeff, &buffer, &index)
				copy(residuals96[rpos:], reconstructed)
				rpos += len(reconstructed)
			}
		}
	}

	// Upsample the 48kHz base-layer samples (stored at even positions in
	// dst) back to 96kHz and add the reconstructed extension residuals.
	var buffer [64]int32
	index1 := 0
	k := 0
	for sample := 0; sample < n; sample += 2 {
		buffer[index1] = dst[sample]

		index2 := (index1 - 8) & 63
		dst[sample] = buffer[index2] + residuals96[k]
		k++

		index2 = index1
		var accum int64
		for i := 1; i < InterpFiltOrder+1; i += 2 {
			accum += int64(buffer[index2]) * InterpolatorFilterCoeffs[i]
			index2 = (index2 - 1) & 63
		}
		dst[sample+1] = int32(accum>>15) + residuals96[k]
		k++

		index1 = (index1 + 1) & 63
	}
	return nil
}
