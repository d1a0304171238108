/*
NAME
  encoder.go

DESCRIPTION
  Encoder implements ST 2098-2's minimal/reference DLC encoder: no lattice
  prediction (NumPredRegions is always 0), PCM sign-magnitude residual
  coding sized to the minimal bit depth each sub-block needs, and the full
  96kHz anti-aliasing/decimation/interpolation pipeline when encoding at
  96kHz.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

// Encoder holds the per-stream filter state used by 96kHz encoding: the
// anti-aliasing LPF delay line and the cross-frame alignment-delay buffer.
// This state is reset by Configure and must persist across consecutive
// frames of the same stream; a caller encoding two independent streams
// must use two Encoders.
type Encoder struct {
	sampleRate   SampleRate
	frameRate    FrameRate
	frameSize    int
	numSubBlocks int
	subBlockSize int
	bitDepth     int

	lpfDelayLine   [MaxFrameSize96k + LPF96kFiltOrder]int32
	delayBuffer96k [TotalFiltGrpDelay96k]int32

	log Log
}

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*Encoder) error

// WithEncoderLog installs a logging function for diagnostics.
func WithEncoderLog(l Log) EncoderOption {
	return func(e *Encoder) error {
		e.log = l
		return nil
	}
}

// NewEncoder returns an Encoder. Configure must be called before Encode.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{log: noopLog, bitDepth: 24}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Configure sets the sample rate and frame rate for subsequent Encode
// calls and resets all persistent filter state, matching the reference
// encoder's setup().
func (e *Encoder) Configure(sr SampleRate, fr FrameRate, bitDepth int) error {
	frameSize, numSubBlocks, subBlockSize, err := FrameSizing(sr, fr)
	if err != nil {
		return err
	}
	e.sampleRate = sr
	e.frameRate = fr
	e.frameSize = frameSize
	e.numSubBlocks = numSubBlocks
	e.subBlockSize = subBlockSize
	e.bitDepth = bitDepth
	for i := range e.lpfDelayLine {
		e.lpfDelayLine[i] = 0
	}
	for i := range e.delayBuffer96k {
		e.delayBuffer96k[i] = 0
	}
	return nil
}

// Encode compresses exactly one frame's worth of samples (len(samples) ==
// the frame size Configure established) into an AudioData. ShiftBits is
// derived as 32 - bitDepth, matching the reference's "32 minus declared
// frame bit depth" rule; the simple/reference profile pins this to 8 for
// the standard 24-bit frame.
func (e *Encoder) Encode(samples []int32) (*AudioData, error) {
	if len(samples) != e.frameSize {
		return nil, ErrInvalidSampleCount
	}
	shiftBits := uint8(32 - e.bitDepth)

	shifted := make([]int32, len(samples))
	for i, s := range samples {
		shifted[i] = s >> shiftBits
	}

	data := &AudioData{
		ShiftBits:  shiftBits,
		SampleRate: e.sampleRate,
	}

	base := shifted
	subBlockSize48 := e.subBlockSize
	var extension []int32

	if e.sampleRate == SampleRate96k {
		subBlockSize48 = e.subBlockSize / 2

		lpf := e.lpfFilter96k(shifted)
		base48 := downSample96kTo48k(lpf)
		upsampled := upSample48kTo96k(base48)
		delayed := e.delayPCM96k(shifted)

		extension = make([]int32, len(delayed))
		for i := range extension {
			extension[i] = delayed[i] - upsampled[i]
		}
		base = base48
	}

	data.SubBlocks48 = make([]ResidualSubBlock, e.numSubBlocks)
	for i := 0; i < e.numSubBlocks; i++ {
		chunk := base[i*subBlockSize48 : (i+1)*subBlockSize48]
		data.SubBlocks48[i] = pcmSubBlock(chunk)
	}

	if e.sampleRate == SampleRate96k {
		data.SubBlocks96 = make([]ResidualSubBlock, e.numSubBlocks)
		for i := 0; i < e.numSubBlocks; i++ {
			chunk := extension[i*e.subBlockSize : (i+1)*e.subBlockSize]
			data.SubBlocks96[i] = pcmSubBlock(chunk)
		}
	}

	return data, nil
}

func pcmSubBlock(residuals []int32) ResidualSubBlock {
	cp := make([]int32, len(residuals))
	copy(cp, residuals)
	return ResidualSubBlock{Code: CodePCM, BitDepth: pcmBitDepth(cp), Residuals: cp}
}
