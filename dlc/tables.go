/*
NAME
  tables.go

DESCRIPTION
  Fixed-point filter coefficients and the per-frame-rate sub-block sizing
  table used by the DLC encoder and decoder, transcribed from Table 33 and
  the frame/sub-block sizing tables of SMPTE ST 2098-2.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

// MaxFrameSize96k and MaxFrameSize48k bound the largest single-frame sample
// count the codec handles at each base rate.
const (
	MaxFrameSize96k = 4000
	MaxFrameSize48k = MaxFrameSize96k / 2
)

// Interpolator filter (48k -> 96k upsampling), Q15.
const (
	InterpFiltOrder    = 32 // 33 taps.
	InterpFiltGrpDelay = InterpFiltOrder / 2
)

// InterpolatorFilterCoeffs are the 33 Q15 polyphase interpolation taps used
// to upsample the 48kHz base layer into the 96kHz domain before adding the
// extension-band residual.
var InterpolatorFilterCoeffs = [InterpFiltOrder + 1]int64{
	0, -138, 0, 305, 0, -618, 0, 1128, 0, -1952, 0, 3377, 0, -6450, 0, 20688,
	32767,
	20688, 0, -6450, 0, 3377, 0, -1952, 0, 1128, 0, -618, 0, 305, 0, -138, 0,
}

// 96kHz anti-aliasing low-pass filter, Q18.
const (
	LPF96kFiltOrder      = 128 // 129 taps.
	LPF96kFiltGrpDelay   = LPF96kFiltOrder / 2
	LPFCoeffIntBitLength = 18
)

// LowPassFilterCoeffs are the 129 Q18 anti-aliasing FIR taps applied before
// decimating a 96kHz frame down to its 48kHz base layer.
var LowPassFilterCoeffs = [LPF96kFiltOrder + 1]int64{
	51, 215, 187, -26, -148, 26, 169, -21, -207, 10, 253, 9, -306, -35, 365,
	71, -431, -117, 501, 175, -578, -246, 659, 333, -745, -436, 835, 559,
	-928, -703, 1023, 872, -1121, -1069, 1219, 1299, -1317, -1565, 1415, 1876,
	-1510, -2239, 1603, 2668, -1691, -3178, 1775, 3796, -1853, -4560, 1924,
	5533, -1987, -6824, 2042, 8640, -2088, -11424, 2124, 16331, -2150, -27599,
	2166,
	83371,
	128901,
	83371,
	2166, -27599, -2150, 16331, 2124, -11424, -2088, 8640, 2042, -6824, -1987,
	5533, 1924, -4560, -1853, 3796, 1775, -3178, -1691, 2668, 1603, -2239,
	-1510, 1876, 1415, -1565, -1317, 1299, 1219, -1069, -1121, 872, 1023,
	-703, -928, 559, 835, -436, -745, 333, 659, -246, -578, 175, 501, -117,
	-431, 71, 365, -35, -306, 9, 253, 10, -207, -21, 169, 26, -148, -26, 187,
	215, 51,
}

// TotalFiltGrpDelay96k is the combined LPF+interpolator group delay that
// must be re-applied to 96kHz samples to realign the base and extension
// bands during 96kHz encoding.
const TotalFiltGrpDelay96k = LPF96kFiltGrpDelay + InterpFiltGrpDelay

// FrameRate enumerates the frame rates ST 2098-2 defines sub-block sizing
// for. FrameRate23_976 is recognized but unsupported: every operation that
// needs its table entry returns ErrUnsupportedFrameRate.
type FrameRate int

const (
	FrameRate24 FrameRate = iota
	FrameRate23_976
	FrameRate25
	FrameRate30
	FrameRate48
	FrameRate50
	FrameRate60
	FrameRate96
	FrameRate100
	FrameRate120
)

// SampleRate is the DLC base sample rate: 48kHz, or 96kHz (48kHz base layer
// plus an extension band).
type SampleRate int

const (
	SampleRate48k SampleRate = 48000
	SampleRate96k SampleRate = 96000
)

// frameSizing holds the per-frame-rate frame size, sub-block count, and
// per-sub-block sample count for one sample rate.
type frameSizing struct {
	frameSize    int
	numSubBlocks int
	subBlockSize int
}

var sizing48k = map[FrameRate]frameSizing{
	FrameRate24:  {2000, 10, 200},
	FrameRate25:  {1920, 10, 192},
	FrameRate30:  {1600, 8, 200},
	FrameRate48:  {1000, 5, 200},
	FrameRate50:  {960, 5, 192},
	FrameRate60:  {800, 4, 200},
	FrameRate96:  {500, 5, 100},
	FrameRate100: {480, 4, 120},
	FrameRate120: {400, 4, 100},
}

var sizing96k = map[FrameRate]frameSizing{
	FrameRate24:  {4000, 10, 400},
	FrameRate25:  {3840, 10, 384},
	FrameRate30:  {3200, 8, 400},
	FrameRate48:  {2000, 5, 400},
	FrameRate50:  {1920, 5, 384},
	FrameRate60:  {1600, 4, 400},
	FrameRate96:  {1000, 5, 200},
	FrameRate100: {960, 4, 240},
	FrameRate120: {800, 4, 200},
}

// FrameSizing returns the frame size, sub-block count, and per-sub-block
// sample count for the given sample rate and frame rate. It returns
// ErrUnsupportedFrameRate for FrameRate23_976 and any unrecognized rate.
func FrameSizing(sr SampleRate, fr FrameRate) (frameSize, numSubBlocks, subBlockSize int, err error) {
	table := sizing48k
	if sr == SampleRate96k {
		table = sizing96k
	}
	s, ok := table[fr]
	if !ok {
		return 0, 0, 0, ErrUnsupportedFrameRate
	}
	return s.frameSize, s.numSubBlocks, s.subBlockSize, nil
}

// NumSubBlocksForFrameRate returns the fixed sub-block count (independent
// of sample rate) used for pan, remap, and zone sub-block lists: 8 for
// 24/25/30fps, 4 for 48/50/60fps, 2 for 96/100/120fps.
func NumSubBlocksForFrameRate(fr FrameRate) (int, error) {
	switch fr {
	case FrameRate24, FrameRate25, FrameRate30:
		return 8, nil
	case FrameRate48, FrameRate50, FrameRate60:
		return 4, nil
	case FrameRate96, FrameRate100, FrameRate120:
		return 2, nil
	default:
		return 0, ErrUnsupportedFrameRate
	}
}
