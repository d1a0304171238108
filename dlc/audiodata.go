/*
NAME
  audiodata.go

DESCRIPTION
  AudioData is the parsed/in-memory form of a DLC payload: the shift
  amount applied before entropy coding, the optional lattice predictor
  regions, and the per-sub-block residual coding for the 48kHz base layer
  and (when present) the 96kHz extension layer.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

// CodeType selects the entropy coding used by a residual sub-block.
type CodeType uint8

const (
	CodePCM CodeType = iota
	CodeRice
)

// PredRegion is one lattice predictor region: a run of RegionLength
// sub-blocks sharing one set of Order reflection coefficients, KCoeff[1..Order]
// (KCoeff[0] is unused, matching the reference's 32-entry fixed array).
type PredRegion struct {
	RegionLength uint8 // 4-bit field.
	Order        uint8 // 5-bit field, 0-31.
	KCoeff       [32]uint16
}

// ResidualSubBlock is one sub-block's entropy-coded residuals, either PCM
// or Rice coded.
type ResidualSubBlock struct {
	Code CodeType

	// PCM fields. BitDepth is the magnitude bit width; 0 means every
	// residual in the sub-block is zero and no magnitude bits are coded.
	BitDepth uint8

	// Rice fields.
	RiceRemBits uint8

	// Residuals holds the decoded signed residual for every sample in
	// the sub-block, regardless of coding.
	Residuals []int32
}

// AudioData is the decoded/to-be-encoded content of an AudioDataDLC
// element payload.
type AudioData struct {
	ShiftBits  uint8 // 5-bit field.
	SampleRate SampleRate

	NumPredRegions48 uint8 // 2-bit field, 0-3.
	NumPredRegions96 uint8

	PredRegions48 []PredRegion
	PredRegions96 []PredRegion

	SubBlocks48 []ResidualSubBlock
	SubBlocks96 []ResidualSubBlock // empty unless SampleRate == SampleRate96k.
}

// SampleCount48 returns the number of 48kHz base-layer samples this
// AudioData encodes: the sum of every sub-block's residual count.
func (d *AudioData) SampleCount48() int {
	n := 0
	for _, b := range d.SubBlocks48 {
		n += len(b.Residuals)
	}
	return n
}

// SampleCount96 returns the number of 96kHz samples this AudioData
// encodes (0 if it carries no extension layer). The extension-layer
// sub-blocks alone sum to the full 96kHz frame length: unlike SubBlocks48
// (sized to the 48kHz base layer, half as many samples per sub-block),
// SubBlocks96 are each sized to the native 96kHz sub-block length.
func (d *AudioData) SampleCount96() int {
	if d.SampleRate != SampleRate96k {
		return 0
	}
	n := 0
	for _, b := range d.SubBlocks96 {
		n += len(b.Residuals)
	}
	return n
}
