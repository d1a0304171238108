/*
NAME
  iohandle.go

DESCRIPTION
  Bit-level framing of an AudioData payload, as carried inside an
  AudioDataDLC element: ShiftBits, SampleRate, the 48kHz layer's predictor
  regions and residual sub-blocks, and (when SampleRate is 96kHz) the
  extension layer's predictor regions and residual sub-blocks.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

import (
	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
)

// WriteAudioData encodes data's ShiftBits, SampleRate, predictor regions,
// and residual sub-blocks. The caller is responsible for byte-aligning the
// stream afterward (the element payload's own end-of-payload alignment).
func WriteAudioData(w *bitstream.Writer, data *AudioData) error {
	if err := w.WriteBits(uint64(data.ShiftBits), 5); err != nil {
		return err
	}
	sr := uint64(0)
	if data.SampleRate == SampleRate96k {
		sr = 1
	}
	if err := w.WriteBits(sr, 2); err != nil {
		return err
	}
	if err := writePredRegions(w, data.PredRegions48); err != nil {
		return err
	}
	for _, b := range data.SubBlocks48 {
		if err := WriteResidualSubBlock(w, b); err != nil {
			return err
		}
	}
	if data.SampleRate == SampleRate96k {
		if err := writePredRegions(w, data.PredRegions96); err != nil {
			return err
		}
		for _, b := range data.SubBlocks96 {
			if err := WriteResidualSubBlock(w, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadAudioData decodes an AudioData payload. numSubBlocks48/subBlockSize48
// and numSubBlocks96/subBlockSize96 must be derived by the caller from the
// enclosing frame's frame rate (via FrameSizing); they are not re-derivable
// from the DLC payload alone.
func ReadAudioData(r *bitstream.Reader, numSubBlocks48, subBlockSize48, numSubBlocks96, subBlockSize96 int) (*AudioData, error) {
	data := &AudioData{}
	shiftBits, err := r.ReadBits(5)
	if err != nil {
		return nil, errors.Wrap(err, "dlc: read shiftBits")
	}
	data.ShiftBits = uint8(shiftBits)

	sr, err := r.ReadBits(2)
	if err != nil {
		return nil, errors.Wrap(err, "dlc: read sampleRate")
	}
	if sr == 1 {
		data.SampleRate = SampleRate96k
	} else {
		data.SampleRate = SampleRate48k
	}

	data.NumPredRegions48, data.PredRegions48, err = readPredRegions(r)
	if err != nil {
		return nil, err
	}
	data.SubBlocks48 = make([]ResidualSubBlock, numSubBlocks48)
	for i := range data.SubBlocks48 {
		data.SubBlocks48[i], err = ReadResidualSubBlock(r, subBlockSize48)
		if err != nil {
			return nil, errors.Wrapf(err, "dlc: read 48kHz sub-block %d", i)
		}
	}

	if data.SampleRate == SampleRate96k {
		data.NumPredRegions96, data.PredRegions96, err = readPredRegions(r)
		if err != nil {
			return nil, err
		}
		data.SubBlocks96 = make([]ResidualSubBlock, numSubBlocks96)
		for i := range data.SubBlocks96 {
			data.SubBlocks96[i], err = ReadResidualSubBlock(r, subBlockSize96)
			if err != nil {
				return nil, errors.Wrapf(err, "dlc: read 96kHz sub-block %d", i)
			}
		}
	}
	return data, nil
}

func writePredRegions(w *bitstream.Writer, regions []PredRegion) error {
	if err := w.WriteBits(uint64(len(regions)), 2); err != nil {
		return err
	}
	for _, pr := range regions {
		if err := w.WriteBits(uint64(pr.RegionLength), 4); err != nil {
			return err
		}
		if err := w.WriteBits(uint64(pr.Order), 5); err != nil {
			return err
		}
		for k := 1; k <= int(pr.Order); k++ {
			if err := w.WriteBits(uint64(pr.KCoeff[k]), 10); err != nil {
				return err
			}
		}
	}
	return nil
}

func readPredRegions(r *bitstream.Reader) (uint8, []PredRegion, error) {
	n, err := r.ReadBits(2)
	if err != nil {
		return 0, nil, errors.Wrap(err, "dlc: read numPredRegions")
	}
	regions := make([]PredRegion, n)
	for i := range regions {
		length, err := r.ReadBits(4)
		if err != nil {
			return 0, nil, errors.Wrap(err, "dlc: read predictor region length")
		}
		order, err := r.ReadBits(5)
		if err != nil {
			return 0, nil, errors.Wrap(err, "dlc: read predictor region order")
		}
		var pr PredRegion
		pr.RegionLength = uint8(length)
		pr.Order = uint8(order)
		for k := 1; k <= int(pr.Order); k++ {
			kc, err := r.ReadBits(10)
			if err != nil {
				return 0, nil, errors.Wrap(err, "dlc: read predictor kCoeff")
			}
			pr.KCoeff[k] = uint16(kc)
		}
		regions[i] = pr
	}
	return uint8(n), regions, nil
}
