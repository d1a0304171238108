/*
NAME
  audiodata.go

DESCRIPTION
  AudioDataDLC (a DLC-compressed mono audio asset) and AudioDataPCM (a raw
  PCM mono audio asset), the two payload element kinds an IAFrame's beds
  and objects reference by audioDataID.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabelements

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/dlc"
)

// AudioDataDLC is a DLC-compressed mono audio asset, keyed by audioDataID
// (invariant 8: 0 is reserved and invalid here, though legal as a "no
// asset" metadata reference elsewhere).
type AudioDataDLC struct {
	Base

	AudioDataID uint64
	Data        *dlc.AudioData
}

// NewAudioDataDLC returns an AudioDataDLC with PackingEnabled defaulted to
// true. It returns ErrReservedAudioDataID if audioDataID is 0.
func NewAudioDataDLC(audioDataID uint64, data *dlc.AudioData) (*AudioDataDLC, error) {
	if audioDataID == 0 {
		return nil, ErrReservedAudioDataID
	}
	return &AudioDataDLC{Base: Base{PackingEnabled: true}, AudioDataID: audioDataID, Data: data}, nil
}

// ElementID returns IDAudioDataDLC.
func (a *AudioDataDLC) ElementID() ID { return IDAudioDataDLC }

// Serialize writes a's ID|Size header and payload: audioDataID, DLCSize,
// the outer sampleRate field, then the DLC payload rendered by
// dlc.WriteAudioData. The DLC payload is rendered to a sub-buffer first
// since DLCSize must be known before it is written; the stream is then
// byte-aligned before the payload bytes are appended, since DLCSize
// declares a byte count.
func (a *AudioDataDLC) Serialize(w *bitstream.Writer) error {
	if a.AudioDataID == 0 {
		return ErrReservedAudioDataID
	}
	var buf bytes.Buffer
	dw := bitstream.NewWriter(&buf)
	if err := dlc.WriteAudioData(dw, a.Data); err != nil {
		return err
	}
	if err := dw.Align(); err != nil {
		return err
	}

	return writeElement(w, IDAudioDataDLC, func(bw *bitstream.Writer) error {
		if err := bw.WritePlexN(8, a.AudioDataID); err != nil {
			return err
		}
		if err := bw.WriteBits(uint64(buf.Len()), 16); err != nil {
			return err
		}
		srBit := uint64(0)
		if a.Data.SampleRate == dlc.SampleRate96k {
			srBit = 1
		}
		if err := bw.WriteBits(srBit, 2); err != nil {
			return err
		}
		if err := bw.Align(); err != nil {
			return err
		}
		return bw.WriteBytes(buf.Bytes())
	})
}

// ParseAudioDataDLC parses one AudioDataDLC payload of size bytes. fr
// supplies the enclosing frame's frame rate, needed to derive the DLC
// payload's sub-block count and per-sub-block sample count.
func ParseAudioDataDLC(r *bitstream.Reader, size int, fr dlc.FrameRate) (*AudioDataDLC, error) {
	audioDataID, err := r.ReadPlexN(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read audioDataDLC audioDataID")
	}
	if audioDataID == 0 {
		return nil, ErrReservedAudioDataID
	}
	dlcSize, err := r.ReadBits(16)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read audioDataDLC DLCSize")
	}
	srBit, err := r.ReadBits(2)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read audioDataDLC sampleRate")
	}
	r.Align()
	payload, err := r.ReadBytes(int(dlcSize))
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read audioDataDLC payload")
	}

	_, numSubBlocks48, subBlockSize48, err := dlc.FrameSizing(dlc.SampleRate48k, fr)
	if err != nil {
		return nil, err
	}
	var numSubBlocks96, subBlockSize96 int
	if srBit == 1 {
		_, numSubBlocks96, subBlockSize96, err = dlc.FrameSizing(dlc.SampleRate96k, fr)
		if err != nil {
			return nil, err
		}
	}

	pr := bitstream.NewReader(bytes.NewReader(payload))
	data, err := dlc.ReadAudioData(pr, numSubBlocks48, subBlockSize48, numSubBlocks96, subBlockSize96)
	if err != nil {
		return nil, err
	}
	return &AudioDataDLC{Base: Base{PackingEnabled: true}, AudioDataID: audioDataID, Data: data}, nil
}

// AudioDataPCM is a raw mono PCM audio asset: samples are stored
// little-endian within the otherwise big-endian bit stream, and are
// preserved as opaque bytes rather than parsed into a sample slice, since
// the element carries no bit depth or channel layout of its own (those are
// recovered from the referencing bed/object's frame context).
type AudioDataPCM struct {
	Base

	AudioDataID uint64
	PCMData     []byte
}

// NewAudioDataPCM returns an AudioDataPCM with PackingEnabled defaulted to
// true. It returns ErrReservedAudioDataID if audioDataID is 0.
func NewAudioDataPCM(audioDataID uint64, pcmData []byte) (*AudioDataPCM, error) {
	if audioDataID == 0 {
		return nil, ErrReservedAudioDataID
	}
	return &AudioDataPCM{Base: Base{PackingEnabled: true}, AudioDataID: audioDataID, PCMData: pcmData}, nil
}

// ElementID returns IDAudioDataPCM.
func (a *AudioDataPCM) ElementID() ID { return IDAudioDataPCM }

// Serialize writes a's ID|Size header and payload.
func (a *AudioDataPCM) Serialize(w *bitstream.Writer) error {
	if a.AudioDataID == 0 {
		return ErrReservedAudioDataID
	}
	return writeElement(w, IDAudioDataPCM, func(bw *bitstream.Writer) error {
		if err := bw.WritePlexN(8, a.AudioDataID); err != nil {
			return err
		}
		return bw.WriteBytes(a.PCMData)
	})
}

// ParseAudioDataPCM parses one AudioDataPCM payload of size bytes.
func ParseAudioDataPCM(r *bitstream.Reader, size int) (*AudioDataPCM, error) {
	before, err := r.Position()
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: audioDataPCM not byte aligned at start")
	}
	audioDataID, err := r.ReadPlexN(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read audioDataPCM audioDataID")
	}
	if audioDataID == 0 {
		return nil, ErrReservedAudioDataID
	}
	after, err := r.Position()
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: audioDataPCM audioDataID not byte aligned")
	}
	remaining := size - int(after-before)
	pcmData, err := r.ReadBytes(remaining)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read audioDataPCM payload")
	}
	return &AudioDataPCM{Base: Base{PackingEnabled: true}, AudioDataID: audioDataID, PCMData: pcmData}, nil
}
