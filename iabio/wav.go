/*
NAME
  wav.go

DESCRIPTION
  PCM sample buffer helpers bridging WAV audio (via go-audio/wav, the
  library the broader AusOcean audio/video pack reaches for rather than a
  hand-rolled decoder) to the dlc and iabelements packages: loading a WAV
  file's samples for AudioDataDLC/AudioDataPCM test fixtures, and writing
  decoded IAB channel audio back out to WAV for inspection.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package iabio bridges PCM sample buffers between WAV files and the dlc
// codec / iabelements audio data elements.
package iabio

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// ErrChannelIndex is returned when a requested channel index is outside
// the decoded WAV's channel count.
var ErrChannelIndex = errors.New("iabio: channel index out of range")

// WAVInfo describes a decoded WAV file's format, mirroring the fields an
// IAB frame needs to pick a matching SampleRate/BitDepth.
type WAVInfo struct {
	SampleRate int
	BitDepth   int
	Channels   int
}

// ReadWAVChannel decodes every sample of r's WAV content for a single
// channel, shifted up into the top bits of a 32-bit word the way dlc's
// Encoder expects (a sample at the source bit depth occupies the high
// bits, consistent with Encoder.Encode's "shiftBits = 32 - bitDepth"
// convention). channel must be in [0, WAVInfo.Channels).
func ReadWAVChannel(r io.Reader, channel int) ([]int32, WAVInfo, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, WAVInfo{}, errors.New("iabio: not a valid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, WAVInfo{}, errors.Wrap(err, "iabio: seek to PCM data")
	}

	info := WAVInfo{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   int(dec.NumChans),
	}
	if channel < 0 || channel >= info.Channels {
		return nil, WAVInfo{}, ErrChannelIndex
	}

	const samplesPerRead = 4096
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate},
		Data:           make([]int, samplesPerRead*info.Channels),
		SourceBitDepth: info.BitDepth,
	}

	shift := uint(32 - info.BitDepth)
	var samples []int32
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, WAVInfo{}, errors.Wrap(err, "iabio: read PCM buffer")
		}
		if n == 0 {
			break
		}
		for i := channel; i < n; i += info.Channels {
			samples = append(samples, int32(buf.Data[i])<<shift)
		}
		if n < len(buf.Data) {
			break
		}
	}
	return samples, info, nil
}

// WriteWAVMono writes one channel's worth of samples (in the same
// shifted-into-top-bits form ReadWAVChannel and dlc.Decoder.Decode use) to
// w as a mono PCM WAV file at the given sample rate and bit depth.
func WriteWAVMono(w io.WriteSeeker, samples []int32, sampleRate, bitDepth int) error {
	const formatPCM = 1
	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, formatPCM)

	shift := uint(32 - bitDepth)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s >> shift)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "iabio: write PCM buffer")
	}
	return errors.Wrap(enc.Close(), "iabio: close WAV encoder")
}
