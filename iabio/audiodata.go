/*
NAME
  audiodata.go

DESCRIPTION
  Conversions between a single channel's raw sample buffer and the two
  audio data element payloads an IAB frame carries: DLC-coded
  (AudioDataDLC, via the dlc codec) and uncompressed (AudioDataPCM, packed
  little-endian per sample per spec.md's element table).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabio

import (
	"github.com/pkg/errors"

	"github.com/ausocean/iab/dlc"
	"github.com/ausocean/iab/iabelements"
)

// EncodeDLCChannel compresses one frame's worth of samples (already
// shifted into the top bits per dlc's convention; see ReadWAVChannel) into
// an AudioDataDLC element carrying audioDataID.
func EncodeDLCChannel(samples []int32, audioDataID uint64, sr dlc.SampleRate, fr dlc.FrameRate, bitDepth int) (*iabelements.AudioDataDLC, error) {
	enc, err := dlc.NewEncoder()
	if err != nil {
		return nil, errors.Wrap(err, "iabio: new encoder")
	}
	if err := enc.Configure(sr, fr, bitDepth); err != nil {
		return nil, errors.Wrap(err, "iabio: configure encoder")
	}
	data, err := enc.Encode(samples)
	if err != nil {
		return nil, errors.Wrap(err, "iabio: encode")
	}
	return iabelements.NewAudioDataDLC(audioDataID, data)
}

// DecodeDLCChannel reconstructs a channel's samples from an AudioDataDLC
// element at outRate, sizing the destination buffer itself.
func DecodeDLCChannel(ad *iabelements.AudioDataDLC, outRate dlc.SampleRate) ([]int32, error) {
	dec, err := dlc.NewDecoder()
	if err != nil {
		return nil, errors.Wrap(err, "iabio: new decoder")
	}
	n := ad.Data.SampleCount48()
	if outRate == dlc.SampleRate96k {
		n = ad.Data.SampleCount96()
	}
	dst := make([]int32, n)
	if err := dec.Decode(dst, outRate, ad.Data); err != nil {
		return nil, errors.Wrap(err, "iabio: decode")
	}
	return dst, nil
}

// PackPCMChannel packs one frame's worth of shifted-into-top-bits samples
// into the little-endian-per-sample byte form AudioDataPCM's payload
// carries at bitDepth (16 or 24).
func PackPCMChannel(samples []int32, bitDepth int) []byte {
	bytesPerSample := bitDepth / 8
	shift := uint(32 - bitDepth)
	out := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		v := uint32(s >> shift)
		for b := 0; b < bytesPerSample; b++ {
			out[i*bytesPerSample+b] = byte(v >> (8 * b))
		}
	}
	return out
}

// UnpackPCMChannel reverses PackPCMChannel, recovering shifted-into-top-
// bits samples from an AudioDataPCM payload at bitDepth.
func UnpackPCMChannel(pcmData []byte, bitDepth int) ([]int32, error) {
	bytesPerSample := bitDepth / 8
	if bytesPerSample == 0 || len(pcmData)%bytesPerSample != 0 {
		return nil, errors.Errorf("iabio: PCM payload length %d not a multiple of %d-bit sample width", len(pcmData), bitDepth)
	}
	shift := uint(32 - bitDepth)
	out := make([]int32, len(pcmData)/bytesPerSample)
	for i := range out {
		var v uint32
		for b := 0; b < bytesPerSample; b++ {
			v |= uint32(pcmData[i*bytesPerSample+b]) << (8 * b)
		}
		// v holds only the low bitDepth bits; sign-extend through the top
		// before shifting back into top-bits form.
		out[i] = (int32(v<<shift) >> shift) << shift
	}
	return out, nil
}

// EncodePCMChannel packs samples and wraps them in an AudioDataPCM
// element carrying audioDataID.
func EncodePCMChannel(samples []int32, audioDataID uint64, bitDepth int) (*iabelements.AudioDataPCM, error) {
	return iabelements.NewAudioDataPCM(audioDataID, PackPCMChannel(samples, bitDepth))
}
