/*
NAME
  dlc.go

DESCRIPTION
  Package dlc implements the ST 2098-2 Dynamic Lossless Compression audio
  codec: an LPC-lattice predictor plus PCM/Rice entropy-coded residuals,
  with a 48kHz base layer and an optional 96kHz extension layer built from
  an anti-aliasing low-pass filter, 2:1 decimation, and a polyphase
  interpolator. The simple encoder modeled here never emits lattice
  prediction (NumPredRegions is always 0, matching the ST 2098-2 reference
  encoder); the full decoder reconstructs both predicted and unpredicted
  streams, and both PCM and Rice residual coding.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

import "github.com/pkg/errors"

// LicenseNotice is attribution text embeddable by applications that link
// this codec, for distribution compliance purposes.
const LicenseNotice = "IAB DLC audio codec. See LICENSE for terms."

// Log matches an instance-scoped logging function so Encoder and Decoder,
// which are long-lived and independently instantiable, never depend on
// global logging state.
type Log func(lvl int8, msg string, args ...interface{})

// Log levels, matching the teacher's ausocean/utils/logging level scale.
const (
	LvlDebug int8 = iota
	LvlInfo
	LvlWarning
	LvlError
)

func noopLog(int8, string, ...interface{}) {}

var (
	// ErrUnsupportedFrameRate is returned when a FrameRate has no
	// sub-block sizing table entry (currently only FrameRate23_976).
	ErrUnsupportedFrameRate = errors.New("dlc: unsupported frame rate")

	// ErrInvalidSampleCount is returned when the caller's sample buffer
	// does not match the configured frame size.
	ErrInvalidSampleCount = errors.New("dlc: sample count does not match configured frame size")

	// ErrUnsupportedSampleRate is returned for a sample rate the codec
	// does not recognize, or an output rate the source AudioData cannot
	// produce (e.g. requesting 96kHz output from 48kHz-coded data).
	ErrUnsupportedSampleRate = errors.New("dlc: unsupported sample rate combination")

	// ErrUndefinedSubBlock is returned when a residual sub-block required
	// by NumDLCSubBlocks is missing from an AudioData being decoded.
	ErrUndefinedSubBlock = errors.New("dlc: required residual sub-block is undefined")

	// ErrMalformedResidual is returned when a Rice residual's unary
	// quotient runs past 2^20; other residual read failures are returned
	// as the wrapped bitstream error.
	ErrMalformedResidual = errors.New("dlc: malformed residual sub-block")
)

// Quirks selects between bit-exact reproduction of the ST 2098-2 reference
// decoder's observable behavior and spec-correct behavior where the two
// diverge.
type Quirks struct {
	// PredRegion96UsesPredRegion48, when true (the default), reproduces
	// the reference decoder's lattice-to-direct-form conversion for the
	// 96kHz extension layer reading predictor region data from the 48kHz
	// region table instead of the 96kHz one. Set false for spec-correct
	// behavior. See DESIGN.md.
	PredRegion96UsesPredRegion48 bool
}

// DefaultQuirks reproduces the reference decoder's observable behavior.
func DefaultQuirks() Quirks {
	return Quirks{PredRegion96UsesPredRegion48: true}
}
