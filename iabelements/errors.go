/*
NAME
  errors.go

DESCRIPTION
  Sentinel errors for the IAB element tree parser/serializer, grouped by the
  error taxonomy the element model shares with bitstream and dlc: a stream
  could not be parsed, a feature is recognized but unimplemented, or the
  decoded tree is internally inconsistent.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabelements

import "github.com/pkg/errors"

var (
	// ErrMalformedStream is returned when a subframe tag or the IA
	// subframe's element ID is not the expected one, or a UserData payload
	// is too short to hold its UL. Field read failures are returned as the
	// wrapped bitstream error instead.
	ErrMalformedStream = errors.New("iabelements: malformed stream")

	// ErrUnsupportedFeature names a recognized but unimplemented
	// combination. No operation in this package returns it; a 23.976 fps
	// frame rate surfaces as dlc.ErrUnsupportedFrameRate.
	ErrUnsupportedFeature = errors.New("iabelements: unsupported feature")

	// ErrInconsistentTree is returned by Serialize when a sub-block count
	// disagrees with the frame rate's sub-block count, a remap gain row's
	// length disagrees with the source channel count, an ObjectDefinition
	// holds more than one ObjectZoneDefinition19, or a sub-element list
	// contains a duplicate or nil entry.
	ErrInconsistentTree = errors.New("iabelements: inconsistent element tree")

	// ErrZeroSize is returned when an element's declared Size is 0.
	ErrZeroSize = errors.New("iabelements: element size is zero")

	// ErrReservedAudioDataID is returned when an AudioDataDLC or AudioDataPCM
	// element is constructed with audioDataID == 0, which is reserved to mean
	// "no audio asset" when used as a metadata reference.
	ErrReservedAudioDataID = errors.New("iabelements: audioDataID 0 is reserved and invalid on an audio data element")

	// ErrMissingPreamble is a non-fatal signal: the frame container had no
	// preamble subframe. Parsing of the IA subframe continues regardless.
	ErrMissingPreamble = errors.New("iabelements: preamble subframe missing")
)
