/*
NAME
  bitstream.go

DESCRIPTION
  Package bitstream provides a big-endian bit-level reader and writer, Plex(n)
  variable-length integer coding, and null-terminated ASCII string coding, as
  used by the ST 2098-2 Immersive Audio Bitstream element codec.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitstream provides big-endian bit-level stream reading and writing,
// including Plex(n) variable-length integer coding and null-terminated ASCII
// string coding, as required by SMPTE ST 2098-2.
package bitstream

import "github.com/pkg/errors"

// LicenseNotice is attribution text embeddable by applications that link
// this codec, for distribution compliance purposes.
const LicenseNotice = "IAB bitstream codec. See LICENSE for terms."

// Sentinel errors describing the stream-level error taxonomy.
var (
	// ErrEndOfStream is returned when a read runs past the available data.
	// It is recoverable: callers such as a frame iterator use it to detect
	// the end of a sequence of frames.
	ErrEndOfStream = errors.New("bitstream: end of stream")

	// ErrShortBuffer is returned when a write would overflow a fixed
	// destination buffer. It is fatal for the current serialization.
	ErrShortBuffer = errors.New("bitstream: short buffer")

	// ErrNotByteAligned is returned by Position when the cursor is not
	// currently at a byte boundary.
	ErrNotByteAligned = errors.New("bitstream: reader is not byte aligned")

	// ErrMalformedPlex is returned when a Plex(n) escape sequence cannot be
	// decoded, e.g. because the stream ends mid-escape.
	ErrMalformedPlex = errors.New("bitstream: malformed plex-coded integer")

	// ErrValueOutOfRange is returned by WriteBits when value does not fit
	// in n bits.
	ErrValueOutOfRange = errors.New("bitstream: value does not fit in field width")
)

// maxBitWidth is the widest single ReadBits/WriteBits call ever needs to
// service: ST 2098-2's widest fixed field is 32 bits, but Plex(n) escalation
// can request up to 64 bits in one group when decoding a pathological
// escape chain.
const maxBitWidth = 64
