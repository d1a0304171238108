/*
NAME
  container.go

DESCRIPTION
  The IA bitstream frame container: two length-prefixed subframes, a
  preamble (opaque, caller-defined) and an IA subframe (an IAFrame
  element), concatenated per ST 2098-2's frame-of-frames framing.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package container implements the IA bitstream frame container: the
// preamble-subframe/IA-subframe wrapper around an iabelements.IAFrame,
// mirroring the tag|length|payload framing of the teacher's container/mts
// package at a coarser, two-subframe granularity.
package container

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/iabelements"
)

// Tag identifies a subframe kind, an 8-bit fixed-width stream field.
type Tag uint8

const (
	TagPreamble  Tag = 0x01
	TagIASubframe Tag = 0x02
)

// Frame is one parsed IA bitstream frame: the preamble subframe's opaque
// payload (nil if the preamble was missing) and the decoded IAFrame.
type Frame struct {
	Preamble []byte
	IAFrame  *iabelements.IAFrame
}

// WriteFrame writes preamble as a preamble subframe followed by frame
// serialized as an IA subframe.
func WriteFrame(w *bitstream.Writer, preamble []byte, frame *iabelements.IAFrame) error {
	if err := writeSubframe(w, TagPreamble, preamble); err != nil {
		return errors.Wrap(err, "container: write preamble subframe")
	}

	var buf bytes.Buffer
	fw := bitstream.NewWriter(&buf)
	if err := frame.Serialize(fw); err != nil {
		return errors.Wrap(err, "container: serialize IAFrame")
	}
	if err := writeSubframe(w, TagIASubframe, buf.Bytes()); err != nil {
		return errors.Wrap(err, "container: write IA subframe")
	}
	return nil
}

func writeSubframe(w *bitstream.Writer, tag Tag, payload []byte) error {
	if err := w.WriteBits(uint64(tag), 8); err != nil {
		return err
	}
	if err := w.WriteBits(uint64(len(payload)), 32); err != nil {
		return err
	}
	return w.WriteBytes(payload)
}

// ReadFrame reads one IA bitstream frame from r. If the preamble subframe
// is absent (the first subframe's tag is TagIASubframe rather than
// TagPreamble), ReadFrame still parses the IA subframe that follows and
// returns the resulting Frame alongside iabelements.ErrMissingPreamble;
// this is a non-fatal signal, not a parse failure, so callers should check
// for it with errors.Is rather than treating a non-nil error as fatal.
func ReadFrame(r *bitstream.Reader) (*Frame, error) {
	tag, length, err := readSubframeHeader(r)
	if err != nil {
		return nil, errors.Wrap(err, "container: read first subframe header")
	}

	switch Tag(tag) {
	case TagPreamble:
		preamble, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, errors.Wrap(err, "container: read preamble payload")
		}
		iaTag, iaLength, err := readSubframeHeader(r)
		if err != nil {
			return nil, errors.Wrap(err, "container: read IA subframe header")
		}
		if Tag(iaTag) != TagIASubframe {
			return nil, errors.Wrapf(iabelements.ErrMalformedStream, "container: expected IA subframe, got tag %#x", iaTag)
		}
		frame, err := parseIAPayload(r, int(iaLength))
		if err != nil {
			return nil, err
		}
		return &Frame{Preamble: preamble, IAFrame: frame}, nil

	case TagIASubframe:
		frame, err := parseIAPayload(r, int(length))
		if err != nil {
			return nil, err
		}
		return &Frame{IAFrame: frame}, iabelements.ErrMissingPreamble

	default:
		return nil, errors.Wrapf(iabelements.ErrMalformedStream, "container: unknown subframe tag %#x", tag)
	}
}

func readSubframeHeader(r *bitstream.Reader) (tag uint8, length uint32, err error) {
	t, err := r.ReadBits(8)
	if err != nil {
		return 0, 0, err
	}
	l, err := r.ReadBits(32)
	if err != nil {
		return 0, 0, err
	}
	return uint8(t), uint32(l), nil
}

func parseIAPayload(r *bitstream.Reader, length int) (*iabelements.IAFrame, error) {
	payload, err := r.ReadBytes(length)
	if err != nil {
		return nil, errors.Wrap(err, "container: read IA subframe payload")
	}
	pr := bitstream.NewReader(bytes.NewReader(payload))
	frame, err := iabelements.ParseFrameElement(pr)
	if err != nil {
		return nil, errors.Wrap(err, "container: parse IAFrame element")
	}
	return frame, nil
}
