/*
NAME
  frame.go

DESCRIPTION
  IAFrame: the root element of an IAB bitstream, owning version, format
  fields, the computed maxRendered count, and the frame's sub-element tree
  (beds, objects, authoring tool info, user data, and audio payloads).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabelements

import (
	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/dlc"
)

// IAFrame is the root IAB element: exactly one IAFrame is carried per IA
// subframe. It exclusively owns its sub-element list; destroying the frame
// destroys the whole tree.
type IAFrame struct {
	Base

	Version    uint8
	SampleRate dlc.SampleRate
	BitDepth   BitDepth
	FrameRate  dlc.FrameRate

	// MaxRendered is recomputed by Serialize from SubElements (§4.3); a
	// caller-supplied value is overwritten on write, so it is only
	// meaningful immediately after Parse.
	MaxRendered uint64

	SubElements []Element

	// UndefinedSubElementCount and UnallowedSubElementCount report how many
	// children were skipped during the most recent Parse because their ID
	// was unrecognized, or recognized but not permitted under IAFrame.
	UndefinedSubElementCount int
	UnallowedSubElementCount int
}

// NewIAFrame returns an IAFrame with PackingEnabled defaulted to true.
func NewIAFrame() *IAFrame {
	return &IAFrame{Base: Base{PackingEnabled: true}, Version: 1}
}

// ElementID returns IDIAFrame.
func (f *IAFrame) ElementID() ID { return IDIAFrame }

// iaFrameAllowedChild reports whether id is a permitted IAFrame sub-element
// (invariant 6).
func iaFrameAllowedChild(id ID) bool {
	switch id {
	case IDBedDefinition, IDObjectDefinition, IDAuthoringToolInfo, IDUserData, IDAudioDataDLC, IDAudioDataPCM:
		return true
	default:
		return false
	}
}

// Serialize writes the frame's ID|Size header and payload to w, recomputing
// MaxRendered and the packed sub-element count from only the
// PackingEnabled == true children (the supplemented packing-enable flag).
func (f *IAFrame) Serialize(w *bitstream.Writer) error {
	if err := checkNoDuplicatesOrNil(f.SubElements); err != nil {
		return err
	}
	f.MaxRendered = ComputeMaxRendered(f.SubElements)

	return writeElement(w, IDIAFrame, func(bw *bitstream.Writer) error {
		if err := bw.WriteBits(uint64(f.Version), 8); err != nil {
			return err
		}
		srBit := uint64(0)
		if f.SampleRate == dlc.SampleRate96k {
			srBit = 1
		}
		if err := bw.WriteBits(srBit, 2); err != nil {
			return err
		}
		bdBit := uint64(0)
		if f.BitDepth == BitDepth24 {
			bdBit = 1
		}
		if err := bw.WriteBits(bdBit, 2); err != nil {
			return err
		}
		if err := bw.WriteBits(uint64(f.FrameRate), 4); err != nil {
			return err
		}
		if err := bw.WritePlexN(8, f.MaxRendered); err != nil {
			return err
		}
		if err := bw.WritePlexN(8, uint64(packedCount(f.SubElements))); err != nil {
			return err
		}
		for _, e := range f.SubElements {
			if !e.Packed() {
				continue
			}
			if err := serializeChild(bw, e, f.FrameRate); err != nil {
				return err
			}
		}
		return nil
	})
}

// ParseIAFrame parses one IAFrame element from r; id/size must already have
// been read via readHeader and matched to IDIAFrame.
func ParseIAFrame(r *bitstream.Reader, size int) (*IAFrame, error) {
	f := NewIAFrame()
	version, err := r.ReadBits(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read frame version")
	}
	f.Version = uint8(version)

	sr, err := r.ReadBits(2)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read frame sampleRate")
	}
	if sr == 1 {
		f.SampleRate = dlc.SampleRate96k
	} else {
		f.SampleRate = dlc.SampleRate48k
	}

	bd, err := r.ReadBits(2)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read frame bitDepth")
	}
	if bd == 1 {
		f.BitDepth = BitDepth24
	} else {
		f.BitDepth = BitDepth16
	}

	fr, err := r.ReadBits(4)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read frame frameRate")
	}
	f.FrameRate = dlc.FrameRate(fr)

	f.MaxRendered, err = r.ReadPlexN(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read frame maxRendered")
	}

	children, counts, err := parseSubElements(r, f.FrameRate, iaFrameAllowedChild)
	if err != nil {
		return nil, err
	}
	f.SubElements = children
	f.UndefinedSubElementCount = counts.undefined
	f.UnallowedSubElementCount = counts.unallowed
	return f, nil
}

// ParseFrameElement reads one element header from r and parses it as an
// IAFrame, the shape every IA subframe's payload must carry. It is the
// entry point a container reader uses on an IA subframe's payload bytes.
func ParseFrameElement(r *bitstream.Reader) (*IAFrame, error) {
	id, size, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if id != IDIAFrame {
		return nil, errors.Wrapf(ErrMalformedStream, "iabelements: IA subframe payload has element ID %#x, want IAFrame", uint16(id))
	}
	return ParseIAFrame(r, size)
}

// serializeChild dispatches to the concrete element's Serialize method by
// type switch (the Go analogue of the source's virtual Serialize call).
func serializeChild(w *bitstream.Writer, e Element, fr dlc.FrameRate) error {
	switch v := e.(type) {
	case *BedDefinition:
		return v.Serialize(w, fr)
	case *BedRemap:
		return v.Serialize(w, fr)
	case *ObjectDefinition:
		return v.Serialize(w, fr)
	case *ObjectZoneDefinition19:
		return v.Serialize(w, fr)
	case *AuthoringToolInfo:
		return v.Serialize(w)
	case *UserData:
		return v.Serialize(w)
	case *AudioDataDLC:
		return v.Serialize(w)
	case *AudioDataPCM:
		return v.Serialize(w)
	default:
		return errors.Errorf("iabelements: unknown element type %T", e)
	}
}

// parseChild reads one child element whose ID has already been peeked and
// confirmed known+allowed; it re-reads the header to consume it.
func parseChild(r *bitstream.Reader, fr dlc.FrameRate) (Element, error) {
	id, size, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	switch id {
	case IDBedDefinition:
		return ParseBedDefinition(r, size, fr)
	case IDBedRemap:
		return ParseBedRemap(r, size, fr)
	case IDObjectDefinition:
		return ParseObjectDefinition(r, size, fr)
	case IDObjectZoneDefinition19:
		return ParseObjectZoneDefinition19(r, size, fr)
	case IDAuthoringToolInfo:
		return ParseAuthoringToolInfo(r, size)
	case IDUserData:
		return ParseUserData(r, size)
	case IDAudioDataDLC:
		return ParseAudioDataDLC(r, size, fr)
	case IDAudioDataPCM:
		return ParseAudioDataPCM(r, size)
	default:
		return nil, errors.Errorf("iabelements: unexpected child ID %#x", uint16(id))
	}
}
