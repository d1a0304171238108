/*
NAME
  object.go

DESCRIPTION
  ObjectDefinition (a point or volumetric audio source with time-varying
  pan metadata) and ObjectZoneDefinition19 (an object's 19-zone gating
  sub-element).

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

// ObjectDefinition is a point-source audio object: metadata ID, the audio
// asset it draws samples from, an optional activation use case, one pan
// sub-block per frame time-slice, and at most one ObjectZoneDefinition19
// sub-element (invariant 4; enforced by Serialize, not the type system,
// since the constraint is count-based not structural; parsing accepts any
// number of them).
type ObjectDefinition struct {
	Base

	MetaID          uint64
	AudioDataID     uint64
	ConditionalFlag bool
	UseCase         UseCase

	PanSubBlocks []ObjectPanSubBlock

	AudioDescription string

	SubElements []Element

	UndefinedSubElementCount int
	UnallowedSubElementCount int
}

// NewObjectDefinition returns an ObjectDefinition with PackingEnabled
// defaulted to true.
func NewObjectDefinition() *ObjectDefinition {
	return &ObjectDefinition{Base: Base{PackingEnabled: true}}
}

// ElementID returns IDObjectDefinition.
func (o *ObjectDefinition) ElementID() ID { return IDObjectDefinition }

func objectDefinitionAllowedChild(id ID) bool {
	return id == IDObjectZoneDefinition19
}

// zone19Count returns how many ObjectZoneDefinition19 children are present,
// used to enforce invariant 4 ("at most one").
func (o *ObjectDefinition) zone19Count() int {
	n := 0
	for _, e := range o.SubElements {
		if e.ElementID() == IDObjectZoneDefinition19 {
			n++
		}
	}
	return n
}

// Serialize writes o's ID|Size header and payload. The number of pan
// sub-blocks must equal NumSubBlocksForFrameRate(fr).
func (o *ObjectDefinition) Serialize(w *bitstream.Writer, fr dlc.FrameRate) error {
	if err := checkNoDuplicatesOrNil(o.SubElements); err != nil {
		return err
	}
	if o.zone19Count() > 1 {
		return ErrInconsistentTree
	}
	n, err := dlc.NumSubBlocksForFrameRate(fr)
	if err != nil {
		return err
	}
	if len(o.PanSubBlocks) != n {
		return ErrInconsistentTree
	}

	return writeElement(w, IDObjectDefinition, func(bw *bitstream.Writer) error {
		if err := bw.WritePlexN(8, o.MetaID); err != nil {
			return err
		}
		if err := bw.WritePlexN(8, o.AudioDataID); err != nil {
			return err
		}
		if err := bw.WriteBits(b2u(o.ConditionalFlag), 1); err != nil {
			return err
		}
		if o.ConditionalFlag {
			if err := bw.WriteBits(uint64(o.UseCase), 8); err != nil {
				return err
			}
		}
		for i, pb := range o.PanSubBlocks {
			hasContent := i == 0 || pb.HasContent
			if err := writeSubBlockFlag(bw, i, hasContent); err != nil {
				return err
			}
			if i != 0 && !hasContent {
				continue
			}
			if err := WriteObjectPanSubBlockContents(bw, pb); err != nil {
				return err
			}
		}
		if err := bw.Align(); err != nil {
			return err
		}
		if err := bw.WriteCString(o.AudioDescription); err != nil {
			return err
		}
		if err := bw.WritePlexN(8, uint64(packedCount(o.SubElements))); err != nil {
			return err
		}
		for _, e := range o.SubElements {
			if !e.Packed() {
				continue
			}
			if err := serializeChild(bw, e, fr); err != nil {
				return err
			}
		}
		return nil
	})
}

// ParseObjectDefinition parses one ObjectDefinition payload of size bytes.
func ParseObjectDefinition(r *bitstream.Reader, size int, fr dlc.FrameRate) (*ObjectDefinition, error) {
	o := NewObjectDefinition()
	var err error
	o.MetaID, err = r.ReadPlexN(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read object metaID")
	}
	o.AudioDataID, err = r.ReadPlexN(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read object audioDataID")
	}
	cond, err := r.ReadBits(1)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read object conditionalFlag")
	}
	o.ConditionalFlag = cond == 1
	if o.ConditionalFlag {
		uc, err := r.ReadBits(8)
		if err != nil {
			return nil, errors.Wrap(err, "iabelements: read object useCase")
		}
		o.UseCase = UseCase(uc)
	}

	n, err := dlc.NumSubBlocksForFrameRate(fr)
	if err != nil {
		return nil, err
	}
	o.PanSubBlocks = make([]ObjectPanSubBlock, n)
	for i := range o.PanSubBlocks {
		hasContent, err := readSubBlockFlag(r, i)
		if err != nil {
			return nil, err
		}
		if !hasContent {
			continue
		}
		o.PanSubBlocks[i], err = ReadObjectPanSubBlockContents(r)
		if err != nil {
			return nil, err
		}
		o.PanSubBlocks[i].HasContent = true
	}
	r.Align()
	o.AudioDescription, err = r.ReadCString()
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read object audioDescription")
	}

	children, counts, err := parseSubElements(r, fr, objectDefinitionAllowedChild)
	if err != nil {
		return nil, err
	}
	o.SubElements = children
	o.UndefinedSubElementCount = counts.undefined
	o.UnallowedSubElementCount = counts.unallowed
	return o, nil
}

// ObjectZoneDefinition19 gates an object's audibility across 19 named room
// zones, one Zone19SubBlock per frame time-slice.
type ObjectZoneDefinition19 struct {
	Base
	Zone19SubBlocks []Zone19SubBlock
}

// NewObjectZoneDefinition19 returns an ObjectZoneDefinition19 with
// PackingEnabled defaulted to true.
func NewObjectZoneDefinition19() *ObjectZoneDefinition19 {
	return &ObjectZoneDefinition19{Base: Base{PackingEnabled: true}}
}

// ElementID returns IDObjectZoneDefinition19.
func (z *ObjectZoneDefinition19) ElementID() ID { return IDObjectZoneDefinition19 }

// Serialize writes z's ID|Size header and payload.
func (z *ObjectZoneDefinition19) Serialize(w *bitstream.Writer, fr dlc.FrameRate) error {
	n, err := dlc.NumSubBlocksForFrameRate(fr)
	if err != nil {
		return err
	}
	if len(z.Zone19SubBlocks) != n {
		return ErrInconsistentTree
	}
	return writeElement(w, IDObjectZoneDefinition19, func(bw *bitstream.Writer) error {
		for i, zb := range z.Zone19SubBlocks {
			hasContent := i == 0 || zb.HasContent
			if err := writeSubBlockFlag(bw, i, hasContent); err != nil {
				return err
			}
			if i != 0 && !hasContent {
				continue
			}
			if err := WriteZone19SubBlockContents(bw, zb); err != nil {
				return err
			}
		}
		return nil
	})
}

// ParseObjectZoneDefinition19 parses one ObjectZoneDefinition19 payload.
func ParseObjectZoneDefinition19(r *bitstream.Reader, size int, fr dlc.FrameRate) (*ObjectZoneDefinition19, error) {
	z := NewObjectZoneDefinition19()
	n, err := dlc.NumSubBlocksForFrameRate(fr)
	if err != nil {
		return nil, err
	}
	z.Zone19SubBlocks = make([]Zone19SubBlock, n)
	for i := range z.Zone19SubBlocks {
		hasContent, err := readSubBlockFlag(r, i)
		if err != nil {
			return nil, err
		}
		if !hasContent {
			continue
		}
		z.Zone19SubBlocks[i], err = ReadZone19SubBlockContents(r)
		if err != nil {
			return nil, err
		}
		z.Zone19SubBlocks[i].HasContent = true
	}
	r.Align()
	return z, nil
}
