/*
NAME
  bed.go

DESCRIPTION
  BedDefinition (a channel-based program with a declared speaker layout)
  and BedRemap (a channel-count-changing remix matrix for a bed).

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

// bedReservedField is the fixed reserved value written after a
// BedDefinition's channel list, per DESIGN NOTES "write fixed reserved
// values from constants".
const bedReservedField = 0x180

// BedDefinition is a channel-based bed: a fixed set of channels, an
// optional activation use case, and (rarely) nested BedDefinition/BedRemap
// sub-elements.
type BedDefinition struct {
	Base

	MetaID          uint64 // Plex(8).
	ConditionalFlag bool
	UseCase         UseCase // valid only when ConditionalFlag is true.

	Channels []IABChannel

	// ReservedNonDefault is true when the 10-bit reserved field following
	// Channels was read with a non-default value; a strict-reserved
	// constraint set reports this, a lenient one ignores it. Always false
	// on a freshly constructed BedDefinition, since Serialize always writes
	// the default value.
	ReservedNonDefault bool

	AudioDescription string

	SubElements []Element

	UndefinedSubElementCount int
	UnallowedSubElementCount int
}

// NewBedDefinition returns a BedDefinition with PackingEnabled defaulted to
// true.
func NewBedDefinition() *BedDefinition {
	return &BedDefinition{Base: Base{PackingEnabled: true}}
}

// ElementID returns IDBedDefinition.
func (b *BedDefinition) ElementID() ID { return IDBedDefinition }

func bedDefinitionAllowedChild(id ID) bool {
	return id == IDBedDefinition || id == IDBedRemap
}

// ChannelCount returns len(Channels), the value invariant 2 of §8's
// "channelCount equals channels.len()" requires at serialize time.
func (b *BedDefinition) ChannelCount() int { return len(b.Channels) }

// Serialize writes b's ID|Size header and payload, forcing byte alignment
// after the reserved-10 field (invariant 10) before audioDescription.
func (b *BedDefinition) Serialize(w *bitstream.Writer, fr dlc.FrameRate) error {
	if err := checkNoDuplicatesOrNil(b.SubElements); err != nil {
		return err
	}
	return writeElement(w, IDBedDefinition, func(bw *bitstream.Writer) error {
		if err := bw.WritePlexN(8, b.MetaID); err != nil {
			return err
		}
		if err := bw.WriteBits(b2u(b.ConditionalFlag), 1); err != nil {
			return err
		}
		if b.ConditionalFlag {
			if err := bw.WriteBits(uint64(b.UseCase), 8); err != nil {
				return err
			}
		}
		if err := bw.WritePlexN(4, uint64(len(b.Channels))); err != nil {
			return err
		}
		for _, c := range b.Channels {
			if err := WriteIABChannel(bw, c); err != nil {
				return err
			}
		}
		if err := bw.WriteBits(bedReservedField, 10); err != nil {
			return err
		}
		if err := bw.Align(); err != nil {
			return err
		}
		if err := bw.WriteCString(b.AudioDescription); err != nil {
			return err
		}
		if err := bw.WritePlexN(8, uint64(packedCount(b.SubElements))); err != nil {
			return err
		}
		for _, e := range b.SubElements {
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

// ParseBedDefinition parses one BedDefinition payload of size bytes.
func ParseBedDefinition(r *bitstream.Reader, size int, fr dlc.FrameRate) (*BedDefinition, error) {
	b := NewBedDefinition()
	var err error
	b.MetaID, err = r.ReadPlexN(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read bed metaID")
	}
	cond, err := r.ReadBits(1)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read bed conditionalFlag")
	}
	b.ConditionalFlag = cond == 1
	if b.ConditionalFlag {
		uc, err := r.ReadBits(8)
		if err != nil {
			return nil, errors.Wrap(err, "iabelements: read bed useCase")
		}
		b.UseCase = UseCase(uc)
	}
	channelCount, err := r.ReadPlexN(4)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read bed channelCount")
	}
	b.Channels = make([]IABChannel, channelCount)
	for i := range b.Channels {
		b.Channels[i], err = ReadIABChannel(r)
		if err != nil {
			return nil, err
		}
	}
	reserved, err := r.ReadBits(10) // lenient accept any value; see b.ReservedNonDefault.
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read bed reserved")
	}
	b.ReservedNonDefault = reserved != bedReservedField
	r.Align()
	b.AudioDescription, err = r.ReadCString()
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read bed audioDescription")
	}
	children, counts, err := parseSubElements(r, fr, bedDefinitionAllowedChild)
	if err != nil {
		return nil, err
	}
	b.SubElements = children
	b.UndefinedSubElementCount = counts.undefined
	b.UnallowedSubElementCount = counts.unallowed
	return b, nil
}

// BedRemap maps a bed's source channels onto a different destination
// channel layout via a per-time-slice gain matrix.
type BedRemap struct {
	Base

	MetaID              uint64
	UseCase             UseCase
	SourceChannels      uint64 // Plex(4): column count of each sub-block's matrix.
	DestinationChannels uint64 // Plex(4): row count of each sub-block's matrix.

	RemapSubBlocks []BedRemapSubBlock
}

// NewBedRemap returns a BedRemap with PackingEnabled defaulted to true.
func NewBedRemap() *BedRemap {
	return &BedRemap{Base: Base{PackingEnabled: true}}
}

// ElementID returns IDBedRemap.
func (b *BedRemap) ElementID() ID { return IDBedRemap }

// Serialize writes b's ID|Size header and payload. The number of remap
// sub-blocks must equal NumSubBlocksForFrameRate(fr).
func (b *BedRemap) Serialize(w *bitstream.Writer, fr dlc.FrameRate) error {
	n, err := dlc.NumSubBlocksForFrameRate(fr)
	if err != nil {
		return err
	}
	if len(b.RemapSubBlocks) != n {
		return ErrInconsistentTree
	}
	return writeElement(w, IDBedRemap, func(bw *bitstream.Writer) error {
		if err := bw.WritePlexN(8, b.MetaID); err != nil {
			return err
		}
		if err := bw.WriteBits(uint64(b.UseCase), 8); err != nil {
			return err
		}
		if err := bw.WritePlexN(4, b.SourceChannels); err != nil {
			return err
		}
		if err := bw.WritePlexN(4, b.DestinationChannels); err != nil {
			return err
		}
		for i, sb := range b.RemapSubBlocks {
			hasContent := len(sb.DestChannelIDs) > 0
			if err := writeSubBlockFlag(bw, i, hasContent); err != nil {
				return err
			}
			if i != 0 && !hasContent {
				continue
			}
			if err := WriteBedRemapSubBlockContents(bw, sb, int(b.SourceChannels)); err != nil {
				return err
			}
		}
		return bw.Align()
	})
}

// ParseBedRemap parses one BedRemap payload of size bytes.
func ParseBedRemap(r *bitstream.Reader, size int, fr dlc.FrameRate) (*BedRemap, error) {
	b := NewBedRemap()
	var err error
	b.MetaID, err = r.ReadPlexN(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read remap metaID")
	}
	uc, err := r.ReadBits(8)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read remap useCase")
	}
	b.UseCase = UseCase(uc)
	b.SourceChannels, err = r.ReadPlexN(4)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read remap sourceChannels")
	}
	b.DestinationChannels, err = r.ReadPlexN(4)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read remap destinationChannels")
	}
	n, err := dlc.NumSubBlocksForFrameRate(fr)
	if err != nil {
		return nil, err
	}
	b.RemapSubBlocks = make([]BedRemapSubBlock, n)
	for i := range b.RemapSubBlocks {
		hasContent, err := readSubBlockFlag(r, i)
		if err != nil {
			return nil, err
		}
		if !hasContent {
			continue
		}
		b.RemapSubBlocks[i], err = ReadBedRemapSubBlockContents(r, int(b.DestinationChannels), int(b.SourceChannels))
		if err != nil {
			return nil, err
		}
	}
	r.Align()
	return b, nil
}
