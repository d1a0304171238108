/*
NAME
  subblocks.go

DESCRIPTION
  Sub-block entities: the per-time-slice metadata entries that live inside
  BedDefinition (IABChannel), ObjectDefinition (ObjectPanSubBlock), BedRemap
  (BedRemapSubBlock), and ObjectZoneDefinition19 (Zone19SubBlock). These are
  plain owned values in their parent's slice, never freestanding elements;
  the first-sub-block special case (the leading *InfoExists flag is omitted
  on index 0, whose contents are always present) is implemented by the
  index-taking writeSubBlockFlag/readSubBlockFlag helpers, which the
  parent element calls before each sub-block's contents read/write pair,
  rather than by a separate type, per the "first sub-block unconditional"
  invariant.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabelements

import (
	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/geometry"
)

// IABChannel is one bed channel: a channel ID, the audio asset it pulls
// samples from, its gain, and optional decorrelation.
type IABChannel struct {
	ChannelID   ChannelID
	AudioDataID uint64 // Plex(8).
	Gain        geometry.Gain
	DecorExists bool
	DecorCoeff  geometry.DecorCoeff

	// ReservedNonDefault is true when DecorExists's 4-bit reserved field
	// was read with a non-default value; always false when DecorExists is
	// false, since no reserved field is present to violate. See
	// BedDefinition.ReservedNonDefault.
	ReservedNonDefault bool
}

func writeGain(w *bitstream.Writer, g geometry.Gain) error {
	if err := w.WriteBits(uint64(g.Prefix), 2); err != nil {
		return err
	}
	if g.Prefix == geometry.GainInStream {
		return w.WriteBits(uint64(g.Code), 10)
	}
	return nil
}

func readGain(r *bitstream.Reader) (geometry.Gain, error) {
	prefix, err := r.ReadBits(2)
	if err != nil {
		return geometry.Gain{}, errors.Wrap(err, "iabelements: read gain prefix")
	}
	g := geometry.Gain{Prefix: geometry.GainPrefix(prefix)}
	if g.Prefix == geometry.GainInStream {
		code, err := r.ReadBits(10)
		if err != nil {
			return geometry.Gain{}, errors.Wrap(err, "iabelements: read gain code")
		}
		g.Code = uint16(code)
	}
	return g, nil
}

func writeDecorCoeff(w *bitstream.Writer, d geometry.DecorCoeff) error {
	if err := w.WriteBits(uint64(d.Prefix), 2); err != nil {
		return err
	}
	if d.Prefix == geometry.DecorInStream {
		return w.WriteBits(uint64(d.Code), 8)
	}
	return nil
}

func readDecorCoeff(r *bitstream.Reader) (geometry.DecorCoeff, error) {
	prefix, err := r.ReadBits(2)
	if err != nil {
		return geometry.DecorCoeff{}, errors.Wrap(err, "iabelements: read decorCoeff prefix")
	}
	d := geometry.DecorCoeff{Prefix: geometry.DecorCoeffPrefix(prefix)}
	if d.Prefix == geometry.DecorInStream {
		code, err := r.ReadBits(8)
		if err != nil {
			return geometry.DecorCoeff{}, errors.Wrap(err, "iabelements: read decorCoeff code")
		}
		d.Code = uint8(code)
	}
	return d, nil
}

// WriteIABChannel writes a bed channel entry.
func WriteIABChannel(w *bitstream.Writer, c IABChannel) error {
	if err := w.WritePlexN(4, uint64(c.ChannelID)); err != nil {
		return err
	}
	if err := w.WritePlexN(8, c.AudioDataID); err != nil {
		return err
	}
	if err := writeGain(w, c.Gain); err != nil {
		return err
	}
	if err := w.WriteBits(b2u(c.DecorExists), 1); err != nil {
		return err
	}
	if c.DecorExists {
		if err := w.WriteBits(0, 4); err != nil { // reserved.
			return err
		}
		if err := writeDecorCoeff(w, c.DecorCoeff); err != nil {
			return err
		}
	}
	return nil
}

// ReadIABChannel reads a bed channel entry.
func ReadIABChannel(r *bitstream.Reader) (IABChannel, error) {
	var c IABChannel
	id, err := r.ReadPlexN(4)
	if err != nil {
		return c, errors.Wrap(err, "iabelements: read channelID")
	}
	c.ChannelID = ChannelID(id)
	c.AudioDataID, err = r.ReadPlexN(8)
	if err != nil {
		return c, errors.Wrap(err, "iabelements: read channel audioDataID")
	}
	c.Gain, err = readGain(r)
	if err != nil {
		return c, err
	}
	exists, err := r.ReadBits(1)
	if err != nil {
		return c, errors.Wrap(err, "iabelements: read channel decorInfoExists")
	}
	c.DecorExists = exists == 1
	if c.DecorExists {
		reserved, err := r.ReadBits(4) // lenient accept any value; see c.ReservedNonDefault.
		if err != nil {
			return c, errors.Wrap(err, "iabelements: read channel reserved")
		}
		c.ReservedNonDefault = reserved != 0
		c.DecorCoeff, err = readDecorCoeff(r)
		if err != nil {
			return c, err
		}
	}
	return c, nil
}

// Snap is an object pan sub-block's optional position-snap hint.
type Snap struct {
	Present       bool
	TolExists     bool
	Tolerance     uint16 // 12-bit field.
}

// ObjectPanSubBlock is one time-slice of an object's pan metadata: gain,
// position, optional snap, optional 9-zone gain control, spread, and decor.
type ObjectPanSubBlock struct {
	// HasContent records whether this sub-block carried pan info on the
	// wire (panInfoExists). Index 0 is always true regardless of this
	// field's value; later indices with HasContent false round-trip as an
	// empty time-slice, matching the first-sub-block-unconditional
	// invariant the rest of this file implements.
	HasContent bool

	Gain           geometry.Gain
	Position       geometry.UnitCubePosition
	Snap           Snap
	ZoneGainsExist bool
	ZoneGains      [9]geometry.ZoneGain
	Spread         geometry.Spread
	Decor          geometry.DecorCoeff

	// ReservedNonDefault is true when any of this sub-block's three
	// reserved fields (the post-gain 3 bits, the post-snap bit, the
	// pre-decor 4 bits) was read with a non-default value. See
	// BedDefinition.ReservedNonDefault.
	ReservedNonDefault bool
}

// WriteObjectPanSubBlockContents writes a pan sub-block's contents,
// excluding the leading panInfoExists flag (the caller writes that,
// omitting it entirely for sub-block 0 per the first-sub-block invariant).
func WriteObjectPanSubBlockContents(w *bitstream.Writer, b ObjectPanSubBlock) error {
	if err := writeGain(w, b.Gain); err != nil {
		return err
	}
	if err := w.WriteBits(0b001, 3); err != nil { // reserved.
		return err
	}
	if err := w.WriteBits(uint64(b.Position.X), 16); err != nil {
		return err
	}
	if err := w.WriteBits(uint64(b.Position.Y), 16); err != nil {
		return err
	}
	if err := w.WriteBits(uint64(b.Position.Z), 16); err != nil {
		return err
	}
	if err := w.WriteBits(b2u(b.Snap.Present), 1); err != nil {
		return err
	}
	if b.Snap.Present {
		if err := w.WriteBits(b2u(b.Snap.TolExists), 1); err != nil {
			return err
		}
		if b.Snap.TolExists {
			if err := w.WriteBits(uint64(b.Snap.Tolerance), 12); err != nil {
				return err
			}
		}
		if err := w.WriteBits(0, 1); err != nil { // reserved.
			return err
		}
	}
	if err := w.WriteBits(b2u(b.ZoneGainsExist), 1); err != nil {
		return err
	}
	if b.ZoneGainsExist {
		for _, zg := range b.ZoneGains {
			if err := writeZoneGain(w, zg); err != nil {
				return err
			}
		}
	}
	if err := writeSpread(w, b.Spread); err != nil {
		return err
	}
	if err := w.WriteBits(0, 4); err != nil { // reserved.
		return err
	}
	return writeDecorCoeff(w, b.Decor)
}

// ReadObjectPanSubBlockContents reads a pan sub-block's contents, mirroring
// WriteObjectPanSubBlockContents.
func ReadObjectPanSubBlockContents(r *bitstream.Reader) (ObjectPanSubBlock, error) {
	var b ObjectPanSubBlock
	var err error
	b.Gain, err = readGain(r)
	if err != nil {
		return b, err
	}
	reserved1, err := r.ReadBits(3) // lenient accept any value; see b.ReservedNonDefault.
	if err != nil {
		return b, errors.Wrap(err, "iabelements: read pan sub-block reserved")
	}
	if reserved1 != 0b001 {
		b.ReservedNonDefault = true
	}
	x, err := r.ReadBits(16)
	if err != nil {
		return b, errors.Wrap(err, "iabelements: read pan x")
	}
	y, err := r.ReadBits(16)
	if err != nil {
		return b, errors.Wrap(err, "iabelements: read pan y")
	}
	z, err := r.ReadBits(16)
	if err != nil {
		return b, errors.Wrap(err, "iabelements: read pan z")
	}
	b.Position = geometry.UnitCubePosition{X: uint16(x), Y: uint16(y), Z: uint16(z)}

	snapPresent, err := r.ReadBits(1)
	if err != nil {
		return b, errors.Wrap(err, "iabelements: read snapPresent")
	}
	b.Snap.Present = snapPresent == 1
	if b.Snap.Present {
		tolExists, err := r.ReadBits(1)
		if err != nil {
			return b, errors.Wrap(err, "iabelements: read snap tolExists")
		}
		b.Snap.TolExists = tolExists == 1
		if b.Snap.TolExists {
			tol, err := r.ReadBits(12)
			if err != nil {
				return b, errors.Wrap(err, "iabelements: read snap tolerance")
			}
			b.Snap.Tolerance = uint16(tol)
		}
		reserved2, err := r.ReadBits(1) // lenient accept any value; see b.ReservedNonDefault.
		if err != nil {
			return b, errors.Wrap(err, "iabelements: read snap reserved")
		}
		if reserved2 != 0 {
			b.ReservedNonDefault = true
		}
	}

	zoneExists, err := r.ReadBits(1)
	if err != nil {
		return b, errors.Wrap(err, "iabelements: read zoneGainsExist")
	}
	b.ZoneGainsExist = zoneExists == 1
	if b.ZoneGainsExist {
		for i := range b.ZoneGains {
			b.ZoneGains[i], err = readZoneGain(r)
			if err != nil {
				return b, err
			}
		}
	}
	b.Spread, err = readSpread(r)
	if err != nil {
		return b, err
	}
	reserved3, err := r.ReadBits(4) // lenient accept any value; see b.ReservedNonDefault.
	if err != nil {
		return b, errors.Wrap(err, "iabelements: read pan sub-block trailing reserved")
	}
	if reserved3 != 0 {
		b.ReservedNonDefault = true
	}
	b.Decor, err = readDecorCoeff(r)
	return b, err
}

func writeZoneGain(w *bitstream.Writer, g geometry.ZoneGain) error {
	if err := w.WriteBits(uint64(g.Prefix), 2); err != nil {
		return err
	}
	if g.Prefix == geometry.GainInStream {
		return w.WriteBits(uint64(g.Code), 10)
	}
	return nil
}

func readZoneGain(r *bitstream.Reader) (geometry.ZoneGain, error) {
	prefix, err := r.ReadBits(2)
	if err != nil {
		return geometry.ZoneGain{}, errors.Wrap(err, "iabelements: read zoneGain prefix")
	}
	g := geometry.ZoneGain{Prefix: geometry.GainPrefix(prefix)}
	if g.Prefix == geometry.GainInStream {
		code, err := r.ReadBits(10)
		if err != nil {
			return geometry.ZoneGain{}, errors.Wrap(err, "iabelements: read zoneGain code")
		}
		g.Code = uint16(code)
	}
	return g, nil
}

func writeSpread(w *bitstream.Writer, s geometry.Spread) error {
	if err := w.WriteBits(uint64(s.Mode), 2); err != nil {
		return err
	}
	switch s.Mode {
	case geometry.SpreadLowRes1D:
		return w.WriteBits(uint64(s.X), 8)
	case geometry.SpreadHighRes1D:
		return w.WriteBits(uint64(s.X), 12)
	case geometry.SpreadHighRes3D:
		if err := w.WriteBits(uint64(s.X), 12); err != nil {
			return err
		}
		if err := w.WriteBits(uint64(s.Y), 12); err != nil {
			return err
		}
		return w.WriteBits(uint64(s.Z), 12)
	default:
		return nil
	}
}

func readSpread(r *bitstream.Reader) (geometry.Spread, error) {
	mode, err := r.ReadBits(2)
	if err != nil {
		return geometry.Spread{}, errors.Wrap(err, "iabelements: read spread mode")
	}
	s := geometry.Spread{Mode: geometry.SpreadMode(mode)}
	switch s.Mode {
	case geometry.SpreadLowRes1D:
		v, err := r.ReadBits(8)
		if err != nil {
			return s, errors.Wrap(err, "iabelements: read spread lowRes1D")
		}
		s.X, s.Y, s.Z = uint16(v), uint16(v), uint16(v)
	case geometry.SpreadHighRes1D:
		v, err := r.ReadBits(12)
		if err != nil {
			return s, errors.Wrap(err, "iabelements: read spread highRes1D")
		}
		s.X, s.Y, s.Z = uint16(v), uint16(v), uint16(v)
	case geometry.SpreadHighRes3D:
		x, err := r.ReadBits(12)
		if err != nil {
			return s, errors.Wrap(err, "iabelements: read spread highRes3D x")
		}
		y, err := r.ReadBits(12)
		if err != nil {
			return s, errors.Wrap(err, "iabelements: read spread highRes3D y")
		}
		z, err := r.ReadBits(12)
		if err != nil {
			return s, errors.Wrap(err, "iabelements: read spread highRes3D z")
		}
		s.X, s.Y, s.Z = uint16(x), uint16(y), uint16(z)
	}
	return s, nil
}

// BedRemapSubBlock is one time-slice of a BedRemap: a matrix of destination
// channel IDs, each with one gain per source channel.
type BedRemapSubBlock struct {
	// Gains[i] holds len(sourceChannels) gains for destination channel i.
	DestChannelIDs []ChannelID
	Gains          [][]geometry.Gain
}

// WriteBedRemapSubBlockContents writes a remap sub-block's contents
// (destination rows x source-count gains), excluding the leading
// remapInfoExists flag.
func WriteBedRemapSubBlockContents(w *bitstream.Writer, b BedRemapSubBlock, sourceCount int) error {
	for i, id := range b.DestChannelIDs {
		if err := w.WritePlexN(4, uint64(id)); err != nil {
			return err
		}
		if len(b.Gains[i]) != sourceCount {
			return ErrInconsistentTree
		}
		for _, g := range b.Gains[i] {
			if err := writeGain(w, g); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadBedRemapSubBlockContents reads destCount destination rows, each with
// sourceCount gains.
func ReadBedRemapSubBlockContents(r *bitstream.Reader, destCount, sourceCount int) (BedRemapSubBlock, error) {
	b := BedRemapSubBlock{
		DestChannelIDs: make([]ChannelID, destCount),
		Gains:          make([][]geometry.Gain, destCount),
	}
	for i := 0; i < destCount; i++ {
		id, err := r.ReadPlexN(4)
		if err != nil {
			return b, errors.Wrap(err, "iabelements: read remap destChannelID")
		}
		b.DestChannelIDs[i] = ChannelID(id)
		row := make([]geometry.Gain, sourceCount)
		for j := range row {
			g, err := readGain(r)
			if err != nil {
				return b, err
			}
			row[j] = g
		}
		b.Gains[i] = row
	}
	return b, nil
}

// Zone19SubBlock is one time-slice of an object's 19-zone gate: one gain per
// named room zone.
type Zone19SubBlock struct {
	// HasContent records whether this sub-block carried zone info on the
	// wire (zone19InfoExists); see ObjectPanSubBlock.HasContent.
	HasContent bool

	ZoneGains [19]geometry.ZoneGain
}

// WriteZone19SubBlockContents writes a zone-19 sub-block's 19 zone gains,
// excluding the leading zone19InfoExists flag.
func WriteZone19SubBlockContents(w *bitstream.Writer, b Zone19SubBlock) error {
	for _, g := range b.ZoneGains {
		if err := writeZoneGain(w, g); err != nil {
			return err
		}
	}
	return nil
}

// ReadZone19SubBlockContents reads a zone-19 sub-block's contents.
func ReadZone19SubBlockContents(r *bitstream.Reader) (Zone19SubBlock, error) {
	var b Zone19SubBlock
	for i := range b.ZoneGains {
		g, err := readZoneGain(r)
		if err != nil {
			return b, err
		}
		b.ZoneGains[i] = g
	}
	return b, nil
}

// writeSubBlockFlag writes the *InfoExists flag for sub-block index, per the
// first-sub-block-unconditional invariant: index 0 never writes the flag
// (its contents are always present), every later index writes it.
func writeSubBlockFlag(w *bitstream.Writer, index int, hasContent bool) error {
	if index == 0 {
		return nil
	}
	return w.WriteBits(b2u(hasContent), 1)
}

// readSubBlockFlag reads the *InfoExists flag for sub-block index, returning
// true unconditionally for index 0 without consuming a bit.
func readSubBlockFlag(r *bitstream.Reader, index int) (bool, error) {
	if index == 0 {
		return true, nil
	}
	v, err := r.ReadBits(1)
	if err != nil {
		return false, errors.Wrap(err, "iabelements: read sub-block infoExists flag")
	}
	return v == 1, nil
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
