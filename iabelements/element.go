/*
NAME
  element.go

DESCRIPTION
  The IAB element tagged union: the element ID enumeration, the common
  Element interface every element kind satisfies, and the shared
  PackingEnabled field every element carries (the supplemented
  packing-enable flag described in SPEC_FULL.md).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package iabelements implements the IAB hierarchical element tree: frames,
// beds, objects, zones, pan/remap/zone sub-blocks, user data, and the two
// audio payload kinds, with byte-exact (de)serialization per ST 2098-2.
package iabelements

// ID identifies an element's kind on the wire, coded as Plex(8).
type ID uint16

const (
	IDIAFrame                 ID = 0x08
	IDBedDefinition           ID = 0x10
	IDBedRemap                ID = 0x20
	IDObjectDefinition        ID = 0x40
	IDObjectZoneDefinition19  ID = 0x80
	IDAuthoringToolInfo       ID = 0x100
	IDUserData                ID = 0x101
	IDAudioDataDLC            ID = 0x200
	IDAudioDataPCM            ID = 0x400
)

// Element is the tagged-union interface every element kind satisfies. A
// type switch on the concrete type (not a virtual dispatch) selects
// behavior, matching Go's idiom for closed sum types.
type Element interface {
	ElementID() ID
	// Packed reports whether this element should be counted and serialized
	// as part of its parent's sub-element list. Corresponds to the source's
	// packing_enabled flag.
	Packed() bool
}

// Base is embedded by every element struct; it carries the packing-enable
// flag common to all of them.
type Base struct {
	// PackingEnabled excludes an element from its parent's packed
	// sub-element count and serialized output without removing it from the
	// in-memory tree. Defaults to true on construction via each element's
	// New* function.
	PackingEnabled bool
}

// Packed reports b.PackingEnabled.
func (b Base) Packed() bool { return b.PackingEnabled }

// BitDepth is the PCM sample bit depth, a 2-bit stream field.
type BitDepth uint8

const (
	BitDepth16 BitDepth = 16
	BitDepth24 BitDepth = 24
)

// UseCase labels a bed's or object's playback-layout activation condition.
// UseCaseAlways means the element is always active regardless of layout.
type UseCase uint8

const (
	UseCaseAlways UseCase = iota
	UseCase51
	UseCase71DS
	UseCase71SDS
	UseCase91OH
	UseCase111HT
	UseCase131HT
	UseCaseITUA
	UseCaseITUD
	UseCaseITUJ
)

// ChannelID identifies a bed channel, a Plex(4) stream field.
type ChannelID uint8

// Core cinema channel IDs. Only these twelve are defined here; they are
// also the complete channel allow-list of the DbyIMF constraint set.
const (
	ChannelLeft ChannelID = iota + 1
	ChannelCenter
	ChannelRight
	ChannelLeftSideSurround
	ChannelRightSideSurround
	ChannelLeftRearSurround
	ChannelRightRearSurround
	ChannelLFE
	ChannelLeftTopSurround
	ChannelRightTopSurround
	ChannelLeftHeight
	ChannelRightHeight
)

// packedCount returns the number of elements in elems with Packed() true.
func packedCount(elems []Element) int {
	n := 0
	for _, e := range elems {
		if e != nil && e.Packed() {
			n++
		}
	}
	return n
}

// checkNoDuplicatesOrNil rejects a sub-element list containing a nil entry
// or the same pointer twice, per the element tree's ownership invariant.
func checkNoDuplicatesOrNil(elems []Element) error {
	seen := make(map[Element]bool, len(elems))
	for _, e := range elems {
		if e == nil {
			return ErrInconsistentTree
		}
		if seen[e] {
			return ErrInconsistentTree
		}
		seen[e] = true
	}
	return nil
}
