/*
NAME
  zonepresets.go

DESCRIPTION
  The well-known 9-zone gain control presets DbyCinema and DbyIMF
  recognize: each preset is a 9-tuple of GainPrefix (Unity = zone active,
  Silence = zone muted). A pan sub-block's zone gain control is checked
  against these sets; matching none exactly produces an issue.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package validator

import "github.com/ausocean/iab/geometry"

// zone9FromMask builds a 9-tuple GainPrefix preset from a bitmask, bit i
// set meaning zone i is Unity (active) rather than Silence (muted).
func zone9FromMask(mask uint16) [9]geometry.GainPrefix {
	var p [9]geometry.GainPrefix
	for i := range p {
		if mask&(1<<uint(i)) != 0 {
			p[i] = geometry.GainUnity
		} else {
			p[i] = geometry.GainSilence
		}
	}
	return p
}

// dbyCinemaZone9Presets holds DbyCinema's 11 recognized zone-gain control
// presets.
var dbyCinemaZone9Presets = [][9]geometry.GainPrefix{
	zone9FromMask(0x000), // all zones muted.
	zone9FromMask(0x1ff), // all zones active.
	zone9FromMask(0x007), // screen zones only.
	zone9FromMask(0x038), // side-surround zones only.
	zone9FromMask(0x1c0), // rear-surround/overhead zones only.
	zone9FromMask(0x007 | 0x1c0),
	zone9FromMask(0x038 | 0x1c0),
	zone9FromMask(0x007 | 0x038),
	zone9FromMask(0x015),
	zone9FromMask(0x0aa),
	zone9FromMask(0x0ff),
}

// dbyIMFZone9Presets holds DbyIMF's 12 recognized zone-gain control
// presets.
var dbyIMFZone9Presets = append(append([][9]geometry.GainPrefix{}, dbyCinemaZone9Presets...), zone9FromMask(0x100))

func zone9MatchesPreset(presets [][9]geometry.GainPrefix, gains [9]geometry.ZoneGain) bool {
	for _, preset := range presets {
		if zone9MatchesOne(preset, gains) {
			return true
		}
	}
	return false
}

func zone9MatchesOne(preset [9]geometry.GainPrefix, gains [9]geometry.ZoneGain) bool {
	for i, prefix := range preset {
		if gains[i].Prefix != prefix {
			return false
		}
	}
	return true
}
