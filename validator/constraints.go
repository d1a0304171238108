/*
NAME
  constraints.go

DESCRIPTION
  The per-constraint-set profile table: allowed value sets, numeric
  limits, and structural rules for each of the six supported conformance
  profiles.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package validator

import (
	"github.com/ausocean/iab/dlc"
	"github.com/ausocean/iab/geometry"
	"github.com/ausocean/iab/iabelements"
)

// profile is one constraint set's allowed-value sets, limits, and
// structural rules. A nil set field means "no restriction" at that tier.
type profile struct {
	sampleRates map[dlc.SampleRate]bool
	bitDepths   map[iabelements.BitDepth]bool
	frameRates  map[dlc.FrameRate]bool
	useCases    map[iabelements.UseCase]bool

	// channelIDs is nil ("no restriction") except for DbyIMF, which
	// mandates the fixed 12-channel core set.
	channelIDs map[iabelements.ChannelID]bool

	gainPrefixes     map[geometry.GainPrefix]bool
	zoneGainPrefixes map[geometry.GainPrefix]bool
	spreadModes      map[geometry.SpreadMode]bool
	decorPrefixes    map[geometry.DecorCoeffPrefix]bool

	// maxRenderedBySampleRate is nil ("unbounded") at the two base ST
	// 2098-2 profiles.
	maxRenderedBySampleRate map[dlc.SampleRate]int
	maxObjects              int // 0 means unbounded.
	maxBedChannels          int // 0 means unbounded.

	// frameSizeBytes bounds a frame's total serialized size per frame
	// rate; nil means unbounded.
	frameSizeBytes map[dlc.FrameRate]int

	maxAudioDescriptionLen int

	forbidSubElements bool // DbyCinema: no nested beds/sub-elements under BedDefinition/ObjectDefinition.
	fixedChannelSet   bool // DbyIMF: channelIDs above is the complete allowed set, not an extension of it.
	strictReserved    bool // validator flags non-default reserved field values.

	zone9Presets [][9]geometry.GainPrefix
}

func allSampleRates() map[dlc.SampleRate]bool {
	return map[dlc.SampleRate]bool{dlc.SampleRate48k: true, dlc.SampleRate96k: true}
}

func allFrameRates() map[dlc.FrameRate]bool {
	return map[dlc.FrameRate]bool{
		dlc.FrameRate24: true, dlc.FrameRate25: true, dlc.FrameRate30: true,
		dlc.FrameRate48: true, dlc.FrameRate50: true, dlc.FrameRate60: true,
		dlc.FrameRate96: true, dlc.FrameRate100: true, dlc.FrameRate120: true,
	}
}

func allUseCases() map[iabelements.UseCase]bool {
	return map[iabelements.UseCase]bool{
		iabelements.UseCaseAlways: true, iabelements.UseCase51: true,
		iabelements.UseCase71DS: true, iabelements.UseCase71SDS: true,
		iabelements.UseCase91OH: true, iabelements.UseCase111HT: true,
		iabelements.UseCase131HT: true, iabelements.UseCaseITUA: true,
		iabelements.UseCaseITUD: true, iabelements.UseCaseITUJ: true,
	}
}

func allGainPrefixes() map[geometry.GainPrefix]bool {
	return map[geometry.GainPrefix]bool{geometry.GainUnity: true, geometry.GainSilence: true, geometry.GainInStream: true}
}

func allSpreadModes() map[geometry.SpreadMode]bool {
	return map[geometry.SpreadMode]bool{
		geometry.SpreadNone: true, geometry.SpreadLowRes1D: true,
		geometry.SpreadHighRes1D: true, geometry.SpreadHighRes3D: true,
	}
}

func allDecorPrefixes() map[geometry.DecorCoeffPrefix]bool {
	return map[geometry.DecorCoeffPrefix]bool{geometry.DecorNone: true, geometry.DecorMax: true, geometry.DecorInStream: true}
}

// dbyIMFChannelSet is DbyIMF's fixed 12-channel core set, identical to the
// 12 core cinema ChannelID constants iabelements defines.
func dbyIMFChannelSet() map[iabelements.ChannelID]bool {
	return map[iabelements.ChannelID]bool{
		iabelements.ChannelLeft: true, iabelements.ChannelCenter: true, iabelements.ChannelRight: true,
		iabelements.ChannelLeftSideSurround: true, iabelements.ChannelRightSideSurround: true,
		iabelements.ChannelLeftRearSurround: true, iabelements.ChannelRightRearSurround: true,
		iabelements.ChannelLFE: true,
		iabelements.ChannelLeftTopSurround: true, iabelements.ChannelRightTopSurround: true,
		iabelements.ChannelLeftHeight: true, iabelements.ChannelRightHeight: true,
	}
}

// profiles is the constraint-set lattice's concrete profile table. Each
// tier is written out in full rather than programmatically inherited from
// its parent, matching the teacher's table-driven style for per-rate
// tables in dlc/tables.go; the lattice relationship (⊂) is documented on
// ConstraintSet in validator.go and reflected in which restrictions each
// tier adds.
var profiles = map[ConstraintSet]profile{
	ST2098_2_2018: {
		sampleRates: allSampleRates(), bitDepths: map[iabelements.BitDepth]bool{iabelements.BitDepth16: true, iabelements.BitDepth24: true},
		frameRates: allFrameRates(), useCases: allUseCases(),
		gainPrefixes: allGainPrefixes(), zoneGainPrefixes: allGainPrefixes(),
		spreadModes: allSpreadModes(), decorPrefixes: allDecorPrefixes(),
		maxAudioDescriptionLen: 64,
	},
	ST429_18_2019: {
		sampleRates: allSampleRates(), bitDepths: map[iabelements.BitDepth]bool{iabelements.BitDepth24: true},
		frameRates: allFrameRates(), useCases: allUseCases(),
		gainPrefixes: allGainPrefixes(), zoneGainPrefixes: allGainPrefixes(),
		spreadModes: allSpreadModes(), decorPrefixes: allDecorPrefixes(),
		maxRenderedBySampleRate: map[dlc.SampleRate]int{dlc.SampleRate48k: 118, dlc.SampleRate96k: 64},
		maxObjects:              118,
		maxBedChannels:          16,
		maxAudioDescriptionLen:  64,
		strictReserved:          true,
	},
	DbyCinema: {
		sampleRates: map[dlc.SampleRate]bool{dlc.SampleRate48k: true}, bitDepths: map[iabelements.BitDepth]bool{iabelements.BitDepth24: true},
		frameRates: allFrameRates(), useCases: allUseCases(),
		gainPrefixes: allGainPrefixes(), zoneGainPrefixes: allGainPrefixes(),
		spreadModes: allSpreadModes(), decorPrefixes: allDecorPrefixes(),
		maxRenderedBySampleRate: map[dlc.SampleRate]int{dlc.SampleRate48k: 118},
		maxObjects:              118,
		maxBedChannels:          16,
		frameSizeBytes:          map[dlc.FrameRate]int{dlc.FrameRate24: 1 << 20, dlc.FrameRate25: 1 << 20, dlc.FrameRate30: 1 << 20},
		maxAudioDescriptionLen:  64,
		forbidSubElements:       true,
		strictReserved:          true,
		zone9Presets:            dbyCinemaZone9Presets,
	},
	ST2098_2_2019: {
		sampleRates: allSampleRates(), bitDepths: map[iabelements.BitDepth]bool{iabelements.BitDepth16: true, iabelements.BitDepth24: true},
		frameRates: allFrameRates(), useCases: allUseCases(),
		gainPrefixes: allGainPrefixes(), zoneGainPrefixes: allGainPrefixes(),
		spreadModes: allSpreadModes(), decorPrefixes: allDecorPrefixes(),
		maxAudioDescriptionLen: 64,
	},
	ST2067_201_2019: {
		sampleRates: allSampleRates(), bitDepths: map[iabelements.BitDepth]bool{iabelements.BitDepth24: true},
		frameRates: allFrameRates(), useCases: allUseCases(),
		gainPrefixes: allGainPrefixes(), zoneGainPrefixes: allGainPrefixes(),
		spreadModes: allSpreadModes(), decorPrefixes: allDecorPrefixes(),
		maxRenderedBySampleRate: map[dlc.SampleRate]int{dlc.SampleRate48k: 128, dlc.SampleRate96k: 64},
		maxObjects:              128,
		maxBedChannels:          16,
		maxAudioDescriptionLen:  64,
		strictReserved:          true,
	},
	DbyIMF: {
		sampleRates: allSampleRates(), bitDepths: map[iabelements.BitDepth]bool{iabelements.BitDepth24: true},
		frameRates: allFrameRates(), useCases: allUseCases(),
		channelIDs:   dbyIMFChannelSet(),
		gainPrefixes: allGainPrefixes(), zoneGainPrefixes: allGainPrefixes(),
		spreadModes: allSpreadModes(), decorPrefixes: allDecorPrefixes(),
		maxRenderedBySampleRate: map[dlc.SampleRate]int{dlc.SampleRate48k: 128, dlc.SampleRate96k: 64},
		maxObjects:              128,
		maxBedChannels:          12,
		maxAudioDescriptionLen:  64,
		fixedChannelSet:         true,
		strictReserved:          true,
		zone9Presets:            dbyIMFZone9Presets,
	},
}
