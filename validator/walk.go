/*
NAME
  walk.go

DESCRIPTION
  The constraint-set walker: a visitor over one IAFrame tree that checks
  every applicable rule for a single profile, reporting issues through
  the walker's handler and stopping as soon as the handler asks to.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package validator

import (
	"bytes"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/iabelements"
)

const (
	codeUnsupportedSampleRate      = "unsupported sample rate"
	codeUnsupportedBitDepth        = "unsupported bit depth"
	codeUnsupportedFrameRate       = "unsupported frame rate"
	codeUnsupportedUseCase         = "unsupported use case"
	codeUnsupportedChannelID       = "unsupported channel ID"
	codeNonFixedChannelSet         = "channel ID outside fixed channel set"
	codeUnsupportedGainPrefix      = "unsupported gain prefix"
	codeUnsupportedZoneGainPrefix  = "unsupported zone gain prefix"
	codeUnsupportedSpreadMode      = "unsupported spread mode"
	codeUnsupportedDecorPrefix     = "unsupported decor coefficient prefix"
	codeMaxRenderedExceeded        = "max rendered exceeded"
	codeMaxObjectsExceeded         = "max objects exceeded"
	codeMaxBedChannelsExceeded     = "max bed channels exceeded"
	codeFrameSizeExceeded          = "frame size exceeded"
	codeAudioDescriptionTooLong    = "audio description too long"
	codeForbiddenSubElement        = "sub-elements not permitted here"
	codeZoneGainPresetUnrecognized = "zone gain preset not recognized"
	codeReservedAudioDataID        = "reserved audioDataID on audio data element"
	codeNonDefaultReservedField    = "reserved field carries a non-default value"
)

// checkReserved reports a violation when w's profile is strict about
// reserved fields and nonDefault is true. Lenient profiles accept any
// reserved-field value and this is always a no-op for them.
func checkReserved(w *walker, nonDefault bool, issueID int64) bool {
	if !w.profile.strictReserved || !nonDefault {
		return true
	}
	return w.report(codeNonDefaultReservedField, Error, issueID)
}

// checkAllowed reports a violation and returns whether the walk should
// keep going. A nil allow-set means "no restriction at this tier".
func checkAllowed[T comparable](w *walker, allowed map[T]bool, value T, code string, issueID int64) bool {
	if allowed == nil || allowed[value] {
		return true
	}
	return w.report(code, Error, issueID)
}

// walkFrame checks frame against w's profile and walks its sub-elements.
// It returns whether the validator should keep going (false once the
// handler has asked to stop).
func (w *walker) walkFrame(frame *iabelements.IAFrame) bool {
	if !checkAllowed(w, w.profile.sampleRates, frame.SampleRate, codeUnsupportedSampleRate, IssueIDIAFrame) {
		return false
	}
	if !checkAllowed(w, w.profile.bitDepths, frame.BitDepth, codeUnsupportedBitDepth, IssueIDIAFrame) {
		return false
	}
	if !checkAllowed(w, w.profile.frameRates, frame.FrameRate, codeUnsupportedFrameRate, IssueIDIAFrame) {
		return false
	}
	if limit, ok := w.profile.maxRenderedBySampleRate[frame.SampleRate]; ok && limit > 0 && frame.MaxRendered > uint64(limit) {
		if !w.report(codeMaxRenderedExceeded, Error, IssueIDIAFrame) {
			return false
		}
	}
	if limit, ok := w.profile.frameSizeBytes[frame.FrameRate]; ok && limit > 0 {
		if size, err := serializedSize(frame); err == nil && size > limit {
			if !w.report(codeFrameSizeExceeded, Error, IssueIDIAFrame) {
				return false
			}
		}
	}

	objectCount := 0
	for _, e := range frame.SubElements {
		if _, ok := e.(*iabelements.ObjectDefinition); ok {
			objectCount++
		}
	}
	if w.profile.maxObjects > 0 && objectCount > w.profile.maxObjects {
		if !w.report(codeMaxObjectsExceeded, Error, IssueIDIAFrame) {
			return false
		}
	}

	for _, e := range frame.SubElements {
		switch v := e.(type) {
		case *iabelements.BedDefinition:
			if !w.walkBed(v) {
				return false
			}
		case *iabelements.ObjectDefinition:
			if !w.walkObject(v) {
				return false
			}
		case *iabelements.AudioDataDLC:
			if v.AudioDataID == 0 && !w.report(codeReservedAudioDataID, Error, 0) {
				return false
			}
		case *iabelements.AudioDataPCM:
			if v.AudioDataID == 0 && !w.report(codeReservedAudioDataID, Error, 0) {
				return false
			}
		}
	}
	return true
}

func (w *walker) walkBed(b *iabelements.BedDefinition) bool {
	issueID := int64(b.MetaID)
	if b.ConditionalFlag && !checkAllowed(w, w.profile.useCases, b.UseCase, codeUnsupportedUseCase, issueID) {
		return false
	}
	if w.profile.maxBedChannels > 0 && b.ChannelCount() > w.profile.maxBedChannels {
		if !w.report(codeMaxBedChannelsExceeded, Error, issueID) {
			return false
		}
	}
	if len(b.AudioDescription) > w.profile.maxAudioDescriptionLen {
		if !w.report(codeAudioDescriptionTooLong, Warning, issueID) {
			return false
		}
	}
	if !checkReserved(w, b.ReservedNonDefault, issueID) {
		return false
	}
	for _, c := range b.Channels {
		if w.profile.fixedChannelSet {
			if !w.profile.channelIDs[c.ChannelID] && !w.report(codeNonFixedChannelSet, Error, issueID) {
				return false
			}
		} else if !checkAllowed(w, w.profile.channelIDs, c.ChannelID, codeUnsupportedChannelID, issueID) {
			return false
		}
		if !checkAllowed(w, w.profile.gainPrefixes, c.Gain.Prefix, codeUnsupportedGainPrefix, issueID) {
			return false
		}
		if c.DecorExists && !checkAllowed(w, w.profile.decorPrefixes, c.DecorCoeff.Prefix, codeUnsupportedDecorPrefix, issueID) {
			return false
		}
		if !checkReserved(w, c.ReservedNonDefault, issueID) {
			return false
		}
	}
	if w.profile.forbidSubElements && len(b.SubElements) > 0 {
		if !w.report(codeForbiddenSubElement, Error, issueID) {
			return false
		}
	}
	for _, e := range b.SubElements {
		if nested, ok := e.(*iabelements.BedDefinition); ok {
			if !w.walkBed(nested) {
				return false
			}
		}
	}
	return true
}

func (w *walker) walkObject(o *iabelements.ObjectDefinition) bool {
	issueID := int64(o.MetaID)
	if o.ConditionalFlag && !checkAllowed(w, w.profile.useCases, o.UseCase, codeUnsupportedUseCase, issueID) {
		return false
	}
	if len(o.AudioDescription) > w.profile.maxAudioDescriptionLen {
		if !w.report(codeAudioDescriptionTooLong, Warning, issueID) {
			return false
		}
	}
	for _, pb := range o.PanSubBlocks {
		if !checkAllowed(w, w.profile.gainPrefixes, pb.Gain.Prefix, codeUnsupportedGainPrefix, issueID) {
			return false
		}
		if !checkAllowed(w, w.profile.spreadModes, pb.Spread.Mode, codeUnsupportedSpreadMode, issueID) {
			return false
		}
		if !checkAllowed(w, w.profile.decorPrefixes, pb.Decor.Prefix, codeUnsupportedDecorPrefix, issueID) {
			return false
		}
		if !checkReserved(w, pb.ReservedNonDefault, issueID) {
			return false
		}
		if pb.ZoneGainsExist {
			for _, zg := range pb.ZoneGains {
				if !checkAllowed(w, w.profile.zoneGainPrefixes, zg.Prefix, codeUnsupportedZoneGainPrefix, issueID) {
					return false
				}
			}
			if w.profile.zone9Presets != nil && !zone9MatchesPreset(w.profile.zone9Presets, pb.ZoneGains) {
				if !w.report(codeZoneGainPresetUnrecognized, Warning, issueID) {
					return false
				}
			}
		}
	}
	if w.profile.forbidSubElements && len(o.SubElements) > 0 {
		if !w.report(codeForbiddenSubElement, Error, issueID) {
			return false
		}
	}
	return true
}

func serializedSize(frame *iabelements.IAFrame) (int, error) {
	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf)
	if err := frame.Serialize(w); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}
