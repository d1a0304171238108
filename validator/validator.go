/*
NAME
  validator.go

DESCRIPTION
  The multi-profile conformance validator: a visitor over the
  iabelements tree that checks each element's fields and structure
  against a selected constraint set, reporting issues via a
  caller-supplied callback.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package validator implements the six-constraint-set IAB conformance
// checker: a visitor that matches on element variant (the source's
// virtual Validate calls become a Go type switch, matching the element
// model's own dispatch style in iabelements) and reports issues through a
// caller-supplied event-handler callback rather than collecting them in a
// shared list, so the caller can stop a long validation early.
package validator

import "github.com/ausocean/iab/iabelements"

// ConstraintSet names one of the six supported conformance profiles, two
// lattices rooted at the base ST 2098-2 profiles:
//
//	ST2098_2_2018 ⊂ ST429_18_2019 ⊂ DbyCinema
//	ST2098_2_2019 ⊂ ST2067_201_2019 ⊂ DbyIMF
type ConstraintSet int

const (
	ST2098_2_2018 ConstraintSet = iota
	ST429_18_2019
	DbyCinema
	ST2098_2_2019
	ST2067_201_2019
	DbyIMF
)

// String returns the constraint set's canonical name.
func (c ConstraintSet) String() string {
	switch c {
	case ST2098_2_2018:
		return "ST2098-2-2018"
	case ST429_18_2019:
		return "ST429-18-2019"
	case DbyCinema:
		return "DbyCinema"
	case ST2098_2_2019:
		return "ST2098-2-2019"
	case ST2067_201_2019:
		return "ST2067-201-2019"
	case DbyIMF:
		return "DbyIMF"
	default:
		return "unknown"
	}
}

// Severity classifies an Issue.
type Severity int

const (
	Warning Severity = iota
	Error
)

// Sentinel issueIDs for element kinds that carry no natural ID of their
// own (metaID/audioDataID otherwise fill this role).
const (
	IssueIDIAFrame                 int64 = -1
	IssueIDAuthoringToolInfo       int64 = -2
	IssueIDUserData                int64 = -3
	IssueIDObjectZoneDefinition19  int64 = -4
)

// Issue is one conformance finding.
type Issue struct {
	ConstraintSet ConstraintSet
	Severity      Severity
	Code          string
	FrameIndex    int
	IssueID       int64
}

// Handler is the caller-supplied event handler. Returning false stops the
// validation traversal early.
type Handler func(Issue) bool

// Validator walks iabelements trees against a fixed set of constraint
// sets, reporting issues to a Handler supplied per call to Validate.
type Validator struct {
	sets []ConstraintSet
}

// Option configures a Validator, following the functional-options idiom
// used throughout this module's constructors.
type Option func(*Validator) error

// WithConstraintSets selects which constraint sets Validate checks a frame
// against. The default (no option given) is all six.
func WithConstraintSets(sets ...ConstraintSet) Option {
	return func(v *Validator) error {
		v.sets = sets
		return nil
	}
}

// New returns a Validator configured by opts.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{sets: allConstraintSets()}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func allConstraintSets() []ConstraintSet {
	return []ConstraintSet{ST2098_2_2018, ST429_18_2019, DbyCinema, ST2098_2_2019, ST2067_201_2019, DbyIMF}
}

// Validate checks frame against every configured constraint set, reporting
// each finding to handler. frameIndex is carried into every Issue
// unchanged, letting a caller validating a sequence of frames identify
// which one an issue came from. Validate returns early, without error, if
// handler returns false.
func (v *Validator) Validate(frame *iabelements.IAFrame, frameIndex int, handler Handler) {
	for _, set := range v.sets {
		w := &walker{set: set, profile: profiles[set], frameIndex: frameIndex, handler: handler}
		if !w.walkFrame(frame) {
			return
		}
	}
}

// walker carries the per-constraint-set traversal state: the profile
// being checked against and whether the caller has asked to stop.
type walker struct {
	set        ConstraintSet
	profile    profile
	frameIndex int
	handler    Handler
	stopped    bool
}

func (w *walker) report(code string, severity Severity, issueID int64) bool {
	if w.stopped {
		return false
	}
	if !w.handler(Issue{ConstraintSet: w.set, Severity: severity, Code: code, FrameIndex: w.frameIndex, IssueID: issueID}) {
		w.stopped = true
		return false
	}
	return true
}
