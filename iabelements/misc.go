/*
NAME
  misc.go

DESCRIPTION
  The two leaf metadata elements: AuthoringToolInfo (an authoring tool
  identifying URI) and UserData (an opaque vendor payload tagged by a
  16-byte UL).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabelements

import (
	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
)

// AuthoringToolInfo names the tool that produced the frame.
type AuthoringToolInfo struct {
	Base
	URI string
}

// NewAuthoringToolInfo returns an AuthoringToolInfo with PackingEnabled
// defaulted to true.
func NewAuthoringToolInfo(uri string) *AuthoringToolInfo {
	return &AuthoringToolInfo{Base: Base{PackingEnabled: true}, URI: uri}
}

// ElementID returns IDAuthoringToolInfo.
func (a *AuthoringToolInfo) ElementID() ID { return IDAuthoringToolInfo }

// Serialize writes a's ID|Size header and payload.
func (a *AuthoringToolInfo) Serialize(w *bitstream.Writer) error {
	return writeElement(w, IDAuthoringToolInfo, func(bw *bitstream.Writer) error {
		return bw.WriteCString(a.URI)
	})
}

// ParseAuthoringToolInfo parses one AuthoringToolInfo payload of size bytes.
func ParseAuthoringToolInfo(r *bitstream.Reader, size int) (*AuthoringToolInfo, error) {
	uri, err := r.ReadCString()
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read authoringToolInfo URI")
	}
	return NewAuthoringToolInfo(uri), nil
}

// UserData carries an opaque vendor-defined payload tagged by a 16-byte
// universal label, preserved verbatim on round-trip.
type UserData struct {
	Base
	UL      [16]byte
	Payload []byte
}

// NewUserData returns a UserData with PackingEnabled defaulted to true.
func NewUserData(ul [16]byte, payload []byte) *UserData {
	return &UserData{Base: Base{PackingEnabled: true}, UL: ul, Payload: payload}
}

// ElementID returns IDUserData.
func (u *UserData) ElementID() ID { return IDUserData }

// Serialize writes u's ID|Size header and payload.
func (u *UserData) Serialize(w *bitstream.Writer) error {
	return writeElement(w, IDUserData, func(bw *bitstream.Writer) error {
		if err := bw.WriteBytes(u.UL[:]); err != nil {
			return err
		}
		return bw.WriteBytes(u.Payload)
	})
}

// ParseUserData parses one UserData payload of size bytes: a 16-byte UL
// followed by size-16 opaque payload bytes.
func ParseUserData(r *bitstream.Reader, size int) (*UserData, error) {
	if size < 16 {
		return nil, errors.Wrap(ErrMalformedStream, "iabelements: userData payload shorter than UL")
	}
	ul, err := r.ReadBytes(16)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read userData UL")
	}
	payload, err := r.ReadBytes(size - 16)
	if err != nil {
		return nil, errors.Wrap(err, "iabelements: read userData payload")
	}
	u := &UserData{Base: Base{PackingEnabled: true}, Payload: payload}
	copy(u.UL[:], ul)
	return u, nil
}
