/*
NAME
  header.go

DESCRIPTION
  The common element header: ID(Plex8) | Size(Plex8) | Payload, plus the
  parse-loop helpers that dispatch on the peeked ID and skip unknown or
  disallowed children while counting them, per ST 2098-2's "lenient parse,
  validator reports strictness" design.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabelements

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/dlc"
	"github.com/ausocean/utils/logging"
)

// Log is this package's diagnostic logger, left nil by default; a caller
// wires a concrete logging.Logger the way revid/pipeline.go assigns
// jpeg.Log before driving the codec.
var Log logging.Logger

// writeElement renders body to a byte-aligned byte buffer, then writes the
// ID | Size | payload header to w followed by the rendered bytes. Rendering
// to a buffer first is required because Size must be known before it is
// written, and must byte-align the payload's own end per invariant 10.
func writeElement(w *bitstream.Writer, id ID, body func(*bitstream.Writer) error) error {
	var buf bytes.Buffer
	bw := bitstream.NewWriter(&buf)
	if err := body(bw); err != nil {
		return err
	}
	if err := bw.Align(); err != nil {
		return err
	}
	if err := w.WritePlexN(8, uint64(id)); err != nil {
		return err
	}
	if err := w.WritePlexN(8, uint64(buf.Len())); err != nil {
		return err
	}
	return w.WriteBytes(buf.Bytes())
}

// readHeader reads the ID|Size header common to every element.
func readHeader(r *bitstream.Reader) (id ID, size int, err error) {
	rawID, err := r.ReadPlexN(8)
	if err != nil {
		return 0, 0, errors.Wrap(err, "iabelements: read element ID")
	}
	rawSize, err := r.ReadPlexN(8)
	if err != nil {
		return 0, 0, errors.Wrap(err, "iabelements: read element size")
	}
	if rawSize == 0 {
		return 0, 0, ErrZeroSize
	}
	return ID(rawID), int(rawSize), nil
}

// skipCounts tallies children skipped during a sub-element parse loop: IDs
// outside the enumerated set (undefined) and IDs that are recognized but
// not permitted under the current parent (unallowed).
type skipCounts struct {
	undefined int
	unallowed int
}

// parseSubElements implements the sub-element parse loop shared by IAFrame,
// BedDefinition, and ObjectDefinition: read the on-wire child count, then
// for each child peek its ID, skip and tally any undefined or unallowed
// child via skipElement, otherwise parse it with parseChild and keep it.
func parseSubElements(r *bitstream.Reader, fr dlc.FrameRate, allowedChild func(ID) bool) ([]Element, skipCounts, error) {
	count, err := r.ReadPlexN(8)
	if err != nil {
		return nil, skipCounts{}, errors.Wrap(err, "iabelements: read subElementCount")
	}
	var children []Element
	var counts skipCounts
	for i := 0; i < int(count); i++ {
		peeked, err := r.PeekPlexN(8)
		if err != nil {
			return nil, counts, err
		}
		id := ID(peeked)
		if !isKnownID(id) {
			if err := skipElement(r); err != nil {
				return nil, counts, err
			}
			counts.undefined++
			continue
		}
		if !allowedChild(id) {
			if err := skipElement(r); err != nil {
				return nil, counts, err
			}
			counts.unallowed++
			continue
		}
		child, err := parseChild(r, fr)
		if err != nil {
			return nil, counts, err
		}
		children = append(children, child)
	}
	return children, counts, nil
}

// isKnownID reports whether id is one of the nine enumerated element kinds.
func isKnownID(id ID) bool {
	switch id {
	case IDIAFrame, IDBedDefinition, IDBedRemap, IDObjectDefinition,
		IDObjectZoneDefinition19, IDAuthoringToolInfo, IDUserData,
		IDAudioDataDLC, IDAudioDataPCM:
		return true
	default:
		return false
	}
}

// skipElement consumes one element's ID|Size header and Size bytes of
// payload without interpreting them, for an undefined or unallowed child.
func skipElement(r *bitstream.Reader) error {
	id, size, err := readHeader(r)
	if err != nil {
		return err
	}
	if !r.ByteAligned() {
		r.Align()
	}
	if _, err := r.ReadBytes(size); err != nil {
		return errors.Wrap(err, "iabelements: skip element payload")
	}
	if Log != nil {
		Log.Debug("skipped sub-element", "id", uint16(id), "size", size)
	}
	return nil
}
