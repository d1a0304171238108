/*
NAME
  parse.go

DESCRIPTION
  Top-level Parse/Serialize entry points over a plain io.Reader/io.Writer,
  wiring the container and iabelements packages together and offering a
  multi-frame iterator for a stream carrying several IA bitstream frames
  back to back.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package parse provides the library's top-level Parse/Serialize entry
// points, composing container.ReadFrame/WriteFrame over a byte stream.
package parse

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/container"
	"github.com/ausocean/iab/iabelements"
)

// Parse reads one IA bitstream frame from r. A missing preamble subframe
// is reported by returning the parsed frame alongside
// iabelements.ErrMissingPreamble, not by failing the parse; callers should
// check the returned error with errors.Is rather than treating any non-nil
// error as fatal.
func Parse(r io.Reader) (*container.Frame, error) {
	return container.ReadFrame(bitstream.NewReader(r))
}

// Serialize writes one IA bitstream frame (preamble subframe followed by
// the serialized frame as an IA subframe) to w.
func Serialize(w io.Writer, preamble []byte, frame *iabelements.IAFrame) error {
	return container.WriteFrame(bitstream.NewWriter(w), preamble, frame)
}

// Log matches an instance-scoped logging function so a Reader, which is
// long-lived and independently instantiable per stream, never depends on
// global logging state.
type Log func(lvl int8, msg string, args ...interface{})

func noopLog(int8, string, ...interface{}) {}

// Log levels, matching the teacher's ausocean/utils/logging level scale.
const (
	LvlDebug int8 = iota
	LvlInfo
	LvlWarning
	LvlError
)

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*Reader)

// WithReaderLog installs a logging function for diagnostics.
func WithReaderLog(l Log) ReaderOption {
	return func(p *Reader) { p.log = l }
}

// Reader iterates IA bitstream frames from a single underlying stream,
// mirroring the source's frame-by-frame pull model: each Next call parses
// exactly one frame and advances past it.
type Reader struct {
	r     *bitstream.Reader
	log   Log
	count int
}

// NewReader returns a Reader pulling frames from r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	p := &Reader{r: bitstream.NewReader(r), log: noopLog}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Next parses and returns the next frame. It returns
// bitstream.ErrEndOfStream once the underlying stream is exhausted between
// frames (a missing preamble on the final frame is still signaled as
// iabelements.ErrMissingPreamble, not as end of stream).
func (p *Reader) Next() (*container.Frame, error) {
	frame, err := container.ReadFrame(p.r)
	if err != nil && !errors.Is(err, iabelements.ErrMissingPreamble) {
		if errors.Is(errors.Cause(err), bitstream.ErrEndOfStream) {
			p.log(LvlDebug, "reached end of stream", "framesRead", p.count)
			return nil, bitstream.ErrEndOfStream
		}
		return nil, err
	}
	if errors.Is(err, iabelements.ErrMissingPreamble) {
		p.log(LvlWarning, "frame missing preamble", "frameIndex", p.count)
	}
	p.count++
	return frame, err
}
