/*
NAME
  residual.go

DESCRIPTION
  Bit-level coding of a single DLC residual sub-block: the codeType
  selector bit, and either PCM sign-magnitude residuals or Rice/Golomb
  residuals (unary quotient, fixed-width remainder, sign).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package dlc

import (
	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
)

// ReadResidualSubBlock decodes one residual sub-block of n samples,
// dispatching on the leading codeType bit.
func ReadResidualSubBlock(r *bitstream.Reader, n int) (ResidualSubBlock, error) {
	codeType, err := r.ReadBits(1)
	if err != nil {
		return ResidualSubBlock{}, errors.Wrap(err, "dlc: read codeType")
	}
	if codeType == uint64(CodePCM) {
		return readPCMSubBlock(r, n)
	}
	return readRiceSubBlock(r, n)
}

func readPCMSubBlock(r *bitstream.Reader, n int) (ResidualSubBlock, error) {
	bitDepth, err := r.ReadBits(5)
	if err != nil {
		return ResidualSubBlock{}, errors.Wrap(err, "dlc: read PCM bitDepth")
	}
	residuals := make([]int32, n)
	if bitDepth > 0 {
		for i := range residuals {
			mag, err := r.ReadBits(int(bitDepth))
			if err != nil {
				return ResidualSubBlock{}, errors.Wrap(err, "dlc: read PCM magnitude")
			}
			if mag == 0 {
				continue
			}
			sign, err := r.ReadBits(1)
			if err != nil {
				return ResidualSubBlock{}, errors.Wrap(err, "dlc: read PCM sign")
			}
			v := int32(mag)
			if sign == 1 {
				v = -v
			}
			residuals[i] = v
		}
	}
	return ResidualSubBlock{Code: CodePCM, BitDepth: uint8(bitDepth), Residuals: residuals}, nil
}

func readRiceSubBlock(r *bitstream.Reader, n int) (ResidualSubBlock, error) {
	riceRemBits, err := r.ReadBits(5)
	if err != nil {
		return ResidualSubBlock{}, errors.Wrap(err, "dlc: read riceRemBits")
	}
	residuals := make([]int32, n)
	for i := range residuals {
		var quotient uint64
		for {
			bit, err := r.ReadBits(1)
			if err != nil {
				return ResidualSubBlock{}, errors.Wrap(err, "dlc: read Rice unary quotient")
			}
			if bit == 0 {
				break
			}
			quotient++
			if quotient > 1<<20 {
				// A quotient this large means the stream is malformed;
				// a real encoder never emits an unbounded unary run.
				return ResidualSubBlock{}, ErrMalformedResidual
			}
		}
		remainder, err := r.ReadBits(int(riceRemBits))
		if err != nil {
			return ResidualSubBlock{}, errors.Wrap(err, "dlc: read Rice remainder")
		}
		if quotient == 0 && remainder == 0 {
			continue
		}
		sign, err := r.ReadBits(1)
		if err != nil {
			return ResidualSubBlock{}, errors.Wrap(err, "dlc: read Rice sign")
		}
		v := int32((quotient << riceRemBits) + remainder)
		if sign == 1 {
			v = -v
		}
		residuals[i] = v
	}
	return ResidualSubBlock{Code: CodeRice, RiceRemBits: uint8(riceRemBits), Residuals: residuals}, nil
}

// WriteResidualSubBlock encodes a PCM residual sub-block. Rice encoding is
// not implemented by this codec's encoder (ST 2098-2's reference simple
// encoder never emits it either); callers needing a Rice-coded sub-block
// must be decoding, not encoding.
func WriteResidualSubBlock(w *bitstream.Writer, b ResidualSubBlock) error {
	if b.Code != CodePCM {
		return errors.New("dlc: writing Rice-coded residual sub-blocks is not supported")
	}
	if err := w.WriteBits(uint64(CodePCM), 1); err != nil {
		return err
	}
	bitDepth := pcmBitDepth(b.Residuals)
	if err := w.WriteBits(uint64(bitDepth), 5); err != nil {
		return err
	}
	if bitDepth == 0 {
		return nil
	}
	for _, v := range b.Residuals {
		mag := v
		sign := uint64(0)
		if mag < 0 {
			mag = -mag
			sign = 1
		}
		if err := w.WriteBits(uint64(mag), int(bitDepth)); err != nil {
			return err
		}
		if mag != 0 {
			if err := w.WriteBits(sign, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

// pcmBitDepth computes ceil(log2(max|sample|+1)), i.e. the minimal
// magnitude bit width that represents every residual, matching the
// reference encoder's requiredBitDepth computation.
func pcmBitDepth(residuals []int32) uint8 {
	var max int32
	for _, v := range residuals {
		a := v
		if a < 0 {
			a = -a
		}
		if a > max {
			max = a
		}
	}
	var depth uint8
	for max > 0 {
		max >>= 1
		depth++
	}
	return depth
}
