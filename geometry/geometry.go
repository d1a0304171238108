/*
NAME
  geometry.go

DESCRIPTION
  Package geometry provides the stream-domain value objects used by object
  and bed metadata: 3D position on the unit cube, the three gain encodings
  (object/channel gain, zone gain, decorrelation coefficient), and spread.
  Each type's equality and round-trip guarantees are defined over its
  stream-domain representation, not the floating-point value it denotes, as
  ST 2098-2 never requires bit-exact float reproduction -- only that the
  decoded linear value is within the coding resolution of the original.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package geometry

import "math"

// UnitCubePosition is a position in the unit cube [0,1]^3, represented
// exactly as ST 2098-2 packs it on the wire: X and Y are 16-bit fields in
// [32767,65535], Z is a 16-bit field in [0,65535].
type UnitCubePosition struct {
	X, Y, Z uint16
}

// NewUnitCubePosition quantizes a floating-point position in [0,1]^3 to its
// stream-domain representation.
func NewUnitCubePosition(x, y, z float64) UnitCubePosition {
	return UnitCubePosition{
		X: quantizeXY(x),
		Y: quantizeXY(y),
		Z: quantizeZ(z),
	}
}

func quantizeXY(v float64) uint16 {
	return uint16(math.Floor(v*32768+0.5)) + 32767
}

func quantizeZ(v float64) uint16 {
	return uint16(math.Floor(v*65535 + 0.5))
}

// Float returns the floating-point position this stream value decodes to.
func (p UnitCubePosition) Float() (x, y, z float64) {
	return (float64(p.X) - 32767) / 32768, (float64(p.Y) - 32767) / 32768, float64(p.Z) / 65535
}

// GainPrefix tags which of the three coding forms a Gain or ZoneGain uses.
type GainPrefix uint8

const (
	GainUnity GainPrefix = iota
	GainSilence
	GainInStream
)

// Gain is an object or channel gain: Unity and Silence carry no stream
// value; InStream carries a 10-bit unsigned code with linear scale
// 2^(-g/64).
type Gain struct {
	Prefix GainPrefix
	Code   uint16 // valid only when Prefix == GainInStream; 10-bit range.
}

// Unity returns the Gain representing linear gain 1.0.
func Unity() Gain { return Gain{Prefix: GainUnity} }

// Silence returns the Gain representing linear gain 0.0.
func Silence() Gain { return Gain{Prefix: GainSilence} }

// NewGain builds a 10-bit InStream Gain from a linear gain value.
func NewGain(linear float64) Gain {
	code := math.Round(-64 * math.Log2(linear))
	return Gain{Prefix: GainInStream, Code: clampUint10(code)}
}

// Linear returns the linear gain value this Gain denotes.
func (g Gain) Linear() float64 {
	switch g.Prefix {
	case GainUnity:
		return 1.0
	case GainSilence:
		return 0.0
	default:
		return math.Exp2(-float64(g.Code) / 64)
	}
}

// ZoneGain is a 9-zone gain control value, coded identically to Gain except
// that its InStream linear scale is g/1023 rather than 2^(-g/64).
type ZoneGain struct {
	Prefix GainPrefix
	Code   uint16 // valid only when Prefix == GainInStream; 10-bit range.
}

// ZoneUnity returns the ZoneGain representing linear gain 1.0.
func ZoneUnity() ZoneGain { return ZoneGain{Prefix: GainUnity} }

// ZoneSilence returns the ZoneGain representing linear gain 0.0.
func ZoneSilence() ZoneGain { return ZoneGain{Prefix: GainSilence} }

// NewZoneGain builds a 10-bit InStream ZoneGain from a linear gain value.
func NewZoneGain(linear float64) ZoneGain {
	return ZoneGain{Prefix: GainInStream, Code: clampUint10(math.Round(linear * 1023))}
}

// Linear returns the linear gain value this ZoneGain denotes.
func (g ZoneGain) Linear() float64 {
	switch g.Prefix {
	case GainUnity:
		return 1.0
	case GainSilence:
		return 0.0
	default:
		return float64(g.Code) / 1023
	}
}

func clampUint10(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 1023 {
		return 1023
	}
	return uint16(v)
}

// SpreadMode selects how a Spread value is coded.
type SpreadMode uint8

const (
	SpreadNone SpreadMode = iota
	SpreadLowRes1D
	SpreadHighRes1D
	SpreadHighRes3D
)

// Spread is the object spread control. LowRes1D carries an 8-bit value,
// HighRes1D a 12-bit value; both replicate the single coded value across
// Y and Z internally. HighRes3D carries three independent 12-bit values.
// None carries no stream value.
type Spread struct {
	Mode    SpreadMode
	X, Y, Z uint16 // Y, Z unused (mirror X) for the 1D modes.
}

// SpreadNoneValue returns the Spread denoting no spread coded.
func SpreadNoneValue() Spread { return Spread{Mode: SpreadNone} }

// NewLowRes1D builds an 8-bit one-dimensional Spread, replicated to Y and Z.
func NewLowRes1D(v uint8) Spread {
	return Spread{Mode: SpreadLowRes1D, X: uint16(v), Y: uint16(v), Z: uint16(v)}
}

// NewHighRes1D builds a 12-bit one-dimensional Spread, replicated to Y and Z.
func NewHighRes1D(v uint16) Spread {
	return Spread{Mode: SpreadHighRes1D, X: v, Y: v, Z: v}
}

// NewHighRes3D builds a 12-bit independent-axis Spread.
func NewHighRes3D(x, y, z uint16) Spread {
	return Spread{Mode: SpreadHighRes3D, X: x, Y: y, Z: z}
}

// DecorCoeffPrefix tags which of the three coding forms a DecorCoeff uses.
type DecorCoeffPrefix uint8

const (
	DecorNone DecorCoeffPrefix = iota
	DecorMax
	DecorInStream
)

// DecorCoeff is the decorrelation coefficient: NoDecor and MaxDecor carry
// no stream value; InStream carries an 8-bit code.
type DecorCoeff struct {
	Prefix DecorCoeffPrefix
	Code   uint8 // valid only when Prefix == DecorInStream.
}

// NoDecor returns the DecorCoeff denoting no decorrelation.
func NoDecor() DecorCoeff { return DecorCoeff{Prefix: DecorNone} }

// MaxDecor returns the DecorCoeff denoting maximal decorrelation.
func MaxDecor() DecorCoeff { return DecorCoeff{Prefix: DecorMax} }

// NewInStreamDecorCoeff builds an 8-bit InStream DecorCoeff.
func NewInStreamDecorCoeff(code uint8) DecorCoeff {
	return DecorCoeff{Prefix: DecorInStream, Code: code}
}
