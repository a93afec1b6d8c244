// Package resourcefmt implements the packed-resource-format codec used by
// typed UAV/SRV loads and stores: conversion between raw backing-store
// bytes and a shadervar.ShaderVariable.
package resourcefmt

// CompType is the per-component numeric interpretation of a packed
// format, independent of its bit width.
type CompType uint8

const (
	CompUInt CompType = iota
	CompSInt
	CompUNorm
	CompUNormSRGB
	CompSNorm
	CompFloat
)

// Layout is a packed-format descriptor: byte width per component, the
// component interpretation, and the component count. Bit-packed formats
// (R10G10B10A2, R11G11B10) are described by the Packed* constants below
// instead and ignore ByteWidth/NumComps.
type Layout struct {
	ByteWidth int
	CompType  CompType
	NumComps  int
	Packed    PackedKind
}

// PackedKind selects a bit-packed (non component-aligned) format. None
// means the Layout's ByteWidth/CompType/NumComps describe the format
// directly.
type PackedKind uint8

const (
	PackedNone PackedKind = iota
	PackedR10G10B10A2
	PackedR11G11B10
)
