package vm

import (
	"github.com/shaderdbg/dxbcvm/apiwrapper"
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/resourcefmt"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

var sampleOpMap = map[dxbc.Opcode]apiwrapper.SampleGatherOp{
	dxbc.OpSample:     apiwrapper.OpSample,
	dxbc.OpSampleL:    apiwrapper.OpSampleL,
	dxbc.OpSampleB:    apiwrapper.OpSampleB,
	dxbc.OpSampleD:    apiwrapper.OpSampleD,
	dxbc.OpSampleC:    apiwrapper.OpSampleC,
	dxbc.OpSampleCLZ:  apiwrapper.OpSampleCLZ,
	dxbc.OpGather4:    apiwrapper.OpGather4,
	dxbc.OpGather4C:   apiwrapper.OpGather4C,
	dxbc.OpGather4PO:  apiwrapper.OpGather4PO,
	dxbc.OpGather4POC: apiwrapper.OpGather4POC,
	dxbc.OpLd:         apiwrapper.OpLD,
	dxbc.OpLdMS:       apiwrapper.OpLDMS,
	dxbc.OpLOD:        apiwrapper.OpLOD,
}

func (s *State) resourceData(slot uint32) apiwrapper.ResourceData {
	d, ok := s.resourceDecls[slot]
	if !ok {
		return apiwrapper.ResourceData{Slot: slot}
	}
	return apiwrapper.ResourceData{Slot: slot, Dim: d.Dim, ReturnType: d.ReturnType, SampleCount: d.SampleCount}
}

// execSample dispatches SAMPLE/GATHER4/LD/LOD-family opcodes. Operand
// convention: [dst, coord/uv, resource, sampler?]; SAMPLE_C/_CLZ and
// GATHER4_C append a compare value; SAMPLE_L/_B append an LOD/bias
// scalar; SAMPLE_D appends explicit ddx,ddy.
func execSample(s *State, g *Global, quad *Quad, api apiwrapper.ApiWrapper, asm dxbc.ASMOperation) bool {
	op, ok := sampleOpMap[asm.Opcode]
	if !ok {
		return execSampleInfo(s, api, asm)
	}

	dst := asm.Operands[0]
	coord := GetSrc(s, asm.Operands[1], asm.Opcode)
	resSlot := resourceSlot(s, asm.Operands[2])

	resource := s.resourceData(resSlot)

	// Buffer-typed LD bypasses the wrapper entirely.
	if asm.Opcode == dxbc.OpLd && resource.Dim == dxbc.DimBuffer {
		return loadBufferTyped(s, g, dst, coord, resSlot, asm)
	}

	samplerData := apiwrapper.SamplerData{}
	lodOrCompare := float32(0)
	var ddx, ddy [4]float32
	sampleIndex := -1

	argIdx := 3
	switch asm.Opcode {
	case dxbc.OpSample, dxbc.OpLd:
		if argIdx < len(asm.Operands) {
			samplerData = apiwrapper.SamplerData{Slot: resourceSlot(s, asm.Operands[argIdx]), Present: true}
		}
	case dxbc.OpSampleL, dxbc.OpSampleB:
		samplerData = apiwrapper.SamplerData{Slot: resourceSlot(s, asm.Operands[argIdx]), Present: true}
		lodOrCompare = GetSrc(s, asm.Operands[argIdx+1], asm.Opcode).Float(0)
	case dxbc.OpSampleC, dxbc.OpSampleCLZ, dxbc.OpGather4C:
		samplerData = apiwrapper.SamplerData{Slot: resourceSlot(s, asm.Operands[argIdx]), Present: true}
		lodOrCompare = GetSrc(s, asm.Operands[argIdx+1], asm.Opcode).Float(0)
	case dxbc.OpSampleD:
		samplerData = apiwrapper.SamplerData{Slot: resourceSlot(s, asm.Operands[argIdx]), Present: true}
		dv := GetSrc(s, asm.Operands[argIdx+1], asm.Opcode)
		ev := GetSrc(s, asm.Operands[argIdx+2], asm.Opcode)
		for i := 0; i < 4; i++ {
			ddx[i], ddy[i] = dv.Float(i), ev.Float(i)
		}
	case dxbc.OpLdMS:
		sampleIndex = int(GetSrc(s, asm.Operands[argIdx], asm.Opcode).Uint(0))
	case dxbc.OpGather4, dxbc.OpGather4PO, dxbc.OpGather4POC:
		if argIdx < len(asm.Operands) {
			samplerData = apiwrapper.SamplerData{Slot: resourceSlot(s, asm.Operands[argIdx]), Present: true}
		}
	}

	if (asm.Opcode == dxbc.OpSample || asm.Opcode == dxbc.OpSampleC || asm.Opcode == dxbc.OpGather4 ||
		asm.Opcode == dxbc.OpGather4C) && quad != nil {
		ddx, ddy = coarseDerivatives(s, quad, asm.Operands[1], asm.Opcode)
	}

	var cv [4]float32
	for i := 0; i < 4; i++ {
		cv[i] = coord.Float(i)
	}

	result, apiOK := api.CalculateSampleGather(op, resource, samplerData, cv, ddx, ddy, asm.TexelOffset,
		sampleIndex, lodOrCompare, dst.Comps, 0, asm.Str)
	if !apiOK {
		return false
	}

	s.Flags |= FlagSampleLoadGather
	r := shadervar.NewVector("r", result[0], result[1], result[2], result[3])
	SetDst(s, dst, asm.Opcode, asm, r)
	return true
}

// loadBufferTyped implements the buffer-dimension special case of LD:
// an element-indexed format-codec read, bypassing ApiWrapper.
func loadBufferTyped(s *State, g *Global, dst dxbc.Operand, coord shadervar.ShaderVariable, slot uint32, asm dxbc.ASMOperation) bool {
	uav, isUAV := g.UAVs[slot]
	srv, isSRV := g.SRVs[slot]
	if !isUAV && !isSRV {
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("z", 0, 0, 0, 0))
		return true
	}
	var data []byte
	var format UAVFormat
	if isUAV {
		data, format = uav.Data, uav.Format
	} else {
		data, format = srv.Data, srv.Format
	}
	off := coord.Uint(0) * format.Stride
	layout := format.Layout(resourcefmt.PackedNone)
	if off+uint32(layout.Size()) > uint32(len(data)) {
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("z", 0, 0, 0, 0))
		return true
	}
	SetDst(s, dst, asm.Opcode, asm, resourcefmt.Load(layout, data[off:]))
	return true
}

// coarseDerivatives computes the implicit-derivative pair implicit
// SAMPLE/SAMPLE_C/GATHER4/GATHER4_C opcodes use: always the fixed
// top-left-relative pair (quad[1]-quad[0], quad[2]-quad[0]), never the
// calling lane's own parity pairing.
func coarseDerivatives(s *State, quad *Quad, coord dxbc.Operand, op dxbc.Opcode) (ddx, ddy [4]float32) {
	base := quad[0]
	if base == nil {
		return
	}
	a := GetSrc(base, coord, op)
	if xSibling := quad[1]; xSibling != nil {
		bx := GetSrc(xSibling, coord, op)
		for i := 0; i < 4; i++ {
			ddx[i] = bx.Float(i) - a.Float(i)
		}
	}
	if ySibling := quad[2]; ySibling != nil {
		by := GetSrc(ySibling, coord, op)
		for i := 0; i < 4; i++ {
			ddy[i] = by.Float(i) - a.Float(i)
		}
	}
	return
}

// execSampleInfo handles SAMPLE_INFO/SAMPLE_POS/BUFINFO/RESINFO, all of
// which go through ApiWrapper.
func execSampleInfo(s *State, api apiwrapper.ApiWrapper, asm dxbc.ASMOperation) bool {
	switch asm.Opcode {
	case dxbc.OpSampleInfo:
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		count, ok := api.GetSampleInfo(asm.Operands[1].Type, true, slot, asm.Str)
		if !ok {
			count = 0
		}
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewVector("r", float32(count), float32(count), float32(count), float32(count)))

	case dxbc.OpSamplePos:
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		idx := GetSrc(s, asm.Operands[2], asm.Opcode).Uint(0)
		count, _ := api.GetSampleInfo(asm.Operands[1].Type, true, slot, asm.Str)
		x, y, ok := standardSamplePosition(count, idx)
		if !ok {
			x, y = 0, 0
		}
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewVector("r", x, y, 0, 0))

	case dxbc.OpBufInfo:
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		n, _ := api.GetBufferInfo(slot)
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("r", n, n, n, n))

	case dxbc.OpResInfo:
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		mip := GetSrc(s, asm.Operands[2], asm.Opcode).Int(0)
		w, h, d, mips, dim, ok := api.GetResourceInfo(slot, int(mip))
		if !ok {
			w, h, d, mips = 0, 0, 0, 0
		}
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		switch asm.ResInfoReturnType {
		case dxbc.ResInfoUInt:
			ru := shadervar.NewUintVector("r", w, h, d, mips)
			SetDst(s, dst, asm.Opcode, asm, ru)
			return true
		case dxbc.ResInfoFloat:
			r = shadervar.NewVector("r", float32(w), float32(h), float32(d), float32(mips))
		case dxbc.ResInfoRcpFloat:
			r = shadervar.NewVector("r", reciprocalIfDim(dim, 0, w), reciprocalIfDim(dim, 1, h),
				reciprocalIfDim(dim, 2, d), float32(mips))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	default:
		return false
	}
	return true
}

func reciprocalIfDim(dim dxbc.ResourceDimension, axis int, v uint32) float32 {
	need := map[dxbc.ResourceDimension]int{
		dxbc.Dim1D: 1, dxbc.Dim1DArray: 1,
		dxbc.Dim2D: 2, dxbc.Dim2DArray: 2, dxbc.DimCube: 2, dxbc.DimCubeArray: 2,
		dxbc.Dim3D: 3,
	}[dim]
	if axis >= need {
		return float32(v)
	}
	if v == 0 {
		return 0
	}
	return 1.0 / float32(v)
}

// standardSamplePosition returns the standardised sample position (in
// 16ths of a pixel, as ±0.5-range offsets) for count in {2,4,8,16}
// . Unsupported counts or out-of-range idx return ok=false.
func standardSamplePosition(count, idx uint32) (x, y float32, ok bool) {
	table := map[uint32][][2]float32{
		2: {{4, 4}, {-4, -4}},
		4: {{-2, -6}, {6, -2}, {-6, 2}, {2, 6}},
		8: {{1, -3}, {-1, 3}, {5, 1}, {-3, -5}, {-5, 5}, {-7, -1}, {3, 7}, {7, -7}},
		16: {
			{1, 1}, {-1, -3}, {-3, 2}, {4, -1},
			{-5, -2}, {2, 5}, {5, 3}, {3, -5},
			{-2, 6}, {0, -7}, {-4, -6}, {-6, 4},
			{-8, 0}, {7, -4}, {6, 7}, {-7, -8},
		},
	}
	rows, have := table[count]
	if !have || int(idx) >= len(rows) {
		return 0, 0, false
	}
	p := rows[idx]
	return p[0] / 16.0, p[1] / 16.0, true
}
