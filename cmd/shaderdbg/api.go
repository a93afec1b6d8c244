package main

import (
	"math"

	"github.com/shaderdbg/dxbcvm/apiwrapper"
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/internal/diag"
)

// defaultAPI is a minimal ApiWrapper for running a fixture with no
// bound textures: it computes the transcendental math intrinsics for
// real, and reports a zeroed, logged result for anything that would
// otherwise need a live texture/sampler binding.
type defaultAPI struct {
	sink diag.Sink
	pc   int
}

func newDefaultAPI(sink diag.Sink) *defaultAPI {
	return &defaultAPI{sink: sink}
}

func (a *defaultAPI) SetCurrentInstruction(i int) { a.pc = i }

func (a *defaultAPI) CalculateMathIntrinsic(op apiwrapper.MathIntrinsic, src [4]float32) (outA, outB [4]float32, ok bool) {
	switch op {
	case apiwrapper.MathRcp:
		for i := range src {
			outA[i] = 1 / src[i]
		}
	case apiwrapper.MathRsq:
		for i := range src {
			outA[i] = float32(1 / math.Sqrt(float64(src[i])))
		}
	case apiwrapper.MathSqrt:
		for i := range src {
			outA[i] = float32(math.Sqrt(float64(src[i])))
		}
	case apiwrapper.MathExp:
		for i := range src {
			outA[i] = float32(math.Exp2(float64(src[i])))
		}
	case apiwrapper.MathLog:
		for i := range src {
			outA[i] = float32(math.Log2(float64(src[i])))
		}
	case apiwrapper.MathSinCos:
		for i := range src {
			s, c := math.Sincos(float64(src[i]))
			outA[i], outB[i] = float32(s), float32(c)
		}
	default:
		a.sink.Warn(a.pc, "unhandled math intrinsic %d", op)
		return outA, outB, false
	}
	return outA, outB, true
}

func (a *defaultAPI) CalculateSampleGather(op apiwrapper.SampleGatherOp, resource apiwrapper.ResourceData,
	sampler apiwrapper.SamplerData, uv [4]float32, ddx, ddy [4]float32, texelOffset [3]int32, sampleIndex int,
	lodOrCompare float32, swizzle [4]uint8, gatherChannel int, debugStr string) (result [4]float32, ok bool) {
	a.sink.Warn(a.pc, "sample/gather against resource slot %d has no bound texture; returning zero", resource.Slot)
	return result, true
}

func (a *defaultAPI) GetSampleInfo(operandType dxbc.OperandType, isAbsolute bool, slot uint32, debugStr string) (sampleCount uint32, ok bool) {
	a.sink.Warn(a.pc, "sample_info for slot %d has no bound resource; returning 1", slot)
	return 1, true
}

func (a *defaultAPI) GetBufferInfo(slot uint32) (numElements uint32, ok bool) {
	a.sink.Warn(a.pc, "bufinfo for slot %d has no bound resource; returning 0", slot)
	return 0, true
}

func (a *defaultAPI) GetResourceInfo(slot uint32, mipLevel int) (width, height, depth, numMips uint32, dim dxbc.ResourceDimension, ok bool) {
	a.sink.Warn(a.pc, "resinfo for slot %d has no bound resource; returning zeroes", slot)
	return 0, 0, 0, 0, dxbc.DimUnknown, true
}

func (a *defaultAPI) AddDebugMessage(category, severity int, source string, text string) {
	a.sink.Warn(a.pc, "%s: %s", source, text)
}

var _ apiwrapper.ApiWrapper = (*defaultAPI)(nil)
