package resourcefmt

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shaderdbg/dxbcvm/shadervar"
)

func TestResourcefmtSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "resourcefmt")
}

var _ = Describe("packed format round-trip", func() {
	It("round-trips R8 UNorm", func() {
		l := Layout{ByteWidth: 1, CompType: CompUNorm, NumComps: 1}
		data := make([]byte, l.Size())

		var in shadervar.ShaderVariable
		in.SetFloat(0, 0.5)

		Store(l, data, in)
		out := Load(l, data)

		Expect(out.Float(0)).To(BeNumerically("~", 0.5, 0.01))
	})

	It("round-trips R16 SNorm at the extremes", func() {
		l := Layout{ByteWidth: 2, CompType: CompSNorm, NumComps: 1}
		data := make([]byte, l.Size())

		var in shadervar.ShaderVariable
		in.SetFloat(0, -1.0)
		Store(l, data, in)
		out := Load(l, data)
		Expect(out.Float(0)).To(Equal(float32(-1.0)))

		in.SetFloat(0, 1.0)
		Store(l, data, in)
		out = Load(l, data)
		Expect(out.Float(0)).To(BeNumerically("~", 1.0, 0.001))
	})

	It("round-trips R10G10B10A2 UInt", func() {
		l := Layout{Packed: PackedR10G10B10A2, CompType: CompUInt}
		data := make([]byte, l.Size())

		var in shadervar.ShaderVariable
		in.Type = shadervar.UInt
		in.Rows, in.Columns = 1, 4
		in.SetUint(0, 1000)
		in.SetUint(1, 500)
		in.SetUint(2, 2)
		in.SetUint(3, 3)

		Store(l, data, in)
		out := Load(l, data)

		Expect(out.Uint(0)).To(Equal(uint32(1000)))
		Expect(out.Uint(1)).To(Equal(uint32(500)))
		Expect(out.Uint(2)).To(Equal(uint32(2)))
		Expect(out.Uint(3)).To(Equal(uint32(3)))
	})

	It("loads R11G11B10 without error", func() {
		data := []byte{0, 0, 0, 0}
		out := Load(Layout{Packed: PackedR11G11B10}, data)
		Expect(out.Columns).To(Equal(3))
		Expect(out.Float(0)).To(Equal(float32(0)))
	})

	It("panics storing R11G11B10 (unimplemented per spec)", func() {
		data := make([]byte, 4)
		var zero shadervar.ShaderVariable
		Expect(func() {
			Store(Layout{Packed: PackedR11G11B10}, data, zero)
		}).To(Panic())
	})
})
