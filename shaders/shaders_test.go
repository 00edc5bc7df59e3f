package shaders

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/shade"
)

const spirvMagic = 0x07230203

func TestSourceUnknownVariant(t *testing.T) {
	_, err := Source(shade.Variant(42))
	if !errors.Is(err, shade.ErrUnknownVariant) {
		t.Errorf("Source(42) error = %v, want ErrUnknownVariant", err)
	}
}

func TestSourceDeclaresEntryPoint(t *testing.T) {
	for _, v := range shade.Variants {
		src, err := Source(v)
		if err != nil {
			t.Fatalf("Source(%s): %v", v, err)
		}
		if !strings.Contains(src, "fn "+EntryPoint) {
			t.Errorf("Source(%s) does not declare %s", v, EntryPoint)
		}
		if !strings.Contains(src, "@group(0) @binding(0) var<uniform>") {
			t.Errorf("Source(%s) does not bind the uniform block at group 0 binding 0", v)
		}
	}
}

func TestCompileSPIRV(t *testing.T) {
	for _, v := range shade.Variants {
		t.Run(v.String(), func(t *testing.T) {
			words, err := CompileSPIRV(v)
			if err != nil {
				t.Fatalf("CompileSPIRV(%s): %v", v, err)
			}
			if len(words) < 5 {
				t.Fatalf("CompileSPIRV(%s) produced %d words, want a header", v, len(words))
			}
			if words[0] != spirvMagic {
				t.Errorf("magic = %#x, want %#x", words[0], spirvMagic)
			}
		})
	}
}

func TestCompileGLSL(t *testing.T) {
	for _, v := range shade.Variants {
		t.Run(v.String(), func(t *testing.T) {
			code, err := Compile(v, FormatGLSL)
			if err != nil {
				t.Fatalf("Compile(%s, GLSL): %v", v, err)
			}
			if !strings.Contains(string(code), "#version 450") {
				t.Errorf("GLSL output missing #version 450 directive:\n%s", code)
			}
		})
	}
}

func TestCompileUnknownFormat(t *testing.T) {
	if _, err := Compile(shade.VariantPassThrough, Format(9)); err == nil {
		t.Error("Compile with unknown format succeeded, want error")
	}
}

func TestWords(t *testing.T) {
	words, err := Words([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00})
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 2 || words[0] != spirvMagic || words[1] != 1 {
		t.Errorf("Words = %#x, want [%#x 0x1]", words, spirvMagic)
	}

	if _, err := Words([]byte{1, 2, 3}); err == nil {
		t.Error("Words with 3 bytes succeeded, want error")
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{FormatSPIRV, "spirv"},
		{FormatGLSL, "glsl"},
		{Format(7), "Format(7)"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", int(tt.f), got, tt.want)
		}
	}
}

func TestCompileVertexSPIRV(t *testing.T) {
	words, err := CompileVertexSPIRV()
	if err != nil {
		t.Fatalf("CompileVertexSPIRV: %v", err)
	}
	if len(words) == 0 || words[0] != spirvMagic {
		t.Errorf("vertex SPIR-V does not start with the magic number")
	}
	if !strings.Contains(VertexSource(), "fn "+VertexEntryPoint) {
		t.Errorf("VertexSource does not declare %s", VertexEntryPoint)
	}
}

func TestCompileCached(t *testing.T) {
	first, err := Compile(shade.VariantPassThrough, FormatGLSL)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	before := compiled.Stats().Hits

	orig := first[0]
	first[0] ^= 0xff // callers own their copy
	second, err := Compile(shade.VariantPassThrough, FormatGLSL)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if compiled.Stats().Hits != before+1 {
		t.Errorf("second Compile did not hit the cache")
	}
	if second[0] != orig {
		t.Errorf("cached output was modified through a returned slice")
	}
}
