package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/shaders"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    shaders.Format
		wantErr bool
	}{
		{"spirv", shaders.FormatSPIRV, false},
		{"spv", shaders.FormatSPIRV, false},
		{"glsl", shaders.FormatGLSL, false},
		{"hlsl", 0, true},
	}
	for _, tt := range tests {
		got, err := parseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVerifyAll(t *testing.T) {
	var buf bytes.Buffer
	if err := verifyAll(&buf, shade.VariantAmbientLit); err != nil {
		t.Fatalf("verifyAll failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ambient: ok", "group(0) binding(0), 144 bytes", "ambient_power", "location(2) color"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// setFlags points the command-line flags at the given values for one test.
func setFlags(t *testing.T, v, f, o string, ver, src bool) {
	t.Helper()
	oldV, oldF, oldO, oldVer, oldSrc := *variant, *format, *output, *verify, *wgsl
	*variant, *format, *output, *verify, *wgsl = v, f, o, ver, src
	t.Cleanup(func() {
		*variant, *format, *output, *verify, *wgsl = oldV, oldF, oldO, oldVer, oldSrc
	})
}

func TestRunSPIRVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.spv")
	setFlags(t, "c", "spirv", path, false, false)

	var buf bytes.Buffer
	if err := run(&buf); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) < 4 || binary.LittleEndian.Uint32(data) != 0x07230203 {
		t.Error("output is not SPIR-V")
	}
	if !strings.Contains(buf.String(), "Successfully compiled passthrough") {
		t.Errorf("unexpected message %q", buf.String())
	}
}

func TestRunWGSL(t *testing.T) {
	setFlags(t, "clamped", "spirv", "", false, true)

	var buf bytes.Buffer
	if err := run(&buf); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(buf.String(), "@group(0) @binding(0)") {
		t.Errorf("WGSL output missing uniform binding:\n%s", buf.String())
	}
}

func TestRunErrors(t *testing.T) {
	setFlags(t, "phong", "spirv", "", false, false)
	if err := run(&bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown variant")
	}

	setFlags(t, "a", "msl", "", false, false)
	if err := run(&bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
