// Command shadec compiles the fragment shader of a shading variant.
//
// Usage:
//
//	shadec [options]
//
// Examples:
//
//	shadec -variant ambient -o ambient.spv    # Compile to SPIR-V
//	shadec -variant c -format glsl            # Print GLSL 4.50
//	shadec -variant clamped -verify           # Check the binding contract
//	shadec -variant ambient -wgsl             # Print the WGSL source
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/shaders"
)

var (
	variant = flag.String("variant", "ambient", "variant: ambient, clamped, passthrough (or a, b, c)")
	format  = flag.String("format", "spirv", "output format: spirv or glsl")
	output  = flag.String("o", "", "output file (default: stdout)")
	verify  = flag.Bool("verify", false, "verify the binding contract and exit")
	wgsl    = flag.Bool("wgsl", false, "print the WGSL source and exit")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(stdout io.Writer) error {
	v, err := shade.ParseVariant(*variant)
	if err != nil {
		return err
	}

	if *verify {
		return verifyAll(stdout, v)
	}

	if *wgsl {
		src, err := shaders.Source(v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, src)
		return err
	}

	f, err := parseFormat(*format)
	if err != nil {
		return err
	}
	code, err := shaders.Compile(v, f)
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = stdout.Write(code)
		return err
	}
	if err := os.WriteFile(*output, code, 0o644); err != nil { //nolint:gosec // compiled shaders are not secret
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(stdout, "Successfully compiled %s to %s (%s, %d bytes)\n", v, *output, f, len(code))
	return nil
}

func verifyAll(w io.Writer, v shade.Variant) error {
	if err := shaders.Verify(v); err != nil {
		return err
	}
	c, err := shaders.Reflect(v)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: ok\n", v)
	fmt.Fprintf(w, "  entry point  %s\n", c.EntryPoint)
	fmt.Fprintf(w, "  uniform      group(%d) binding(%d), %d bytes\n", c.Uniform.Group, c.Uniform.Binding, c.Uniform.Size)
	for _, f := range c.Uniform.Fields {
		fmt.Fprintf(w, "    %-14s offset %d\n", f.Name, f.Offset)
	}
	for _, in := range c.Inputs {
		fmt.Fprintf(w, "  in           location(%d) %s\n", in.Location, in.Name)
	}
	fmt.Fprintf(w, "  out          location(%d)\n", c.Output.Location)
	fmt.Fprintf(w, "  early depth  %t\n", shade.EarlyFragmentTests)
	return nil
}

func parseFormat(s string) (shaders.Format, error) {
	switch s {
	case "spirv", "spv":
		return shaders.FormatSPIRV, nil
	case "glsl":
		return shaders.FormatGLSL, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shadec [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shadec -variant ambient -o ambient.spv  Compile to file\n")
	fmt.Fprintf(os.Stderr, "  shadec -variant c -format glsl          Print GLSL\n")
	fmt.Fprintf(os.Stderr, "  shadec -variant b -verify               Check bindings\n")
}
