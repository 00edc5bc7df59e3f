package shaders

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shade"
)

// Location is one fragment input or output slot.
type Location struct {
	Location   uint32
	Name       string
	Components uint8
}

// Contract is the binding interface of a fragment shader as seen by the
// host pipeline.
type Contract struct {
	EntryPoint string
	Uniform    shade.UniformLayout
	Inputs     []Location
	Output     Location
}

// Expected returns the contract the host pipeline establishes for v.
func Expected(v shade.Variant) Contract {
	return Contract{
		EntryPoint: EntryPoint,
		Uniform:    shade.Layout(v),
		Inputs: []Location{
			{Location: shade.LocationPosition, Name: "position", Components: 4},
			{Location: shade.LocationNormal, Name: "normal", Components: 3},
			{Location: shade.LocationColor, Name: "color", Components: 4},
		},
		Output: Location{Location: shade.LocationOutput, Components: 4},
	}
}

// Reflect lowers the source of v to naga IR and reads back its contract.
func Reflect(v shade.Variant) (Contract, error) {
	src, err := Source(v)
	if err != nil {
		return Contract{}, err
	}
	return ReflectSource(src)
}

// ReflectSource reads the contract of the fragment entry point of a WGSL
// module. The module must declare exactly one uniform buffer.
func ReflectSource(src string) (Contract, error) {
	module, err := lower(src)
	if err != nil {
		return Contract{}, err
	}

	var c Contract
	uniform, err := reflectUniform(module)
	if err != nil {
		return Contract{}, err
	}
	c.Uniform = uniform

	fn, name, err := fragmentEntry(module)
	if err != nil {
		return Contract{}, err
	}
	c.EntryPoint = name

	for _, arg := range fn.Arguments {
		if arg.Binding != nil {
			if loc, ok := (*arg.Binding).(ir.LocationBinding); ok {
				c.Inputs = append(c.Inputs, Location{
					Location:   loc.Location,
					Name:       arg.Name,
					Components: components(module, arg.Type),
				})
			}
			continue
		}
		// Inputs grouped in a struct carry their bindings on the members.
		st, ok := module.Types[arg.Type].Inner.(ir.StructType)
		if !ok {
			continue
		}
		for _, m := range st.Members {
			if m.Binding == nil {
				continue
			}
			if loc, ok := (*m.Binding).(ir.LocationBinding); ok {
				c.Inputs = append(c.Inputs, Location{
					Location:   loc.Location,
					Name:       m.Name,
					Components: components(module, m.Type),
				})
			}
		}
	}

	if fn.Result == nil || fn.Result.Binding == nil {
		return Contract{}, errors.New("fragment entry point has no location output")
	}
	loc, ok := (*fn.Result.Binding).(ir.LocationBinding)
	if !ok {
		return Contract{}, errors.New("fragment entry point output is not a location")
	}
	c.Output = Location{Location: loc.Location, Components: components(module, fn.Result.Type)}
	return c, nil
}

// Verify checks that the shader of v matches the expected contract.
// Any disagreement is reported as shade.ErrBindingMismatch.
func Verify(v shade.Variant) error {
	src, err := Source(v)
	if err != nil {
		return err
	}
	return VerifySource(v, src)
}

// VerifySource checks a WGSL source against the contract expected for v.
func VerifySource(v shade.Variant, src string) error {
	got, err := ReflectSource(src)
	if err != nil {
		return fmt.Errorf("%w: %s shader: %w", shade.ErrBindingMismatch, v, err)
	}
	if err := Compare(Expected(v), got); err != nil {
		return fmt.Errorf("%s shader: %w", v, err)
	}
	shade.Logger().Debug("shaders: contract verified",
		"variant", v.String(),
		"uniform_size", got.Uniform.Size,
		"inputs", len(got.Inputs))
	return nil
}

// Compare returns an error wrapping shade.ErrBindingMismatch describing the
// first difference between want and got.
func Compare(want, got Contract) error {
	mismatch := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", shade.ErrBindingMismatch, fmt.Sprintf(format, args...))
	}

	if got.EntryPoint != want.EntryPoint {
		return mismatch("entry point %q, want %q", got.EntryPoint, want.EntryPoint)
	}
	wu, gu := want.Uniform, got.Uniform
	if gu.Group != wu.Group || gu.Binding != wu.Binding {
		return mismatch("uniform at group %d binding %d, want group %d binding %d",
			gu.Group, gu.Binding, wu.Group, wu.Binding)
	}
	if len(gu.Fields) != len(wu.Fields) {
		return mismatch("uniform has %d fields, want %d", len(gu.Fields), len(wu.Fields))
	}
	for i, wf := range wu.Fields {
		gf := gu.Fields[i]
		if gf.Name != wf.Name || gf.Offset != wf.Offset {
			return mismatch("uniform field %d is %s@%d, want %s@%d", i, gf.Name, gf.Offset, wf.Name, wf.Offset)
		}
	}
	if gu.Size != wu.Size {
		return mismatch("uniform block size %d, want %d", gu.Size, wu.Size)
	}

	if len(got.Inputs) != len(want.Inputs) {
		return mismatch("%d fragment inputs, want %d", len(got.Inputs), len(want.Inputs))
	}
	for _, wi := range want.Inputs {
		gi, ok := findLocation(got.Inputs, wi.Location)
		if !ok {
			return mismatch("no input at location %d (%s)", wi.Location, wi.Name)
		}
		if gi.Components != wi.Components {
			return mismatch("input at location %d has %d components, want %d",
				wi.Location, gi.Components, wi.Components)
		}
	}
	if got.Output.Location != want.Output.Location || got.Output.Components != want.Output.Components {
		return mismatch("output at location %d with %d components, want location %d with %d",
			got.Output.Location, got.Output.Components, want.Output.Location, want.Output.Components)
	}
	return nil
}

func findLocation(locs []Location, loc uint32) (Location, bool) {
	for _, l := range locs {
		if l.Location == loc {
			return l, true
		}
	}
	return Location{}, false
}

func lower(src string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, err
	}
	return naga.LowerWithSource(ast, src)
}

func reflectUniform(module *ir.Module) (shade.UniformLayout, error) {
	var found *ir.GlobalVariable
	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Space != ir.SpaceUniform {
			continue
		}
		if found != nil {
			return shade.UniformLayout{}, errors.New("more than one uniform buffer declared")
		}
		found = gv
	}
	if found == nil {
		return shade.UniformLayout{}, errors.New("no uniform buffer declared")
	}
	if found.Binding == nil {
		return shade.UniformLayout{}, fmt.Errorf("uniform %q has no binding", found.Name)
	}
	st, ok := module.Types[found.Type].Inner.(ir.StructType)
	if !ok {
		return shade.UniformLayout{}, fmt.Errorf("uniform %q is not a struct", found.Name)
	}

	l := shade.UniformLayout{
		Group:   found.Binding.Group,
		Binding: found.Binding.Binding,
		Size:    st.Span,
	}
	for i, m := range st.Members {
		end := st.Span
		if i+1 < len(st.Members) {
			end = st.Members[i+1].Offset
		}
		l.Fields = append(l.Fields, shade.Field{Name: m.Name, Offset: m.Offset, Size: end - m.Offset})
	}
	return l, nil
}

func fragmentEntry(module *ir.Module) (*ir.Function, string, error) {
	// Entry point functions are stored inline, not in module.Functions.
	for i, ep := range module.EntryPoints {
		if ep.Stage != ir.StageFragment {
			continue
		}
		return &module.EntryPoints[i].Function, ep.Name, nil
	}
	return nil, "", errors.New("no fragment entry point")
}

// components returns the component count of a scalar or vector type.
func components(module *ir.Module, h ir.TypeHandle) uint8 {
	if int(h) >= len(module.Types) {
		return 0
	}
	switch t := module.Types[h].Inner.(type) {
	case ir.ScalarType:
		return 1
	case ir.VectorType:
		return uint8(t.Size)
	}
	return 0
}
