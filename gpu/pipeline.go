//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/raster"
	"github.com/gogpu/shade/shaders"
)

// VertexStride is the byte size of one raster.Vertex in a vertex buffer:
// position (3 x f32), normal (3 x f32), color (4 x f32).
const VertexStride = 40

// ErrNilDevice is returned when NewPipeline is called without a device or
// queue.
var ErrNilDevice = errors.New("gpu: nil device or queue")

// Pipeline owns the GPU objects that run one shading variant.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue

	variant shade.Variant
	layout  shade.UniformLayout
	opts    options

	vertexShader   hal.ShaderModule
	fragmentShader hal.ShaderModule

	uniformLayout  hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	pipeline       hal.RenderPipeline

	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
}

// NewPipeline verifies the shader of variant v against the binding
// contract, compiles it and creates the render pipeline, its uniform
// buffer and bind group. On failure every object created so far is
// destroyed.
func NewPipeline(device hal.Device, queue hal.Queue, v shade.Variant, opts ...Option) (*Pipeline, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", shade.ErrUnknownVariant, int(v))
	}
	if err := shaders.Verify(v); err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		device:  device,
		queue:   queue,
		variant: v,
		layout:  shade.Layout(v),
		opts:    o,
	}
	if err := p.create(); err != nil {
		p.Destroy()
		return nil, err
	}

	shade.Logger().Info("gpu: pipeline created",
		"variant", v.String(),
		"uniform_size", p.layout.Size,
		"color_format", fmt.Sprint(o.colorFormat))
	return p, nil
}

func (p *Pipeline) label(name string) string {
	return p.opts.label + "_" + p.variant.String() + "_" + name
}

func (p *Pipeline) create() error { //nolint:funlen // GPU pipeline descriptors are inherently verbose
	vsCode, err := shaders.CompileVertexSPIRV()
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}
	fsCode, err := shaders.CompileSPIRV(p.variant)
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}

	p.vertexShader, err = p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.label("vertex_shader"),
		Source: hal.ShaderSource{SPIRV: vsCode},
	})
	if err != nil {
		return fmt.Errorf("gpu: create vertex shader: %w", err)
	}
	p.fragmentShader, err = p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.label("fragment_shader"),
		Source: hal.ShaderSource{SPIRV: fsCode},
	})
	if err != nil {
		return fmt.Errorf("gpu: create fragment shader: %w", err)
	}

	// One uniform buffer at group(0) binding(0), read by both stages.
	p.uniformLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.label("uniform_layout"),
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    p.layout.Binding,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: uint64(p.layout.Size),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create uniform bind group layout: %w", err)
	}

	p.pipelineLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label("pipe_layout"),
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}

	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	p.pipeline, err = p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.label("pipeline"),
		Layout: p.pipelineLayout,
		Vertex: hal.VertexState{
			Module:     p.vertexShader,
			EntryPoint: shaders.VertexEntryPoint,
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: VertexStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
						{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // normal
						{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2}, // color
					},
				},
			},
		},
		Fragment: &hal.FragmentState{
			Module:     p.fragmentShader,
			EntryPoint: shaders.EntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.opts.colorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		// Depth is resolved before shading; the fragment stage never
		// writes depth, so the test can run early.
		DepthStencil: &hal.DepthStencilState{
			Format:            p.opts.depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      keep,
			StencilBack:       keep,
			StencilReadMask:   0xFF,
			StencilWriteMask:  0xFF,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create render pipeline: %w", err)
	}

	p.uniformBuf, err = p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label("uniforms"),
		Size:  uint64(p.layout.Size),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create uniform buffer: %w", err)
	}

	p.bindGroup, err = p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label("bind"),
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: p.layout.Binding, Resource: gputypes.BufferBinding{
				Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: uint64(p.layout.Size),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	return nil
}

// Variant returns the variant the pipeline was built for.
func (p *Pipeline) Variant() shade.Variant { return p.variant }

// UniformLayout returns the std140 layout of the pipeline's uniform block.
func (p *Pipeline) UniformLayout() shade.UniformLayout { return p.layout }

// RenderPipeline returns the underlying render pipeline.
func (p *Pipeline) RenderPipeline() hal.RenderPipeline { return p.pipeline }

// BindGroup returns the bind group to set at group 0 before drawing.
func (p *Pipeline) BindGroup() hal.BindGroup { return p.bindGroup }

// Upload writes the uniform block for the next draw. The bytes are packed
// with the std140 layout of the pipeline's variant.
func (p *Pipeline) Upload(u shade.FrameUniforms) {
	p.queue.WriteBuffer(p.uniformBuf, 0, u.Std140(p.variant))
}

// CreateVertexBuffer uploads the vertices of m into a new vertex buffer
// laid out with VertexStride. The caller destroys the buffer.
func (p *Pipeline) CreateVertexBuffer(m *raster.Mesh) (hal.Buffer, error) {
	data := VertexBytes(m)
	if len(data) == 0 {
		return nil, errors.New("gpu: empty mesh")
	}
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label("vertices"),
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create vertex buffer: %w", err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// VertexBytes packs mesh vertices as little-endian float32 in the layout
// of the pipeline's vertex buffer.
func VertexBytes(m *raster.Mesh) []byte {
	if m == nil {
		return nil
	}
	data := make([]byte, len(m.Vertices)*VertexStride)
	for i, v := range m.Vertices {
		b := data[i*VertexStride:]
		floats := [10]float32{
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
		}
		for j, f := range floats {
			binary.LittleEndian.PutUint32(b[j*4:], math.Float32bits(f))
		}
	}
	return data
}

// Destroy releases every GPU object in reverse creation order. Safe to
// call on a partially created pipeline and more than once.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipelineLayout != nil {
		p.device.DestroyPipelineLayout(p.pipelineLayout)
		p.pipelineLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.fragmentShader != nil {
		p.device.DestroyShaderModule(p.fragmentShader)
		p.fragmentShader = nil
	}
	if p.vertexShader != nil {
		p.device.DestroyShaderModule(p.vertexShader)
		p.vertexShader = nil
	}
}
