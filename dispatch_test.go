package shade

import (
	"context"
	"errors"
	"testing"
)

func TestDispatchMatchesEvaluate(t *testing.T) {
	u := FrameUniforms{AmbientPower: 1.75}
	in := sampleInputs(5000)

	tests := []struct {
		name string
		opts []DispatchOption
	}{
		{"defaults", nil},
		{"one worker", []DispatchOption{WithWorkers(1)}},
		{"small chunks", []DispatchOption{WithWorkers(4), WithChunkSize(7)}},
		{"chunk larger than input", []DispatchOption{WithChunkSize(1 << 20)}},
	}
	for _, v := range Variants {
		s, _ := NewStage(v)
		want := Evaluate(s, u, in)
		for _, tt := range tests {
			t.Run(v.String()+"/"+tt.name, func(t *testing.T) {
				got := make([]FragmentOutput, len(in))
				if err := Dispatch(context.Background(), s, u, in, got, tt.opts...); err != nil {
					t.Fatalf("Dispatch() = %v", err)
				}
				for i := range got {
					if !sameBits(got[i].Color, want[i].Color) {
						t.Fatalf("out[%d] = %v, want %v", i, got[i].Color, want[i].Color)
					}
				}
			})
		}
	}
}

func TestDispatchWithPool(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	in := sampleInputs(300)
	want := Evaluate(PassThrough{}, FrameUniforms{}, in)
	for range 3 {
		got := make([]FragmentOutput, len(in))
		if err := Dispatch(context.Background(), PassThrough{}, FrameUniforms{}, in, got, WithPool(p), WithChunkSize(16)); err != nil {
			t.Fatalf("Dispatch() = %v", err)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("out[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestDispatchClosedPoolRunsInline(t *testing.T) {
	p := NewPool(2)
	p.Close()

	in := sampleInputs(50)
	got := make([]FragmentOutput, len(in))
	if err := Dispatch(context.Background(), PassThrough{}, FrameUniforms{}, in, got, WithPool(p)); err != nil {
		t.Fatalf("Dispatch() = %v", err)
	}
	for i := range got {
		if got[i].Color != in[i].Color {
			t.Fatalf("out[%d] = %v, want %v", i, got[i].Color, in[i].Color)
		}
	}
}

func TestDispatchOutputSize(t *testing.T) {
	in := make([]FragmentInput, 4)
	out := make([]FragmentOutput, 3)
	err := Dispatch(context.Background(), PassThrough{}, FrameUniforms{}, in, out)
	if !errors.Is(err, ErrOutputSize) {
		t.Errorf("Dispatch() = %v, want ErrOutputSize", err)
	}
}

func TestDispatchEmpty(t *testing.T) {
	if err := Dispatch(context.Background(), PassThrough{}, FrameUniforms{}, nil, nil); err != nil {
		t.Errorf("Dispatch(empty) = %v, want nil", err)
	}
}

func TestDispatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := sampleInputs(100)
	out := make([]FragmentOutput, len(in))
	sentinel := Vec4{9, 9, 9, 9}
	for i := range out {
		out[i].Color = sentinel
	}

	err := Dispatch(ctx, PassThrough{}, FrameUniforms{}, in, out, WithChunkSize(10))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Dispatch() = %v, want context.Canceled", err)
	}
	// Every chunk observed the cancellation before starting.
	for i := range out {
		if out[i].Color != sentinel {
			t.Fatalf("out[%d] was written after cancellation", i)
		}
	}
}

func BenchmarkDispatch(b *testing.B) {
	in := sampleInputs(1 << 16)
	out := make([]FragmentOutput, len(in))
	u := FrameUniforms{AmbientPower: 2}
	p := NewPool(0)
	defer p.Close()

	b.ReportAllocs()
	for b.Loop() {
		_ = Dispatch(context.Background(), AmbientLit{}, u, in, out, WithPool(p))
	}
}

func BenchmarkEvaluate(b *testing.B) {
	in := sampleInputs(1 << 16)
	u := FrameUniforms{AmbientPower: 2}
	b.ReportAllocs()
	for b.Loop() {
		_ = Evaluate(AmbientLit{}, u, in)
	}
}
