// Command shadedemo renders a cube with every shading variant.
//
// Each variant is written to <out>/<variant>.png, and a contact sheet with
// one captioned panel per variant is written to <out>/sheet.png.
//
// Usage:
//
//	shadedemo [-width 320] [-height 240] [-ambient 2] [-variant all] [-instances 1] [-out .]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/raster"
)

func main() {
	var (
		width   = flag.Int("width", 320, "panel width")
		height  = flag.Int("height", 240, "panel height")
		ambient = flag.Float64("ambient", 2, "ambient_power uniform")
		variant = flag.String("variant", "all", "variant to render: ambient, clamped, passthrough or all")
		sphere  = flag.Bool("sphere", false, "render a sphere instead of the cube")
		count   = flag.Int("instances", 1, "number of mesh instances in a row along x")
		scale   = flag.Int("scale", 1, "contact sheet upscale factor")
		out     = flag.String("out", ".", "output directory")
		verbose = flag.Bool("v", false, "log draw statistics")
	)
	flag.Parse()

	if *verbose {
		shade.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	variants, err := selectVariants(*variant)
	if err != nil {
		log.Fatalf("shadedemo: %v", err)
	}

	mesh := raster.Cube()
	if *sphere {
		mesh = raster.Sphere(16, 32)
	}
	scene := Scene{
		Mesh:         mesh,
		Models:       row(*count, 3),
		Camera:       raster.NewCamera(shade.Vec3{2.5, 2, -4}, shade.Vec3{}, float32(*width)/float32(*height)),
		AmbientPower: float32(*ambient),
		Width:        *width,
		Height:       *height,
	}

	ctx := context.Background()
	panels := make([]Panel, 0, len(variants))
	for _, v := range variants {
		target, stats, err := scene.Render(ctx, v)
		if err != nil {
			log.Fatalf("shadedemo: render %s: %v", v, err)
		}
		path := filepath.Join(*out, v.String()+".png")
		if err := target.SavePNG(path); err != nil {
			log.Fatalf("shadedemo: %v", err)
		}
		log.Printf("%s: %d fragments shaded, %d discarded -> %s", v, stats.Shaded, stats.Discarded, path)
		panels = append(panels, Panel{Caption: caption(v), Image: target})
	}

	sheet, err := ContactSheet(panels, *scale)
	if err != nil {
		log.Fatalf("shadedemo: %v", err)
	}
	sheetPath := filepath.Join(*out, "sheet.png")
	if err := savePNG(sheetPath, sheet); err != nil {
		log.Fatalf("shadedemo: %v", err)
	}
	log.Printf("Contact sheet saved to %s (%dx%d)", sheetPath, sheet.Bounds().Dx(), sheet.Bounds().Dy())
}

func selectVariants(name string) ([]shade.Variant, error) {
	if name == "all" {
		return shade.Variants, nil
	}
	v, err := shade.ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return []shade.Variant{v}, nil
}

func caption(v shade.Variant) string {
	letter := string(rune('A' + int(v)))
	return fmt.Sprintf("%s  %s", letter, v)
}

// Scene is one mesh, instanced once per model transform, seen through one
// camera. A scene without models draws the mesh once, untransformed.
type Scene struct {
	Mesh         *raster.Mesh
	Models       []shade.Mat4
	Camera       raster.Camera
	AmbientPower float32
	Width        int
	Height       int
}

// Render rasterizes the scene and shades it with variant v over a cleared
// target.
func (s Scene) Render(ctx context.Context, v shade.Variant) (*raster.Target, raster.Stats, error) {
	stage, err := shade.NewStage(v)
	if err != nil {
		return nil, raster.Stats{}, err
	}
	target, err := raster.NewTarget(s.Width, s.Height)
	if err != nil {
		return nil, raster.Stats{}, err
	}
	target.Clear(shade.Vec4{0.1, 0.1, 0.12, 1}, 1)

	frags := raster.RasterizeObjects(s.Objects(), s.Camera.ViewProj(), s.Width, s.Height)
	stats, err := raster.Draw(ctx, target, stage, s.Camera.Uniforms(s.AmbientPower), frags)
	if err != nil {
		return nil, stats, err
	}
	return target, stats, nil
}

// Objects returns the mesh instances to draw.
func (s Scene) Objects() []raster.Object {
	if len(s.Models) == 0 {
		return []raster.Object{{Mesh: s.Mesh, Model: shade.Identity()}}
	}
	objs := make([]raster.Object, len(s.Models))
	for i, m := range s.Models {
		objs[i] = raster.Object{Mesh: s.Mesh, Model: m}
	}
	return objs
}

// row returns n translations spaced step apart along x and centered on the
// origin.
func row(n int, step float32) []shade.Mat4 {
	if n < 1 {
		n = 1
	}
	models := make([]shade.Mat4, n)
	for i := range models {
		models[i] = shade.Translate((float32(i)-float32(n-1)/2)*step, 0, 0)
	}
	return models
}
