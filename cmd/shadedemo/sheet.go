package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	captionSize   = 14
	captionHeight = 24
	panelGap      = 8
)

var (
	sheetBackground = color.NRGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}
	captionColor    = color.NRGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
)

// Panel is one captioned image on the contact sheet.
type Panel struct {
	Caption string
	Image   image.Image
}

// ContactSheet lays the panels out in a single row, each upscaled by scale
// and captioned beneath.
func ContactSheet(panels []Panel, scale int) (*image.NRGBA, error) {
	if len(panels) == 0 {
		return nil, errors.New("contact sheet: no panels")
	}
	if scale < 1 {
		scale = 1
	}

	cellW, cellH := 0, 0
	for _, p := range panels {
		b := p.Image.Bounds()
		cellW = max(cellW, b.Dx()*scale)
		cellH = max(cellH, b.Dy()*scale)
	}

	w := len(panels)*cellW + (len(panels)+1)*panelGap
	h := cellH + captionHeight + 2*panelGap
	sheet := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(sheetBackground), image.Point{}, draw.Src)

	face, err := captionFace()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = face.Close()
	}()

	for i, p := range panels {
		x := panelGap + i*(cellW+panelGap)
		src := p.Image.Bounds()
		dst := image.Rect(x, panelGap, x+src.Dx()*scale, panelGap+src.Dy()*scale)
		// Nearest neighbour keeps the pixels of each fragment visible.
		xdraw.NearestNeighbor.Scale(sheet, dst, p.Image, src, xdraw.Src, nil)

		drawCaption(sheet, face, p.Caption, x, panelGap+cellH+captionHeight-6)
	}
	return sheet, nil
}

// captionFace returns the Go Regular face, or the basic bitmap face if the
// embedded font cannot be parsed.
func captionFace() (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13, nil //nolint:nilerr // fall back to the bitmap face
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("caption face: %w", err)
	}
	return face, nil
}

func drawCaption(dst draw.Image, face font.Face, s string, x, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(captionColor),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
