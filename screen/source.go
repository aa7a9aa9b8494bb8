package screen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"github.com/hupe1980/uipilot/core"
)

// Source produces the raw PNG capture of a window.
type Source interface {
	Grab(ctx context.Context, window core.Window) ([]byte, error)
}

// AnnotatedSource is an optional extension for sources that can draw
// control annotations onto the capture.
type AnnotatedSource interface {
	Source
	GrabAnnotated(ctx context.Context, window core.Window) ([]byte, error)
}

// StaticSource returns the same fixed bytes for every capture. Intended for
// tests that only care about artifact plumbing, not image content.
type StaticSource struct {
	data []byte
}

// NewStaticSource creates a source that always yields a copy of data.
func NewStaticSource(data []byte) *StaticSource {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &StaticSource{data: cp}
}

// Grab returns a copy of the configured bytes.
func (s *StaticSource) Grab(_ context.Context, _ core.Window) ([]byte, error) {
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return cp, nil
}

// SolidSource renders a uniform PNG for every capture, giving demo sessions
// real image bytes without a screen grabber. The annotated variant adds a
// contrasting border so the two captures are distinguishable.
type SolidSource struct {
	width  int
	height int
	fill   color.RGBA
}

// NewSolidSource creates a solid source with the given dimensions. Values
// below 1 fall back to a small default canvas.
func NewSolidSource(width, height int) *SolidSource {
	if width < 1 {
		width = 64
	}
	if height < 1 {
		height = 48
	}
	return &SolidSource{width: width, height: height, fill: color.RGBA{R: 0x2e, G: 0x2e, B: 0x2e, A: 0xff}}
}

// Grab encodes a uniform PNG canvas.
func (s *SolidSource) Grab(ctx context.Context, window core.Window) ([]byte, error) {
	return s.render(ctx, false)
}

// GrabAnnotated encodes the same canvas with a border marking annotation.
func (s *SolidSource) GrabAnnotated(ctx context.Context, window core.Window) ([]byte, error) {
	return s.render(ctx, true)
}

func (s *SolidSource) render(ctx context.Context, border bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, y, s.fill)
		}
	}
	if border {
		edge := color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, 0, edge)
			img.SetRGBA(x, s.height-1, edge)
		}
		for y := 0; y < s.height; y++ {
			img.SetRGBA(0, y, edge)
			img.SetRGBA(s.width-1, y, edge)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
