package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/palette"
	"github.com/example/wallsmith/internal/transform"
)

var testBackground = palette.RGB{R: 10, G: 20, B: 30}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func isBackground(c color.RGBA) bool {
	return c == color.RGBA{R: testBackground.R, G: testBackground.G, B: testBackground.B, A: 255}
}

func TestRenderBackgroundOnly(t *testing.T) {
	var r Renderer
	st := transform.State{X: 3, Y: 4, Scale: 2}
	res := r.Render(Scene{Size: canvas.Size{W: 8, H: 6}, Background: testBackground, State: st, Guides: true})
	if got := res.Image.Bounds(); got != image.Rect(0, 0, 8, 6) {
		t.Fatalf("bounds = %v", got)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if c := res.Image.RGBAAt(x, y); !isBackground(c) {
				t.Fatalf("pixel (%d,%d) = %+v, want background", x, y, c)
			}
		}
	}
	if res.State != st || res.Snaps.Any() {
		t.Fatalf("empty scene changed state: %+v %+v", res.State, res.Snaps)
	}
}

func TestRenderClampsOversizedScene(t *testing.T) {
	var r Renderer
	res := r.Render(Scene{Size: canvas.Size{W: 1 << 30, H: 2}, Background: testBackground})
	if got := res.Image.Bounds(); got != image.Rect(0, 0, canvas.MaxDimension, 2) {
		t.Fatalf("bounds = %v", got)
	}
}

func TestRenderPlacesImage(t *testing.T) {
	var r Renderer
	img := solid(20, 20, color.RGBA{R: 255, A: 255})
	size := canvas.Size{W: 200, H: 100}
	res := r.Render(Scene{
		Size:       size,
		Background: testBackground,
		Image:      img,
		State:      transform.State{X: 10, Y: 10, Scale: 1},
	})
	if c := res.Image.RGBAAt(20, 20); c != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("inside pixel = %+v, want red", c)
	}
	if c := res.Image.RGBAAt(50, 20); !isBackground(c) {
		t.Fatalf("outside pixel = %+v, want background", c)
	}
	if res.Snaps.Any() {
		t.Fatalf("unexpected snap %+v", res.Snaps)
	}
}

func TestRenderSnapsAndDrawsGuides(t *testing.T) {
	img := solid(20, 20, color.RGBA{G: 255, A: 255})
	size := canvas.Size{W: 200, H: 100}
	// image center at (105, 47), within the snap threshold of (100, 50)
	st := transform.State{X: 95, Y: 37, Scale: 1}

	tests := []struct {
		name   string
		guides bool
	}{
		{name: "with guides", guides: true},
		{name: "without guides", guides: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var r Renderer
			res := r.Render(Scene{Size: size, Background: testBackground, Image: img, State: st, Guides: tc.guides})
			if res.State.X != 90 || res.State.Y != 40 {
				t.Fatalf("snapped state = %+v, want X=90 Y=40", res.State)
			}
			if !res.Snaps.X || !res.Snaps.Y {
				t.Fatalf("snaps = %+v, want both", res.Snaps)
			}
			if c := res.Image.RGBAAt(95, 45); c.G != 255 || c.R != 0 {
				t.Fatalf("image pixel = %+v", c)
			}
			var red uint8
			for x := 98; x <= 101; x++ {
				if c := res.Image.RGBAAt(x, 5); c.R > red {
					red = c.R
				}
			}
			if tc.guides && red <= testBackground.R+20 {
				t.Fatalf("no vertical guide near the center column, max red %d", red)
			}
			if !tc.guides && red != testBackground.R {
				t.Fatalf("guide drawn while disabled, max red %d", red)
			}
			if c := res.Image.RGBAAt(5, 5); !isBackground(c) {
				t.Fatalf("corner pixel = %+v, want background", c)
			}
		})
	}
}

func TestRenderGuideMaskCache(t *testing.T) {
	var r Renderer
	a := r.guideMask(canvas.Size{W: 40, H: 20}, transform.Guides{X: true})
	if b := r.guideMask(canvas.Size{W: 40, H: 20}, transform.Guides{X: true}); a != b {
		t.Fatalf("mask not reused")
	}
	r.guideMask(canvas.Size{W: 50, H: 20}, transform.Guides{X: true})
	if len(r.masks) != 1 {
		t.Fatalf("cache kept %d masks after resize, want 1", len(r.masks))
	}
}

func TestRenderShadow(t *testing.T) {
	var r Renderer
	img := solid(20, 20, color.RGBA{R: 255, A: 255})
	sc := Scene{
		Size:       canvas.Size{W: 200, H: 100},
		Background: testBackground,
		Image:      img,
		State:      transform.State{X: 10, Y: 10, Scale: 1},
		Shadow:     ShadowOptions{Offset: image.Pt(5, 5), Opacity: 1},
	}
	res := r.Render(sc)
	if c := res.Image.RGBAAt(15, 15); c != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("source pixel = %+v, want red", c)
	}
	if c := res.Image.RGBAAt(32, 32); c.R > 5 || c.G > 5 || c.B > 5 {
		t.Fatalf("shadow pixel = %+v, want black", c)
	}
	first := r.shadow.Image
	r.Render(sc)
	if r.shadow.Image != first {
		t.Fatalf("shadow recomputed for the same source")
	}
}
