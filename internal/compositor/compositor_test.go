package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/gesture"
	"github.com/example/wallsmith/internal/palette"
	"github.com/example/wallsmith/internal/transform"
)

var device = canvas.Resolution{Width: 320, Height: 200, Scale: 1}

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	noClipboard := func() ([]byte, error) { return nil, errors.New("no clipboard in tests") }
	discard := func([]byte) error { return errors.New("no clipboard in tests") }
	return New(device, append([]Option{WithClipboard(noClipboard, discard)}, opts...)...)
}

func TestNewSession(t *testing.T) {
	s := newSession(t)
	if s.Size() != (canvas.Size{W: 320, H: 200}) {
		t.Fatalf("size = %v", s.Size())
	}
	if s.Background().Color() != palette.White {
		t.Fatalf("background = %v, want white", s.Background().Color())
	}
	if s.HasImage() {
		t.Fatalf("new session has an image")
	}
	if s.State() != transform.Identity() {
		t.Fatalf("state = %+v", s.State())
	}

	hidpi := New(canvas.Resolution{Width: 100, Height: 50, Scale: 2}, WithExpand(true))
	if hidpi.Size() != (canvas.Size{W: 220, H: 110}) {
		t.Fatalf("expanded size = %v", hidpi.Size())
	}
}

func TestLoadCentersImage(t *testing.T) {
	s := newSession(t)
	if err := s.Load("red.png", bytes.NewReader(pngBytes(t, 100, 50, color.RGBA{R: 255, A: 255}))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := transform.State{X: 110, Y: 75, Scale: 1}
	if s.State() != want {
		t.Fatalf("state = %+v, want %+v", s.State(), want)
	}
	if s.ImageName() != "red.png" {
		t.Fatalf("name = %q", s.ImageName())
	}
}

func TestLoadFailuresKeepPreviousImage(t *testing.T) {
	s := newSession(t)
	if err := s.Load("a.png", bytes.NewReader(pngBytes(t, 10, 10, color.RGBA{B: 255, A: 255}))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.ZoomIn()
	before := s.State()
	prev := s.Image()

	err := s.Load("junk.png", strings.NewReader("not an image"))
	if !errors.Is(err, ErrDecode) || KindOf(err) != KindAsset {
		t.Fatalf("Load junk error = %v (%v)", err, KindOf(err))
	}
	err = s.LoadFile(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, ErrRead) {
		t.Fatalf("LoadFile missing error = %v", err)
	}
	err = s.LoadClipboard()
	if !errors.Is(err, ErrRead) {
		t.Fatalf("LoadClipboard error = %v", err)
	}
	if s.Image() != prev || s.State() != before {
		t.Fatalf("failed loads changed the session")
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	s := newSession(t)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	old := s.BeginLoad()
	cur := s.BeginLoad()
	if err := s.ApplyLoad(LoadResult{Gen: old, Name: "old", Image: img}); err != nil {
		t.Fatalf("ApplyLoad old: %v", err)
	}
	if s.HasImage() {
		t.Fatalf("stale load applied")
	}
	if err := s.ApplyLoad(LoadResult{Gen: cur, Name: "new", Image: img}); err != nil {
		t.Fatalf("ApplyLoad: %v", err)
	}
	if s.ImageName() != "new" {
		t.Fatalf("name = %q", s.ImageName())
	}
}

func TestLoadClipboard(t *testing.T) {
	data := pngBytes(t, 8, 8, color.RGBA{G: 255, A: 255})
	var copied []byte
	s := New(device, WithClipboard(
		func() ([]byte, error) { return data, nil },
		func(b []byte) error { copied = b; return nil },
	))
	if err := s.LoadClipboard(); err != nil {
		t.Fatalf("LoadClipboard: %v", err)
	}
	if s.ImageName() != "clipboard" {
		t.Fatalf("name = %q", s.ImageName())
	}
	if err := s.CopyToClipboard(); err != nil {
		t.Fatalf("CopyToClipboard: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(copied))
	if err != nil {
		t.Fatalf("decode copied: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 200 {
		t.Fatalf("copied bounds = %v", img.Bounds())
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	at := time.UnixMilli(1700000000123)
	s := newSession(t, WithClock(func() time.Time { return at }), WithBackground(palette.RGB{R: 1, G: 2, B: 3}))

	if _, err := s.Export(dir); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Export without image error = %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("export without image wrote %d files", len(entries))
	}

	if err := s.Load("red.png", bytes.NewReader(pngBytes(t, 40, 40, color.RGBA{R: 255, A: 255}))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// 5px off center still snaps
	s.SetState(s.State().WithPosition(s.State().X+5, s.State().Y))
	path, err := s.Export(dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "wallpaper-1700000000123.png" {
		t.Fatalf("path = %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 320, 200) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	check := func(x, y int, want color.NRGBA) {
		t.Helper()
		got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		if got != want {
			t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
		}
	}
	check(161, 90, color.NRGBA{R: 255, A: 255}) // no guide in exports
	check(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	if s.State().X != 140 {
		t.Fatalf("export did not snap: %+v", s.State())
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(time.UnixMilli(42)); got != "wallpaper-42.png" {
		t.Fatalf("Filename = %q", got)
	}
}

func TestManualSize(t *testing.T) {
	s := newSession(t)
	got, err := s.ApplyManualSize("640px", "")
	if err != nil {
		t.Fatalf("ApplyManualSize: %v", err)
	}
	if got != (canvas.Size{W: 640, H: 200}) || !s.Manual() {
		t.Fatalf("size = %v manual=%v", got, s.Manual())
	}
	if _, err := s.ApplyManualSize("-5", "10"); KindOf(err) != KindInput {
		t.Fatalf("negative width error = %v", err)
	}
	if s.Size() != (canvas.Size{W: 640, H: 200}) {
		t.Fatalf("rejected size applied: %v", s.Size())
	}
	if _, err := s.ApplyManualSize("3000000000", "3000000000"); !errors.Is(err, canvas.ErrInvalidDimensions) {
		t.Fatalf("oversized error = %v", err)
	}
	if got := s.Frame(false).Image.Bounds().Size(); got != image.Pt(640, 200) {
		t.Fatalf("frame after oversized input = %v", got)
	}
	s.SetDevice(canvas.Resolution{Width: 10, Height: 10, Scale: 1})
	if s.Size() != (canvas.Size{W: 640, H: 200}) {
		t.Fatalf("manual size followed the device: %v", s.Size())
	}
	s.SetSize(nil)
	if s.Size() != (canvas.Size{W: 10, H: 10}) {
		t.Fatalf("auto size = %v", s.Size())
	}
}

func TestAutoColor(t *testing.T) {
	s := newSession(t)
	if _, err := s.AutoColor(); !errors.Is(err, ErrNoImage) || KindOf(err) != KindPrecondition {
		t.Fatalf("AutoColor without image error = %v", err)
	}
	if err := s.Load("x.png", bytes.NewReader(pngBytes(t, 6, 6, color.RGBA{R: 12, G: 34, B: 56, A: 255}))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := s.AutoColor()
	if err != nil {
		t.Fatalf("AutoColor: %v", err)
	}
	if c != (palette.RGB{R: 12, G: 34, B: 56}) || s.Background().Hex() != "#0c2238" {
		t.Fatalf("AutoColor = %v, hex %q", c, s.Background().Hex())
	}
}

func TestPick(t *testing.T) {
	s := newSession(t)
	if res := s.Pick(context.Background()); !errors.Is(res.Err, palette.ErrUnsupported) {
		t.Fatalf("Pick without picker = %v", res.Err)
	}

	tests := []struct {
		name    string
		res     PickResult
		wantErr bool
		want    palette.RGB
	}{
		{name: "picked", res: PickResult{Color: palette.RGB{R: 9}}, want: palette.RGB{R: 9}},
		{name: "cancelled", res: PickResult{Err: palette.ErrCancelled}, want: palette.White},
		{name: "unsupported", res: PickResult{Err: fmt.Errorf("%w: no portal", palette.ErrUnsupported)}, wantErr: true, want: palette.White},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			picker := palette.PickerFunc(func(context.Context) (palette.RGB, error) { return tc.res.Color, tc.res.Err })
			s := newSession(t, WithPicker(picker))
			err := s.ApplyPick(s.Pick(context.Background()))
			if tc.wantErr != (err != nil) {
				t.Fatalf("ApplyPick error = %v", err)
			}
			if err != nil && KindOf(err) != KindPlatform {
				t.Fatalf("kind = %v", KindOf(err))
			}
			if s.Background().Color() != tc.want {
				t.Fatalf("background = %v, want %v", s.Background().Color(), tc.want)
			}
		})
	}
}

func TestWheelKeepsCenter(t *testing.T) {
	s := newSession(t)
	if err := s.Load("x.png", bytes.NewReader(pngBytes(t, 100, 50, color.RGBA{A: 255}))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Wheel(-1)
	want := transform.State{X: 105, Y: 72.5, Scale: 1.1}
	if diff := cmp.Diff(want, s.State(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	s.Wheel(0)
	if diff := cmp.Diff(want, s.State(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("zero wheel changed state (-want +got):\n%s", diff)
	}
}

func TestPointerDrag(t *testing.T) {
	s := newSession(t)
	s.PointerDown(gesture.Point{X: 10, Y: 10})
	if s.Phase() != gesture.Idle {
		t.Fatalf("drag started without an image")
	}
	if err := s.Load("x.png", bytes.NewReader(pngBytes(t, 100, 50, color.RGBA{A: 255}))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// displayed at half size, 20px from the window edge
	s.SetViewport(gesture.Point{X: 20, Y: 20}, 160)
	s.PointerDown(gesture.Point{X: 100, Y: 70})
	s.PointerMove(gesture.Point{X: 110, Y: 75})
	s.PointerUp()
	want := transform.State{X: 130, Y: 85, Scale: 1}
	if diff := cmp.Diff(want, s.State(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestResetTransform(t *testing.T) {
	s := newSession(t)
	s.ZoomIn()
	s.ResetTransform()
	if s.State() != transform.Identity() {
		t.Fatalf("reset without image = %+v", s.State())
	}
	if err := s.Load("x.png", bytes.NewReader(pngBytes(t, 20, 20, color.RGBA{A: 255}))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.RotateLeft()
	s.SkewX()
	s.SkewY()
	s.ZoomOut()
	s.ResetTransform()
	if s.State() != (transform.State{X: 150, Y: 90, Scale: 1}) {
		t.Fatalf("reset = %+v", s.State())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{fmt.Errorf("wrap: %w", canvas.ErrInvalidDimensions), KindInput},
		{palette.ErrInvalidHex, KindInput},
		{palette.ErrInvalidRGB, KindInput},
		{ErrNoImage, KindPrecondition},
		{palette.ErrCancelled, KindPlatform},
		{ErrDecode, KindAsset},
		{errors.New("disk full"), KindOther},
	}
	for _, tc := range tests {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
