// Package compositor holds the editing session: the canvas, the background,
// the source image and its placement. A Session is not safe for concurrent
// use. The event loop owns it and slow work (decoding, the eyedropper) runs
// elsewhere and hands back a LoadResult or PickResult to apply on the loop.
package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/mobile/event/touch"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/clipboard"
	"github.com/example/wallsmith/internal/gesture"
	"github.com/example/wallsmith/internal/notify"
	"github.com/example/wallsmith/internal/palette"
	"github.com/example/wallsmith/internal/render"
	"github.com/example/wallsmith/internal/transform"
)

// Session is one wallpaper being composed.
type Session struct {
	sizer  canvas.Sizer
	size   canvas.Size
	manual *canvas.Size

	bg     *palette.Background
	picker palette.Picker

	img     image.Image
	imgName string
	imgSize canvas.Size
	loadGen int

	state    transform.State
	gest     gesture.Interpreter
	touches  gesture.Tracker
	renderer render.Renderer
	shadow   render.ShadowOptions

	notifier *notify.Notifier
	log      *slog.Logger

	readClipboard  func() ([]byte, error)
	writeClipboard func([]byte) error
	now            func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used by the session and its renderer.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBackground sets the initial background color.
func WithBackground(c palette.RGB) Option {
	return func(s *Session) { s.bg.Set(c) }
}

// WithExpand grows the automatic canvas size by canvas.ExpandFactor.
func WithExpand(expand bool) Option {
	return func(s *Session) { s.sizer.Expand = expand }
}

// WithPicker sets the eyedropper.
func WithPicker(p palette.Picker) Option {
	return func(s *Session) { s.picker = p }
}

// WithShadow enables a drop shadow under the image.
func WithShadow(opts render.ShadowOptions) Option {
	return func(s *Session) { s.shadow = opts }
}

// WithNotifier sets the notifier told about exports and copies.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(read func() ([]byte, error), write func([]byte) error) Option {
	return func(s *Session) {
		s.readClipboard = read
		s.writeClipboard = write
	}
}

// WithClock replaces time.Now for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session sized to device with a white background and no image.
func New(device canvas.Resolution, opts ...Option) *Session {
	s := &Session{
		sizer:          canvas.Sizer{Device: device},
		bg:             palette.NewBackground(palette.White),
		state:          transform.Identity(),
		log:            slog.Default(),
		readClipboard:  clipboard.ReadImage,
		writeClipboard: clipboard.WriteImage,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.renderer.Logger = s.log
	s.SetSize(nil)
	return s
}

// Size is the raster size.
func (s *Session) Size() canvas.Size { return s.size }

// Device is the detected display resolution.
func (s *Session) Device() canvas.Resolution { return s.sizer.Device }

// Manual reports whether the size was entered by hand.
func (s *Session) Manual() bool { return s.manual != nil }

// State is the current placement.
func (s *Session) State() transform.State { return s.state }

// Background is the background color model.
func (s *Session) Background() *palette.Background { return s.bg }

// Image returns the source image, nil before the first load.
func (s *Session) Image() image.Image { return s.img }

// ImageName describes where the source came from.
func (s *Session) ImageName() string { return s.imgName }

// HasImage reports whether an image is loaded.
func (s *Session) HasImage() bool { return s.img != nil }

// Phase is the gesture phase.
func (s *Session) Phase() gesture.Phase { return s.gest.Phase() }

// SetSize resizes the raster. A nil manual size returns to the automatic
// device size. The placement is kept.
func (s *Session) SetSize(manual *canvas.Size) canvas.Size {
	if manual != nil {
		m := *manual
		s.manual = &m
	} else {
		s.manual = nil
	}
	s.size = s.sizer.SetSize(s.manual)
	s.gest.View.Raster = s.size
	s.log.Debug("canvas resized", "size", s.size, "manual", manual != nil)
	return s.size
}

// ApplyManualSize parses the width and height fields and resizes.
func (s *Session) ApplyManualSize(w, h string) (canvas.Size, error) {
	m, err := canvas.ParseManual(w, h, s.sizer.Device)
	if err != nil {
		return s.size, err
	}
	return s.SetSize(&m), nil
}

// SetDevice updates the detected resolution. An automatic size follows it.
func (s *Session) SetDevice(r canvas.Resolution) {
	s.sizer.Device = r
	s.SetSize(s.manual)
}

// LoadResult is a decoded image waiting to be applied.
type LoadResult struct {
	Gen   int
	Name  string
	Image image.Image
	Err   error
}

// Decode reads and decodes an image, honouring EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	return img, nil
}

// DecodeFile opens and decodes path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()
	return Decode(f)
}

// BeginLoad starts a load and returns its generation. Only the result of
// the newest load is applied.
func (s *Session) BeginLoad() int {
	s.loadGen++
	return s.loadGen
}

// ApplyLoad installs a decoded image and resets the placement to centered.
// Failed or superseded results leave the session untouched.
func (s *Session) ApplyLoad(res LoadResult) error {
	if res.Gen != s.loadGen {
		s.log.Debug("dropping stale load", "gen", res.Gen, "current", s.loadGen, "name", res.Name)
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	if res.Image == nil {
		return fmt.Errorf("%w: nothing decoded", ErrDecode)
	}
	b := res.Image.Bounds()
	s.img = res.Image
	s.imgName = res.Name
	s.imgSize = canvas.Size{W: b.Dx(), H: b.Dy()}
	s.gest.Image = s.imgSize
	s.gest.Reset()
	s.touches = gesture.Tracker{}
	s.state = transform.Reset(s.size, s.imgSize)
	s.log.Info("image loaded", "name", res.Name, "size", s.imgSize)
	return nil
}

// Load decodes r on the calling goroutine and applies it.
func (s *Session) Load(name string, r io.Reader) error {
	gen := s.BeginLoad()
	img, err := Decode(r)
	return s.ApplyLoad(LoadResult{Gen: gen, Name: name, Image: img, Err: err})
}

// LoadFile decodes path and applies it.
func (s *Session) LoadFile(path string) error {
	gen := s.BeginLoad()
	img, err := DecodeFile(path)
	return s.ApplyLoad(LoadResult{Gen: gen, Name: filepath.Base(path), Image: img, Err: err})
}

// LoadClipboard loads the image on the clipboard.
func (s *Session) LoadClipboard() error {
	gen := s.BeginLoad()
	data, err := s.readClipboard()
	if err != nil {
		return s.ApplyLoad(LoadResult{Gen: gen, Err: fmt.Errorf("%w: clipboard: %v", ErrRead, err)})
	}
	img, err := Decode(bytes.NewReader(data))
	return s.ApplyLoad(LoadResult{Gen: gen, Name: "clipboard", Image: img, Err: err})
}

func (s *Session) ZoomIn()      { s.state = s.state.ZoomIn() }
func (s *Session) ZoomOut()     { s.state = s.state.ZoomOut() }
func (s *Session) RotateLeft()  { s.state = s.state.RotateLeft() }
func (s *Session) RotateRight() { s.state = s.state.RotateRight() }
func (s *Session) SkewX()       { s.state = s.state.SkewXStep() }
func (s *Session) SkewY()       { s.state = s.state.SkewYStep() }

// ResetTransform centers the image at unit scale.
func (s *Session) ResetTransform() {
	if s.img == nil {
		s.state = transform.Identity()
		return
	}
	s.state = transform.Reset(s.size, s.imgSize)
}

// SetState replaces the placement, clamping scale and skew.
func (s *Session) SetState(st transform.State) {
	s.state = st.WithScale(st.Scale).WithSkew(st.SkewX, st.SkewY)
}

// Wheel zooms about the image center. Negative dy scrolls up and zooms in.
func (s *Session) Wheel(dy float64) {
	switch {
	case dy < 0:
		s.state = s.state.ZoomAbout(s.imgSize, transform.ZoomInFactor)
	case dy > 0:
		s.state = s.state.ZoomAbout(s.imgSize, transform.ZoomOutFactor)
	}
}

func (s *Session) SetHex(v string) error    { return s.bg.SetHex(v) }
func (s *Session) SetRGB(v string) error    { return s.bg.SetRGB(v) }
func (s *Session) SetPicker(v string) error { return s.bg.SetPicker(v) }

// SetColor accepts any form palette.ParseAny does.
func (s *Session) SetColor(v string) error {
	c, err := palette.ParseAny(v)
	if err != nil {
		return err
	}
	s.bg.Set(c)
	return nil
}

// AutoColor sets the background to the mean of the image's border pixels.
func (s *Session) AutoColor() (palette.RGB, error) {
	if s.img == nil {
		return palette.RGB{}, ErrNoImage
	}
	c, err := palette.BorderAverage(s.img)
	if err != nil {
		return palette.RGB{}, err
	}
	s.bg.Set(c)
	return c, nil
}

// PickResult is an eyedropper outcome waiting to be applied.
type PickResult struct {
	Color palette.RGB
	Err   error
}

// CanPick reports whether an eyedropper is configured.
func (s *Session) CanPick() bool { return s.picker != nil }

// Pick runs the eyedropper. It only reads immutable configuration so it may
// run off the event loop.
func (s *Session) Pick(ctx context.Context) PickResult {
	if s.picker == nil {
		return PickResult{Err: palette.ErrUnsupported}
	}
	c, err := s.picker.Pick(ctx)
	return PickResult{Color: c, Err: err}
}

// ApplyPick sets the picked color. A cancelled pick changes nothing and is
// not an error.
func (s *Session) ApplyPick(res PickResult) error {
	switch {
	case errors.Is(res.Err, palette.ErrCancelled):
		s.log.Debug("eyedropper cancelled")
		return nil
	case res.Err != nil:
		return res.Err
	}
	s.bg.Set(res.Color)
	return nil
}

// SetViewport tells the gesture interpreter where the raster is displayed.
func (s *Session) SetViewport(origin gesture.Point, displayedWidth float64) {
	s.gest.View = gesture.Viewport{Origin: origin, Raster: s.size, DisplayedWidth: displayedWidth}
}

// PointerDown starts a drag. It is ignored without an image.
func (s *Session) PointerDown(p gesture.Point) {
	if s.img == nil {
		return
	}
	s.state = s.gest.PointerDown(p, s.state)
}

func (s *Session) PointerMove(p gesture.Point) { s.state = s.gest.PointerMove(p, s.state) }
func (s *Session) PointerUp()                  { s.state = s.gest.PointerUp(s.state) }

// Touch feeds one touch event to the gesture interpreter. Touches are
// ignored without an image.
func (s *Session) Touch(e touch.Event) {
	if s.img == nil {
		return
	}
	s.state = s.gest.Dispatch(&s.touches, e, s.state)
}

// Indicator is the zoom and rotation readout shown during a pinch.
func (s *Session) Indicator() (string, bool) { return s.gest.Indicator() }

// Frame renders the wallpaper and adopts the snapped placement.
func (s *Session) Frame(guides bool) render.Result {
	res := s.renderer.Render(render.Scene{
		Size:       s.size,
		Background: s.bg.Color(),
		Image:      s.img,
		State:      s.state,
		Guides:     guides,
		Shadow:     s.shadow,
	})
	s.state = res.State
	return res
}
