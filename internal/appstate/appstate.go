package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/theme"
)

const (
	headerHeight = 24
	bottomHeight = 24
	buttonHeight = 24
	// canvasPadding separates the preview from the toolbar and bars.
	canvasPadding = 8
)

var toolbarWidth = 64

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// messageDuration is how long the message box stays up.
const messageDuration = 2 * time.Second

var messageFace font.Face
var indicatorFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
	indicatorFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 16, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// canvasArea is the part of the window left for the wallpaper preview.
func canvasArea(width, height int) image.Rectangle {
	return image.Rect(toolbarWidth, headerHeight, width, height-bottomHeight).Inset(canvasPadding)
}

// previewRect centers the raster inside area at display scale and returns
// the destination rectangle and the scale used.
func previewRect(raster canvas.Size, area image.Rectangle) (image.Rectangle, float64) {
	if raster.Empty() || area.Empty() {
		return image.Rectangle{}, 1
	}
	scale := canvas.DisplayScale(raster, canvas.Size{W: area.Dx(), H: area.Dy()})
	w := int(float64(raster.W)*scale + 0.5)
	h := int(float64(raster.H)*scale + 0.5)
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h), scale
}

// windowSize picks an initial window that shows the raster at a readable
// scale next to the full toolbar.
func windowSize(raster canvas.Size, buttons int) image.Point {
	rect, _ := previewRect(raster, image.Rect(0, 0, 960, 600))
	w := toolbarWidth + rect.Dx() + 2*canvasPadding
	h := headerHeight + rect.Dy() + 2*canvasPadding + bottomHeight
	if minH := headerHeight + buttons*buttonHeight + bottomHeight; h < minH {
		h = minH
	}
	if w < 480 {
		w = 480
	}
	return image.Point{X: w, Y: h}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// ActionButton is a toolbar button bound to a named action.
type ActionButton struct {
	label  string
	action string
	rect   image.Rectangle
	theme  *theme.Theme
	// onActivate receives the action name.
	onActivate func(string)
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	th := ab.theme
	if th == nil {
		th = theme.Default()
	}
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg, fg = th.ButtonBackgroundHover, th.ButtonTextHover
	case StatePressed:
		bg, fg = th.ButtonBackgroundPress, th.ButtonTextPress
	}
	draw.Draw(dst, ab.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(ab.rect.Min.X+4, ab.rect.Min.Y+16)}
	d.DrawString(ab.label)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) { ab.rect = r }

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate(ab.action)
	}
}

// Shortcut is a clickable hint in the bottom bar.
type Shortcut struct {
	label  string
	action func()
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	col := th.ButtonBackground
	if state == StateHover {
		col = th.ButtonBackgroundHover
	}
	draw.Draw(dst, s.rect, &image.Uniform{col}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// layoutToolbar stacks the buttons below the header.
func layoutToolbar(buttons []*CacheButton) {
	y := headerHeight
	for _, cb := range buttons {
		cb.SetRect(image.Rect(0, y, toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}
}

// fitToolbar widens the toolbar so every label fits.
func fitToolbar(labels []string) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString("Wallsmith").Ceil() + 8
	for _, lbl := range labels {
		if w := d.MeasureString(lbl).Ceil() + 8; w > max {
			max = w
		}
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}
}

func drawHeader(dst *image.RGBA, width int, status string, th *theme.Theme) {
	draw.Draw(dst, image.Rect(0, 0, width, headerHeight), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString("Wallsmith")
	d.Dot = fixed.P(toolbarWidth+canvasPadding, 16)
	d.DrawString(status)
}

func drawToolbar(dst *image.RGBA, height int, buttons []*CacheButton, hover int, pressed string, th *theme.Theme) {
	draw.Draw(dst, image.Rect(0, headerHeight, toolbarWidth, height-bottomHeight),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, cb := range buttons {
		state := StateDefault
		if ab, ok := cb.Button.(*ActionButton); ok && ab.action == pressed {
			state = StatePressed
		} else if i == hover {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

// layoutShortcuts places the hints left to right in the bottom bar and
// drops those that do not fit.
func layoutShortcuts(width, height int, shortcuts []Shortcut) []Shortcut {
	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	out := make([]Shortcut, 0, len(shortcuts))
	for _, sc := range shortcuts {
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		if sc.rect.Max.X > width {
			break
		}
		out = append(out, sc)
		x = sc.rect.Max.X + 8
	}
	return out
}

func drawShortcuts(dst *image.RGBA, width, height int, shortcuts []Shortcut, hover int, th *theme.Theme) {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i := range shortcuts {
		state := StateDefault
		if i == hover {
			state = StateHover
		}
		shortcuts[i].Draw(dst, state, th)
	}
}

// drawPrompt replaces the bottom bar with a single-line text field.
func drawPrompt(dst *image.RGBA, width, height int, p *prompt, th *theme.Theme) {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{th.FieldBackground}, image.Point{}, draw.Src)
	drawRect(dst, rect, th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.FieldText), Face: basicfont.Face7x13,
		Dot: fixed.P(toolbarWidth+4, height-bottomHeight+16)}
	d.DrawString(p.label + ": " + p.text + "|")
	hint := "Enter:apply  Esc:cancel"
	hw := d.MeasureString(hint).Ceil()
	d.Dot = fixed.P(width-hw-8, height-bottomHeight+16)
	d.DrawString(hint)
}

// drawIndicator shows the pinch readout above the preview.
func drawIndicator(dst *image.RGBA, preview image.Rectangle, text string, th *theme.Theme) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.IndicatorText), Face: indicatorFace}
	tw := d.MeasureString(text).Ceil()
	ascent := indicatorFace.Metrics().Ascent.Ceil()
	descent := indicatorFace.Metrics().Descent.Ceil()
	px := preview.Min.X + (preview.Dx()-tw)/2
	py := preview.Min.Y + 12 + ascent
	box := image.Rect(px-6, py-ascent-4, px+tw+6, py+descent+4)
	draw.Draw(dst, box, &image.Uniform{th.IndicatorBackground}, image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(text)
}

func drawMessage(dst *image.RGBA, width, height int, msg string, isErr bool, th *theme.Theme) {
	fg := th.MessageText
	if isErr {
		fg = th.ErrorText
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	drawRect(dst, rect, th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

type paintState struct {
	width, height int
	theme         *theme.Theme
	frame         *image.RGBA
	preview       image.Rectangle
	status        string
	buttons       []*CacheButton
	hoverButton   int
	pressed       string
	shortcuts     []Shortcut
	hoverShortcut int
	prompt        *prompt
	indicator     string
	message       string
	messageErr    bool
	messageUntil  time.Time
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.theme

	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	if st.frame != nil && !st.preview.Empty() {
		if st.preview.Size() == st.frame.Bounds().Size() {
			draw.Draw(dst, st.preview, st.frame, st.frame.Bounds().Min, draw.Src)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, st.preview, st.frame, st.frame.Bounds(), draw.Src, nil)
		}
		drawRect(dst, st.preview.Inset(-1), th.CanvasEdge, 1)
	}
	if ctx.Err() != nil {
		return
	}

	drawHeader(dst, st.width, st.status, th)
	drawToolbar(dst, st.height, st.buttons, st.hoverButton, st.pressed, th)
	if st.prompt != nil {
		drawPrompt(dst, st.width, st.height, st.prompt, th)
	} else {
		drawShortcuts(dst, st.width, st.height, st.shortcuts, st.hoverShortcut, th)
	}
	if ctx.Err() != nil {
		return
	}

	if st.indicator != "" {
		drawIndicator(dst, st.preview, st.indicator, th)
	}
	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st.width, st.height, st.message, st.messageErr, th)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
