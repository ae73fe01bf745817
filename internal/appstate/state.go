// Package appstate is the interactive editor window. It draws the toolbar,
// the shortcut bar and a scaled preview of the wallpaper, and turns shiny
// events into compositor.Session operations.
package appstate

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/wallsmith/internal/compositor"
	"github.com/example/wallsmith/internal/gesture"
	"github.com/example/wallsmith/internal/theme"
)

// AppState holds the window configuration.
type AppState struct {
	Session   *compositor.Session
	OutputDir string
	Theme     *theme.Theme

	log      *slog.Logger
	openFile func(ctx context.Context) (string, error)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutputDir sets the directory exports are written to.
func WithOutputDir(dir string) Option { return func(a *AppState) { a.OutputDir = dir } }

// WithTheme sets the window colors.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(a *AppState) { a.log = l } }

// WithFileChooser replaces the portal file chooser used by Open.
func WithFileChooser(fn func(ctx context.Context) (string, error)) Option {
	return func(a *AppState) { a.openFile = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState editing sess.
func New(sess *compositor.Session, opts ...Option) *AppState {
	a := &AppState{Session: sess, Theme: theme.Default(), log: slog.Default()}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// layout is where things are for the current window size.
type layout struct {
	width, height int
	preview       image.Rectangle
	scale         float64
}

func (a *AppState) layout(width, height int) layout {
	l := layout{width: width, height: height}
	l.preview, l.scale = previewRect(a.Session.Size(), canvasArea(width, height))
	return l
}

// viewport tells the session where the preview is so pointer positions map
// onto raster pixels.
func (a *AppState) viewport(l layout) {
	a.Session.SetViewport(gesture.Point{X: float64(l.preview.Min.X), Y: float64(l.preview.Min.Y)}, float64(l.preview.Dx()))
}

func (a *AppState) Main(s screen.Screen) {
	sess := a.Session
	th := a.Theme
	ctrl := newController(sess, a.OutputDir, a.log)
	if a.openFile != nil {
		ctrl.openFile = a.openFile
	}

	fitToolbar(ctrl.toolbarLabels())
	var buttons []*CacheButton
	for _, act := range ctrl.actions {
		if act.label == "" {
			continue
		}
		buttons = append(buttons, &CacheButton{Button: &ActionButton{
			label: act.label, action: act.name, theme: th, onActivate: ctrl.trigger,
		}})
	}
	layoutToolbar(buttons)

	winSize := windowSize(sess.Size(), len(buttons))
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winSize.X, Height: winSize.Y, Title: "Wallsmith"})
	if err != nil {
		a.log.Error("new window", "err", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.ctx = ctx
	ctrl.send = func(e any) {
		if ctx.Err() == nil {
			w.Send(e)
		}
	}

	lay := a.layout(winSize.X, winSize.Y)
	a.viewport(lay)

	var shortcuts []Shortcut
	hoverButton := -1
	hoverShortcut := -1
	var pressed bool
	var messageTimer *time.Timer
	defer func() {
		if messageTimer != nil {
			messageTimer.Stop()
		}
	}()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			pctx, pcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = pcancel
			paintMu.Unlock()
			drawFrame(pctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if pctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			pcancel()
		}
	}()

	// afterChange repaints and, when a new message went up, schedules the
	// repaint that takes it down.
	lastMessage := time.Time{}
	afterChange := func() {
		if ctrl.messageUntil != lastMessage && ctrl.messageActive(time.Now()) {
			lastMessage = ctrl.messageUntil
			if messageTimer != nil {
				messageTimer.Stop()
			}
			messageTimer = time.AfterFunc(time.Until(ctrl.messageUntil), func() { ctrl.send(paint.Event{}) })
		}
		w.Send(paint.Event{})
	}

	for {
		if ctrl.quit {
			return
		}
		e := w.NextEvent()
		switch e := e.(type) {
		case fileChosen:
			ctrl.chosen(e)
			afterChange()
		case compositor.LoadResult:
			ctrl.loaded(e)
			afterChange()
		case compositor.PickResult:
			ctrl.picked(e)
			afterChange()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			lay = a.layout(e.WidthPx, e.HeightPx)
			a.viewport(lay)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			// the raster may have been resized since the last layout
			if l := a.layout(lay.width, lay.height); l != lay {
				lay = l
				a.viewport(lay)
			}
			frame := sess.Frame(sess.HasImage())
			shortcuts = layoutShortcuts(lay.width, lay.height, ctrl.shortcuts())
			indicator, _ := sess.Indicator()
			st := paintState{
				width:         lay.width,
				height:        lay.height,
				theme:         th,
				frame:         frame.Image,
				preview:       lay.preview,
				status:        ctrl.status(),
				buttons:       buttons,
				hoverButton:   hoverButton,
				shortcuts:     shortcuts,
				hoverShortcut: hoverShortcut,
				indicator:     indicator,
				message:       ctrl.message,
				messageErr:    ctrl.messageErr,
				messageUntil:  ctrl.messageUntil,
			}
			if ctrl.prompt != nil {
				p := *ctrl.prompt
				st.prompt = &p
				st.pressed = p.action
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			p := image.Point{int(e.X), int(e.Y)}
			if ctrl.messageActive(time.Now()) && e.Direction == mouse.DirPress {
				ctrl.dismissMessage()
				w.Send(paint.Event{})
				continue
			}
			if e.Button.IsWheel() {
				if e.Direction == mouse.DirStep || e.Direction == mouse.DirPress {
					switch e.Button {
					case mouse.ButtonWheelUp:
						ctrl.wheel(true)
					case mouse.ButtonWheelDown:
						ctrl.wheel(false)
					}
					w.Send(paint.Event{})
				}
				continue
			}
			if pressed {
				// a drag keeps going when the pointer leaves the preview
				switch e.Direction {
				case mouse.DirNone:
					sess.PointerMove(gesture.Point{X: float64(e.X), Y: float64(e.Y)})
				case mouse.DirRelease:
					sess.PointerUp()
					pressed = false
				}
				w.Send(paint.Event{})
				continue
			}
			if p.Y >= lay.height-bottomHeight {
				prev := hoverShortcut
				hoverShortcut = -1
				for i := range shortcuts {
					if p.In(shortcuts[i].rect) {
						hoverShortcut = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && ctrl.prompt == nil {
							shortcuts[i].Activate()
							afterChange()
						}
						break
					}
				}
				if hoverShortcut != prev {
					w.Send(paint.Event{})
				}
				continue
			}
			if p.X < toolbarWidth {
				prev := hoverButton
				hoverButton = -1
				for i, cb := range buttons {
					if p.In(cb.Rect()) {
						hoverButton = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							ctrl.prompt = nil
							cb.Activate()
							afterChange()
						}
						break
					}
				}
				if hoverButton != prev {
					w.Send(paint.Event{})
				}
				continue
			}
			if hoverButton != -1 || hoverShortcut != -1 {
				hoverButton, hoverShortcut = -1, -1
				w.Send(paint.Event{})
			}
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && p.In(lay.preview) && sess.HasImage() {
				sess.PointerDown(gesture.Point{X: float64(e.X), Y: float64(e.Y)})
				pressed = true
				w.Send(paint.Event{})
			}
		case touch.Event:
			sess.Touch(e)
			w.Send(paint.Event{})
		case key.Event:
			if ctrl.messageActive(time.Now()) && e.Direction == key.DirPress && e.Code == key.CodeEscape && ctrl.prompt == nil {
				ctrl.dismissMessage()
				w.Send(paint.Event{})
				continue
			}
			if ctrl.key(e) {
				afterChange()
			}
		case error:
			a.log.Error("window", "err", e)
		}
	}
}
