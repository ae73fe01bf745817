package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/wallsmith/internal/compositor"
	"github.com/example/wallsmith/internal/desktop"
	"github.com/example/wallsmith/internal/gesture"
	"github.com/example/wallsmith/internal/palette"
)

// nudgeStep is how far an arrow key moves the image, in raster pixels.
const nudgeStep = 10

// action is one command reachable from the toolbar, the keyboard or the
// shortcut bar.
type action struct {
	name  string
	label string // toolbar label, empty for keyboard-only actions
	hint  string // shortcut bar label, empty to leave it out
	keys  shortcutList
	run   func()
}

// controller applies user commands to the session. It runs on the event
// loop and hands slow work to goroutines that report back through send.
type controller struct {
	sess      *compositor.Session
	outputDir string
	log       *slog.Logger
	ctx       context.Context

	// send delivers a fileChosen, LoadResult or PickResult back to the loop.
	send     func(any)
	openFile func(ctx context.Context) (string, error)
	decode   func(path string) (image.Image, error)
	now      func() time.Time

	actions []action
	byName  map[string]*action
	keys    map[KeyShortcut]string

	prompt       *prompt
	message      string
	messageErr   bool
	messageUntil time.Time
	quit         bool
}

func newController(sess *compositor.Session, outputDir string, logger *slog.Logger) *controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &controller{
		sess:      sess,
		outputDir: outputDir,
		log:       logger,
		ctx:       context.Background(),
		send:      func(any) {},
		openFile: func(ctx context.Context) (string, error) {
			return desktop.OpenFile(ctx, "Open wallpaper image")
		},
		decode: compositor.DecodeFile,
		now:    time.Now,
	}
	c.register()
	return c
}

func (c *controller) register() {
	c.actions = []action{
		{name: "open", label: "Open", hint: "^O:open", keys: shortcutList{{Rune: 'o', Modifiers: key.ModControl}}, run: c.open},
		{name: "paste", label: "Paste", hint: "^V:paste", keys: shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, run: c.paste},
		{name: "zoom-in", label: "Zoom+", hint: "+/-:zoom", keys: shortcutList{{Rune: '+'}, {Rune: '='}}, run: c.sess.ZoomIn},
		{name: "zoom-out", label: "Zoom-", keys: shortcutList{{Rune: '-'}}, run: c.sess.ZoomOut},
		{name: "rotate-left", label: "Rot L", hint: "[/]:rotate", keys: shortcutList{{Rune: '['}}, run: c.sess.RotateLeft},
		{name: "rotate-right", label: "Rot R", keys: shortcutList{{Rune: ']'}}, run: c.sess.RotateRight},
		{name: "skew-x", label: "Skew X", hint: "X/Y:skew", keys: shortcutList{{Rune: 'x'}}, run: c.sess.SkewX},
		{name: "skew-y", label: "Skew Y", keys: shortcutList{{Rune: 'y'}}, run: c.sess.SkewY},
		{name: "reset", label: "Reset", hint: "0:reset", keys: shortcutList{{Rune: '0'}}, run: c.sess.ResetTransform},
		{name: "auto", label: "Auto", hint: "A:auto color", keys: shortcutList{{Rune: 'a'}}, run: c.autoColor},
		{name: "pick", label: "Pick", hint: "P:pick", keys: shortcutList{{Rune: 'p'}}, run: c.pick},
		{name: "size", label: "Size", hint: "S:size", keys: shortcutList{{Rune: 's'}}, run: func() { c.openPrompt(promptSize) }},
		{name: "hex", label: "Hex", hint: "H:hex", keys: shortcutList{{Rune: 'h'}}, run: func() { c.openPrompt(promptHex) }},
		{name: "rgb", label: "RGB", hint: "G:rgb", keys: shortcutList{{Rune: 'g'}}, run: func() { c.openPrompt(promptRGB) }},
		{name: "export", label: "Export", hint: "^S:export", keys: shortcutList{{Rune: 's', Modifiers: key.ModControl}}, run: c.export},
		{name: "copy", hint: "^C:copy", keys: shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, run: c.copy},
		{name: "quit", label: "Quit", hint: "Q:quit", keys: shortcutList{{Rune: 'q'}}, run: func() { c.quit = true }},
		{name: "left", keys: shortcutList{{Code: key.CodeLeftArrow}}, run: func() { c.nudge(-nudgeStep, 0) }},
		{name: "right", keys: shortcutList{{Code: key.CodeRightArrow}}, run: func() { c.nudge(nudgeStep, 0) }},
		{name: "up", keys: shortcutList{{Code: key.CodeUpArrow}}, run: func() { c.nudge(0, -nudgeStep) }},
		{name: "down", keys: shortcutList{{Code: key.CodeDownArrow}}, run: func() { c.nudge(0, nudgeStep) }},
	}
	c.byName = make(map[string]*action, len(c.actions))
	c.keys = map[KeyShortcut]string{}
	for i := range c.actions {
		a := &c.actions[i]
		c.byName[a.name] = a
		for _, sc := range a.keys.KeyboardShortcuts() {
			c.keys[sc] = a.name
		}
	}
}

// trigger runs the named action. Unknown names are ignored.
func (c *controller) trigger(name string) {
	if a, ok := c.byName[name]; ok {
		c.log.Debug("action", "name", name)
		a.run()
	}
}

// shortcutFor normalises a key press for lookup. Shift is dropped for
// printable keys so '+' matches however the layout produces it.
func shortcutFor(e key.Event) KeyShortcut {
	ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
	if ks.Rune > 0 {
		ks.Code = key.CodeUnknown
		ks.Modifiers &^= key.ModShift
	}
	return ks
}

// key handles a key press. It reports whether anything changed.
func (c *controller) key(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if c.prompt != nil {
		switch c.prompt.key(e) {
		case promptApply:
			c.submitPrompt()
		case promptCancel:
			c.prompt = nil
		}
		return true
	}
	name, ok := c.keys[shortcutFor(e)]
	if !ok {
		return false
	}
	c.trigger(name)
	return true
}

func (c *controller) toolbarLabels() []string {
	var out []string
	for _, a := range c.actions {
		if a.label != "" {
			out = append(out, a.label)
		}
	}
	return out
}

// shortcuts lists the bottom bar hints in registration order.
func (c *controller) shortcuts() []Shortcut {
	var out []Shortcut
	for _, a := range c.actions {
		if a.hint == "" {
			continue
		}
		name := a.name
		out = append(out, Shortcut{label: a.hint, action: func() { c.trigger(name) }})
	}
	return out
}

// status is the header line.
func (c *controller) status() string {
	size := c.sess.Size()
	s := fmt.Sprintf("%s  %s", size, c.sess.Background().Hex())
	if c.sess.Manual() {
		s = fmt.Sprintf("%s (manual)  %s", size, c.sess.Background().Hex())
	}
	if name := c.sess.ImageName(); name != "" {
		st := c.sess.State()
		s += fmt.Sprintf("  %s  %s", name, gesture.FormatIndicator(st))
	}
	return s
}

func (c *controller) info(msg string) {
	c.log.Info(msg)
	c.message = msg
	c.messageErr = false
	c.messageUntil = c.now().Add(messageDuration)
}

// alert shows err in the message box. Cancellations are dropped.
func (c *controller) alert(err error) {
	if err == nil || errors.Is(err, palette.ErrCancelled) || errors.Is(err, desktop.ErrCancelled) {
		return
	}
	c.log.Warn("action failed", "kind", compositor.KindOf(err), "err", err)
	c.message = userMessage(err)
	c.messageErr = true
	c.messageUntil = c.now().Add(messageDuration)
}

// userMessage words err for the message box.
func userMessage(err error) string {
	switch {
	case errors.Is(err, compositor.ErrNoImage):
		return "Load an image first"
	case errors.Is(err, compositor.ErrRead):
		return "Could not read the file"
	case errors.Is(err, compositor.ErrDecode):
		return "Not a supported image"
	case errors.Is(err, palette.ErrUnsupported):
		return "Eyedropper not supported here"
	case errors.Is(err, desktop.ErrUnavailable):
		return "File chooser not available"
	}
	if compositor.KindOf(err) == compositor.KindInput {
		return "Invalid input: " + err.Error()
	}
	return err.Error()
}

// messageActive reports whether the message box is showing at t.
func (c *controller) messageActive(t time.Time) bool {
	return c.message != "" && t.Before(c.messageUntil)
}

func (c *controller) dismissMessage() { c.messageUntil = time.Time{} }

// open shows the file chooser and decodes off the loop.
// fileChosen is the outcome of the file chooser, delivered to the loop.
type fileChosen struct {
	path string
	err  error
}

// open shows the file chooser. The load generation only advances once a
// file is chosen, so a dismissed chooser leaves an earlier load current.
func (c *controller) open() {
	ctx, openFile, send := c.ctx, c.openFile, c.send
	go func() {
		path, err := openFile(ctx)
		if errors.Is(err, desktop.ErrCancelled) {
			return
		}
		send(fileChosen{path: path, err: err})
	}()
}

// chosen starts decoding the chosen file.
func (c *controller) chosen(f fileChosen) {
	if f.err != nil {
		c.alert(f.err)
		return
	}
	gen := c.sess.BeginLoad()
	decode, send := c.decode, c.send
	go func() {
		img, err := decode(f.path)
		send(compositor.LoadResult{Gen: gen, Name: filepath.Base(f.path), Image: img, Err: err})
	}()
}

// loaded applies a finished load.
func (c *controller) loaded(res compositor.LoadResult) {
	if err := c.sess.ApplyLoad(res); err != nil {
		c.alert(err)
		return
	}
	if res.Err == nil && res.Image != nil && c.sess.Image() == res.Image {
		c.info("loaded " + res.Name)
	}
}

func (c *controller) paste() {
	if err := c.sess.LoadClipboard(); err != nil {
		c.alert(err)
		return
	}
	c.info("pasted image")
}

func (c *controller) autoColor() {
	col, err := c.sess.AutoColor()
	if err != nil {
		c.alert(err)
		return
	}
	c.info("background " + col.Hex())
}

// pick runs the eyedropper off the loop.
func (c *controller) pick() {
	if !c.sess.CanPick() {
		c.alert(palette.ErrUnsupported)
		return
	}
	ctx, sess, send := c.ctx, c.sess, c.send
	go func() { send(sess.Pick(ctx)) }()
}

// picked applies a finished eyedropper pick.
func (c *controller) picked(res compositor.PickResult) {
	if err := c.sess.ApplyPick(res); err != nil {
		c.alert(err)
		return
	}
	if res.Err == nil {
		c.info("background " + res.Color.Hex())
	}
}

func (c *controller) export() {
	path, err := c.sess.Export(c.outputDir)
	if err != nil {
		c.alert(err)
		return
	}
	c.info("saved " + filepath.Base(path))
}

func (c *controller) copy() {
	if err := c.sess.CopyToClipboard(); err != nil {
		c.alert(err)
		return
	}
	c.info("wallpaper copied to clipboard")
}

func (c *controller) nudge(dx, dy float64) {
	if !c.sess.HasImage() {
		return
	}
	st := c.sess.State()
	st.X += dx
	st.Y += dy
	c.sess.SetState(st)
}

func (c *controller) openPrompt(kind promptKind) {
	p := &prompt{kind: kind}
	bg := c.sess.Background()
	switch kind {
	case promptSize:
		size := c.sess.Size()
		p.action, p.label, p.text = "size", "Size (w h)", fmt.Sprintf("%d %d", size.W, size.H)
	case promptHex:
		p.action, p.label, p.text = "hex", "Hex", bg.Hex()
	case promptRGB:
		p.action, p.label, p.text = "rgb", "RGB", bg.CSV()
	}
	c.prompt = p
}

// submitPrompt applies the field. On error the prompt stays open so the
// text can be corrected.
func (c *controller) submitPrompt() {
	p := c.prompt
	var err error
	switch p.kind {
	case promptSize:
		w, h := sizeFields(p.text)
		_, err = c.sess.ApplyManualSize(w, h)
	case promptHex:
		err = c.sess.SetHex(p.text)
	case promptRGB:
		err = c.sess.SetRGB(p.text)
	}
	if err != nil {
		c.alert(err)
		return
	}
	c.prompt = nil
}

// wheel zooms for each notch.
func (c *controller) wheel(up bool) {
	if !c.sess.HasImage() {
		return
	}
	if up {
		c.sess.Wheel(-1)
	} else {
		c.sess.Wheel(1)
	}
}
