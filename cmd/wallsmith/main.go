package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/wallsmith/internal/appstate"
	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/clipboard"
	"github.com/example/wallsmith/internal/compositor"
	"github.com/example/wallsmith/internal/config"
	"github.com/example/wallsmith/internal/desktop"
	"github.com/example/wallsmith/internal/notify"
	"github.com/example/wallsmith/internal/palette"
	"github.com/example/wallsmith/internal/render"
	"github.com/example/wallsmith/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// Platform hooks, replaced in tests.
var (
	detectResolution = desktop.Resolution
	newPicker        = func() palette.Picker { return desktop.Eyedropper{} }
	clipboardRead    = clipboard.ReadImage
	clipboardWrite   = clipboard.WriteImage
	runWindow        = func(a *appstate.AppState) { a.Run() }
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	config      *config.Config
	notifier    *notify.Notifier
	log         *slog.Logger
	exportAlert bool
	copyAlert   bool
	themeName   string
	configPath  string
	verbose     bool
	activeTheme *theme.Theme
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// subcommand names a nested program for help output.
func (r *root) subcommand(name string) *root {
	child := *r
	child.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &child
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("wallsmith", flag.ContinueOnError),
		program: "wallsmith",
		config:  config.New(),
		log:     slog.Default(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	r.fs.SetOutput(r.stderr)
	r.fs.BoolVar(&r.exportAlert, "notify-export", false, "show a desktop notification after exporting a wallpaper")
	r.fs.BoolVar(&r.copyAlert, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme for the editor window ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "configuration file to read")
	r.fs.BoolVar(&r.verbose, "v", false, "log debug output to stderr")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r.config = cfg
	r.log = newLogger(r.stderr, cfg.LogLevel, r.verbose)
	slog.SetDefault(r.log)
	gg.SetLogger(r.log)

	if !set["notify-export"] {
		r.exportAlert = cfg.Notify.Export
	}
	if !set["notify-copy"] {
		r.copyAlert = cfg.Notify.Copy
	}
	r.notifier = notify.New(notify.ApplyEnv(notify.DefaultPreferences()), r.log)
	r.notifier.Enable(notify.EventExport, r.exportAlert)
	r.notifier.Enable(notify.EventCopy, r.copyAlert)
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "compose":
		cmd, err = parseComposeCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "color":
		cmd, err = parseColorCmd(subArgs, r)
	case "resolution":
		cmd, err = parseResolutionCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the window theme: flag, then WALLSMITH_THEME and the
// config (already merged by the loader), then the default.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			r.log.Warn("failed to load theme, using default", "theme", name, "err", err)
		}
		return theme.Default()
	}
	return t
}

// newLogger builds the stderr text logger. verbose forces debug output.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// canvasFlags are the sizing and color flags shared by the commands that
// build a session.
type canvasFlags struct {
	width   int
	height  int
	expand  bool
	bg      string
	monitor string
	dpr     float64
	shadow  bool
	fs      *flag.FlagSet
}

func (c *canvasFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	c.fs = fs
	fs.IntVar(&c.width, "width", cfg.Canvas.Width, "canvas width in pixels; 0 follows the display")
	fs.IntVar(&c.height, "height", cfg.Canvas.Height, "canvas height in pixels; 0 follows the display")
	fs.BoolVar(&c.expand, "expand", cfg.Canvas.Expand, "grow the display size by 10% so the image can overscan")
	fs.StringVar(&c.bg, "bg", cfg.Background.Color, "background color as hex, r,g,b or a color name")
	fs.StringVar(&c.monitor, "monitor", cfg.Canvas.Monitor, "monitor to size for: primary, #index or a name")
	fs.Float64Var(&c.dpr, "dpr", cfg.Canvas.DPR, "device pixel ratio; 0 means 1")
	fs.BoolVar(&c.shadow, "shadow", cfg.Shadow.Enabled, "cast a drop shadow under the image")
}

// device reports the display the canvas is sized for, falling back to the
// configured default size.
func (r *root) device(c *canvasFlags) canvas.Resolution {
	scale := c.dpr
	if scale <= 0 {
		scale = 1
	}
	res, err := detectResolution(c.monitor, scale)
	if err == nil {
		return res
	}
	r.log.Warn("display detection failed, using the default size", "err", err)
	return canvas.Resolution{
		Width:  float64(r.config.Canvas.DefaultWidth) / scale,
		Height: float64(r.config.Canvas.DefaultHeight) / scale,
		Scale:  scale,
	}
}

// newSession builds a session from the shared flags.
func (r *root) newSession(c *canvasFlags) (*compositor.Session, error) {
	bg, err := palette.ParseAny(c.bg)
	if err != nil {
		return nil, fmt.Errorf("-bg: %w", err)
	}
	opts := []compositor.Option{
		compositor.WithLogger(r.log),
		compositor.WithBackground(bg),
		compositor.WithExpand(c.expand),
		compositor.WithNotifier(r.notifier),
		compositor.WithPicker(newPicker()),
		compositor.WithClipboard(clipboardRead, clipboardWrite),
	}
	if c.shadow {
		s := r.config.Shadow
		opts = append(opts, compositor.WithShadow(render.ShadowOptions{
			Radius:  s.Radius,
			Offset:  image.Pt(s.OffsetX, s.OffsetY),
			Opacity: s.Opacity,
		}))
	}
	sess := compositor.New(r.device(c), opts...)
	if w, h, ok := c.manualSize(); ok {
		if _, err := sess.ApplyManualSize(w, h); err != nil {
			return nil, fmt.Errorf("-width/-height: %w", err)
		}
	}
	return sess, nil
}

// manualSize returns the size fields to apply. A dimension counts when it was
// given on the command line or is non-zero in the config; an unset one is
// left empty so it follows the display.
func (c *canvasFlags) manualSize() (w, h string, ok bool) {
	set := map[string]bool{}
	if c.fs != nil {
		c.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	}
	if set["width"] || c.width != 0 {
		w, ok = strconv.Itoa(c.width), true
	}
	if set["height"] || c.height != 0 {
		h, ok = strconv.Itoa(c.height), true
	}
	return w, h, ok
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		case errors.Is(err, flag.ErrHelp):
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
