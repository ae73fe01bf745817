package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/compositor"
)

type renderCmd struct {
	image         string
	fromClipboard bool
	zoom          float64
	rotate        float64
	skewX         float64
	skewY         float64
	offset        string
	dx, dy        float64
	autoColor     bool
	output        string
	outputDir     string
	toClipboard   bool
	canvas        canvasFlags
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	c := &renderCmd{root: r.subcommand("render"), fs: fs}
	fs.Usage = usageFunc(c)
	c.canvas.register(fs, r.config)
	fs.StringVar(&c.image, "image", "", "image file to place on the canvas")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "take the image from the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "take the image from the clipboard (alias)")
	fs.Float64Var(&c.zoom, "zoom", 1, "image scale, clamped to [0.1, 5]")
	fs.Float64Var(&c.rotate, "rotate", 0, "rotation in degrees, clockwise")
	fs.Float64Var(&c.skewX, "skew-x", 0, "horizontal skew, clamped to [-0.5, 0.5]")
	fs.Float64Var(&c.skewY, "skew-y", 0, "vertical skew, clamped to [-0.5, 0.5]")
	fs.StringVar(&c.offset, "offset", "0,0", "move the image center by dx,dy canvas pixels")
	fs.BoolVar(&c.autoColor, "auto-color", false, "use the image border average as background")
	fs.StringVar(&c.output, "output", "", "file to write, - for stdout; default wallpaper-<unix-ms>.png in -output-dir")
	fs.StringVar(&c.outputDir, "output-dir", r.config.SaveDir, "directory for the default file name")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the wallpaper to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the wallpaper to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		if c.image != "" || fs.NArg() > 1 {
			return nil, &UsageError{of: c}
		}
		c.image = fs.Arg(0)
	}
	if c.image == "" && !c.fromClipboard {
		return nil, &UsageError{of: c}
	}
	if c.image != "" && c.fromClipboard {
		return nil, fmt.Errorf("-image cannot be used with -from-clipboard")
	}
	dx, dy, err := parseOffset(c.offset)
	if err != nil {
		return nil, err
	}
	c.dx, c.dy = dx, dy
	return c, nil
}

// parseOffset reads "dx,dy".
func parseOffset(v string) (float64, float64, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid offset %q: want dx,dy", v)
	}
	dx, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset %q: %w", v, err)
	}
	dy, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset %q: %w", v, err)
	}
	return dx, dy, nil
}

func (c *renderCmd) Run() error {
	sess, err := c.newSession(&c.canvas)
	if err != nil {
		return err
	}
	if c.fromClipboard {
		err = sess.LoadClipboard()
	} else {
		err = sess.LoadFile(c.image)
	}
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	c.place(sess)
	if c.autoColor {
		if _, err := sess.AutoColor(); err != nil {
			return err
		}
	}

	if c.toClipboard {
		if err := sess.CopyToClipboard(); err != nil {
			return err
		}
		fmt.Fprintln(c.stderr, "wallpaper copied to clipboard")
		if c.output == "" {
			return nil
		}
	}
	switch c.output {
	case "-":
		return sess.ExportTo(c.stdout)
	case "":
		path, err := sess.Export(c.outputDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, path)
		return nil
	}
	return c.writeFile(sess)
}

// place applies the placement flags around the centered start.
func (c *renderCmd) place(sess *compositor.Session) {
	b := sess.Image().Bounds()
	img := canvas.Size{W: b.Dx(), H: b.Dy()}
	st := sess.State()
	cx, cy := st.Center(img)
	st = st.WithScale(c.zoom).WithRotation(c.rotate).WithSkew(c.skewX, c.skewY)
	sess.SetState(st.WithCenter(img, cx+c.dx, cy+c.dy))
}

func (c *renderCmd) writeFile(sess *compositor.Session) (err error) {
	f, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.output, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(c.output)
		}
	}()
	if err := sess.ExportTo(f); err != nil {
		return err
	}
	c.notifier.Export(c.output)
	fmt.Fprintln(c.stdout, c.output)
	return nil
}
