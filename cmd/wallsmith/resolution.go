package main

import (
	"flag"
	"fmt"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/desktop"
)

// listMonitors is replaced in tests.
var listMonitors = desktop.Monitors

type resolutionCmd struct {
	monitor string
	dpr     float64
	expand  bool
	list    bool
	*root
	fs *flag.FlagSet
}

func (c *resolutionCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseResolutionCmd(args []string, r *root) (*resolutionCmd, error) {
	fs := flag.NewFlagSet("resolution", flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	c := &resolutionCmd{root: r.subcommand("resolution"), fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.monitor, "monitor", r.config.Canvas.Monitor, "monitor to measure: primary, #index or a name")
	fs.Float64Var(&c.dpr, "dpr", r.config.Canvas.DPR, "device pixel ratio; 0 means 1")
	fs.BoolVar(&c.expand, "expand", r.config.Canvas.Expand, "grow the canvas by 10%")
	fs.BoolVar(&c.list, "list", false, "list the connected monitors")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *resolutionCmd) Run() error {
	if c.list {
		monitors, err := listMonitors()
		if err != nil {
			return err
		}
		for _, m := range monitors {
			fmt.Fprintln(c.stdout, m)
		}
		return nil
	}
	scale := c.dpr
	if scale <= 0 {
		scale = 1
	}
	res, err := detectResolution(c.monitor, scale)
	if err != nil {
		return err
	}
	w, h := res.Device()
	size := canvas.Sizer{Device: res, Expand: c.expand}.SetSize(nil)
	fmt.Fprintf(c.stdout, "display %gx%g @%g\n", res.Width, res.Height, res.Scale)
	fmt.Fprintf(c.stdout, "device %gx%g\n", w, h)
	fmt.Fprintf(c.stdout, "canvas %s\n", size)
	return nil
}
