package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/example/wallsmith/internal/compositor"
	"github.com/example/wallsmith/internal/palette"
)

type colorCmd struct {
	value  string
	pick   bool
	border string
	*root
	fs *flag.FlagSet
}

func (c *colorCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseColorCmd(args []string, r *root) (*colorCmd, error) {
	fs := flag.NewFlagSet("color", flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	c := &colorCmd{root: r.subcommand("color"), fs: fs}
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.pick, "pick", false, "pick a color from the screen with the desktop eyedropper")
	fs.StringVar(&c.border, "border", "", "average the border pixels of this image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	sources := 0
	if fs.NArg() > 0 {
		c.value = fs.Arg(0)
		sources++
	}
	if c.pick {
		sources++
	}
	if c.border != "" {
		sources++
	}
	if sources != 1 || fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *colorCmd) Run() error {
	col, err := c.resolve()
	if errors.Is(err, palette.ErrCancelled) {
		c.log.Debug("eyedropper cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "hex %s\nrgb %s\n", col.Hex(), col.CSV())
	return nil
}

func (c *colorCmd) resolve() (palette.RGB, error) {
	switch {
	case c.pick:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return newPicker().Pick(ctx)
	case c.border != "":
		img, err := compositor.DecodeFile(c.border)
		if err != nil {
			return palette.RGB{}, err
		}
		return palette.BorderAverage(img)
	}
	return palette.ParseAny(c.value)
}
