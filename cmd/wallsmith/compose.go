package main

import (
	"flag"
	"fmt"

	"github.com/example/wallsmith/internal/appstate"
)

type composeCmd struct {
	image     string
	outputDir string
	canvas    canvasFlags
	*root
	fs *flag.FlagSet
}

func (c *composeCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseComposeCmd(args []string, r *root) (*composeCmd, error) {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	c := &composeCmd{root: r.subcommand("compose"), fs: fs}
	fs.Usage = usageFunc(c)
	c.canvas.register(fs, r.config)
	fs.StringVar(&c.image, "image", "", "image file to start with")
	fs.StringVar(&c.outputDir, "output-dir", r.config.SaveDir, "directory exports are written to")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		if c.image != "" || fs.NArg() > 1 {
			return nil, &UsageError{of: c}
		}
		c.image = fs.Arg(0)
	}
	return c, nil
}

func (c *composeCmd) Run() error {
	sess, err := c.newSession(&c.canvas)
	if err != nil {
		return err
	}
	if c.image != "" {
		if err := sess.LoadFile(c.image); err != nil {
			return fmt.Errorf("load %s: %w", c.image, err)
		}
	}
	st := appstate.New(sess,
		appstate.WithOutputDir(c.outputDir),
		appstate.WithTheme(c.activeTheme),
		appstate.WithLogger(c.log),
		appstate.WithOnClose(func() { c.log.Debug("window closed") }),
	)
	runWindow(st)
	return nil
}
