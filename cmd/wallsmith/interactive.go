package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/wallsmith/internal/canvas"
	"github.com/example/wallsmith/internal/compositor"
)

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, "; ")
}

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

type interactiveCmd struct {
	execs     commandList
	outputDir string
	canvas    canvasFlags
	sess      *compositor.Session
	*root
	fs *flag.FlagSet
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	i := &interactiveCmd{root: r.subcommand("interactive"), fs: fs}
	fs.Usage = usageFunc(i)
	i.canvas.register(fs, r.config)
	fs.Var(&i.execs, "e", "execute a command without reading stdin (may be repeated)")
	fs.StringVar(&i.outputDir, "output-dir", r.config.SaveDir, "directory export writes to when none is given")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	sess, err := i.newSession(&i.canvas)
	if err != nil {
		return err
	}
	i.sess = sess

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command. done reports that the session should end.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 {
		return false, nil
	}
	cmd, rest := strings.ToLower(args[0]), args[1:]
	s := i.sess
	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		i.printHelp()
	case "load":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: load <path>")
		}
		if err := s.LoadFile(rest[0]); err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "loaded %s\n", s.ImageName())
	case "paste":
		if err := s.LoadClipboard(); err != nil {
			return false, err
		}
		fmt.Fprintln(i.stdout, "loaded clipboard image")
	case "zoom-in":
		s.ZoomIn()
	case "zoom-out":
		s.ZoomOut()
	case "rotate-left":
		s.RotateLeft()
	case "rotate-right":
		s.RotateRight()
	case "skew-x":
		s.SkewX()
	case "skew-y":
		s.SkewY()
	case "reset":
		s.ResetTransform()
	case "move":
		return false, i.move(rest)
	case "hex", "rgb", "color":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: %s <value>", cmd)
		}
		v := strings.Join(rest, "")
		switch cmd {
		case "hex":
			err = s.SetHex(v)
		case "rgb":
			err = s.SetRGB(v)
		default:
			err = s.SetColor(v)
		}
		if err != nil {
			return false, err
		}
		i.printBackground()
	case "auto":
		if _, err := s.AutoColor(); err != nil {
			return false, err
		}
		i.printBackground()
	case "pick":
		if err := s.ApplyPick(s.Pick(context.Background())); err != nil {
			return false, err
		}
		i.printBackground()
	case "size":
		return false, i.size(rest)
	case "state":
		i.printState()
	case "export":
		dir := i.outputDir
		if len(rest) > 0 {
			dir = rest[0]
		}
		path, err := s.Export(dir)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "saved %s\n", path)
	case "copy":
		if err := s.CopyToClipboard(); err != nil {
			return false, err
		}
		fmt.Fprintln(i.stdout, "copied to clipboard")
	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
	return false, nil
}

func (i *interactiveCmd) move(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: move <x> <y>")
	}
	if !i.sess.HasImage() {
		return compositor.ErrNoImage
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[1], err)
	}
	b := i.sess.Image().Bounds()
	img := canvas.Size{W: b.Dx(), H: b.Dy()}
	i.sess.SetState(i.sess.State().WithCenter(img, x, y))
	return nil
}

func (i *interactiveCmd) size(args []string) error {
	switch {
	case len(args) == 1 && strings.EqualFold(args[0], "auto"):
		fmt.Fprintf(i.stdout, "canvas %s\n", i.sess.SetSize(nil))
		return nil
	case len(args) == 2:
		sz, err := i.sess.ApplyManualSize(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(i.stdout, "canvas %s\n", sz)
		return nil
	}
	return fmt.Errorf("usage: size <w> <h> | size auto")
}

func (i *interactiveCmd) printBackground() {
	bg := i.sess.Background()
	fmt.Fprintf(i.stdout, "background %s (%s)\n", bg.Hex(), bg.CSV())
}

func (i *interactiveCmd) printState() {
	s := i.sess
	mode := "auto"
	if s.Manual() {
		mode = "manual"
	}
	fmt.Fprintf(i.stdout, "canvas %s (%s)\n", s.Size(), mode)
	i.printBackground()
	if !s.HasImage() {
		fmt.Fprintln(i.stdout, "image none")
		return
	}
	fmt.Fprintf(i.stdout, "image %s\n", s.ImageName())
	fmt.Fprintf(i.stdout, "placement %s\n", s.State())
}

func (i *interactiveCmd) printHelp() {
	help, err := (&UsageError{of: i}).renderHelp()
	if err != nil {
		fmt.Fprintln(i.stderr, err)
		return
	}
	fmt.Fprint(i.stdout, help)
}
