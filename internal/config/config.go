package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/wallsmith/internal/theme"
)

// Canvas holds the raster settings.
type Canvas struct {
	Expand bool
	// Width and Height fix the raster size; zero follows the display.
	Width  int
	Height int
	// DefaultWidth and DefaultHeight stand in for the display when it cannot
	// be detected.
	DefaultWidth  int
	DefaultHeight int
	// DPR overrides the detected device pixel ratio when positive.
	DPR     float64
	Monitor string
}

// Background holds the initial background color.
type Background struct {
	Color string
}

// Shadow holds the drop shadow settings.
type Shadow struct {
	Enabled bool
	Radius  int
	Opacity float64
	OffsetX int
	OffsetY int
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	SaveDir    string
	LogLevel   string
	Canvas     Canvas
	Background Background
	Shadow     Shadow
	Notify     Notify
	Themes     map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:    "", // Default to empty to allow fallback to Env/Default
		LogLevel: "info",
		Canvas: Canvas{
			DefaultWidth:  1920,
			DefaultHeight: 1080,
		},
		Background: Background{Color: "#ffffff"},
		Shadow: Shadow{
			Radius:  24,
			Opacity: 0.55,
			OffsetX: 16,
			OffsetY: 16,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "expand = %v\n", c.Canvas.Expand)
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "default_width = %d\n", c.Canvas.DefaultWidth)
	fmt.Fprintf(&sb, "default_height = %d\n", c.Canvas.DefaultHeight)
	fmt.Fprintf(&sb, "dpr = %v\n", c.Canvas.DPR)
	if c.Canvas.Monitor != "" {
		fmt.Fprintf(&sb, "monitor = %s\n", c.Canvas.Monitor)
	}
	sb.WriteString("\n")

	sb.WriteString("[background]\n")
	fmt.Fprintf(&sb, "color = %s\n", c.Background.Color)
	sb.WriteString("\n")

	sb.WriteString("[shadow]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.Shadow.Enabled)
	fmt.Fprintf(&sb, "radius = %d\n", c.Shadow.Radius)
	fmt.Fprintf(&sb, "opacity = %v\n", c.Shadow.Opacity)
	fmt.Fprintf(&sb, "offset = %d,%d\n", c.Shadow.OffsetX, c.Shadow.OffsetY)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, f.Hex())
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
