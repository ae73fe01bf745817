package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/wallsmith/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentSection = strings.ToLower(raw)
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := raw[len("theme."):]
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		key, value, ok := splitLine(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "background":
			if strings.EqualFold(key, "color") {
				cfg.Background.Color = value
			}
		case currentSection == "shadow":
			err = setShadowField(&cfg.Shadow, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

// splitLine parses "key = value" or "key: value", dropping surrounding quotes.
// An equals sign takes precedence so color values may contain ':'.
func splitLine(line string) (string, string, bool) {
	var parts []string
	if strings.Contains(line, "=") {
		parts = strings.SplitN(line, "=", 2)
	} else if strings.Contains(line, ":") {
		parts = strings.SplitN(line, ":", 2)
	} else {
		return "", "", false
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "log_level":
		cfg.LogLevel = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "expand":
		c.Expand, err = parseBool(key, value)
	case "width":
		c.Width, err = parseInt(key, value)
	case "height":
		c.Height, err = parseInt(key, value)
	case "default_width":
		c.DefaultWidth, err = parseInt(key, value)
	case "default_height":
		c.DefaultHeight, err = parseInt(key, value)
	case "dpr":
		c.DPR, err = parseFloat(key, value)
	case "monitor":
		c.Monitor = value
	}
	return err
}

func setShadowField(s *Shadow, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "enabled":
		s.Enabled, err = parseBool(key, value)
	case "radius":
		s.Radius, err = parseInt(key, value)
	case "opacity":
		s.Opacity, err = parseFloat(key, value)
	case "offset":
		x, y, ok := strings.Cut(value, ",")
		if !ok {
			return fmt.Errorf("invalid offset %q, want x,y", value)
		}
		if s.OffsetX, err = parseInt(key, strings.TrimSpace(x)); err != nil {
			return err
		}
		s.OffsetY, err = parseInt(key, strings.TrimSpace(y))
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}
