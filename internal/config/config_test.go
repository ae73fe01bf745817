package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/walls
log_level = debug

[canvas]
expand = true
width = 2560
dpr = 1.5
monitor = "HDMI-1"

[background]
color = #102030

[shadow]
enabled = true
offset = 4, -2

[notify]
export = true
copy = false

[theme.My_Custom_Theme]
Background = #111111
Foreground: #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" || cfg.SaveDir != "/tmp/walls" || cfg.LogLevel != "debug" {
		t.Errorf("root = %q %q %q", cfg.Theme, cfg.SaveDir, cfg.LogLevel)
	}
	wantCanvas := Canvas{Expand: true, Width: 2560, DefaultWidth: 1920, DefaultHeight: 1080, DPR: 1.5, Monitor: "HDMI-1"}
	if diff := cmp.Diff(wantCanvas, cfg.Canvas); diff != "" {
		t.Errorf("canvas mismatch (-want +got):\n%s", diff)
	}
	if cfg.Background.Color != "#102030" {
		t.Errorf("background = %q", cfg.Background.Color)
	}
	wantShadow := Shadow{Enabled: true, Radius: 24, Opacity: 0.55, OffsetX: 4, OffsetY: -2}
	if diff := cmp.Diff(wantShadow, cfg.Shadow); diff != "" {
		t.Errorf("shadow mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Notify.Export || cfg.Notify.Copy {
		t.Errorf("notify = %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["My_Custom_Theme"]
	if !ok {
		t.Fatal("Expected theme 'My_Custom_Theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Foreground.R != 0xFF {
		t.Errorf("theme colors = %+v %+v", th.Background, th.Foreground)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"[canvas]\nwidth = wide\n",
		"[notify]\nexport = maybe\n",
		"[shadow]\noffset = 3\n",
		"[theme.x]\nBackground = blue\n",
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) succeeded", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/walls

[canvas]
expand = true
default_width = 1280
default_height = 720

[background]
color = #abcdef

[shadow]
enabled = true
radius = 8
opacity = 0.3
offset = 2,3

[notify]
export = true
copy = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
MessageBackground = #00000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}
	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestLoaderSearchAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.rc")
	if err := os.WriteFile(path, []byte("theme = light\n[canvas]\ndpr = 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("WALLSMITH_THEME", "")
	t.Setenv("WALLSMITH_DPR", "")
	l := NewLoader("v1.0.0", path)
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q", got)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "light" || cfg.Canvas.DPR != 2 {
		t.Fatalf("cfg = %q %v", cfg.Theme, cfg.Canvas.DPR)
	}

	t.Setenv("WALLSMITH_THEME", "dark")
	t.Setenv("WALLSMITH_DPR", "1.25")
	cfg, err = l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" || cfg.Canvas.DPR != 1.25 {
		t.Fatalf("env not applied: %q %v", cfg.Theme, cfg.Canvas.DPR)
	}

	t.Setenv("WALLSMITH_DPR", "-1")
	if _, err := l.Load(); err == nil {
		t.Fatalf("expected error for negative WALLSMITH_DPR")
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.rc")
	cfg := New()
	cfg.SaveDir = "/srv/walls"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("saved config mismatch (-want +got):\n%s", diff)
	}
}
