package theme

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Mine\n// comment\nbuttontext: #102030\nIndicatorBackground: #00000080\nUnknown: #FFFFFF\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Mine" {
		t.Fatalf("Name = %q", th.Name)
	}
	if th.ButtonText != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Fatalf("ButtonText = %+v", th.ButtonText)
	}
	if th.IndicatorBackground.A != 0x80 {
		t.Fatalf("IndicatorBackground = %+v", th.IndicatorBackground)
	}
	if th.Background != Default().Background {
		t.Fatalf("unset field lost its default")
	}
	if _, err := Parse(strings.NewReader("Foreground: red\n")); err == nil {
		t.Fatalf("expected error for non-hex color")
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	names := Names()
	if len(names) < 2 {
		t.Fatalf("embedded themes = %v", names)
	}
	l := &Loader{Dirs: []string{t.TempDir(), filepath.Join(t.TempDir(), "missing")}}
	for _, name := range names {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name == "" || th.Name == "Default" {
			t.Fatalf("theme %q has name %q", name, th.Name)
		}
	}
	if _, err := l.Load("no-such-theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown theme error = %v", err)
	}
}

func TestUserThemeOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dark.theme"), []byte("Name: My Dark\nBackground: #010203\n"), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	l := &Loader{Dirs: []string{dir}}
	th, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name != "My Dark" || th.Background != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("theme = %q %+v", th.Name, th.Background)
	}

	th, err = l.Load(filepath.Join(dir, "dark.theme"))
	if err != nil || th.Name != "My Dark" {
		t.Fatalf("Load by path = %+v, %v", th, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.theme"), []byte("Background: red\n"), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	if _, err := l.Load("broken"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("broken theme error = %v", err)
	}
}

func TestFieldsHex(t *testing.T) {
	th := Default()
	fields := th.Fields()
	if fields[0].Name != "Background" || fields[0].Hex() != "#C8C8C8" {
		t.Fatalf("first field = %+v %s", fields[0], fields[0].Hex())
	}
	for _, f := range fields {
		if f.Name == "MessageBackground" && f.Hex() != "#000000C8" {
			t.Fatalf("MessageBackground hex = %s", f.Hex())
		}
	}
}
