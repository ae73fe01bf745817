package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/wallsmith/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recorder(n *Notifier) *[]sent {
	var got []sent
	n.send = func(title, body string, opts platform.Options) error {
		got = append(got, sent{title, body, opts})
		return nil
	}
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences(), nil)
	got := recorder(n)
	n.Export("wallpaper-1.png")
	n.Copy("")
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(*got))
	}
	var nilNotifier *Notifier
	nilNotifier.Enable(EventExport, true)
	nilNotifier.Export("x.png")
}

func TestExportUsesWrittenFileAsIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallpaper-1700000000000.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	n := New(DefaultPreferences(), nil)
	n.Enable(EventExport, true)
	got := recorder(n)
	n.Export(path)
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*got))
	}
	s := (*got)[0]
	if s.title != "Wallsmith" || s.body != "Saved wallpaper "+path || s.opts.IconPath != path {
		t.Fatalf("notification = %+v", s)
	}
}

func TestCopyDefaultsDetail(t *testing.T) {
	n := New(DefaultPreferences(), nil)
	n.Enable(EventCopy, true)
	got := recorder(n)
	n.Copy("  ")
	if len(*got) != 1 || (*got)[0].body != "Copied wallpaper to clipboard" {
		t.Fatalf("notifications = %+v", *got)
	}
}

func TestSendErrorIsLogged(t *testing.T) {
	n := New(DefaultPreferences(), nil)
	n.Enable(EventCopy, true)
	n.send = func(string, string, platform.Options) error { return errors.New("no bus") }
	n.Copy("#ff0000")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("WALLSMITH_NOTIFY_TITLE", "Walls")
	t.Setenv("WALLSMITH_NOTIFY_EXPORT_TEXT", "Wrote %s")
	t.Setenv("WALLSMITH_NOTIFY_COPY_TEXT", "")
	prefs := ApplyEnv(DefaultPreferences())
	if prefs.Title != "Walls" {
		t.Fatalf("title = %q", prefs.Title)
	}
	if prefs.Events[EventExport].Template != "Wrote %s" {
		t.Fatalf("export template = %q", prefs.Events[EventExport].Template)
	}
	if prefs.Events[EventCopy].Template != "Copied %s to clipboard" {
		t.Fatalf("copy template = %q", prefs.Events[EventCopy].Template)
	}
}
