// Package notify raises desktop notifications for finished exports and
// clipboard copies.
package notify

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/wallsmith/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when a wallpaper PNG is written to disk.
	EventExport Event = "export"
	// EventCopy fires when a wallpaper or color is copied to the clipboard.
	EventCopy Event = "copy"
)

// Events lists every event in a stable order.
var Events = []Event{EventExport, EventCopy}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Wallsmith",
		Events: map[Event]EventPreference{
			EventExport: {Template: "Saved wallpaper %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// ApplyEnv overrides prefs from WALLSMITH_NOTIFY_* variables.
func ApplyEnv(prefs Preferences) Preferences {
	if v := strings.TrimSpace(os.Getenv("WALLSMITH_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if prefs.Events == nil {
				prefs.Events = make(map[Event]EventPreference)
			}
			p := prefs.Events[event]
			p.Template = v
			prefs.Events[event] = p
		}
	}
	apply("WALLSMITH_NOTIFY_EXPORT_TEXT", EventExport)
	apply("WALLSMITH_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// Notifier sends OS-level notifications based on the configured preferences.
// A nil Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	// send is platform.Notify outside tests.
	send func(title, body string, opts platform.Options) error
	log  *slog.Logger
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences, logger *slog.Logger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify, log: logger}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event is switched on.
func (n *Notifier) Enabled(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

// Export announces a written wallpaper, using the file itself as the icon.
func (n *Notifier) Export(path string) {
	if !n.Enabled(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "wallpaper"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	send := n.send
	if send == nil {
		send = platform.Notify
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		n.logger().Warn("notification failed", "event", event, "err", err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func (n *Notifier) logger() *slog.Logger {
	if n.log != nil {
		return n.log
	}
	return slog.Default()
}
