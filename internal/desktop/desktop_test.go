package desktop

import (
	"errors"
	"image"
	"testing"

	"github.com/example/wallsmith/internal/canvas"
)

type fakeBackend struct {
	monitors []Monitor
	err      error
}

func (f fakeBackend) Monitors() ([]Monitor, error) { return f.monitors, f.err }

func useBackend(t *testing.T, b platformBackend) {
	t.Helper()
	prev := backend
	backend = b
	t.Cleanup(func() { backend = prev })
}

var layout = []Monitor{
	{Index: 0, Name: "HDMI-1", Rect: image.Rect(0, 0, 1280, 1024)},
	{Index: 1, Name: "eDP-1", Rect: image.Rect(1280, 0, 4160, 1800), Primary: true},
}

func TestFindMonitor(t *testing.T) {
	tests := []struct {
		selector string
		want     string
		wantErr  bool
	}{
		{selector: "", want: "eDP-1"},
		{selector: "primary", want: "eDP-1"},
		{selector: "0", want: "HDMI-1"},
		{selector: "#1", want: "eDP-1"},
		{selector: "hdmi", want: "HDMI-1"},
		{selector: "5", wantErr: true},
		{selector: "DP-9", wantErr: true},
	}
	for _, tc := range tests {
		got, err := FindMonitor(layout, tc.selector)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("FindMonitor(%q) = %v, want error", tc.selector, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("FindMonitor(%q): %v", tc.selector, err)
		}
		if got.Name != tc.want {
			t.Fatalf("FindMonitor(%q) = %s, want %s", tc.selector, got.Name, tc.want)
		}
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, ErrNoMonitors) {
		t.Fatalf("expected ErrNoMonitors, got %v", err)
	}
}

func TestResolution(t *testing.T) {
	useBackend(t, fakeBackend{monitors: layout})
	got, err := Resolution("primary", 2)
	if err != nil {
		t.Fatalf("Resolution: %v", err)
	}
	if want := (canvas.Resolution{Width: 1440, Height: 900, Scale: 2}); got != want {
		t.Fatalf("Resolution = %+v, want %+v", got, want)
	}
	w, h := got.Device()
	if w != 2880 || h != 1800 {
		t.Fatalf("Device = %vx%v", w, h)
	}

	got, err = Detector("0", 0).Resolution()
	if err != nil {
		t.Fatalf("Detector: %v", err)
	}
	if want := (canvas.Resolution{Width: 1280, Height: 1024, Scale: 1}); got != want {
		t.Fatalf("Detector = %+v, want %+v", got, want)
	}
}

func TestResolutionBackendError(t *testing.T) {
	boom := errors.New("no X server")
	useBackend(t, fakeBackend{err: boom})
	if _, err := Resolution("", 1); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
