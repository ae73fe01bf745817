//go:build linux || freebsd || openbsd || netbsd || dragonfly

package desktop

import (
	"fmt"
	"image"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

type x11Backend struct{}

func newBackend() platformBackend {
	return x11Backend{}
}

func (x11Backend) Monitors() ([]Monitor, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}

	monitors, err := fetchMonitors(conn, screen.Root)
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		// no RandR outputs, e.g. Xvfb: fall back to the root window size
		monitors = append(monitors, Monitor{
			Name:    "screen",
			Rect:    image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels)),
			Primary: true,
		})
	}
	return monitors, nil
}

func fetchMonitors(conn *xgb.Conn, root xproto.Window) ([]Monitor, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	primaryOutput := randr.Output(0)
	if primary, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primaryOutput = primary.Output
	}
	monitors := make([]Monitor, 0, len(res.Outputs))
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		monitors = append(monitors, Monitor{
			Index: len(monitors),
			Name:  strings.TrimSpace(string(info.Name)),
			Rect: image.Rect(
				int(crtc.X),
				int(crtc.Y),
				int(crtc.X)+int(crtc.Width),
				int(crtc.Y)+int(crtc.Height),
			),
			Primary: output == primaryOutput,
		})
	}
	return monitors, nil
}
