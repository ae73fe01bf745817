//go:build linux || freebsd || openbsd || netbsd || dragonfly

package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/example/wallsmith/internal/palette"
)

const (
	portalDest = "org.freedesktop.portal.Desktop"
	portalPath = "/org/freedesktop/portal/desktop"
)

var portalHandleToken = newPortalHandleToken

func newPortalHandleToken() string {
	return fmt.Sprintf("wallsmith_%d", time.Now().UnixNano())
}

// PickColor asks the screenshot portal for a color picked anywhere on screen.
func PickColor(ctx context.Context) (palette.RGB, error) {
	res, err := portalRequest(ctx, "org.freedesktop.portal.Screenshot.PickColor", "", pickColorOptions())
	if err != nil {
		return palette.RGB{}, err
	}
	return parseColor(res)
}

// OpenFile shows the portal file chooser filtered to images and returns the
// local path of the chosen file.
func OpenFile(ctx context.Context, title string) (string, error) {
	res, err := portalRequest(ctx, "org.freedesktop.portal.FileChooser.OpenFile", "", title, openFileOptions())
	if err != nil {
		return "", err
	}
	return parseURIs(res)
}

func pickColorOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(portalHandleToken()),
	}
}

type filterRule struct {
	Kind    uint32 // 0 glob, 1 mime type
	Pattern string
}

type fileFilter struct {
	Name  string
	Rules []filterRule
}

var imageFilter = fileFilter{
	Name: "Images",
	Rules: []filterRule{
		{Kind: 1, Pattern: "image/png"},
		{Kind: 1, Pattern: "image/jpeg"},
		{Kind: 1, Pattern: "image/gif"},
		{Kind: 1, Pattern: "image/bmp"},
		{Kind: 1, Pattern: "image/tiff"},
		{Kind: 1, Pattern: "image/webp"},
	},
}

func openFileOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"modal":        dbus.MakeVariant(true),
		"multiple":     dbus.MakeVariant(false),
		"filters":      dbus.MakeVariant([]fileFilter{imageFilter}),
	}
}

// portalRequest calls a portal method returning a Request handle and waits
// for its Response signal.
func portalRequest(ctx context.Context, method string, args ...interface{}) (map[string]dbus.Variant, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: dbus connect: %v", ErrUnavailable, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			slog.Debug("dbus close", "err", cerr)
		}
	}()

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)

	obj := conn.Object(portalDest, dbus.ObjectPath(portalPath))
	call := obj.CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, method, call.Err)
	}
	var handle dbus.ObjectPath
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("%s response: %w", method, err)
	}

	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("%s subscribe: %w", method, err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			closeRequest(conn, handle)
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, fmt.Errorf("%s: bus closed before response", method)
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			return parseResponse(sig.Body)
		}
	}
}

func closeRequest(conn *dbus.Conn, handle dbus.ObjectPath) {
	if err := conn.Object(portalDest, handle).Call("org.freedesktop.portal.Request.Close", 0).Err; err != nil {
		slog.Debug("close portal request", "handle", handle, "err", err)
	}
}

// parseResponse decodes the (ua{sv}) body of a Response signal. Code 0 is
// success, 1 means the user cancelled.
func parseResponse(body []interface{}) (map[string]dbus.Variant, error) {
	if len(body) < 2 {
		return nil, fmt.Errorf("portal response: malformed body")
	}
	code, ok := body[0].(uint32)
	if !ok {
		return nil, fmt.Errorf("portal response: code is %T", body[0])
	}
	switch code {
	case 0:
	case 1:
		return nil, ErrCancelled
	default:
		return nil, fmt.Errorf("portal response: request failed with code %d", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("portal response: results are %T", body[1])
	}
	return res, nil
}

// parseColor reads the (ddd) color result, each channel in [0,1].
func parseColor(res map[string]dbus.Variant) (palette.RGB, error) {
	v, ok := res["color"]
	if !ok {
		return palette.RGB{}, fmt.Errorf("pick color: response missing color")
	}
	var rgb [3]float64
	switch c := v.Value().(type) {
	case []interface{}:
		if len(c) != 3 {
			return palette.RGB{}, fmt.Errorf("pick color: %d components", len(c))
		}
		for i, x := range c {
			f, ok := x.(float64)
			if !ok {
				return palette.RGB{}, fmt.Errorf("pick color: component is %T", x)
			}
			rgb[i] = f
		}
	case []float64:
		if len(c) != 3 {
			return palette.RGB{}, fmt.Errorf("pick color: %d components", len(c))
		}
		copy(rgb[:], c)
	default:
		return palette.RGB{}, fmt.Errorf("pick color: color is %T", c)
	}
	return palette.RGB{R: unit(rgb[0]), G: unit(rgb[1]), B: unit(rgb[2])}, nil
}

func unit(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

func parseURIs(res map[string]dbus.Variant) (string, error) {
	v, ok := res["uris"]
	if !ok {
		return "", fmt.Errorf("open file: response missing uris")
	}
	uris, ok := v.Value().([]string)
	if !ok || len(uris) == 0 {
		return "", fmt.Errorf("open file: no file chosen")
	}
	u, err := url.Parse(uris[0])
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", fmt.Errorf("open file: unsupported uri %q", uris[0])
	}
	if u.Path == "" {
		return strings.TrimPrefix(uris[0], "file://"), nil
	}
	return u.Path, nil
}
