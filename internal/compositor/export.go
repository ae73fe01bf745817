package compositor

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"
)

// Filename is the export name for a wallpaper written at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("wallpaper-%d.png", t.UnixMilli())
}

// encodePNG writes img as PNG through a gg context.
func encodePNG(w io.Writer, img image.Image) error {
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	return dc.EncodePNG(w)
}

// Render draws the wallpaper as exported: snapped, without guides.
func (s *Session) Render() (*image.RGBA, error) {
	if s.img == nil {
		return nil, ErrNoImage
	}
	return s.Frame(false).Image, nil
}

// Export writes the wallpaper to dir and returns its path. An empty dir is
// the working directory. Nothing is written without an image.
func (s *Session) Export(dir string) (string, error) {
	img, err := s.Render()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, Filename(s.now()))
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	s.log.Info("wallpaper exported", "path", path, "size", s.size)
	s.notifier.Export(path)
	return path, nil
}

// ExportTo writes the wallpaper to w.
func (s *Session) ExportTo(w io.Writer) error {
	img, err := s.Render()
	if err != nil {
		return err
	}
	return encodePNG(w, img)
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	if err := encodePNG(f, img); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}

// CopyToClipboard puts the exported wallpaper on the clipboard as PNG.
func (s *Session) CopyToClipboard() error {
	var buf bytes.Buffer
	if err := s.ExportTo(&buf); err != nil {
		return err
	}
	if err := s.writeClipboard(buf.Bytes()); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	s.notifier.Copy("wallpaper")
	return nil
}
