package palette

import "context"

// Background is the authoritative background color. The hex field, the RGB
// field and the picker value are projections of one canonical RGB value and
// are recomputed on every edit.
type Background struct {
	c RGB
}

// NewBackground returns a background set to c.
func NewBackground(c RGB) *Background { return &Background{c: c} }

// Color returns the canonical value.
func (b *Background) Color() RGB { return b.c }

// Hex is the hex field projection, "#rrggbb".
func (b *Background) Hex() string { return b.c.Hex() }

// CSV is the RGB field projection, "r,g,b".
func (b *Background) CSV() string { return b.c.CSV() }

// Picker is the native picker projection. Pickers use the same lowercase
// "#rrggbb" form as the hex field.
func (b *Background) Picker() string { return b.c.Hex() }

// Set replaces the color.
func (b *Background) Set(c RGB) { b.c = c }

// SetHex parses s as a hex color. On error the color is unchanged.
func (b *Background) SetHex(s string) error {
	c, err := ParseHex(s)
	if err != nil {
		return err
	}
	b.c = c
	return nil
}

// SetRGB parses s as an "r,g,b" triple. On error the color is unchanged.
func (b *Background) SetRGB(s string) error {
	c, err := ParseRGB(s)
	if err != nil {
		return err
	}
	b.c = c
	return nil
}

// SetPicker applies a value from a color picker.
func (b *Background) SetPicker(s string) error { return b.SetHex(s) }

// Picker samples a color from anywhere on screen.
type Picker interface {
	// Pick blocks until the user picks a color. It returns ErrCancelled
	// when the user dismisses the picker and ErrUnsupported when the
	// desktop offers no picker.
	Pick(ctx context.Context) (RGB, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context) (RGB, error)

// Pick calls f.
func (f PickerFunc) Pick(ctx context.Context) (RGB, error) { return f(ctx) }
