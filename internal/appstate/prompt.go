package appstate

import (
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// promptKind selects what a submitted prompt changes.
type promptKind int

const (
	promptSize promptKind = iota
	promptHex
	promptRGB
)

// promptResult is what a key press did to an open prompt.
type promptResult int

const (
	promptEditing promptResult = iota
	promptApply
	promptCancel
)

// prompt is the single-line text field shown in place of the shortcut bar.
type prompt struct {
	kind   promptKind
	action string
	label  string
	text   string
}

// key edits the field. Only printable runes are inserted.
func (p *prompt) key(e key.Event) promptResult {
	if e.Direction == key.DirRelease {
		return promptEditing
	}
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return promptApply
	case key.CodeEscape:
		return promptCancel
	case key.CodeDeleteBackspace:
		if r := []rune(p.text); len(r) > 0 {
			p.text = string(r[:len(r)-1])
		}
		return promptEditing
	}
	if e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		if unicode.ToLower(e.Rune) == 'u' {
			p.text = ""
		}
		return promptEditing
	}
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		p.text += string(e.Rune)
	}
	return promptEditing
}

// sizeFields splits "1920 1080", "1920x1080" or "1920,1080" into the width
// and height fields. Missing fields are empty.
func sizeFields(text string) (string, string) {
	f := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == 'x' || r == ',' || unicode.IsSpace(r)
	})
	switch len(f) {
	case 0:
		return "", ""
	case 1:
		return f[0], ""
	}
	return f[0], f[1]
}
