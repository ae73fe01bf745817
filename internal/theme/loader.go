package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports a theme name that no source provides.
var ErrNotFound = errors.New("theme not found")

// Loader resolves theme names. Dirs are searched in order before the themes
// compiled into the binary, so a user file can replace a shipped theme.
type Loader struct {
	Dirs []string
}

// NewLoader searches the per-user wallsmith themes directory, then the
// system one.
func NewLoader() *Loader {
	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "wallsmith", "themes"))
	}
	return &Loader{Dirs: append(dirs, "/usr/share/wallsmith/themes")}
}

// Load returns the theme called name. A name that is an existing file is
// parsed directly; otherwise "<name>.theme" is looked up in Dirs and then
// among the embedded themes. An empty name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}

	file := name
	if !strings.HasSuffix(file, ".theme") {
		file += ".theme"
	}
	sources := make([]fs.FS, 0, len(l.Dirs)+1)
	for _, dir := range l.Dirs {
		sources = append(sources, os.DirFS(dir))
	}
	if shipped, err := fs.Sub(EmbeddedThemes, "defaults"); err == nil {
		sources = append(sources, shipped)
	}
	for _, src := range sources {
		th, err := parseFile(src, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return th, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	th, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return th, nil
}
