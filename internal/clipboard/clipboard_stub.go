//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

func newBackend() (backend, error) { return nil, ErrUnsupported }
