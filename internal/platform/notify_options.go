package platform

import "time"

// AppName identifies the application to the notification center.
const AppName = "Wallsmith"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image shown with the
	// notification. Exports pass the written wallpaper itself.
	IconPath string
	// Timeout is how long the notification stays up. Zero uses DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
