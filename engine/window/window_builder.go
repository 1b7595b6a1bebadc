package window

// BuilderOption is a functional option used to configure a Window during construction.
type BuilderOption func(*window)

// WithTitle sets the window title.
//
// Parameters:
//   - title: the title text
//
// Returns:
//   - BuilderOption: a function that sets the title for this window
func WithTitle(title string) BuilderOption {
	return func(w *window) {
		w.title = title
	}
}

// WithSize sets the requested window size. The actual framebuffer size may
// differ on high-DPI displays.
//
// Parameters:
//   - width: requested width in pixels
//   - height: requested height in pixels
//
// Returns:
//   - BuilderOption: a function that sets the size for this window
func WithSize(width, height int) BuilderOption {
	return func(w *window) {
		w.width = width
		w.height = height
	}
}
