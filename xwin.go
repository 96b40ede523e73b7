package xwin

import (
	"image"
	"image/color"

	gofont "github.com/go-text/typesetting/font"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
)

// ErrNoBackend is returned by Open when no windowing system is available.
var ErrNoBackend = errors.New("xwin: no supported windowing backend")

// KeyEvent is a key press or release. Code is the backend's key code.
type KeyEvent struct {
	Code      int
	Press     bool
	Modifiers uint
}

// PointerEvent is a button press or release, or pointer motion when Button
// is 0.
type PointerEvent struct {
	Pos    image.Point
	Button int
	Press  bool
}

// Window is a top-level window. Handlers run on the goroutine that calls
// Run.
type Window interface {
	Show() error
	Hide() error
	SetTitle(title string) error
	Bounds() (image.Rectangle, error)
	SetBounds(r image.Rectangle) error

	// Canvas returns a drawing surface for the window's contents.
	Canvas() (Canvas, error)

	// Fonts lists the font families matching pattern. The pattern syntax
	// is backend specific; "" lists everything usable.
	Fonts(pattern string) ([]FontFamily, error)

	OnKey(fn func(KeyEvent))
	OnPointer(fn func(PointerEvent))
	OnResize(fn func(size image.Point))
	OnDraw(fn func(area image.Rectangle))
	OnClose(fn func())

	// Run processes events until the window is closed.
	Run() error
	Close() error
}

// Canvas draws with a current color, line width and font.
type Canvas interface {
	SetColor(col color.Color) error
	SetBackground(col color.Color) error
	SetLineWidth(width int) error
	SetFont(f Font) error

	Line(pts ...image.Point) error
	Rect(r image.Rectangle) error
	FillRect(r image.Rectangle) error
	Arc(r image.Rectangle, start, extent float64) error
	FillArc(r image.Rectangle, start, extent float64) error
	Polygon(pts ...image.Point) error
	DrawImage(img image.Image, at image.Point) error
	DrawImageScaled(img image.Image, dst image.Rectangle) error
	Text(s string, at image.Point) error

	Close() error
}

// FontFamily is a set of faces sharing a design.
type FontFamily interface {
	Name() string
	Scalable() bool
	// Sizes lists the pixel sizes of a bitmap family.
	Sizes() []int
	Select(size int, weight gofont.Weight, style gofont.Style) (Font, error)
}

// Font is a face of a family at one size.
type Font interface {
	Metrics() (font.Metrics, error)
	// Measure returns the advance width of s in pixels.
	Measure(s string) (int, error)
	Close() error
}

type backend struct {
	name      string
	supported func() bool
	open      func(title string, bounds image.Rectangle) (Window, error)
}

// backends are probed in order.
var backends = []backend{
	{"x11", x11Supported, openX11},
	{"win32", win32Supported, openWin32},
}

// Open creates a window with the first supported backend.
func Open(title string, bounds image.Rectangle) (Window, error) {
	for _, b := range backends {
		if !b.supported() {
			continue
		}
		w, err := b.open(title, bounds)
		if err != nil {
			return nil, errors.Wrapf(err, "xwin: %s backend", b.name)
		}
		return w, nil
	}
	return nil, ErrNoBackend
}

// Backend returns the name of the backend Open would use, or "".
func Backend() string {
	for _, b := range backends {
		if b.supported() {
			return b.name
		}
	}
	return ""
}

func win32Supported() bool { return false }

func openWin32(string, image.Rectangle) (Window, error) {
	return nil, errors.New("xwin: win32 backend is not implemented")
}
