package xwin

import (
	"image"

	gofont "github.com/go-text/typesetting/font"
	"github.com/pkg/errors"
	"golang.org/x/image/font"

	"github.com/BurntSushi/xwin/x11"
)

func x11Supported() bool {
	_, err := x11.ParseDisplay("")
	return err == nil
}

func openX11(title string, bounds image.Rectangle) (Window, error) {
	c, err := x11.NewConn()
	if err != nil {
		return nil, err
	}
	w, err := x11.NewWindow(c, title, bounds)
	if err != nil {
		c.Close()
		return nil, err
	}
	return &x11Window{c: c, w: w}, nil
}

type x11Window struct {
	c *x11.Conn
	w *x11.AppWindow
}

func (xw *x11Window) Show() error                       { return xw.w.Show() }
func (xw *x11Window) Hide() error                       { return xw.w.Hide() }
func (xw *x11Window) SetTitle(title string) error       { return xw.w.SetTitle(title) }
func (xw *x11Window) Bounds() (image.Rectangle, error)  { return xw.w.Bounds() }
func (xw *x11Window) SetBounds(r image.Rectangle) error { return xw.w.SetBounds(r) }
func (xw *x11Window) Run() error                        { return xw.w.Run() }

func (xw *x11Window) Canvas() (Canvas, error) {
	dc, err := x11.NewDrawingContext(xw.w)
	if err != nil {
		return nil, err
	}
	return x11Canvas{dc}, nil
}

func (xw *x11Window) Fonts(pattern string) ([]FontFamily, error) {
	fams, err := xw.c.FontFamilies(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]FontFamily, len(fams))
	for i, f := range fams {
		out[i] = x11Family{f}
	}
	return out, nil
}

func (xw *x11Window) OnKey(fn func(KeyEvent)) {
	xw.w.OnKey(func(ev x11.KeyEvent) {
		fn(KeyEvent{Code: int(ev.Detail), Press: ev.Press, Modifiers: uint(ev.State)})
	})
}

func (xw *x11Window) OnPointer(fn func(PointerEvent)) {
	xw.w.OnButton(func(ev x11.ButtonEvent) {
		fn(PointerEvent{Pos: image.Pt(int(ev.EventX), int(ev.EventY)), Button: int(ev.Detail), Press: ev.Press})
	})
	xw.w.OnMotion(func(ev x11.MotionNotifyEvent) {
		fn(PointerEvent{Pos: image.Pt(int(ev.EventX), int(ev.EventY))})
	})
}

func (xw *x11Window) OnResize(fn func(image.Point))   { xw.w.OnResize(fn) }
func (xw *x11Window) OnDraw(fn func(image.Rectangle)) { xw.w.OnDraw(fn) }
func (xw *x11Window) OnClose(fn func())               { xw.w.OnClose(fn) }

func (xw *x11Window) Close() error {
	err := xw.w.Destroy()
	if cerr := xw.c.Close(); err == nil {
		err = cerr
	}
	return err
}

// x11Canvas adapts a DrawingContext; only SetFont needs translating.
type x11Canvas struct {
	*x11.DrawingContext
}

func (cv x11Canvas) SetFont(f Font) error {
	xf, ok := f.(x11Font)
	if !ok {
		return errors.Errorf("xwin: font %T does not belong to the x11 backend", f)
	}
	return cv.DrawingContext.SetFont(xf.face)
}

type x11Family struct {
	f *x11.FontFamily
}

func (xf x11Family) Name() string   { return xf.f.Name }
func (xf x11Family) Scalable() bool { return xf.f.Scalable() }
func (xf x11Family) Sizes() []int   { return xf.f.Sizes() }

func (xf x11Family) Select(size int, weight gofont.Weight, style gofont.Style) (Font, error) {
	face, err := xf.f.Select(size, weight, style)
	if err != nil {
		return nil, err
	}
	return x11Font{face}, nil
}

type x11Font struct {
	face *x11.Face
}

func (f x11Font) Metrics() (font.Metrics, error) { return f.face.Metrics() }
func (f x11Font) Close() error                   { return f.face.Close() }

func (f x11Font) Measure(s string) (int, error) {
	w, _, _, err := f.face.Measure(s)
	return w, err
}
