package x11

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// DrawingContext draws on a window or an off-screen bitmap through a
// graphics context it owns. Colors are converted to pixels of the default
// screen's root visual.
type DrawingContext struct {
	c        *Conn
	drawable Drawable
	gc       GContext
	depth    byte
	visual   VisualType
	bitmap   bool
	size     image.Point

	fg, bg uint32
	face   *Face
}

// NewDrawingContext prepares drawing on w. The default colors are white on
// black.
func NewDrawingContext(w *AppWindow) (*DrawingContext, error) {
	return newDrawingContext(w.c, w.ID.Drawable(), false, image.Point{})
}

// NewBitmap creates an off-screen pixmap of the given size on the screen of
// drawable and a context for drawing on it. Copy it to a window with
// CopyFrom.
func NewBitmap(c *Conn, drawable Drawable, width, height int) (*DrawingContext, error) {
	if width <= 0 || height <= 0 || width > 0xffff || height > 0xffff {
		return nil, errors.Errorf("x11: invalid bitmap size %dx%d", width, height)
	}
	pid, err := c.NewPixmapID()
	if err != nil {
		return nil, err
	}
	if err := c.CreatePixmap(c.DefaultScreen().RootDepth, pid, drawable, uint16(width), uint16(height)); err != nil {
		c.ReleaseID(uint32(pid))
		return nil, err
	}
	dc, err := newDrawingContext(c, pid.Drawable(), true, image.Pt(width, height))
	if err != nil {
		c.FreePixmap(pid)
		c.ReleaseID(uint32(pid))
		return nil, err
	}
	return dc, nil
}

func newDrawingContext(c *Conn, d Drawable, bitmap bool, size image.Point) (*DrawingContext, error) {
	scr := c.DefaultScreen()
	dc := &DrawingContext{
		c:        c,
		drawable: d,
		depth:    scr.RootDepth,
		bitmap:   bitmap,
		size:     size,
		fg:       scr.WhitePixel,
		bg:       scr.BlackPixel,
	}
	dc.visual, _ = scr.Visual(scr.RootVisual)
	gc, err := c.NewGContextID()
	if err != nil {
		return nil, err
	}
	err = c.CreateGC(gc, d, GCValues{
		Foreground:        Some(dc.fg),
		Background:        Some(dc.bg),
		GraphicsExposures: Some(false),
	})
	if err != nil {
		c.ReleaseID(uint32(gc))
		return nil, err
	}
	dc.gc = gc
	return dc, nil
}

func (dc *DrawingContext) Drawable() Drawable { return dc.drawable }

func (dc *DrawingContext) GContext() GContext { return dc.gc }

// Size is the size of a bitmap, or zero for a window.
func (dc *DrawingContext) Size() image.Point { return dc.size }

// SetColor sets the color used by lines, fills and text.
func (dc *DrawingContext) SetColor(col color.Color) error {
	p := pixelOf(dc.visual, col)
	if p == dc.fg {
		return nil
	}
	if err := dc.c.ChangeGC(dc.gc, GCValues{Foreground: Some(p)}); err != nil {
		return err
	}
	dc.fg = p
	return nil
}

// SetBackground sets the color behind ImageText and dashed lines.
func (dc *DrawingContext) SetBackground(col color.Color) error {
	p := pixelOf(dc.visual, col)
	if p == dc.bg {
		return nil
	}
	if err := dc.c.ChangeGC(dc.gc, GCValues{Background: Some(p)}); err != nil {
		return err
	}
	dc.bg = p
	return nil
}

// SetLineWidth sets the width of lines and outlines. Zero selects the
// server's fast one-pixel lines.
func (dc *DrawingContext) SetLineWidth(width int) error {
	return dc.c.ChangeGC(dc.gc, GCValues{LineWidth: Some(uint16(width))})
}

func (dc *DrawingContext) SetLineStyle(style LineStyle) error {
	return dc.c.ChangeGC(dc.gc, GCValues{LineStyle: Some(style)})
}

// SetFont selects the face used by Text and ImageText, opening it if needed.
func (dc *DrawingContext) SetFont(face *Face) error {
	fid, err := face.Font()
	if err != nil {
		return err
	}
	if err := dc.c.ChangeGC(dc.gc, GCValues{Font: Some(fid)}); err != nil {
		return err
	}
	dc.face = face
	return nil
}

func toPoints(pts []image.Point) []Point {
	xp := make([]Point, len(pts))
	for i, p := range pts {
		xp[i] = Point{int16(p.X), int16(p.Y)}
	}
	return xp
}

func toRectangle(r image.Rectangle) Rectangle {
	return Rectangle{int16(r.Min.X), int16(r.Min.Y), uint16(r.Dx()), uint16(r.Dy())}
}

// Line draws a polyline through pts.
func (dc *DrawingContext) Line(pts ...image.Point) error {
	if len(pts) < 2 {
		return nil
	}
	return dc.c.PolyLine(CoordModeOrigin, dc.drawable, dc.gc, toPoints(pts))
}

// Rect outlines r. The outline stays inside r.
func (dc *DrawingContext) Rect(r image.Rectangle) error {
	if r.Empty() {
		return nil
	}
	xr := toRectangle(r)
	xr.Width--
	xr.Height--
	return dc.c.PolyRectangle(dc.drawable, dc.gc, []Rectangle{xr})
}

func (dc *DrawingContext) FillRect(r image.Rectangle) error {
	if r.Empty() {
		return nil
	}
	return dc.c.PolyFillRectangle(dc.drawable, dc.gc, []Rectangle{toRectangle(r)})
}

// arc converts an ellipse bounded by r and an angle range in degrees,
// counterclockwise from three o'clock.
func arc(r image.Rectangle, start, extent float64) Arc {
	return Arc{
		X:      int16(r.Min.X),
		Y:      int16(r.Min.Y),
		Width:  uint16(r.Dx()),
		Height: uint16(r.Dy()),
		Angle1: int16(start * 64),
		Angle2: int16(extent * 64),
	}
}

// Arc outlines part of the ellipse bounded by r.
func (dc *DrawingContext) Arc(r image.Rectangle, start, extent float64) error {
	return dc.c.PolyArc(dc.drawable, dc.gc, []Arc{arc(r, start, extent)})
}

// FillArc fills a pie slice of the ellipse bounded by r.
func (dc *DrawingContext) FillArc(r image.Rectangle, start, extent float64) error {
	return dc.c.PolyFillArc(dc.drawable, dc.gc, []Arc{arc(r, start, extent)})
}

// Polygon fills the polygon with vertices pts, which may self-intersect.
func (dc *DrawingContext) Polygon(pts ...image.Point) error {
	if len(pts) < 3 {
		return nil
	}
	return dc.c.FillPoly(dc.drawable, dc.gc, PolyShapeComplex, CoordModeOrigin, toPoints(pts))
}

// CopyFrom copies the area sr of src to dp.
func (dc *DrawingContext) CopyFrom(src *DrawingContext, sr image.Rectangle, dp image.Point) error {
	return dc.c.CopyArea(src.drawable, dc.drawable, dc.gc, int16(sr.Min.X), int16(sr.Min.Y),
		int16(dp.X), int16(dp.Y), uint16(sr.Dx()), uint16(sr.Dy()))
}

// CopyPlaneFrom copies one bit plane of the area sr of src to dp, using the
// foreground color for set bits and the background color for clear ones.
func (dc *DrawingContext) CopyPlaneFrom(src *DrawingContext, sr image.Rectangle, dp image.Point, plane uint32) error {
	return dc.c.CopyPlane(src.drawable, dc.drawable, dc.gc, int16(sr.Min.X), int16(sr.Min.Y),
		int16(dp.X), int16(dp.Y), uint16(sr.Dx()), uint16(sr.Dy()), plane)
}

// Text draws s with its baseline starting at at.
func (dc *DrawingContext) Text(s string, at image.Point) error {
	if s == "" {
		return nil
	}
	return dc.c.PolyText16(dc.drawable, dc.gc, int16(at.X), int16(at.Y), EncodeChar2b(s))
}

// Text8 draws s as Latin-1, for fonts that only cover that charset.
func (dc *DrawingContext) Text8(s string, at image.Point) error {
	if s == "" {
		return nil
	}
	return dc.c.PolyText8(dc.drawable, dc.gc, int16(at.X), int16(at.Y), EncodeLatin1(s))
}

// ImageText draws s over a box filled with the background color. Text
// longer than one request is drawn in pieces, each starting where the
// previous one ended. It requires a font set with SetFont.
func (dc *DrawingContext) ImageText(s string, at image.Point) error {
	if dc.face == nil {
		return errors.New("x11: ImageText without a font")
	}
	text := EncodeChar2b(s)
	x := at.X
	for len(text) > 0 {
		n := len(text)
		if n > 2*maxTextItem {
			n = 2 * maxTextItem
		}
		chunk := text[:n]
		text = text[n:]
		if err := dc.c.ImageText16(dc.drawable, dc.gc, int16(x), int16(at.Y), chunk); err != nil {
			return err
		}
		if len(text) == 0 {
			break
		}
		fid, err := dc.face.Font()
		if err != nil {
			return err
		}
		r, err := dc.c.QueryTextExtents(fid, chunk)
		if err != nil {
			return err
		}
		x += int(r.OverallWidth)
	}
	return nil
}

// TextWidth measures s in the current font.
func (dc *DrawingContext) TextWidth(s string) (int, error) {
	if dc.face == nil {
		return 0, errors.New("x11: no font set")
	}
	if s == "" {
		return 0, nil
	}
	w, _, _, err := dc.face.Measure(s)
	return w, err
}

// Close frees the graphics context and, for bitmaps, the pixmap.
func (dc *DrawingContext) Close() error {
	if dc.gc == None {
		return nil
	}
	if err := dc.c.FreeGC(dc.gc); err != nil {
		return err
	}
	dc.c.ReleaseID(uint32(dc.gc))
	dc.gc = None
	if dc.bitmap {
		if err := dc.c.FreePixmap(Pixmap(dc.drawable)); err != nil {
			return err
		}
		dc.c.ReleaseID(uint32(dc.drawable))
		dc.drawable = None
	}
	return nil
}
