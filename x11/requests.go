package x11

import "github.com/pkg/errors"

// Core protocol opcodes of the requests this package speaks.
const (
	opCreateWindow           = 1
	opChangeWindowAttributes = 2
	opGetWindowAttributes    = 3
	opDestroyWindow          = 4
	opMapWindow              = 8
	opUnmapWindow            = 10
	opConfigureWindow        = 12
	opGetGeometry            = 14
	opQueryTree              = 15
	opInternAtom             = 16
	opGetAtomName            = 17
	opChangeProperty         = 18
	opDeleteProperty         = 19
	opGetProperty            = 20
	opSendEvent              = 25
	opGetInputFocus          = 43
	opOpenFont               = 45
	opCloseFont              = 46
	opQueryTextExtents       = 48
	opListFonts              = 49
	opCreatePixmap           = 53
	opFreePixmap             = 54
	opCreateGC               = 55
	opChangeGC               = 56
	opFreeGC                 = 60
	opClearArea              = 61
	opCopyArea               = 62
	opCopyPlane              = 63
	opPolyLine               = 65
	opPolyRectangle          = 67
	opPolyArc                = 68
	opFillPoly               = 69
	opPolyFillRectangle      = 70
	opPolyFillArc            = 71
	opPutImage               = 72
	opPolyText8              = 74
	opPolyText16             = 75
	opImageText8             = 76
	opImageText16            = 77
)

// resourceRequest is the shape shared by every request whose only field is
// one resource ID.
type resourceRequest struct {
	op byte
	id uint32
}

func (r resourceRequest) opcode() byte { return r.op }

func (r resourceRequest) encode(e *encoder) {
	e.header(0)
	e.put32(r.id)
}

type createWindowRequest struct {
	depth       byte
	wid         Window
	parent      Window
	x, y        int16
	width       uint16
	height      uint16
	borderWidth uint16
	class       WindowClass
	visual      VisualID
	values      *WindowValues
}

func (createWindowRequest) opcode() byte { return opCreateWindow }

func (r createWindowRequest) encode(e *encoder) {
	e.header(r.depth)
	e.put32(uint32(r.wid))
	e.put32(uint32(r.parent))
	e.put16(uint16(r.x))
	e.put16(uint16(r.y))
	e.put16(r.width)
	e.put16(r.height)
	e.put16(r.borderWidth)
	e.put16(uint16(r.class))
	e.put32(uint32(r.visual))
	r.values.encode(e)
}

// CreateWindow creates an unmapped window with the ID wid.
func (c *Conn) CreateWindow(depth byte, wid, parent Window, x, y int16, width, height, borderWidth uint16,
	class WindowClass, visual VisualID, values WindowValues) error {
	_, err := c.send(createWindowRequest{depth, wid, parent, x, y, width, height, borderWidth, class, visual, &values})
	return err
}

type changeWindowAttributesRequest struct {
	window Window
	values *WindowValues
}

func (changeWindowAttributesRequest) opcode() byte { return opChangeWindowAttributes }

func (r changeWindowAttributesRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.window))
	r.values.encode(e)
}

func (c *Conn) ChangeWindowAttributes(window Window, values WindowValues) error {
	_, err := c.send(changeWindowAttributesRequest{window, &values})
	return err
}

func (c *Conn) DestroyWindow(window Window) error {
	_, err := c.send(resourceRequest{opDestroyWindow, uint32(window)})
	return err
}

func (c *Conn) MapWindow(window Window) error {
	_, err := c.send(resourceRequest{opMapWindow, uint32(window)})
	return err
}

func (c *Conn) UnmapWindow(window Window) error {
	_, err := c.send(resourceRequest{opUnmapWindow, uint32(window)})
	return err
}

type configureWindowRequest struct {
	window Window
	values *ConfigureValues
}

func (configureWindowRequest) opcode() byte { return opConfigureWindow }

func (r configureWindowRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.window))
	r.values.encode(e)
}

// ConfigureWindow changes the geometry or stacking of a window. Only
// present fields are sent.
func (c *Conn) ConfigureWindow(window Window, values ConfigureValues) error {
	_, err := c.send(configureWindowRequest{window, &values})
	return err
}

type changePropertyRequest struct {
	mode     PropMode
	window   Window
	property Atom
	typ      Atom
	format   byte
	data     []byte
}

func (changePropertyRequest) opcode() byte { return opChangeProperty }

func (r changePropertyRequest) encode(e *encoder) {
	e.header(byte(r.mode))
	e.put32(uint32(r.window))
	e.put32(uint32(r.property))
	e.put32(uint32(r.typ))
	e.put8(r.format)
	e.skip(3)
	e.put32(uint32(len(r.data) / int(r.format/8)))
	e.putBytes(r.data)
}

// ChangeProperty stores data, a sequence of format-bit units, in a window
// property.
func (c *Conn) ChangeProperty(mode PropMode, window Window, property, typ Atom, format byte, data []byte) error {
	switch format {
	case 8, 16, 32:
	default:
		return errors.Errorf("x11: invalid property format %d", format)
	}
	if len(data)%int(format/8) != 0 {
		return errors.Errorf("x11: %d bytes is not a whole number of %d-bit units", len(data), format)
	}
	_, err := c.send(changePropertyRequest{mode, window, property, typ, format, data})
	return err
}

type deletePropertyRequest struct {
	window   Window
	property Atom
}

func (deletePropertyRequest) opcode() byte { return opDeleteProperty }

func (r deletePropertyRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.window))
	e.put32(uint32(r.property))
}

func (c *Conn) DeleteProperty(window Window, property Atom) error {
	_, err := c.send(deletePropertyRequest{window, property})
	return err
}

type sendEventRequest struct {
	propagate   bool
	destination Window
	mask        EventMask
	event       []byte
}

func (sendEventRequest) opcode() byte { return opSendEvent }

func (r sendEventRequest) encode(e *encoder) {
	e.header(0)
	if r.propagate {
		e.buf[1] = 1
	}
	e.put32(uint32(r.destination))
	e.put32(uint32(r.mask))
	copy(e.reserve(32), r.event)
}

// SendClientMessage sends ev to destination through the server, for
// instance to ask the window manager to change a window's state.
func (c *Conn) SendClientMessage(destination Window, mask EventMask, ev ClientMessageEvent) error {
	_, err := c.send(sendEventRequest{false, destination, mask, ev.bytes()})
	return err
}

type openFontRequest struct {
	fid  Font
	name string
}

func (openFontRequest) opcode() byte { return opOpenFont }

func (r openFontRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.fid))
	e.put16(uint16(len(r.name)))
	e.skip(2)
	e.putString(r.name)
}

func (c *Conn) OpenFont(fid Font, name string) error {
	if len(name) > 0xffff {
		return errors.Wrapf(ErrTextTooLong, "font name of %d bytes", len(name))
	}
	_, err := c.send(openFontRequest{fid, name})
	return err
}

func (c *Conn) CloseFont(font Font) error {
	_, err := c.send(resourceRequest{opCloseFont, uint32(font)})
	return err
}

type createPixmapRequest struct {
	depth    byte
	pid      Pixmap
	drawable Drawable
	width    uint16
	height   uint16
}

func (createPixmapRequest) opcode() byte { return opCreatePixmap }

func (r createPixmapRequest) encode(e *encoder) {
	e.header(r.depth)
	e.put32(uint32(r.pid))
	e.put32(uint32(r.drawable))
	e.put16(r.width)
	e.put16(r.height)
}

func (c *Conn) CreatePixmap(depth byte, pid Pixmap, drawable Drawable, width, height uint16) error {
	_, err := c.send(createPixmapRequest{depth, pid, drawable, width, height})
	return err
}

func (c *Conn) FreePixmap(pixmap Pixmap) error {
	_, err := c.send(resourceRequest{opFreePixmap, uint32(pixmap)})
	return err
}

type createGCRequest struct {
	cid      GContext
	drawable Drawable
	values   *GCValues
}

func (createGCRequest) opcode() byte { return opCreateGC }

func (r createGCRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.cid))
	e.put32(uint32(r.drawable))
	r.values.encode(e)
}

func (c *Conn) CreateGC(cid GContext, drawable Drawable, values GCValues) error {
	_, err := c.send(createGCRequest{cid, drawable, &values})
	return err
}

type changeGCRequest struct {
	gc     GContext
	values *GCValues
}

func (changeGCRequest) opcode() byte { return opChangeGC }

func (r changeGCRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.gc))
	r.values.encode(e)
}

func (c *Conn) ChangeGC(gc GContext, values GCValues) error {
	_, err := c.send(changeGCRequest{gc, &values})
	return err
}

func (c *Conn) FreeGC(gc GContext) error {
	_, err := c.send(resourceRequest{opFreeGC, uint32(gc)})
	return err
}

type clearAreaRequest struct {
	exposures bool
	window    Window
	r         Rectangle
}

func (clearAreaRequest) opcode() byte { return opClearArea }

func (r clearAreaRequest) encode(e *encoder) {
	if r.exposures {
		e.header(1)
	} else {
		e.header(0)
	}
	e.put32(uint32(r.window))
	r.r.write(e.reserve(8))
}

// ClearArea paints a rectangle of window with its background. A zero width
// or height extends to the window's edge.
func (c *Conn) ClearArea(exposures bool, window Window, r Rectangle) error {
	_, err := c.send(clearAreaRequest{exposures, window, r})
	return err
}

type copyAreaRequest struct {
	src, dst   Drawable
	gc         GContext
	srcX, srcY int16
	dstX, dstY int16
	width      uint16
	height     uint16
	plane      uint32 // CopyPlane only
	withPlane  bool
}

func (r copyAreaRequest) opcode() byte {
	if r.withPlane {
		return opCopyPlane
	}
	return opCopyArea
}

func (r copyAreaRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.src))
	e.put32(uint32(r.dst))
	e.put32(uint32(r.gc))
	e.put16(uint16(r.srcX))
	e.put16(uint16(r.srcY))
	e.put16(uint16(r.dstX))
	e.put16(uint16(r.dstY))
	e.put16(r.width)
	e.put16(r.height)
	if r.withPlane {
		e.put32(r.plane)
	}
}

func (c *Conn) CopyArea(src, dst Drawable, gc GContext, srcX, srcY, dstX, dstY int16, width, height uint16) error {
	_, err := c.send(copyAreaRequest{src, dst, gc, srcX, srcY, dstX, dstY, width, height, 0, false})
	return err
}

// CopyPlane copies a single bit plane of src into dst, painting set bits
// with the foreground and clear bits with the background of gc.
func (c *Conn) CopyPlane(src, dst Drawable, gc GContext, srcX, srcY, dstX, dstY int16, width, height uint16, plane uint32) error {
	_, err := c.send(copyAreaRequest{src, dst, gc, srcX, srcY, dstX, dstY, width, height, plane, true})
	return err
}

// polyRequest covers the drawing requests made of a drawable, a GC and a
// list of raw elements.
type polyRequest struct {
	op       byte
	data     byte
	drawable Drawable
	gc       GContext
	points   []Point
	rects    []Rectangle
	arcs     []Arc
}

func (r polyRequest) opcode() byte { return r.op }

func (r polyRequest) encode(e *encoder) {
	e.header(r.data)
	e.put32(uint32(r.drawable))
	e.put32(uint32(r.gc))
	switch {
	case r.points != nil:
		e.putPoints(r.points)
	case r.rects != nil:
		e.putRectangles(r.rects)
	case r.arcs != nil:
		e.putArcs(r.arcs)
	}
}

func (c *Conn) PolyLine(mode CoordMode, drawable Drawable, gc GContext, points []Point) error {
	_, err := c.send(polyRequest{op: opPolyLine, data: byte(mode), drawable: drawable, gc: gc, points: points})
	return err
}

func (c *Conn) PolyRectangle(drawable Drawable, gc GContext, rects []Rectangle) error {
	_, err := c.send(polyRequest{op: opPolyRectangle, drawable: drawable, gc: gc, rects: rects})
	return err
}

func (c *Conn) PolyFillRectangle(drawable Drawable, gc GContext, rects []Rectangle) error {
	_, err := c.send(polyRequest{op: opPolyFillRectangle, drawable: drawable, gc: gc, rects: rects})
	return err
}

func (c *Conn) PolyArc(drawable Drawable, gc GContext, arcs []Arc) error {
	_, err := c.send(polyRequest{op: opPolyArc, drawable: drawable, gc: gc, arcs: arcs})
	return err
}

func (c *Conn) PolyFillArc(drawable Drawable, gc GContext, arcs []Arc) error {
	_, err := c.send(polyRequest{op: opPolyFillArc, drawable: drawable, gc: gc, arcs: arcs})
	return err
}

type fillPolyRequest struct {
	drawable Drawable
	gc       GContext
	shape    PolyShape
	mode     CoordMode
	points   []Point
}

func (fillPolyRequest) opcode() byte { return opFillPoly }

func (r fillPolyRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.drawable))
	e.put32(uint32(r.gc))
	e.put8(byte(r.shape))
	e.put8(byte(r.mode))
	e.skip(2)
	e.putPoints(r.points)
}

func (c *Conn) FillPoly(drawable Drawable, gc GContext, shape PolyShape, mode CoordMode, points []Point) error {
	_, err := c.send(fillPolyRequest{drawable, gc, shape, mode, points})
	return err
}

type putImageRequest struct {
	format   ImageFormat
	drawable Drawable
	gc       GContext
	width    uint16
	height   uint16
	dstX     int16
	dstY     int16
	leftPad  byte
	depth    byte
	data     []byte
}

func (putImageRequest) opcode() byte { return opPutImage }

func (r putImageRequest) encode(e *encoder) {
	e.header(byte(r.format))
	e.put32(uint32(r.drawable))
	e.put32(uint32(r.gc))
	e.put16(r.width)
	e.put16(r.height)
	e.put16(uint16(r.dstX))
	e.put16(uint16(r.dstY))
	e.put8(r.leftPad)
	e.put8(r.depth)
	e.skip(2)
	e.putBytes(r.data)
}

// PutImage uploads raw image data. The data must already be in the server's
// layout for format and depth. Use DrawingContext.DrawImage for uploads
// that may need splitting.
func (c *Conn) PutImage(format ImageFormat, drawable Drawable, gc GContext, width, height uint16,
	dstX, dstY int16, leftPad, depth byte, data []byte) error {
	_, err := c.send(putImageRequest{format, drawable, gc, width, height, dstX, dstY, leftPad, depth, data})
	return err
}

// maxTextItem is the largest string one PolyText item can carry.
const maxTextItem = 254

// polyTextRequest carries pre-split text items. For PolyText16 an item's
// length counts CHAR2B units, for PolyText8 bytes.
type polyTextRequest struct {
	wide     bool
	drawable Drawable
	gc       GContext
	x, y     int16
	items    [][]byte
}

func (r polyTextRequest) opcode() byte {
	if r.wide {
		return opPolyText16
	}
	return opPolyText8
}

func (r polyTextRequest) encode(e *encoder) {
	e.header(0)
	e.put32(uint32(r.drawable))
	e.put32(uint32(r.gc))
	e.put16(uint16(r.x))
	e.put16(uint16(r.y))
	for _, it := range r.items {
		n := len(it)
		if r.wide {
			n /= 2
		}
		e.put8(byte(n))
		e.put8(0) // delta
		e.putBytes(it)
	}
}

func (c *Conn) polyText(wide bool, drawable Drawable, gc GContext, x, y int16, text []byte) error {
	unit := 1
	if wide {
		unit = 2
	}
	var items [][]byte
	for len(text) > 0 {
		n := len(text)
		if n > maxTextItem*unit {
			n = maxTextItem * unit
		}
		items = append(items, text[:n])
		text = text[n:]
	}
	_, err := c.send(polyTextRequest{wide, drawable, gc, x, y, items})
	return err
}

// PolyText8 draws an 8-bit string. Text longer than one item is split
// across items of the same request.
func (c *Conn) PolyText8(drawable Drawable, gc GContext, x, y int16, text []byte) error {
	return c.polyText(false, drawable, gc, x, y, text)
}

// PolyText16 draws a CHAR2B string (big-endian pairs, see EncodeChar2b).
func (c *Conn) PolyText16(drawable Drawable, gc GContext, x, y int16, text []byte) error {
	if len(text)%2 != 0 {
		return errors.New("x11: CHAR2B string of odd length")
	}
	return c.polyText(true, drawable, gc, x, y, text)
}

type imageTextRequest struct {
	wide     bool
	drawable Drawable
	gc       GContext
	x, y     int16
	text     []byte
}

func (r imageTextRequest) opcode() byte {
	if r.wide {
		return opImageText16
	}
	return opImageText8
}

func (r imageTextRequest) encode(e *encoder) {
	n := len(r.text)
	if r.wide {
		n /= 2
	}
	e.header(byte(n))
	e.put32(uint32(r.drawable))
	e.put32(uint32(r.gc))
	e.put16(uint16(r.x))
	e.put16(uint16(r.y))
	e.putBytes(r.text)
}

// ImageText8 draws text over a background-filled box. At most 255 bytes fit
// in one request.
func (c *Conn) ImageText8(drawable Drawable, gc GContext, x, y int16, text []byte) error {
	if len(text) > 255 {
		return errors.Wrapf(ErrTextTooLong, "ImageText8 with %d bytes", len(text))
	}
	_, err := c.send(imageTextRequest{false, drawable, gc, x, y, text})
	return err
}

// ImageText16 is ImageText8 for CHAR2B strings of at most 255 characters.
func (c *Conn) ImageText16(drawable Drawable, gc GContext, x, y int16, text []byte) error {
	if len(text)%2 != 0 {
		return errors.New("x11: CHAR2B string of odd length")
	}
	if len(text)/2 > 255 {
		return errors.Wrapf(ErrTextTooLong, "ImageText16 with %d characters", len(text)/2)
	}
	_, err := c.send(imageTextRequest{true, drawable, gc, x, y, text})
	return err
}
