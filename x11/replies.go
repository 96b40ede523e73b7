package x11

import "github.com/pkg/errors"

// replyResource is a reply-bearing request with a single resource field.
type replyResource resourceRequest

func (r replyResource) opcode() byte      { return r.op }
func (r replyResource) encode(e *encoder) { resourceRequest(r).encode(e) }
func (replyResource) hasReply()           {}

// checkReply verifies that buf holds at least n bytes.
func checkReply(buf []byte, n int, what string) error {
	if len(buf) < n {
		return errors.Errorf("x11: %s reply of %d bytes, want at least %d", what, len(buf), n)
	}
	return nil
}

type GetWindowAttributesReply struct {
	BackingStore       BackingStore
	Visual             VisualID
	Class              WindowClass
	BitGravity         Gravity
	WinGravity         Gravity
	BackingPlanes      uint32
	BackingPixel       uint32
	SaveUnder          bool
	MapIsInstalled     bool
	MapState           MapState
	OverrideRedirect   bool
	Colormap           Colormap
	AllEventMasks      EventMask
	YourEventMask      EventMask
	DoNotPropagateMask EventMask
}

func (c *Conn) GetWindowAttributes(window Window) (*GetWindowAttributesReply, error) {
	buf, err := c.roundTrip(replyResource{opGetWindowAttributes, uint32(window)})
	if err != nil {
		return nil, err
	}
	if err := checkReply(buf, 44, "GetWindowAttributes"); err != nil {
		return nil, err
	}
	return &GetWindowAttributesReply{
		BackingStore:       BackingStore(buf[1]),
		Visual:             VisualID(get32(buf[8:])),
		Class:              WindowClass(get16(buf[12:])),
		BitGravity:         Gravity(buf[14]),
		WinGravity:         Gravity(buf[15]),
		BackingPlanes:      get32(buf[16:]),
		BackingPixel:       get32(buf[20:]),
		SaveUnder:          buf[24] != 0,
		MapIsInstalled:     buf[25] != 0,
		MapState:           MapState(buf[26]),
		OverrideRedirect:   buf[27] != 0,
		Colormap:           Colormap(get32(buf[28:])),
		AllEventMasks:      EventMask(get32(buf[32:])),
		YourEventMask:      EventMask(get32(buf[36:])),
		DoNotPropagateMask: EventMask(get16(buf[40:])),
	}, nil
}

type GetGeometryReply struct {
	Depth         byte
	Root          Window
	X, Y          int16
	Width, Height uint16
	BorderWidth   uint16
}

func (c *Conn) GetGeometry(drawable Drawable) (*GetGeometryReply, error) {
	buf, err := c.roundTrip(replyResource{opGetGeometry, uint32(drawable)})
	if err != nil {
		return nil, err
	}
	return &GetGeometryReply{
		Depth:       buf[1],
		Root:        Window(get32(buf[8:])),
		X:           int16(get16(buf[12:])),
		Y:           int16(get16(buf[14:])),
		Width:       get16(buf[16:]),
		Height:      get16(buf[18:]),
		BorderWidth: get16(buf[20:]),
	}, nil
}

type QueryTreeReply struct {
	Root     Window
	Parent   Window
	Children []Window
}

func (c *Conn) QueryTree(window Window) (*QueryTreeReply, error) {
	buf, err := c.roundTrip(replyResource{opQueryTree, uint32(window)})
	if err != nil {
		return nil, err
	}
	n := int(get16(buf[16:]))
	if err := checkReply(buf, 32+4*n, "QueryTree"); err != nil {
		return nil, err
	}
	v := &QueryTreeReply{
		Root:     Window(get32(buf[8:])),
		Parent:   Window(get32(buf[12:])),
		Children: make([]Window, n),
	}
	for i := range v.Children {
		v.Children[i] = Window(get32(buf[32+4*i:]))
	}
	return v, nil
}

type internAtomRequest struct {
	onlyIfExists bool
	name         string
}

func (internAtomRequest) opcode() byte { return opInternAtom }
func (internAtomRequest) hasReply()    {}

func (r internAtomRequest) encode(e *encoder) {
	e.header(0)
	e.buf[1] = boolByte(r.onlyIfExists)
	e.put16(uint16(len(r.name)))
	e.skip(2)
	e.putString(r.name)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// InternAtom asks the server for the atom named name. Most callers want
// Atom, which caches.
func (c *Conn) InternAtom(onlyIfExists bool, name string) (Atom, error) {
	if len(name) > 0xffff {
		return 0, errors.Wrapf(ErrTextTooLong, "atom name of %d bytes", len(name))
	}
	buf, err := c.roundTrip(internAtomRequest{onlyIfExists, name})
	if err != nil {
		return 0, err
	}
	return Atom(get32(buf[8:])), nil
}

// GetAtomName asks the server for the name of atom. Most callers want
// AtomName, which caches.
func (c *Conn) GetAtomName(atom Atom) (string, error) {
	buf, err := c.roundTrip(replyResource{opGetAtomName, uint32(atom)})
	if err != nil {
		return "", err
	}
	n := int(get16(buf[8:]))
	if err := checkReply(buf, 32+n, "GetAtomName"); err != nil {
		return "", err
	}
	return string(buf[32 : 32+n]), nil
}

type getPropertyRequest struct {
	delete     bool
	window     Window
	property   Atom
	typ        Atom
	longOffset uint32
	longLength uint32
}

func (getPropertyRequest) opcode() byte { return opGetProperty }
func (getPropertyRequest) hasReply()    {}

func (r getPropertyRequest) encode(e *encoder) {
	e.header(boolByte(r.delete))
	e.put32(uint32(r.window))
	e.put32(uint32(r.property))
	e.put32(uint32(r.typ))
	e.put32(r.longOffset)
	e.put32(r.longLength)
}

type GetPropertyReply struct {
	Format     byte
	Type       Atom
	BytesAfter uint32
	Value      []byte
}

// GetProperty reads up to longLength 4-byte units of a property starting at
// longOffset. A typ of None matches any type.
func (c *Conn) GetProperty(delete bool, window Window, property, typ Atom, longOffset, longLength uint32) (*GetPropertyReply, error) {
	buf, err := c.roundTrip(getPropertyRequest{delete, window, property, typ, longOffset, longLength})
	if err != nil {
		return nil, err
	}
	v := &GetPropertyReply{
		Format:     buf[1],
		Type:       Atom(get32(buf[8:])),
		BytesAfter: get32(buf[12:]),
	}
	n := int(get32(buf[16:])) * int(v.Format/8)
	if err := checkReply(buf, 32+n, "GetProperty"); err != nil {
		return nil, err
	}
	v.Value = buf[32 : 32+n]
	return v, nil
}

type getInputFocusRequest struct{}

func (getInputFocusRequest) opcode() byte      { return opGetInputFocus }
func (getInputFocusRequest) encode(e *encoder) { e.header(0) }
func (getInputFocusRequest) hasReply()         {}

type GetInputFocusReply struct {
	RevertTo byte
	Focus    Window
}

func (c *Conn) GetInputFocus() (*GetInputFocusReply, error) {
	buf, err := c.roundTrip(getInputFocusRequest{})
	if err != nil {
		return nil, err
	}
	return &GetInputFocusReply{RevertTo: buf[1], Focus: Window(get32(buf[8:]))}, nil
}

type queryTextExtentsRequest struct {
	font Font
	text []byte // CHAR2B
}

func (queryTextExtentsRequest) opcode() byte { return opQueryTextExtents }
func (queryTextExtentsRequest) hasReply()    {}

func (r queryTextExtentsRequest) encode(e *encoder) {
	// odd length is set when the padding holds exactly one CHAR2B
	e.header(boolByte(len(r.text)%4 == 2))
	e.put32(uint32(r.font))
	e.putBytes(r.text)
}

type QueryTextExtentsReply struct {
	DrawDirection  byte
	FontAscent     int16
	FontDescent    int16
	OverallAscent  int16
	OverallDescent int16
	OverallWidth   int32
	OverallLeft    int32
	OverallRight   int32
}

// QueryTextExtents measures a CHAR2B string (see EncodeChar2b) in font.
func (c *Conn) QueryTextExtents(font Font, text []byte) (*QueryTextExtentsReply, error) {
	if len(text)%2 != 0 {
		return nil, errors.New("x11: CHAR2B string of odd length")
	}
	buf, err := c.roundTrip(queryTextExtentsRequest{font, text})
	if err != nil {
		return nil, err
	}
	return &QueryTextExtentsReply{
		DrawDirection:  buf[1],
		FontAscent:     int16(get16(buf[8:])),
		FontDescent:    int16(get16(buf[10:])),
		OverallAscent:  int16(get16(buf[12:])),
		OverallDescent: int16(get16(buf[14:])),
		OverallWidth:   int32(get32(buf[16:])),
		OverallLeft:    int32(get32(buf[20:])),
		OverallRight:   int32(get32(buf[24:])),
	}, nil
}

type listFontsRequest struct {
	maxNames uint16
	pattern  string
}

func (listFontsRequest) opcode() byte { return opListFonts }
func (listFontsRequest) hasReply()    {}

func (r listFontsRequest) encode(e *encoder) {
	e.header(0)
	e.put16(r.maxNames)
	e.put16(uint16(len(r.pattern)))
	e.putString(r.pattern)
}

// ListFonts returns the names of at most maxNames fonts matching pattern,
// where '*' and '?' are wildcards.
func (c *Conn) ListFonts(maxNames uint16, pattern string) ([]string, error) {
	if len(pattern) > 0xffff {
		return nil, errors.Wrapf(ErrTextTooLong, "font pattern of %d bytes", len(pattern))
	}
	buf, err := c.roundTrip(listFontsRequest{maxNames, pattern})
	if err != nil {
		return nil, err
	}
	count := int(get16(buf[8:]))
	names := make([]string, 0, count)
	b := buf[32:]
	for i := 0; i < count; i++ {
		if len(b) == 0 || len(b) < 1+int(b[0]) {
			return nil, errors.Errorf("x11: ListFonts reply truncated after %d names", i)
		}
		n := int(b[0])
		names = append(names, string(b[1:1+n]))
		b = b[1+n:]
	}
	return names, nil
}
