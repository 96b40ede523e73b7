package x11

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Setup is the information the server sends back after a successful
// handshake. It is immutable for the lifetime of the connection.
type Setup struct {
	ProtocolMajor            uint16
	ProtocolMinor            uint16
	ReleaseNumber            uint32
	ResourceIDBase           uint32
	ResourceIDMask           uint32
	MotionBufferSize         uint32
	Vendor                   string
	MaximumRequestLength     uint16 // in 4-byte units
	ImageByteOrder           ByteOrder
	BitmapFormatBitOrder     ByteOrder
	BitmapFormatScanlineUnit byte
	BitmapFormatScanlinePad  byte
	MinKeycode               Keycode
	MaxKeycode               Keycode
	PixmapFormats            []Format
	Roots                    []Screen
}

// Format describes how images of one depth are laid out.
type Format struct {
	Depth        byte
	BitsPerPixel byte
	ScanlinePad  byte
}

type Screen struct {
	Root                Window
	DefaultColormap     Colormap
	WhitePixel          uint32
	BlackPixel          uint32
	CurrentInputMasks   EventMask
	WidthInPixels       uint16
	HeightInPixels      uint16
	WidthInMillimeters  uint16
	HeightInMillimeters uint16
	MinInstalledMaps    uint16
	MaxInstalledMaps    uint16
	RootVisual          VisualID
	BackingStores       BackingStore
	SaveUnders          bool
	RootDepth           byte
	AllowedDepths       []Depth
}

type Depth struct {
	Depth   byte
	Visuals []VisualType
}

type VisualType struct {
	VisualID        VisualID
	Class           VisualClass
	BitsPerRGBValue byte
	ColormapEntries uint16
	RedMask         uint32
	GreenMask       uint32
	BlueMask        uint32
}

// Format returns the pixmap format for depth, if the server advertises one.
func (s *Setup) Format(depth byte) (Format, bool) {
	for _, f := range s.PixmapFormats {
		if f.Depth == depth {
			return f, true
		}
	}
	return Format{}, false
}

// Visual finds the visual type with the given ID on the screen.
func (s *Screen) Visual(id VisualID) (VisualType, bool) {
	for _, d := range s.AllowedDepths {
		for _, v := range d.Visuals {
			if v.VisualID == id {
				return v, true
			}
		}
	}
	return VisualType{}, false
}

const (
	setupFailed       = 0
	setupSuccess      = 1
	setupAuthenticate = 2
)

// SetupError is returned when the server refuses the connection.
type SetupError struct {
	Status byte
	Reason string
}

func (e *SetupError) Error() string {
	what := "refused"
	if e.Status == setupAuthenticate {
		what = "requires authentication"
	}
	return "x11: server " + what + " connection: " + e.Reason
}

// writeSetupRequest writes the connection setup record: little-endian byte
// order, protocol 11.0 and an empty authorization.
func writeSetupRequest(w io.Writer) error {
	buf := make([]byte, 12)
	buf[0] = 'l'
	put16(buf[2:], 11)
	put16(buf[4:], 0)
	// auth name and data lengths stay 0
	_, err := w.Write(buf)
	return errors.Wrap(err, "x11: write setup request")
}

// readSetup reads the server's answer to the setup request. Every record is
// read straight off the stream: formats and screens are sized by the fixed
// header, depths by their screen and visuals by their depth.
func readSetup(r io.Reader) (*Setup, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "x11: read setup header")
	}
	status := hdr[0]
	extra := make([]byte, int(get16(hdr[6:]))*4)
	if _, err := io.ReadFull(r, extra); err != nil {
		return nil, errors.Wrap(err, "x11: read setup data")
	}

	switch status {
	case setupFailed:
		n := int(hdr[1])
		if n > len(extra) {
			n = len(extra)
		}
		return nil, &SetupError{Status: status, Reason: string(extra[:n])}
	case setupAuthenticate:
		return nil, &SetupError{Status: status, Reason: strings.TrimRight(string(extra), "\x00")}
	case setupSuccess:
	default:
		return nil, errors.Errorf("x11: unknown setup status %d", status)
	}

	s := &Setup{
		ProtocolMajor: get16(hdr[2:]),
		ProtocolMinor: get16(hdr[4:]),
	}
	d := &setupReader{buf: extra}
	if err := s.read(d); err != nil {
		return nil, err
	}
	return s, nil
}

// setupReader is a bounds-checked cursor over the setup data.
type setupReader struct {
	buf []byte
	off int
	err error
}

func (d *setupReader) next(n int) []byte {
	if d.err != nil {
		return make([]byte, n)
	}
	if d.off+n > len(d.buf) {
		d.err = errors.Errorf("x11: setup data truncated at byte %d (want %d more)", d.off, n)
		return make([]byte, n)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (s *Setup) read(d *setupReader) error {
	b := d.next(32)
	s.ReleaseNumber = get32(b[0:])
	s.ResourceIDBase = get32(b[4:])
	s.ResourceIDMask = get32(b[8:])
	s.MotionBufferSize = get32(b[12:])
	vendorLen := int(get16(b[16:]))
	s.MaximumRequestLength = get16(b[18:])
	screenCount := int(b[20])
	formatCount := int(b[21])
	s.ImageByteOrder = ByteOrder(b[22])
	s.BitmapFormatBitOrder = ByteOrder(b[23])
	s.BitmapFormatScanlineUnit = b[24]
	s.BitmapFormatScanlinePad = b[25]
	s.MinKeycode = Keycode(b[26])
	s.MaxKeycode = Keycode(b[27])

	s.Vendor = string(d.next(pad(vendorLen))[:vendorLen])

	s.PixmapFormats = make([]Format, formatCount)
	for i := range s.PixmapFormats {
		b := d.next(8)
		s.PixmapFormats[i] = Format{Depth: b[0], BitsPerPixel: b[1], ScanlinePad: b[2]}
	}

	s.Roots = make([]Screen, screenCount)
	for i := range s.Roots {
		s.Roots[i].read(d)
	}
	return d.err
}

func (s *Screen) read(d *setupReader) {
	b := d.next(40)
	s.Root = Window(get32(b[0:]))
	s.DefaultColormap = Colormap(get32(b[4:]))
	s.WhitePixel = get32(b[8:])
	s.BlackPixel = get32(b[12:])
	s.CurrentInputMasks = EventMask(get32(b[16:]))
	s.WidthInPixels = get16(b[20:])
	s.HeightInPixels = get16(b[22:])
	s.WidthInMillimeters = get16(b[24:])
	s.HeightInMillimeters = get16(b[26:])
	s.MinInstalledMaps = get16(b[28:])
	s.MaxInstalledMaps = get16(b[30:])
	s.RootVisual = VisualID(get32(b[32:]))
	s.BackingStores = BackingStore(b[36])
	s.SaveUnders = b[37] != 0
	s.RootDepth = b[38]
	s.AllowedDepths = make([]Depth, b[39])
	for i := range s.AllowedDepths {
		s.AllowedDepths[i].read(d)
	}
}

func (dp *Depth) read(d *setupReader) {
	b := d.next(8)
	dp.Depth = b[0]
	dp.Visuals = make([]VisualType, get16(b[2:]))
	for i := range dp.Visuals {
		v := &dp.Visuals[i]
		b := d.next(24)
		v.VisualID = VisualID(get32(b[0:]))
		v.Class = VisualClass(b[4])
		v.BitsPerRGBValue = b[5]
		v.ColormapEntries = get16(b[6:])
		v.RedMask = get32(b[8:])
		v.GreenMask = get32(b[12:])
		v.BlueMask = get32(b[16:])
	}
}
