package x11

import (
	"bytes"

	"github.com/pkg/errors"
)

// propertyReadLength is how many 4-byte units a property read asks for.
// Longer values fail with ErrPropertyTruncated rather than being read in
// pieces.
const propertyReadLength = 1 << 16

// Codec describes how values of type T are stored in a property: the name of
// the property's type atom, the unit size and the byte conversions.
type Codec[T any] struct {
	Type   string
	Format byte // 8, 16 or 32
	Encode func(T) []byte
	Decode func([]byte) (T, error)
}

// Property is a named window property of a fixed Go type.
type Property[T any] struct {
	Name  string
	Codec Codec[T]
}

// Get reads the property from window.
func (p Property[T]) Get(c *Conn, window Window) (T, error) {
	var zero T
	prop, err := c.Atom(p.Name)
	if err != nil {
		return zero, err
	}
	typ, err := c.Atom(p.Codec.Type)
	if err != nil {
		return zero, err
	}
	r, err := c.GetProperty(false, window, prop, typ, 0, propertyReadLength)
	if err != nil {
		return zero, errors.Wrapf(err, "x11: get %s", p.Name)
	}
	switch {
	case r.Type == None:
		return zero, errors.Wrapf(ErrNoProperty, "%s on window %s", p.Name, window)
	case r.Type != typ:
		return zero, errors.Errorf("x11: property %s has type atom %d, want %s", p.Name, r.Type, p.Codec.Type)
	case r.Format != p.Codec.Format:
		return zero, errors.Errorf("x11: property %s has format %d, want %d", p.Name, r.Format, p.Codec.Format)
	case r.BytesAfter > 0:
		return zero, errors.Wrapf(ErrPropertyTruncated, "%s: %d bytes left", p.Name, r.BytesAfter)
	}
	v, err := p.Codec.Decode(r.Value)
	if err != nil {
		return zero, errors.Wrapf(err, "x11: decode %s", p.Name)
	}
	return v, nil
}

// Set replaces the property on window with v.
func (p Property[T]) Set(c *Conn, window Window, v T) error {
	prop, err := c.Atom(p.Name)
	if err != nil {
		return err
	}
	typ, err := c.Atom(p.Codec.Type)
	if err != nil {
		return err
	}
	return c.ChangeProperty(PropModeReplace, window, prop, typ, p.Codec.Format, p.Codec.Encode(v))
}

// Delete removes the property from window.
func (p Property[T]) Delete(c *Conn, window Window) error {
	prop, err := c.Atom(p.Name)
	if err != nil {
		return err
	}
	return c.DeleteProperty(window, prop)
}

func putWords(words []uint32) []byte {
	b := make([]byte, 4*len(words))
	for i, w := range words {
		put32(b[4*i:], w)
	}
	return b
}

func getWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = get32(b[4*i:])
	}
	return words
}

// getFixedWords decodes a struct of n words. Short values are padded with
// zeros since older clients write fewer fields.
func getFixedWords(b []byte, n int) []uint32 {
	words := getWords(b)
	for len(words) < n {
		words = append(words, 0)
	}
	return words
}

var UTF8StringCodec = Codec[string]{
	Type:   "UTF8_STRING",
	Format: 8,
	Encode: func(s string) []byte { return []byte(s) },
	Decode: func(b []byte) (string, error) { return string(b), nil },
}

var Latin1StringCodec = Codec[string]{
	Type:   "STRING",
	Format: 8,
	Encode: EncodeLatin1,
	Decode: DecodeLatin1,
}

var AtomListCodec = Codec[[]Atom]{
	Type:   "ATOM",
	Format: 32,
	Encode: func(atoms []Atom) []byte {
		b := make([]byte, 4*len(atoms))
		for i, a := range atoms {
			put32(b[4*i:], uint32(a))
		}
		return b
	},
	Decode: func(b []byte) ([]Atom, error) {
		atoms := make([]Atom, len(b)/4)
		for i := range atoms {
			atoms[i] = Atom(get32(b[4*i:]))
		}
		return atoms, nil
	},
}

var CardinalCodec = Codec[uint32]{
	Type:   "CARDINAL",
	Format: 32,
	Encode: func(v uint32) []byte { return putWords([]uint32{v}) },
	Decode: func(b []byte) (uint32, error) {
		if len(b) < 4 {
			return 0, errors.New("empty CARDINAL")
		}
		return get32(b), nil
	},
}

var CardinalListCodec = Codec[[]uint32]{
	Type:   "CARDINAL",
	Format: 32,
	Encode: putWords,
	Decode: func(b []byte) ([]uint32, error) { return getWords(b), nil },
}

var WindowCodec = Codec[Window]{
	Type:   "WINDOW",
	Format: 32,
	Encode: func(w Window) []byte { return putWords([]uint32{uint32(w)}) },
	Decode: func(b []byte) (Window, error) {
		if len(b) < 4 {
			return 0, errors.New("empty WINDOW")
		}
		return Window(get32(b)), nil
	},
}

// WMClass is the WM_CLASS property: the instance and class names used to
// look up resources for a window.
type WMClass struct {
	Instance string
	Class    string
}

var WMClassCodec = Codec[WMClass]{
	Type:   "STRING",
	Format: 8,
	Encode: func(v WMClass) []byte {
		var b []byte
		b = append(b, EncodeLatin1(v.Instance)...)
		b = append(b, 0)
		b = append(b, EncodeLatin1(v.Class)...)
		return append(b, 0)
	},
	Decode: func(b []byte) (WMClass, error) {
		parts := bytes.SplitN(bytes.TrimSuffix(b, []byte{0}), []byte{0}, 2)
		if len(parts) != 2 {
			return WMClass{}, errors.Errorf("WM_CLASS %q is not two strings", b)
		}
		inst, err := DecodeLatin1(parts[0])
		if err != nil {
			return WMClass{}, err
		}
		class, err := DecodeLatin1(parts[1])
		return WMClass{Instance: inst, Class: class}, err
	},
}

// WMHints flags.
const (
	HintInput        = 1 << 0
	HintState        = 1 << 1
	HintIconPixmap   = 1 << 2
	HintIconWindow   = 1 << 3
	HintIconPosition = 1 << 4
	HintIconMask     = 1 << 5
	HintWindowGroup  = 1 << 6
	HintUrgency      = 1 << 8
)

// Initial window states for WMHints.
const (
	StateWithdrawn = 0
	StateNormal    = 1
	StateIconic    = 3
)

// WMHints is the WM_HINTS property.
type WMHints struct {
	Flags        uint32
	Input        bool
	InitialState uint32
	IconPixmap   Pixmap
	IconWindow   Window
	IconX        int32
	IconY        int32
	IconMask     Pixmap
	WindowGroup  Window
}

var WMHintsCodec = Codec[WMHints]{
	Type:   "WM_HINTS",
	Format: 32,
	Encode: func(h WMHints) []byte {
		var input uint32
		if h.Input {
			input = 1
		}
		return putWords([]uint32{h.Flags, input, h.InitialState, uint32(h.IconPixmap), uint32(h.IconWindow),
			uint32(h.IconX), uint32(h.IconY), uint32(h.IconMask), uint32(h.WindowGroup)})
	},
	Decode: func(b []byte) (WMHints, error) {
		w := getFixedWords(b, 9)
		return WMHints{
			Flags:        w[0],
			Input:        w[1] != 0,
			InitialState: w[2],
			IconPixmap:   Pixmap(w[3]),
			IconWindow:   Window(w[4]),
			IconX:        int32(w[5]),
			IconY:        int32(w[6]),
			IconMask:     Pixmap(w[7]),
			WindowGroup:  Window(w[8]),
		}, nil
	},
}

// WMSizeHints flags.
const (
	SizeHintUSPosition  = 1 << 0
	SizeHintUSSize      = 1 << 1
	SizeHintPPosition   = 1 << 2
	SizeHintPSize       = 1 << 3
	SizeHintPMinSize    = 1 << 4
	SizeHintPMaxSize    = 1 << 5
	SizeHintPResizeInc  = 1 << 6
	SizeHintPAspect     = 1 << 7
	SizeHintPBaseSize   = 1 << 8
	SizeHintPWinGravity = 1 << 9
)

// WMSizeHints is the WM_NORMAL_HINTS property.
type WMSizeHints struct {
	Flags                      uint32
	X, Y                       int32 // obsolete
	Width, Height              int32 // obsolete
	MinWidth, MinHeight        int32
	MaxWidth, MaxHeight        int32
	WidthInc, HeightInc        int32
	MinAspectNum, MinAspectDen int32
	MaxAspectNum, MaxAspectDen int32
	BaseWidth, BaseHeight      int32
	WinGravity                 Gravity
}

var WMSizeHintsCodec = Codec[WMSizeHints]{
	Type:   "WM_SIZE_HINTS",
	Format: 32,
	Encode: func(h WMSizeHints) []byte {
		return putWords([]uint32{h.Flags,
			uint32(h.X), uint32(h.Y), uint32(h.Width), uint32(h.Height),
			uint32(h.MinWidth), uint32(h.MinHeight), uint32(h.MaxWidth), uint32(h.MaxHeight),
			uint32(h.WidthInc), uint32(h.HeightInc),
			uint32(h.MinAspectNum), uint32(h.MinAspectDen), uint32(h.MaxAspectNum), uint32(h.MaxAspectDen),
			uint32(h.BaseWidth), uint32(h.BaseHeight), uint32(h.WinGravity)})
	},
	Decode: func(b []byte) (WMSizeHints, error) {
		w := getFixedWords(b, 18)
		return WMSizeHints{
			Flags: w[0],
			X:     int32(w[1]), Y: int32(w[2]), Width: int32(w[3]), Height: int32(w[4]),
			MinWidth: int32(w[5]), MinHeight: int32(w[6]),
			MaxWidth: int32(w[7]), MaxHeight: int32(w[8]),
			WidthInc: int32(w[9]), HeightInc: int32(w[10]),
			MinAspectNum: int32(w[11]), MinAspectDen: int32(w[12]),
			MaxAspectNum: int32(w[13]), MaxAspectDen: int32(w[14]),
			BaseWidth: int32(w[15]), BaseHeight: int32(w[16]),
			WinGravity: Gravity(w[17]),
		}, nil
	},
}

// WMIconSize is the WM_ICON_SIZE property a window manager sets on the root
// window to announce the icon sizes it supports.
type WMIconSize struct {
	MinWidth, MinHeight int32
	MaxWidth, MaxHeight int32
	WidthInc, HeightInc int32
}

var WMIconSizeCodec = Codec[WMIconSize]{
	Type:   "WM_ICON_SIZE",
	Format: 32,
	Encode: func(s WMIconSize) []byte {
		return putWords([]uint32{uint32(s.MinWidth), uint32(s.MinHeight), uint32(s.MaxWidth),
			uint32(s.MaxHeight), uint32(s.WidthInc), uint32(s.HeightInc)})
	},
	Decode: func(b []byte) (WMIconSize, error) {
		w := getFixedWords(b, 6)
		return WMIconSize{
			MinWidth: int32(w[0]), MinHeight: int32(w[1]),
			MaxWidth: int32(w[2]), MaxHeight: int32(w[3]),
			WidthInc: int32(w[4]), HeightInc: int32(w[5]),
		}, nil
	},
}

// ICCCM properties.
var (
	PropWMName          = Property[string]{"WM_NAME", Latin1StringCodec}
	PropWMIconName      = Property[string]{"WM_ICON_NAME", Latin1StringCodec}
	PropWMClientMachine = Property[string]{"WM_CLIENT_MACHINE", Latin1StringCodec}
	PropWMClass         = Property[WMClass]{"WM_CLASS", WMClassCodec}
	PropWMHints         = Property[WMHints]{"WM_HINTS", WMHintsCodec}
	PropWMNormalHints   = Property[WMSizeHints]{"WM_NORMAL_HINTS", WMSizeHintsCodec}
	PropWMProtocols     = Property[[]Atom]{"WM_PROTOCOLS", AtomListCodec}
	PropWMTransientFor  = Property[Window]{"WM_TRANSIENT_FOR", WindowCodec}

	// PropWMIconSize lives on the root window.
	PropWMIconSize = Property[WMIconSize]{"WM_ICON_SIZE", WMIconSizeCodec}
)

// EWMH properties.
var (
	PropNetWMName       = Property[string]{"_NET_WM_NAME", UTF8StringCodec}
	PropNetWMPid        = Property[uint32]{"_NET_WM_PID", CardinalCodec}
	PropNetWMWindowType = Property[[]Atom]{"_NET_WM_WINDOW_TYPE", AtomListCodec}
	PropNetWMState      = Property[[]Atom]{"_NET_WM_STATE", AtomListCodec}
	PropNetWMIcon       = Property[[]uint32]{"_NET_WM_ICON", CardinalListCodec}

	// Root window properties.
	PropNetSupported    = Property[[]Atom]{"_NET_SUPPORTED", AtomListCodec}
	PropNetActiveWindow = Property[Window]{"_NET_ACTIVE_WINDOW", WindowCodec}
)
