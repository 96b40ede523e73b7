package x11

// Opt is an optional field of a values list. The zero value is absent;
// Some makes a present one. Absent fields cost nothing on the wire.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

func (o Opt[T]) Present() bool { return o.ok }

type slotInt interface {
	~uint8 | ~uint16 | ~uint32 | ~int8 | ~int16 | ~int32
}

// slot widens an integer option to its 4-byte list slot. Signed values are
// sign-extended.
func slot[T slotInt](o Opt[T]) (uint32, bool) { return uint32(o.v), o.ok }

func boolSlot(o Opt[bool]) (uint32, bool) {
	if o.v {
		return 1, o.ok
	}
	return 0, o.ok
}

// valueField encodes field i of a values structure S. The position of a
// field in its table is its bit in the presence mask.
type valueField[S any] func(v *S) (uint32, bool)

// maxValuesSize bounds the encoded size of a list of n fields.
func maxValuesSize(n int) int { return 4 + 4*n }

// encodeValues appends the presence mask followed by one 4-byte slot per
// present field, in ascending bit order.
func encodeValues[S any](e *encoder, v *S, fields []valueField[S]) {
	start := len(e.buf)
	b := e.reserve(maxValuesSize(len(fields)))
	var mask uint32
	n := 4
	for bit, f := range fields {
		if x, ok := f(v); ok {
			mask |= 1 << uint(bit)
			put32(b[n:], x)
			n += 4
		}
	}
	put32(b, mask)
	e.truncate(start + n)
}

// WindowValues are the attributes accepted by CreateWindow and
// ChangeWindowAttributes.
type WindowValues struct {
	BackPixmap       Opt[Pixmap]
	BackPixel        Opt[uint32]
	BorderPixmap     Opt[Pixmap]
	BorderPixel      Opt[uint32]
	BitGravity       Opt[Gravity]
	WinGravity       Opt[Gravity]
	BackingStore     Opt[BackingStore]
	BackingPlanes    Opt[uint32]
	BackingPixel     Opt[uint32]
	OverrideRedirect Opt[bool]
	SaveUnder        Opt[bool]
	EventMask        Opt[EventMask]
	DontPropagate    Opt[EventMask]
	Colormap         Opt[Colormap]
	Cursor           Opt[Cursor]
}

var windowValueFields = []valueField[WindowValues]{
	func(v *WindowValues) (uint32, bool) { return slot(v.BackPixmap) },
	func(v *WindowValues) (uint32, bool) { return slot(v.BackPixel) },
	func(v *WindowValues) (uint32, bool) { return slot(v.BorderPixmap) },
	func(v *WindowValues) (uint32, bool) { return slot(v.BorderPixel) },
	func(v *WindowValues) (uint32, bool) { return slot(v.BitGravity) },
	func(v *WindowValues) (uint32, bool) { return slot(v.WinGravity) },
	func(v *WindowValues) (uint32, bool) { return slot(v.BackingStore) },
	func(v *WindowValues) (uint32, bool) { return slot(v.BackingPlanes) },
	func(v *WindowValues) (uint32, bool) { return slot(v.BackingPixel) },
	func(v *WindowValues) (uint32, bool) { return boolSlot(v.OverrideRedirect) },
	func(v *WindowValues) (uint32, bool) { return boolSlot(v.SaveUnder) },
	func(v *WindowValues) (uint32, bool) { return slot(v.EventMask) },
	func(v *WindowValues) (uint32, bool) { return slot(v.DontPropagate) },
	func(v *WindowValues) (uint32, bool) { return slot(v.Colormap) },
	func(v *WindowValues) (uint32, bool) { return slot(v.Cursor) },
}

func (v *WindowValues) encode(e *encoder) { encodeValues(e, v, windowValueFields) }

// ConfigureValues are the fields of ConfigureWindow.
type ConfigureValues struct {
	X           Opt[int16]
	Y           Opt[int16]
	Width       Opt[uint16]
	Height      Opt[uint16]
	BorderWidth Opt[uint16]
	Sibling     Opt[Window]
	StackMode   Opt[StackMode]
}

var configureValueFields = []valueField[ConfigureValues]{
	func(v *ConfigureValues) (uint32, bool) { return slot(v.X) },
	func(v *ConfigureValues) (uint32, bool) { return slot(v.Y) },
	func(v *ConfigureValues) (uint32, bool) { return slot(v.Width) },
	func(v *ConfigureValues) (uint32, bool) { return slot(v.Height) },
	func(v *ConfigureValues) (uint32, bool) { return slot(v.BorderWidth) },
	func(v *ConfigureValues) (uint32, bool) { return slot(v.Sibling) },
	func(v *ConfigureValues) (uint32, bool) { return slot(v.StackMode) },
}

// The ConfigureWindow mask is a CARD16 followed by two unused bytes, which is
// the same four bytes as a little-endian CARD32 with the high half clear.
func (v *ConfigureValues) encode(e *encoder) { encodeValues(e, v, configureValueFields) }

// GCValues are the components of a graphics context.
type GCValues struct {
	Function          Opt[GCFunction]
	PlaneMask         Opt[uint32]
	Foreground        Opt[uint32]
	Background        Opt[uint32]
	LineWidth         Opt[uint16]
	LineStyle         Opt[LineStyle]
	CapStyle          Opt[CapStyle]
	JoinStyle         Opt[JoinStyle]
	FillStyle         Opt[FillStyle]
	FillRule          Opt[FillRule]
	Tile              Opt[Pixmap]
	Stipple           Opt[Pixmap]
	TileStippleX      Opt[int16]
	TileStippleY      Opt[int16]
	Font              Opt[Font]
	SubwindowMode     Opt[SubwindowMode]
	GraphicsExposures Opt[bool]
	ClipX             Opt[int16]
	ClipY             Opt[int16]
	ClipMask          Opt[Pixmap]
	DashOffset        Opt[uint16]
	Dashes            Opt[byte]
	ArcMode           Opt[ArcMode]
}

var gcValueFields = []valueField[GCValues]{
	func(v *GCValues) (uint32, bool) { return slot(v.Function) },
	func(v *GCValues) (uint32, bool) { return slot(v.PlaneMask) },
	func(v *GCValues) (uint32, bool) { return slot(v.Foreground) },
	func(v *GCValues) (uint32, bool) { return slot(v.Background) },
	func(v *GCValues) (uint32, bool) { return slot(v.LineWidth) },
	func(v *GCValues) (uint32, bool) { return slot(v.LineStyle) },
	func(v *GCValues) (uint32, bool) { return slot(v.CapStyle) },
	func(v *GCValues) (uint32, bool) { return slot(v.JoinStyle) },
	func(v *GCValues) (uint32, bool) { return slot(v.FillStyle) },
	func(v *GCValues) (uint32, bool) { return slot(v.FillRule) },
	func(v *GCValues) (uint32, bool) { return slot(v.Tile) },
	func(v *GCValues) (uint32, bool) { return slot(v.Stipple) },
	func(v *GCValues) (uint32, bool) { return slot(v.TileStippleX) },
	func(v *GCValues) (uint32, bool) { return slot(v.TileStippleY) },
	func(v *GCValues) (uint32, bool) { return slot(v.Font) },
	func(v *GCValues) (uint32, bool) { return slot(v.SubwindowMode) },
	func(v *GCValues) (uint32, bool) { return boolSlot(v.GraphicsExposures) },
	func(v *GCValues) (uint32, bool) { return slot(v.ClipX) },
	func(v *GCValues) (uint32, bool) { return slot(v.ClipY) },
	func(v *GCValues) (uint32, bool) { return slot(v.ClipMask) },
	func(v *GCValues) (uint32, bool) { return slot(v.DashOffset) },
	func(v *GCValues) (uint32, bool) { return slot(v.Dashes) },
	func(v *GCValues) (uint32, bool) { return slot(v.ArcMode) },
}

func (v *GCValues) encode(e *encoder) { encodeValues(e, v, gcValueFields) }
