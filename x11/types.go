package x11

import "fmt"

// Resource identifiers. All of them share the same 32-bit wire width; the
// distinct types only keep roles from being mixed up at call sites.
type (
	Window   uint32
	Pixmap   uint32
	GContext uint32
	Colormap uint32
	Font     uint32
	Cursor   uint32
	VisualID uint32
	Atom     uint32

	// Drawable is a Window or a Pixmap.
	Drawable uint32
)

// None is the zero resource of every kind.
const None = 0

func (w Window) Drawable() Drawable { return Drawable(w) }
func (p Pixmap) Drawable() Drawable { return Drawable(p) }

func (w Window) String() string { return fmt.Sprintf("0x%x", uint32(w)) }

// Timestamp is a server time in milliseconds. CurrentTime is 0.
type Timestamp uint32

const CurrentTime Timestamp = 0

// Keycode is a physical key number in [MinKeycode, MaxKeycode].
type Keycode byte

// Point is a coordinate pair as it appears in Poly* requests.
type Point struct {
	X, Y int16
}

// Rectangle is the X11 RECTANGLE: an origin and a size.
type Rectangle struct {
	X, Y          int16
	Width, Height uint16
}

func (r Rectangle) write(b []byte) {
	put16(b[0:], uint16(r.X))
	put16(b[2:], uint16(r.Y))
	put16(b[4:], r.Width)
	put16(b[6:], r.Height)
}

// Arc is the X11 ARC. Angles are in 1/64 degree, counterclockwise from
// three o'clock.
type Arc struct {
	X, Y          int16
	Width, Height uint16
	Angle1        int16
	Angle2        int16
}

func (a Arc) write(b []byte) {
	put16(b[0:], uint16(a.X))
	put16(b[2:], uint16(a.Y))
	put16(b[4:], a.Width)
	put16(b[6:], a.Height)
	put16(b[8:], uint16(a.Angle1))
	put16(b[10:], uint16(a.Angle2))
}

// FullCircle is the angle extent of a complete ellipse.
const FullCircle int16 = 360 * 64

type WindowClass uint16

const (
	WindowClassCopyFromParent WindowClass = 0
	WindowClassInputOutput    WindowClass = 1
	WindowClassInputOnly      WindowClass = 2
)

// CopyFromParent can be used for the depth and visual of CreateWindow.
const CopyFromParent = 0

type Gravity byte

const (
	GravityForget    Gravity = 0 // for windows this is Unmap
	GravityNorthWest Gravity = 1
	GravityNorth     Gravity = 2
	GravityNorthEast Gravity = 3
	GravityWest      Gravity = 4
	GravityCenter    Gravity = 5
	GravityEast      Gravity = 6
	GravitySouthWest Gravity = 7
	GravitySouth     Gravity = 8
	GravitySouthEast Gravity = 9
	GravityStatic    Gravity = 10
)

type BackingStore byte

const (
	BackingStoreNotUseful  BackingStore = 0
	BackingStoreWhenMapped BackingStore = 1
	BackingStoreAlways     BackingStore = 2
)

type StackMode byte

const (
	StackModeAbove    StackMode = 0
	StackModeBelow    StackMode = 1
	StackModeTopIf    StackMode = 2
	StackModeBottomIf StackMode = 3
	StackModeOpposite StackMode = 4
)

type MapState byte

const (
	MapStateUnmapped   MapState = 0
	MapStateUnviewable MapState = 1
	MapStateViewable   MapState = 2
)

type EventMask uint32

const (
	EventMaskNoEvent              EventMask = 0
	EventMaskKeyPress             EventMask = 1 << 0
	EventMaskKeyRelease           EventMask = 1 << 1
	EventMaskButtonPress          EventMask = 1 << 2
	EventMaskButtonRelease        EventMask = 1 << 3
	EventMaskEnterWindow          EventMask = 1 << 4
	EventMaskLeaveWindow          EventMask = 1 << 5
	EventMaskPointerMotion        EventMask = 1 << 6
	EventMaskPointerMotionHint    EventMask = 1 << 7
	EventMaskButton1Motion        EventMask = 1 << 8
	EventMaskButton2Motion        EventMask = 1 << 9
	EventMaskButton3Motion        EventMask = 1 << 10
	EventMaskButton4Motion        EventMask = 1 << 11
	EventMaskButton5Motion        EventMask = 1 << 12
	EventMaskButtonMotion         EventMask = 1 << 13
	EventMaskKeymapState          EventMask = 1 << 14
	EventMaskExposure             EventMask = 1 << 15
	EventMaskVisibilityChange     EventMask = 1 << 16
	EventMaskStructureNotify      EventMask = 1 << 17
	EventMaskResizeRedirect       EventMask = 1 << 18
	EventMaskSubstructureNotify   EventMask = 1 << 19
	EventMaskSubstructureRedirect EventMask = 1 << 20
	EventMaskFocusChange          EventMask = 1 << 21
	EventMaskPropertyChange       EventMask = 1 << 22
	EventMaskColorMapChange       EventMask = 1 << 23
	EventMaskOwnerGrabButton      EventMask = 1 << 24
)

// KeyButMask is the modifier and button state carried by input events.
type KeyButMask uint16

const (
	KeyButMaskShift   KeyButMask = 1 << 0
	KeyButMaskLock    KeyButMask = 1 << 1
	KeyButMaskControl KeyButMask = 1 << 2
	KeyButMaskMod1    KeyButMask = 1 << 3
	KeyButMaskMod2    KeyButMask = 1 << 4
	KeyButMaskMod3    KeyButMask = 1 << 5
	KeyButMaskMod4    KeyButMask = 1 << 6
	KeyButMaskMod5    KeyButMask = 1 << 7
	KeyButMaskButton1 KeyButMask = 1 << 8
	KeyButMaskButton2 KeyButMask = 1 << 9
	KeyButMaskButton3 KeyButMask = 1 << 10
	KeyButMaskButton4 KeyButMask = 1 << 11
	KeyButMaskButton5 KeyButMask = 1 << 12
)

// GCFunction is the raster operation applied by a graphics context.
type GCFunction byte

const (
	GCFunctionClear        GCFunction = 0
	GCFunctionAnd          GCFunction = 1
	GCFunctionAndReverse   GCFunction = 2
	GCFunctionCopy         GCFunction = 3
	GCFunctionAndInverted  GCFunction = 4
	GCFunctionNoOp         GCFunction = 5
	GCFunctionXor          GCFunction = 6
	GCFunctionOr           GCFunction = 7
	GCFunctionNor          GCFunction = 8
	GCFunctionEquiv        GCFunction = 9
	GCFunctionInvert       GCFunction = 10
	GCFunctionOrReverse    GCFunction = 11
	GCFunctionCopyInverted GCFunction = 12
	GCFunctionOrInverted   GCFunction = 13
	GCFunctionNand         GCFunction = 14
	GCFunctionSet          GCFunction = 15
)

type LineStyle byte

const (
	LineStyleSolid      LineStyle = 0
	LineStyleOnOffDash  LineStyle = 1
	LineStyleDoubleDash LineStyle = 2
)

type CapStyle byte

const (
	CapStyleNotLast    CapStyle = 0
	CapStyleButt       CapStyle = 1
	CapStyleRound      CapStyle = 2
	CapStyleProjecting CapStyle = 3
)

type JoinStyle byte

const (
	JoinStyleMiter JoinStyle = 0
	JoinStyleRound JoinStyle = 1
	JoinStyleBevel JoinStyle = 2
)

type FillStyle byte

const (
	FillStyleSolid          FillStyle = 0
	FillStyleTiled          FillStyle = 1
	FillStyleStippled       FillStyle = 2
	FillStyleOpaqueStippled FillStyle = 3
)

type FillRule byte

const (
	FillRuleEvenOdd FillRule = 0
	FillRuleWinding FillRule = 1
)

type SubwindowMode byte

const (
	SubwindowModeClipByChildren   SubwindowMode = 0
	SubwindowModeIncludeInferiors SubwindowMode = 1
)

type ArcMode byte

const (
	ArcModeChord    ArcMode = 0
	ArcModePieSlice ArcMode = 1
)

type CoordMode byte

const (
	CoordModeOrigin   CoordMode = 0
	CoordModePrevious CoordMode = 1
)

type PolyShape byte

const (
	PolyShapeComplex   PolyShape = 0
	PolyShapeNonconvex PolyShape = 1
	PolyShapeConvex    PolyShape = 2
)

type ImageFormat byte

const (
	ImageFormatXYBitmap ImageFormat = 0
	ImageFormatXYPixmap ImageFormat = 1
	ImageFormatZPixmap  ImageFormat = 2
)

type PropMode byte

const (
	PropModeReplace PropMode = 0
	PropModePrepend PropMode = 1
	PropModeAppend  PropMode = 2
)

type VisualClass byte

const (
	VisualClassStaticGray  VisualClass = 0
	VisualClassGrayScale   VisualClass = 1
	VisualClassStaticColor VisualClass = 2
	VisualClassPseudoColor VisualClass = 3
	VisualClassTrueColor   VisualClass = 4
	VisualClassDirectColor VisualClass = 5
)

type ByteOrder byte

const (
	ByteOrderLSBFirst ByteOrder = 0
	ByteOrderMSBFirst ByteOrder = 1
)

// NotifyDetail and NotifyMode qualify crossing and focus events.
type (
	NotifyDetail byte
	NotifyMode   byte
)

const (
	NotifyDetailAncestor         NotifyDetail = 0
	NotifyDetailVirtual          NotifyDetail = 1
	NotifyDetailInferior         NotifyDetail = 2
	NotifyDetailNonlinear        NotifyDetail = 3
	NotifyDetailNonlinearVirtual NotifyDetail = 4
	NotifyDetailPointer          NotifyDetail = 5
	NotifyDetailPointerRoot      NotifyDetail = 6
	NotifyDetailNone             NotifyDetail = 7
)

const (
	NotifyModeNormal       NotifyMode = 0
	NotifyModeGrab         NotifyMode = 1
	NotifyModeUngrab       NotifyMode = 2
	NotifyModeWhileGrabbed NotifyMode = 3
)

type Visibility byte

const (
	VisibilityUnobscured        Visibility = 0
	VisibilityPartiallyObscured Visibility = 1
	VisibilityFullyObscured     Visibility = 2
)

// Place is the stacking position reported by circulate events.
type Place byte

const (
	PlaceOnTop    Place = 0
	PlaceOnBottom Place = 1
)

// PropertyState tells whether a PropertyNotify is for a change or deletion.
type PropertyState byte

const (
	PropertyNewValue PropertyState = 0
	PropertyDelete   PropertyState = 1
)

type Mapping byte

const (
	MappingModifier Mapping = 0
	MappingKeyboard Mapping = 1
	MappingPointer  Mapping = 2
)
