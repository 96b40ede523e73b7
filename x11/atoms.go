package x11

import "github.com/pkg/errors"

// Atoms predefined by the core protocol. They never need a round trip.
const (
	AtomPrimary            Atom = 1
	AtomSecondary          Atom = 2
	AtomArc                Atom = 3
	AtomAtom               Atom = 4
	AtomBitmap             Atom = 5
	AtomCardinal           Atom = 6
	AtomColormap           Atom = 7
	AtomCursor             Atom = 8
	AtomCutBuffer0         Atom = 9
	AtomCutBuffer1         Atom = 10
	AtomCutBuffer2         Atom = 11
	AtomCutBuffer3         Atom = 12
	AtomCutBuffer4         Atom = 13
	AtomCutBuffer5         Atom = 14
	AtomCutBuffer6         Atom = 15
	AtomCutBuffer7         Atom = 16
	AtomDrawable           Atom = 17
	AtomFont               Atom = 18
	AtomInteger            Atom = 19
	AtomPixmap             Atom = 20
	AtomPoint              Atom = 21
	AtomRectangle          Atom = 22
	AtomResourceManager    Atom = 23
	AtomRGBColorMap        Atom = 24
	AtomRGBBestMap         Atom = 25
	AtomRGBBlueMap         Atom = 26
	AtomRGBDefaultMap      Atom = 27
	AtomRGBGrayMap         Atom = 28
	AtomRGBGreenMap        Atom = 29
	AtomRGBRedMap          Atom = 30
	AtomString             Atom = 31
	AtomVisualID           Atom = 32
	AtomWindow             Atom = 33
	AtomWMCommand          Atom = 34
	AtomWMHints            Atom = 35
	AtomWMClientMachine    Atom = 36
	AtomWMIconName         Atom = 37
	AtomWMIconSize         Atom = 38
	AtomWMName             Atom = 39
	AtomWMNormalHints      Atom = 40
	AtomWMSizeHints        Atom = 41
	AtomWMZoomHints        Atom = 42
	AtomMinSpace           Atom = 43
	AtomNormSpace          Atom = 44
	AtomMaxSpace           Atom = 45
	AtomEndSpace           Atom = 46
	AtomSuperscriptX       Atom = 47
	AtomSuperscriptY       Atom = 48
	AtomSubscriptX         Atom = 49
	AtomSubscriptY         Atom = 50
	AtomUnderlinePosition  Atom = 51
	AtomUnderlineThickness Atom = 52
	AtomStrikeoutAscent    Atom = 53
	AtomStrikeoutDescent   Atom = 54
	AtomItalicAngle        Atom = 55
	AtomXHeight            Atom = 56
	AtomQuadWidth          Atom = 57
	AtomWeight             Atom = 58
	AtomPointSize          Atom = 59
	AtomResolution         Atom = 60
	AtomCopyright          Atom = 61
	AtomNotice             Atom = 62
	AtomFontName           Atom = 63
	AtomFamilyName         Atom = 64
	AtomFullName           Atom = 65
	AtomCapHeight          Atom = 66
	AtomWMClass            Atom = 67
	AtomWMTransientFor     Atom = 68
)

// predefinedAtoms is indexed by atom value.
var predefinedAtoms = [...]string{
	AtomPrimary:            "PRIMARY",
	AtomSecondary:          "SECONDARY",
	AtomArc:                "ARC",
	AtomAtom:               "ATOM",
	AtomBitmap:             "BITMAP",
	AtomCardinal:           "CARDINAL",
	AtomColormap:           "COLORMAP",
	AtomCursor:             "CURSOR",
	AtomCutBuffer0:         "CUT_BUFFER0",
	AtomCutBuffer1:         "CUT_BUFFER1",
	AtomCutBuffer2:         "CUT_BUFFER2",
	AtomCutBuffer3:         "CUT_BUFFER3",
	AtomCutBuffer4:         "CUT_BUFFER4",
	AtomCutBuffer5:         "CUT_BUFFER5",
	AtomCutBuffer6:         "CUT_BUFFER6",
	AtomCutBuffer7:         "CUT_BUFFER7",
	AtomDrawable:           "DRAWABLE",
	AtomFont:               "FONT",
	AtomInteger:            "INTEGER",
	AtomPixmap:             "PIXMAP",
	AtomPoint:              "POINT",
	AtomRectangle:          "RECTANGLE",
	AtomResourceManager:    "RESOURCE_MANAGER",
	AtomRGBColorMap:        "RGB_COLOR_MAP",
	AtomRGBBestMap:         "RGB_BEST_MAP",
	AtomRGBBlueMap:         "RGB_BLUE_MAP",
	AtomRGBDefaultMap:      "RGB_DEFAULT_MAP",
	AtomRGBGrayMap:         "RGB_GRAY_MAP",
	AtomRGBGreenMap:        "RGB_GREEN_MAP",
	AtomRGBRedMap:          "RGB_RED_MAP",
	AtomString:             "STRING",
	AtomVisualID:           "VISUALID",
	AtomWindow:             "WINDOW",
	AtomWMCommand:          "WM_COMMAND",
	AtomWMHints:            "WM_HINTS",
	AtomWMClientMachine:    "WM_CLIENT_MACHINE",
	AtomWMIconName:         "WM_ICON_NAME",
	AtomWMIconSize:         "WM_ICON_SIZE",
	AtomWMName:             "WM_NAME",
	AtomWMNormalHints:      "WM_NORMAL_HINTS",
	AtomWMSizeHints:        "WM_SIZE_HINTS",
	AtomWMZoomHints:        "WM_ZOOM_HINTS",
	AtomMinSpace:           "MIN_SPACE",
	AtomNormSpace:          "NORM_SPACE",
	AtomMaxSpace:           "MAX_SPACE",
	AtomEndSpace:           "END_SPACE",
	AtomSuperscriptX:       "SUPERSCRIPT_X",
	AtomSuperscriptY:       "SUPERSCRIPT_Y",
	AtomSubscriptX:         "SUBSCRIPT_X",
	AtomSubscriptY:         "SUBSCRIPT_Y",
	AtomUnderlinePosition:  "UNDERLINE_POSITION",
	AtomUnderlineThickness: "UNDERLINE_THICKNESS",
	AtomStrikeoutAscent:    "STRIKEOUT_ASCENT",
	AtomStrikeoutDescent:   "STRIKEOUT_DESCENT",
	AtomItalicAngle:        "ITALIC_ANGLE",
	AtomXHeight:            "X_HEIGHT",
	AtomQuadWidth:          "QUAD_WIDTH",
	AtomWeight:             "WEIGHT",
	AtomPointSize:          "POINT_SIZE",
	AtomResolution:         "RESOLUTION",
	AtomCopyright:          "COPYRIGHT",
	AtomNotice:             "NOTICE",
	AtomFontName:           "FONT_NAME",
	AtomFamilyName:         "FAMILY_NAME",
	AtomFullName:           "FULL_NAME",
	AtomCapHeight:          "CAP_HEIGHT",
	AtomWMClass:            "WM_CLASS",
	AtomWMTransientFor:     "WM_TRANSIENT_FOR",
}

var predefinedByName = func() map[string]Atom {
	m := make(map[string]Atom, len(predefinedAtoms))
	for a, name := range predefinedAtoms {
		if name != "" {
			m[name] = Atom(a)
		}
	}
	return m
}()

// atomCache maps names to atoms in both directions for the life of a
// connection.
type atomCache struct {
	byName map[string]Atom
	names  map[Atom]string
}

func newAtomCache() *atomCache {
	return &atomCache{byName: make(map[string]Atom), names: make(map[Atom]string)}
}

func (ac *atomCache) put(name string, a Atom) {
	ac.byName[name] = a
	ac.names[a] = name
}

// Atom returns the atom for name, interning it on the server if needed. Only
// the first lookup of a name that is not predefined costs a round trip.
func (c *Conn) Atom(name string) (Atom, error) {
	return c.atom(name, false)
}

// LookupAtom is like Atom, but does not create the atom. It returns
// ErrNoAtom if the server does not know name.
func (c *Conn) LookupAtom(name string) (Atom, error) {
	return c.atom(name, true)
}

func (c *Conn) atom(name string, onlyIfExists bool) (Atom, error) {
	if a, ok := predefinedByName[name]; ok {
		return a, nil
	}
	if a, ok := c.atoms.byName[name]; ok {
		return a, nil
	}
	a, err := c.InternAtom(onlyIfExists, name)
	if err != nil {
		return 0, err
	}
	if a == None {
		return 0, errors.Wrap(ErrNoAtom, name)
	}
	c.atoms.put(name, a)
	return a, nil
}

// AtomName returns the name of a, asking the server only once.
func (c *Conn) AtomName(a Atom) (string, error) {
	if int(a) < len(predefinedAtoms) && predefinedAtoms[a] != "" {
		return predefinedAtoms[a], nil
	}
	if name, ok := c.atoms.names[a]; ok {
		return name, nil
	}
	name, err := c.GetAtomName(a)
	if err != nil {
		return "", err
	}
	c.atoms.put(name, a)
	return name, nil
}
