// Package xlfd parses X Logical Font Descriptions, the hyphen-separated
// names under which an X server lists its core fonts:
//
//	-misc-fixed-medium-r-normal--13-120-75-75-c-70-iso10646-1
//
// Fields that are "*" or empty parse as the zero value.
package xlfd

import (
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/pkg/errors"
)

// Name is a parsed XLFD.
type Name struct {
	Foundry      string
	Family       string
	WeightName   string
	Slant        string
	SetWidth     string
	AddStyle     string
	PixelSize    int
	PointSize    int // in decipoints
	ResolutionX  int
	ResolutionY  int
	Spacing      string
	AverageWidth int // in decipixels
	Registry     string
	Encoding     string
}

const fieldCount = 14

var ErrNotXLFD = errors.New("xlfd: not an XLFD name")

// Parse splits an XLFD into its fields.
func Parse(s string) (Name, error) {
	if !strings.HasPrefix(s, "-") {
		return Name{}, errors.Wrapf(ErrNotXLFD, "%q", s)
	}
	f := strings.Split(s[1:], "-")
	if len(f) != fieldCount {
		return Name{}, errors.Wrapf(ErrNotXLFD, "%q has %d fields", s, len(f))
	}
	n := Name{
		Foundry:    f[0],
		Family:     f[1],
		WeightName: f[2],
		Slant:      f[3],
		SetWidth:   f[4],
		AddStyle:   f[5],
		Spacing:    f[10],
		Registry:   f[12],
		Encoding:   f[13],
	}
	var err error
	for _, num := range []struct {
		dst *int
		s   string
	}{
		{&n.PixelSize, f[6]},
		{&n.PointSize, f[7]},
		{&n.ResolutionX, f[8]},
		{&n.ResolutionY, f[9]},
		{&n.AverageWidth, f[11]},
	} {
		if *num.dst, err = atoi(num.s); err != nil {
			return Name{}, errors.Wrapf(err, "xlfd: %q", s)
		}
	}
	return n, nil
}

func atoi(s string) (int, error) {
	if s == "" || s == "*" {
		return 0, nil
	}
	// matrix sizes like "[12 0 0 12]" are not supported
	return strconv.Atoi(s)
}

// String reassembles the name. Zero numeric fields are written as "0", so a
// name with zero sizes names the scalable form of a font.
func (n Name) String() string {
	return "-" + strings.Join([]string{
		n.Foundry, n.Family, n.WeightName, n.Slant, n.SetWidth, n.AddStyle,
		strconv.Itoa(n.PixelSize), strconv.Itoa(n.PointSize),
		strconv.Itoa(n.ResolutionX), strconv.Itoa(n.ResolutionY),
		n.Spacing, strconv.Itoa(n.AverageWidth), n.Registry, n.Encoding,
	}, "-")
}

// Scalable reports whether the name describes an outline font that the
// server renders at any size.
func (n Name) Scalable() bool { return n.PixelSize == 0 }

// Charset is the registry and encoding, e.g. "iso10646-1".
func (n Name) Charset() string { return n.Registry + "-" + n.Encoding }

var weights = map[string]font.Weight{
	"thin":       font.WeightThin,
	"extralight": font.WeightExtraLight,
	"ultralight": font.WeightExtraLight,
	"light":      font.WeightLight,
	"semilight":  font.WeightLight + 50,
	"book":       font.WeightNormal,
	"regular":    font.WeightNormal,
	"normal":     font.WeightNormal,
	"medium":     font.WeightMedium,
	"demibold":   font.WeightSemibold,
	"semibold":   font.WeightSemibold,
	"bold":       font.WeightBold,
	"extrabold":  font.WeightExtraBold,
	"ultrabold":  font.WeightExtraBold,
	"heavy":      font.WeightBlack,
	"black":      font.WeightBlack,
}

// Weight classifies the weight name. Unknown names count as normal.
func (n Name) Weight() font.Weight {
	if w, ok := weights[strings.ToLower(strings.ReplaceAll(n.WeightName, " ", ""))]; ok {
		return w
	}
	return font.WeightNormal
}

// Style classifies the slant: "i" is italic, "o" oblique, the rest roman.
// go-text has no separate oblique style, so oblique maps to italic and
// Oblique tells them apart.
func (n Name) Style() font.Style {
	switch strings.ToLower(n.Slant) {
	case "i", "o", "ri", "ro":
		return font.StyleItalic
	}
	return font.StyleNormal
}

func (n Name) Oblique() bool {
	s := strings.ToLower(n.Slant)
	return s == "o" || s == "ro"
}

var stretches = map[string]font.Stretch{
	"ultracondensed": font.StretchUltraCondensed,
	"extracondensed": font.StretchExtraCondensed,
	"condensed":      font.StretchCondensed,
	"narrow":         font.StretchCondensed,
	"semicondensed":  font.StretchSemiCondensed,
	"normal":         font.StretchNormal,
	"semiexpanded":   font.StretchSemiExpanded,
	"expanded":       font.StretchExpanded,
	"wide":           font.StretchExpanded,
	"extraexpanded":  font.StretchExtraExpanded,
	"ultraexpanded":  font.StretchUltraExpanded,
}

// Aspect combines weight, style and set width.
func (n Name) Aspect() font.Aspect {
	st, ok := stretches[strings.ToLower(strings.ReplaceAll(n.SetWidth, " ", ""))]
	if !ok {
		st = font.StretchNormal
	}
	return font.Aspect{Style: n.Style(), Weight: n.Weight(), Stretch: st}
}

// Monospace reports whether every glyph has the same width.
func (n Name) Monospace() bool {
	s := strings.ToLower(n.Spacing)
	return s == "m" || s == "c"
}
