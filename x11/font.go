package x11

import (
	"math"
	"sort"

	gofont "github.com/go-text/typesetting/font"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/BurntSushi/xwin/x11/xlfd"
)

// DefaultFontPattern matches every Unicode-encoded core font.
const DefaultFontPattern = "-*-*-*-*-*-*-*-*-*-*-*-*-iso10646-1"

// FontFamily is the set of fonts the server lists under one family name.
type FontFamily struct {
	c     *Conn
	Name  string
	Fonts []xlfd.Name
}

// FontFamilies lists the fonts matching pattern and groups them by family.
// Names that are not XLFDs (aliases such as "fixed") are skipped.
func (c *Conn) FontFamilies(pattern string) ([]*FontFamily, error) {
	if pattern == "" {
		pattern = DefaultFontPattern
	}
	names, err := c.ListFonts(0xffff, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "x11: list fonts %q", pattern)
	}
	byFamily := make(map[string]*FontFamily)
	for _, s := range names {
		n, err := xlfd.Parse(s)
		if err != nil {
			continue
		}
		f := byFamily[n.Family]
		if f == nil {
			f = &FontFamily{c: c, Name: n.Family}
			byFamily[n.Family] = f
		}
		f.Fonts = append(f.Fonts, n)
	}
	families := make([]*FontFamily, 0, len(byFamily))
	for _, f := range byFamily {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i].Name < families[j].Name })
	return families, nil
}

// Scalable reports whether every font of the family is an outline font.
func (f *FontFamily) Scalable() bool {
	for _, n := range f.Fonts {
		if !n.Scalable() {
			return false
		}
	}
	return true
}

// Sizes returns the distinct fixed pixel sizes of the family, ascending.
func (f *FontFamily) Sizes() []int {
	seen := make(map[int]bool)
	var sizes []int
	for _, n := range f.Fonts {
		if n.PixelSize != 0 && !seen[n.PixelSize] {
			seen[n.PixelSize] = true
			sizes = append(sizes, n.PixelSize)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// Select picks the font closest to the requested pixel size, weight and
// style. Bitmap families snap to their nearest size; scalable ones are
// instantiated at exactly size. The font is opened on first use.
func (f *FontFamily) Select(size int, weight gofont.Weight, style gofont.Style) (*Face, error) {
	if len(f.Fonts) == 0 {
		return nil, errors.Errorf("x11: font family %q is empty", f.Name)
	}
	scalable := f.Scalable()
	best, bestScore := -1, math.Inf(1)
	for i, n := range f.Fonts {
		if !scalable && n.Scalable() {
			continue
		}
		score := math.Abs(float64(n.Weight() - weight))
		if n.Style() != style {
			score += 1000
		}
		if !scalable {
			score += 10 * math.Abs(float64(n.PixelSize-size))
		}
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, errors.Errorf("x11: no usable font in family %q", f.Name)
	}
	n := f.Fonts[best]
	if scalable {
		n.PixelSize = size
		n.PointSize = 0
		n.AverageWidth = 0
	}
	return &Face{c: f.c, Name: n}, nil
}

// Face is a core font at a concrete size. Both the server-side font and its
// metrics are fetched lazily and cached.
type Face struct {
	c       *Conn
	Name    xlfd.Name
	font    Font
	extents *FaceExtents
}

// FaceExtents are the vertical metrics of a face and the advance of "M".
type FaceExtents struct {
	Ascent  int
	Descent int
	Advance int
}

// Font opens the face on the server the first time it is called.
func (fc *Face) Font() (Font, error) {
	if fc.font != None {
		return fc.font, nil
	}
	id, err := fc.c.NewFontID()
	if err != nil {
		return 0, err
	}
	if err := fc.c.OpenFont(id, fc.Name.String()); err != nil {
		fc.c.ReleaseID(uint32(id))
		return 0, err
	}
	fc.font = id
	return id, nil
}

// Extents queries the face's metrics once.
func (fc *Face) Extents() (FaceExtents, error) {
	if fc.extents != nil {
		return *fc.extents, nil
	}
	fid, err := fc.Font()
	if err != nil {
		return FaceExtents{}, err
	}
	r, err := fc.c.QueryTextExtents(fid, EncodeChar2b("M"))
	if err != nil {
		return FaceExtents{}, errors.Wrapf(err, "x11: query extents of %s", fc.Name)
	}
	fc.extents = &FaceExtents{
		Ascent:  int(r.FontAscent),
		Descent: int(r.FontDescent),
		Advance: int(r.OverallWidth),
	}
	return *fc.extents, nil
}

// Metrics returns the face's metrics in the form used by x/image/font.
func (fc *Face) Metrics() (font.Metrics, error) {
	e, err := fc.Extents()
	if err != nil {
		return font.Metrics{}, err
	}
	return font.Metrics{
		Height:  fixed.I(e.Ascent + e.Descent),
		Ascent:  fixed.I(e.Ascent),
		Descent: fixed.I(e.Descent),
	}, nil
}

// Measure returns the drawn width of s and its ink bounds.
func (fc *Face) Measure(s string) (width int, left, right int, err error) {
	fid, err := fc.Font()
	if err != nil {
		return 0, 0, 0, err
	}
	r, err := fc.c.QueryTextExtents(fid, EncodeChar2b(s))
	if err != nil {
		return 0, 0, 0, err
	}
	return int(r.OverallWidth), int(r.OverallLeft), int(r.OverallRight), nil
}

// Close frees the server-side font, if it was opened.
func (fc *Face) Close() error {
	if fc.font == None {
		return nil
	}
	if err := fc.c.CloseFont(fc.font); err != nil {
		return err
	}
	fc.c.ReleaseID(uint32(fc.font))
	fc.font = None
	return nil
}
