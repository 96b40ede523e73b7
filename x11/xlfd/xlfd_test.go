package xlfd

import (
	"testing"

	"github.com/go-text/typesetting/font"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	const s = "-misc-fixed-bold-r-semicondensed--13-120-75-75-c-60-iso10646-1"
	n, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, Name{
		Foundry:      "misc",
		Family:       "fixed",
		WeightName:   "bold",
		Slant:        "r",
		SetWidth:     "semicondensed",
		PixelSize:    13,
		PointSize:    120,
		ResolutionX:  75,
		ResolutionY:  75,
		Spacing:      "c",
		AverageWidth: 60,
		Registry:     "iso10646",
		Encoding:     "1",
	}, n)
	assert.Equal(t, s, n.String())
	assert.False(t, n.Scalable())
	assert.Equal(t, "iso10646-1", n.Charset())
	assert.True(t, n.Monospace())
}

func TestParseWildcards(t *testing.T) {
	n, err := Parse("-*-helvetica-*-*-*-*-*-*-*-*-p-*-iso8859-1")
	require.NoError(t, err)
	assert.Equal(t, "helvetica", n.Family)
	assert.Zero(t, n.PixelSize)
	assert.True(t, n.Scalable())
	assert.False(t, n.Monospace())
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"fixed", "-misc-fixed", "-a-b-c-d-e-f-g-h-i-j-k-l-m-n-o"} {
		_, err := Parse(s)
		assert.Equal(t, ErrNotXLFD, errors.Cause(err), s)
	}

	_, err := Parse("-misc-fixed-medium-r-normal--big-120-75-75-c-70-iso10646-1")
	require.Error(t, err)
	assert.NotEqual(t, ErrNotXLFD, errors.Cause(err))
	assert.Contains(t, err.Error(), "big")
}

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		weight, slant, setWidth string
		aspect                  font.Aspect
		oblique                 bool
	}{
		{"medium", "r", "normal", font.Aspect{Style: font.StyleNormal, Weight: font.WeightMedium, Stretch: font.StretchNormal}, false},
		{"Bold", "i", "condensed", font.Aspect{Style: font.StyleItalic, Weight: font.WeightBold, Stretch: font.StretchCondensed}, false},
		{"demi bold", "o", "semi condensed", font.Aspect{Style: font.StyleItalic, Weight: font.WeightSemibold, Stretch: font.StretchSemiCondensed}, true},
		{"fancy", "ro", "odd", font.Aspect{Style: font.StyleItalic, Weight: font.WeightNormal, Stretch: font.StretchNormal}, true},
		{"black", "ri", "wide", font.Aspect{Style: font.StyleItalic, Weight: font.WeightBlack, Stretch: font.StretchExpanded}, false},
	} {
		t.Run(tc.weight, func(t *testing.T) {
			n := Name{WeightName: tc.weight, Slant: tc.slant, SetWidth: tc.setWidth}
			assert.Equal(t, tc.aspect, n.Aspect())
			assert.Equal(t, tc.oblique, n.Oblique())
		})
	}
}

func TestScalableString(t *testing.T) {
	n, err := Parse("-adobe-courier-medium-r-normal--0-0-0-0-m-0-iso10646-1")
	require.NoError(t, err)
	require.True(t, n.Scalable())
	n.PixelSize = 18
	assert.Equal(t, "-adobe-courier-medium-r-normal--18-0-0-0-m-0-iso10646-1", n.String())
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"-misc-fixed-medium-r-normal--13-120-75-75-c-70-iso10646-1",
		"-misc-fixed-bold-r-normal--13-120-75-75-c-70-iso10646-1",
		"-adobe-courier-bold-i-normal--0-0-0-0-m-0-iso10646-1",
		"-b&h-lucida-medium-r-normal-sans-12-120-75-75-p-71-iso8859-1",
	} {
		n, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, n.String())
	}
}
