package xwin

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

type foreignFont struct{}

func (foreignFont) Metrics() (font.Metrics, error) { return font.Metrics{}, nil }
func (foreignFont) Measure(string) (int, error)    { return 0, nil }
func (foreignFont) Close() error                   { return nil }

func TestNoBackend(t *testing.T) {
	t.Setenv("DISPLAY", "")
	assert.Equal(t, "", Backend())
	w, err := Open("none", image.Rect(0, 0, 10, 10))
	assert.Nil(t, w)
	assert.Equal(t, ErrNoBackend, err)
}

func TestBackendOrder(t *testing.T) {
	require.Len(t, backends, 2)
	assert.Equal(t, "x11", backends[0].name)
	assert.Equal(t, "win32", backends[1].name)

	t.Setenv("DISPLAY", ":0")
	assert.Equal(t, "x11", Backend())
}

func TestWin32Unsupported(t *testing.T) {
	assert.False(t, win32Supported())
	_, err := openWin32("w", image.Rect(0, 0, 1, 1))
	assert.Error(t, err)
}

func TestCanvasRejectsForeignFont(t *testing.T) {
	err := x11Canvas{}.SetFont(foreignFont{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreignFont")
}
