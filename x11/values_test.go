package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesEncoding(t *testing.T) {
	words := func(b []byte) []uint32 {
		require.Zero(t, len(b)%4)
		return getWords(b)
	}

	t.Run("empty", func(t *testing.T) {
		var e encoder
		v := WindowValues{}
		v.encode(&e)
		assert.Equal(t, []uint32{0}, words(e.buf))
	})

	t.Run("window", func(t *testing.T) {
		var e encoder
		v := WindowValues{
			EventMask:        Some(EventMaskExposure | EventMaskKeyPress),
			BackPixel:        Some(uint32(0xabcdef)),
			OverrideRedirect: Some(true),
		}
		v.encode(&e)
		// slots follow bit order, not field order in the literal
		assert.Equal(t, []uint32{
			1<<1 | 1<<9 | 1<<11,
			0xabcdef,
			1,
			uint32(EventMaskExposure | EventMaskKeyPress),
		}, words(e.buf))
	})

	t.Run("signed", func(t *testing.T) {
		var e encoder
		v := ConfigureValues{X: Some(int16(-5)), Height: Some(uint16(7))}
		v.encode(&e)
		assert.Equal(t, []uint32{1<<0 | 1<<3, 0xfffffffb, 7}, words(e.buf))
	})

	t.Run("false is present", func(t *testing.T) {
		var e encoder
		v := GCValues{GraphicsExposures: Some(false)}
		v.encode(&e)
		assert.Equal(t, []uint32{1 << 16, 0}, words(e.buf))
	})

	t.Run("all", func(t *testing.T) {
		var e encoder
		v := GCValues{
			Function: Some(GCFunction(3)), PlaneMask: Some(uint32(1)), Foreground: Some(uint32(2)),
			Background: Some(uint32(3)), LineWidth: Some(uint16(4)), LineStyle: Some(LineStyle(1)),
			CapStyle: Some(CapStyle(1)), JoinStyle: Some(JoinStyle(1)), FillStyle: Some(FillStyle(1)),
			FillRule: Some(FillRule(1)), Tile: Some(Pixmap(5)), Stipple: Some(Pixmap(6)),
			TileStippleX: Some(int16(7)), TileStippleY: Some(int16(8)), Font: Some(Font(9)),
			SubwindowMode: Some(SubwindowMode(1)), GraphicsExposures: Some(true),
			ClipX: Some(int16(10)), ClipY: Some(int16(11)), ClipMask: Some(Pixmap(12)),
			DashOffset: Some(uint16(13)), Dashes: Some(byte(14)), ArcMode: Some(ArcMode(1)),
		}
		v.encode(&e)
		w := words(e.buf)
		assert.Len(t, e.buf, maxValuesSize(len(gcValueFields)))
		assert.Equal(t, uint32(1<<23-1), w[0])
		assert.Equal(t, uint32(9), w[15])
	})

	t.Run("after header", func(t *testing.T) {
		var e encoder
		e.header(0)
		e.put32(0x1234)
		v := ConfigureValues{StackMode: Some(StackMode(1))}
		v.encode(&e)
		assert.Equal(t, []uint32{0, 0x1234, 1 << 6, 1}, words(e.buf))
	})
}

func TestOpt(t *testing.T) {
	var o Opt[uint16]
	_, ok := o.Get()
	assert.False(t, ok)
	assert.False(t, o.Present())

	v, ok := Some(uint16(0)).Get()
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestEncoder(t *testing.T) {
	var e encoder
	e.header(7)
	e.putString("abcde")
	assert.Equal(t, []byte{0, 7, 0, 0, 'a', 'b', 'c', 'd', 'e', 0, 0, 0}, e.buf)

	e.reset()
	assert.Empty(t, e.buf)
	e.putPoints([]Point{{-1, 2}})
	assert.Equal(t, []byte{0xff, 0xff, 2, 0}, e.buf)

	// reserve zeroes reused capacity
	e.reset()
	e.skip(4)
	assert.Equal(t, []byte{0, 0, 0, 0}, e.buf)
}

func TestPad(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 255: 256} {
		assert.Equal(t, want, pad(n), "pad(%d)", n)
	}
}
