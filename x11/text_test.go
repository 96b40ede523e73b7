package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeChar2b(t *testing.T) {
	assert.Equal(t, []byte{0, 'A', 0, 'b'}, EncodeChar2b("Ab"))
	assert.Equal(t, []byte{0x00, 0xe9}, EncodeChar2b("é"))
	assert.Equal(t, []byte{0x65, 0xe5}, EncodeChar2b("日"))
	// outside the BMP and invalid input both become U+FFFD
	assert.Equal(t, []byte{0xff, 0xfd}, EncodeChar2b("😀"))
	assert.Equal(t, []byte{0, 'a', 0xff, 0xfd}, EncodeChar2b("a\xff"))
	assert.Empty(t, EncodeChar2b(""))
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, []byte("caf\xe9"), EncodeLatin1("café"))
	assert.Len(t, EncodeLatin1("日"), 1)

	s, err := DecodeLatin1([]byte("\xfcber"))
	require.NoError(t, err)
	assert.Equal(t, "über", s)
}

func TestPolyTextItems(t *testing.T) {
	s := newDummyXServer()
	c, _ := s.connect(t, Options{})

	t.Run("8 bit", func(t *testing.T) {
		text := make([]byte, 300)
		require.NoError(t, c.PolyText8(1, 2, 3, 4, text))
		req := s.lastRequest(t, opPolyText8)
		items := req.body[12:]
		assert.Equal(t, byte(254), items[0])
		assert.Equal(t, byte(46), items[2+254])
	})

	t.Run("16 bit", func(t *testing.T) {
		text := EncodeChar2b(string(make([]rune, 300)))
		require.NoError(t, c.PolyText16(1, 2, 3, 4, text))
		req := s.lastRequest(t, opPolyText16)
		items := req.body[12:]
		assert.Equal(t, byte(254), items[0])
		assert.Equal(t, byte(46), items[2+2*254])
	})

	t.Run("odd CHAR2B", func(t *testing.T) {
		assert.Error(t, c.PolyText16(1, 2, 3, 4, []byte{1}))
		assert.Error(t, c.ImageText16(1, 2, 3, 4, []byte{1}))
		_, err := c.QueryTextExtents(1, []byte{1})
		assert.Error(t, err)
	})

	t.Run("image text limits", func(t *testing.T) {
		assert.Error(t, c.ImageText8(1, 2, 0, 0, make([]byte, 256)))
		assert.Error(t, c.ImageText16(1, 2, 0, 0, make([]byte, 512)))
		require.NoError(t, c.ImageText16(1, 2, 0, 0, make([]byte, 510)))
		assert.Equal(t, byte(255), s.lastRequest(t, opImageText16).data)
	})
}
