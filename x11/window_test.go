package x11

import (
	"image"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T) (*dummyXServer, *AppWindow, *dNC) {
	t.Helper()
	s := newDummyXServer()
	c, nc := s.connect(t, Options{PollInterval: 5 * time.Millisecond})
	w, err := NewWindow(c, "Test", image.Rect(10, 20, 330, 260))
	require.NoError(t, err)
	return s, w, nc
}

func clientMessage(w *AppWindow, data ...uint32) []byte {
	ev := ClientMessageEvent{Format: 32, Window: w.ID, Type: 300, Data: NewClientMessageData32(data...)}
	return ev.bytes()
}

// runUntilDone runs the window's loop and fails if it does not end.
func runUntilDone(t *testing.T, w *AppWindow) {
	t.Helper()
	done := make(chan error)
	go func() { done <- w.Run() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		w.c.Quit()
		<-done
		t.Fatal("Run did not return")
	}
}

func TestNewWindow(t *testing.T) {
	s, w, _ := newTestWindow(t)

	cw := s.lastRequest(t, opCreateWindow)
	assert.Equal(t, byte(24), cw.data)
	assert.Equal(t, uint32(w.ID), get32(cw.body[0:]))
	assert.Equal(t, uint32(dxsRoot), get32(cw.body[4:]))
	assert.Equal(t, []byte{10, 0, 20, 0, 0x40, 0x01, 0xf0, 0}, cw.body[8:16])
	assert.Equal(t, uint32(dxsVisual), get32(cw.body[20:]))
	assert.Equal(t, []uint32{1<<1 | 1<<11, 0, uint32(AppEventMask)}, getWords(cw.body[24:]))

	props := s.props[w.ID]
	assert.Equal(t, "Test", string(props[AtomWMName].data))
	assert.Equal(t, "Test", string(props[s.atoms["_NET_WM_NAME"]].data))
	assert.Equal(t, AtomString, props[AtomWMClass].typ)
	assert.Contains(t, string(props[AtomWMClass].data), "\x00Test\x00")

	wmDelete := s.atoms["WM_DELETE_WINDOW"]
	require.NotZero(t, wmDelete)
	assert.Equal(t, wmDelete, w.wmDelete)
	assert.Equal(t, putWords([]uint32{uint32(wmDelete)}), props[s.atoms["WM_PROTOCOLS"]].data)
	assert.Equal(t, putWords([]uint32{uint32(os.Getpid())}), props[s.atoms["_NET_WM_PID"]].data)

	if host, err := os.Hostname(); err == nil {
		assert.Equal(t, EncodeLatin1(host), props[AtomWMClientMachine].data)
	}

	title, err := w.Title()
	require.NoError(t, err)
	assert.Equal(t, "Test", title)
}

func TestNewWindowErrors(t *testing.T) {
	s := newDummyXServer()
	c, _ := s.connect(t, Options{})

	_, err := NewWindow(c, "empty", image.Rect(0, 0, 0, 10))
	assert.Error(t, err)
	assert.Empty(t, s.recorded())

	s.failWith(opInternAtom, BadAlloc)
	_, err = NewWindow(c, "fails", image.Rect(0, 0, 10, 10))
	assert.True(t, IsErrorCode(err, BadAlloc))
	assert.Equal(t, byte(opDestroyWindow), s.recordedOps()[len(s.recorded())-1])
	assert.Empty(t, c.ids.claimed)
}

func TestWindowOps(t *testing.T) {
	s, w, _ := newTestWindow(t)

	require.NoError(t, w.Show())
	assert.Equal(t, uint32(w.ID), get32(s.lastRequest(t, opMapWindow).body))
	require.NoError(t, w.Hide())
	assert.Equal(t, uint32(w.ID), get32(s.lastRequest(t, opUnmapWindow).body))

	require.NoError(t, w.SetBounds(image.Rect(1, 2, 101, 52)))
	req := s.lastRequest(t, opConfigureWindow)
	assert.Equal(t, []uint32{uint32(w.ID), 0xf, 1, 2, 100, 50}, getWords(req.body))
	assert.Error(t, w.SetBounds(image.Rectangle{}))

	r, err := w.Bounds()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 20, 310, 220), r)

	attrs, err := w.Attributes()
	require.NoError(t, err)
	assert.Equal(t, MapStateViewable, attrs.MapState)
	assert.Equal(t, dxsVisual, attrs.Visual)

	require.NoError(t, w.SetMinSize(image.Pt(64, 48)))
	hints, err := PropWMNormalHints.Get(w.Conn(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(SizeHintPMinSize), hints.Flags)
	assert.Equal(t, int32(64), hints.MinWidth)

	require.NoError(t, w.Clear())
	req = s.lastRequest(t, opClearArea)
	assert.Equal(t, byte(0), req.data)
	assert.Equal(t, make([]byte, 8), req.body[4:])

	require.NoError(t, w.SetTitle("Renamed"))
	title, err := w.Title()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", title)
}

func TestWindowTitleFallback(t *testing.T) {
	_, w, _ := newTestWindow(t)
	require.NoError(t, PropNetWMName.Delete(w.c, w.ID))
	require.NoError(t, PropWMName.Set(w.c, w.ID, "plain"))
	title, err := w.Title()
	require.NoError(t, err)
	assert.Equal(t, "plain", title)
}

func TestWindowEvents(t *testing.T) {
	s, w, nc := newTestWindow(t)

	var sizes []image.Point
	var areas []image.Rectangle
	var keys []KeyEvent
	var buttons []ButtonEvent
	var motions []MotionNotifyEvent
	w.OnResize(func(p image.Point) { sizes = append(sizes, p) })
	w.OnDraw(func(r image.Rectangle) { areas = append(areas, r) })
	w.OnKey(func(ev KeyEvent) { keys = append(keys, ev) })
	w.OnButton(func(ev ButtonEvent) { buttons = append(buttons, ev) })
	w.OnMotion(func(ev MotionNotifyEvent) { motions = append(motions, ev) })

	sync := func(t *testing.T) {
		t.Helper()
		require.NoError(t, w.c.Sync())
	}

	configure := func(x, y, width, height uint16) []byte {
		ev := eventFrame(22, 0, uint32(w.ID), uint32(w.ID))
		put16(ev[16:], x)
		put16(ev[18:], y)
		put16(ev[20:], width)
		put16(ev[22:], height)
		return ev
	}

	t.Run("resize", func(t *testing.T) {
		require.NoError(t, nc.Push(configure(10, 20, 320, 240)))
		sync(t)
		assert.Empty(t, sizes, "same size")
		require.NoError(t, nc.Push(configure(50, 60, 320, 240)))
		sync(t)
		assert.Empty(t, sizes, "moved only")
		require.NoError(t, nc.Push(configure(50, 60, 400, 300)))
		sync(t)
		assert.Equal(t, []image.Point{{400, 300}}, sizes)
	})

	t.Run("expose", func(t *testing.T) {
		ev := eventFrame(12, 0, uint32(w.ID), 5|6<<16, 7|8<<16, 1)
		require.NoError(t, nc.Push(ev))
		sync(t)
		assert.Empty(t, areas, "more exposures follow")
		put16(ev[16:], 0)
		require.NoError(t, nc.Push(ev))
		sync(t)
		assert.Equal(t, []image.Rectangle{image.Rect(5, 6, 12, 14)}, areas)
	})

	t.Run("input", func(t *testing.T) {
		require.NoError(t, nc.Push(eventFrame(2, 38, 0, uint32(dxsRoot), uint32(w.ID))))
		require.NoError(t, nc.Push(eventFrame(4, 1, 0, uint32(dxsRoot), uint32(w.ID))))
		require.NoError(t, nc.Push(eventFrame(6, 0, 0, uint32(dxsRoot), uint32(w.ID))))
		sync(t)
		assert.Len(t, keys, 1)
		assert.Len(t, buttons, 1)
		assert.Len(t, motions, 1)

		// events for other windows are ignored
		require.NoError(t, nc.Push(eventFrame(2, 38, 0, uint32(dxsRoot), 0x999)))
		sync(t)
		assert.Len(t, keys, 1)
	})

	t.Run("other protocols", func(t *testing.T) {
		require.NoError(t, nc.Push(clientMessage(w, 12345)))
		sync(t)
		assert.Equal(t, byte(opGetInputFocus), s.recordedOps()[len(s.recorded())-1])
		assert.False(t, w.closing)
	})
}

func TestWindowCloseRequest(t *testing.T) {
	t.Run("default destroys", func(t *testing.T) {
		s, w, nc := newTestWindow(t)
		require.NoError(t, nc.Push(clientMessage(w, uint32(w.wmDelete))))
		runUntilDone(t, w)
		assert.Equal(t, uint32(w.ID), get32(s.lastRequest(t, opDestroyWindow).body))
		assert.True(t, w.destroyed)
		assert.NotContains(t, w.c.ids.claimed, uint32(w.ID)-dxsIDBase)
	})

	t.Run("handler", func(t *testing.T) {
		s, w, nc := newTestWindow(t)
		closes := 0
		w.OnClose(func() {
			closes++
			w.c.Quit()
		})
		require.NoError(t, nc.Push(clientMessage(w, uint32(w.wmDelete))))
		runUntilDone(t, w)
		assert.Equal(t, 1, closes)
		assert.NotContains(t, s.recordedOps(), byte(opDestroyWindow))

		// destroying from the handler's decision does not call it again
		require.NoError(t, w.Destroy())
		runUntilDone(t, w)
		assert.Equal(t, 1, closes)
	})

	t.Run("destroyed elsewhere", func(t *testing.T) {
		_, w, nc := newTestWindow(t)
		closes := 0
		w.OnClose(func() { closes++ })
		require.NoError(t, nc.Push(eventFrame(17, 0, uint32(w.ID), uint32(w.ID))))
		runUntilDone(t, w)
		assert.Equal(t, 1, closes)
		assert.True(t, w.destroyed)
		require.NoError(t, w.Destroy())
	})
}

func TestDrawingContextOnWindow(t *testing.T) {
	s, w, _ := newTestWindow(t)
	dc, err := NewDrawingContext(w)
	require.NoError(t, err)
	assert.Equal(t, w.ID.Drawable(), dc.Drawable())
	assert.Equal(t, image.Point{}, dc.Size())
	require.NoError(t, dc.Close())
	assert.NotContains(t, s.recordedOps(), byte(opFreePixmap))
}

func TestWindowReleasedOnDestroyNotify(t *testing.T) {
	s := newDummyXServer()
	c, nc := s.connect(t, Options{})
	destroySlot := c.events.byOpcode[17]
	before := len(destroySlot.listeners)

	w, err := NewWindow(c, "Test", image.Rect(0, 0, 10, 10))
	require.NoError(t, err)
	closes := 0
	w.OnClose(func() { closes++ })
	assert.Len(t, destroySlot.listeners, before+1)
	local := uint32(w.ID) - dxsIDBase

	require.NoError(t, w.Destroy())
	assert.Contains(t, c.ids.claimed, local, "held until the server confirms")

	// the round trip reads the DestroyNotify the server sent back
	require.NoError(t, c.Sync())
	assert.NotContains(t, c.ids.claimed, local)
	assert.Len(t, destroySlot.listeners, before)
	assert.Equal(t, 1, closes)
	assert.True(t, c.quit.Load())
	c.quit.Store(false)

	// a notify for a later window reusing the ID does not reach this one
	require.NoError(t, nc.Push(eventFrame(17, 0, uint32(w.ID), uint32(w.ID))))
	require.NoError(t, c.Sync())
	assert.Equal(t, 1, closes)
	assert.False(t, c.quit.Load())
}
