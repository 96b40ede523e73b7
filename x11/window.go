package x11

import (
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// AppEventMask is the set of events a top-level window selects.
const AppEventMask = EventMaskKeyPress | EventMaskKeyRelease |
	EventMaskButtonPress | EventMaskButtonRelease | EventMaskPointerMotion |
	EventMaskExposure | EventMaskStructureNotify

// AppWindow is a top-level application window. Its handlers run on the
// goroutine that drives the connection, during Run or any request that waits
// for a reply.
type AppWindow struct {
	c         *Conn
	ID        Window
	bounds    image.Rectangle
	wmDelete  Atom
	closing   bool
	destroyed bool
	unlisten  []func()

	onKey    func(KeyEvent)
	onButton func(ButtonEvent)
	onMotion func(MotionNotifyEvent)
	onResize func(size image.Point)
	onDraw   func(area image.Rectangle)
	onClose  func()
}

// NewWindow creates an unmapped top-level window on the default screen and
// announces it to the window manager.
func NewWindow(c *Conn, title string, bounds image.Rectangle) (*AppWindow, error) {
	if bounds.Empty() {
		return nil, errors.Errorf("x11: empty window bounds %v", bounds)
	}
	scr := c.DefaultScreen()
	id, err := c.NewWindowID()
	if err != nil {
		return nil, err
	}
	err = c.CreateWindow(scr.RootDepth, id, scr.Root,
		int16(bounds.Min.X), int16(bounds.Min.Y), uint16(bounds.Dx()), uint16(bounds.Dy()), 0,
		WindowClassInputOutput, scr.RootVisual,
		WindowValues{BackPixel: Some(scr.BlackPixel), EventMask: Some(AppEventMask)})
	if err != nil {
		c.ReleaseID(uint32(id))
		return nil, err
	}
	w := &AppWindow{c: c, ID: id, bounds: bounds}
	if err := w.announce(title); err != nil {
		// nothing listens for this window yet, so its ID is released here
		if c.DestroyWindow(id) == nil {
			c.ReleaseID(uint32(id))
		}
		return nil, err
	}
	w.listen()
	return w, nil
}

// announce sets the properties window managers look at.
func (w *AppWindow) announce(title string) error {
	if err := w.SetTitle(title); err != nil {
		return err
	}
	prog := filepath.Base(os.Args[0])
	if err := PropWMClass.Set(w.c, w.ID, WMClass{Instance: prog, Class: title}); err != nil {
		return err
	}
	var err error
	if w.wmDelete, err = w.c.Atom("WM_DELETE_WINDOW"); err != nil {
		return err
	}
	if err := PropWMProtocols.Set(w.c, w.ID, []Atom{w.wmDelete}); err != nil {
		return err
	}
	if host, err := os.Hostname(); err == nil {
		if err := PropWMClientMachine.Set(w.c, w.ID, host); err != nil {
			return err
		}
	}
	return PropNetWMPid.Set(w.c, w.ID, uint32(os.Getpid()))
}

func (w *AppWindow) listen() {
	w.unlisten = []func(){
		Listen(w.c, func(ev KeyEvent) {
			if w.live(ev.Event) && w.onKey != nil {
				w.onKey(ev)
			}
		}),
		Listen(w.c, func(ev ButtonEvent) {
			if w.live(ev.Event) && w.onButton != nil {
				w.onButton(ev)
			}
		}),
		Listen(w.c, func(ev MotionNotifyEvent) {
			if w.live(ev.Event) && w.onMotion != nil {
				w.onMotion(ev)
			}
		}),
		Listen(w.c, func(ev ConfigureNotifyEvent) {
			if !w.live(ev.Window) {
				return
			}
			old := w.bounds
			w.bounds = image.Rect(int(ev.X), int(ev.Y), int(ev.X)+int(ev.Width), int(ev.Y)+int(ev.Height))
			if w.bounds.Size() != old.Size() && w.onResize != nil {
				w.onResize(w.bounds.Size())
			}
		}),
		Listen(w.c, func(ev ExposeEvent) {
			// draw once per burst of exposures
			if w.live(ev.Window) && ev.Count == 0 && w.onDraw != nil {
				w.onDraw(image.Rect(int(ev.X), int(ev.Y), int(ev.X)+int(ev.Width), int(ev.Y)+int(ev.Height)))
			}
		}),
		Listen(w.c, func(ev ClientMessageEvent) {
			if !w.live(ev.Window) || ev.Format != 32 || Atom(ev.Data.Data32[0]) != w.wmDelete {
				return
			}
			w.closing = true
			if w.onClose != nil {
				w.onClose()
				return
			}
			if err := w.Destroy(); err != nil {
				logger.Printf("Cannot destroy window %s: %s", w.ID, err)
			}
		}),
		Listen(w.c, func(ev DestroyNotifyEvent) {
			if ev.Window != w.ID {
				return
			}
			if !w.closing && w.onClose != nil {
				w.onClose()
			}
			w.closing = true
			w.destroyed = true
			w.release()
			w.c.Quit()
		}),
	}
}

// release drops the window's listeners and frees its ID once the server has
// confirmed the destruction. A later window that gets the same ID sees none
// of this window's handlers.
func (w *AppWindow) release() {
	for _, stop := range w.unlisten {
		stop()
	}
	w.unlisten = nil
	w.c.ReleaseID(uint32(w.ID))
}

func (w *AppWindow) live(id Window) bool { return id == w.ID && !w.destroyed }

// OnKey sets the handler for key presses and releases.
func (w *AppWindow) OnKey(fn func(KeyEvent)) { w.onKey = fn }

// OnButton sets the handler for pointer button presses and releases.
func (w *AppWindow) OnButton(fn func(ButtonEvent)) { w.onButton = fn }

// OnMotion sets the handler for pointer motion.
func (w *AppWindow) OnMotion(fn func(MotionNotifyEvent)) { w.onMotion = fn }

// OnResize sets the handler called when the window's size changes.
func (w *AppWindow) OnResize(fn func(size image.Point)) { w.onResize = fn }

// OnDraw sets the handler called with the last exposed area of each burst
// of exposures.
func (w *AppWindow) OnDraw(fn func(area image.Rectangle)) { w.onDraw = fn }

// OnClose sets the handler called when the window manager asks the window to
// close or the window is destroyed. Without a handler a close request
// destroys the window.
func (w *AppWindow) OnClose(fn func()) { w.onClose = fn }

func (w *AppWindow) Conn() *Conn { return w.c }

func (w *AppWindow) Show() error { return w.c.MapWindow(w.ID) }

func (w *AppWindow) Hide() error { return w.c.UnmapWindow(w.ID) }

// SetTitle sets both the ICCCM and the EWMH window name.
func (w *AppWindow) SetTitle(title string) error {
	if err := PropWMName.Set(w.c, w.ID, title); err != nil {
		return err
	}
	return PropNetWMName.Set(w.c, w.ID, title)
}

// Title reads the window name back, preferring the UTF-8 one.
func (w *AppWindow) Title() (string, error) {
	title, err := PropNetWMName.Get(w.c, w.ID)
	if errors.Cause(err) == ErrNoProperty {
		return PropWMName.Get(w.c, w.ID)
	}
	return title, err
}

// SetMinSize tells the window manager not to shrink the window below size.
func (w *AppWindow) SetMinSize(size image.Point) error {
	return PropWMNormalHints.Set(w.c, w.ID, WMSizeHints{
		Flags:     SizeHintPMinSize,
		MinWidth:  int32(size.X),
		MinHeight: int32(size.Y),
	})
}

// SetBounds moves and resizes the window.
func (w *AppWindow) SetBounds(r image.Rectangle) error {
	if r.Empty() {
		return errors.Errorf("x11: empty window bounds %v", r)
	}
	return w.c.ConfigureWindow(w.ID, ConfigureValues{
		X:      Some(int16(r.Min.X)),
		Y:      Some(int16(r.Min.Y)),
		Width:  Some(uint16(r.Dx())),
		Height: Some(uint16(r.Dy())),
	})
}

// Bounds asks the server for the window's current geometry, relative to its
// parent.
func (w *AppWindow) Bounds() (image.Rectangle, error) {
	g, err := w.c.GetGeometry(w.ID.Drawable())
	if err != nil {
		return image.Rectangle{}, err
	}
	w.bounds = image.Rect(int(g.X), int(g.Y), int(g.X)+int(g.Width), int(g.Y)+int(g.Height))
	return w.bounds, nil
}

func (w *AppWindow) Attributes() (*GetWindowAttributesReply, error) {
	return w.c.GetWindowAttributes(w.ID)
}

// Clear repaints the whole window with its background.
func (w *AppWindow) Clear() error {
	return w.c.ClearArea(false, w.ID, Rectangle{})
}

// Destroy destroys the window. The server answers with a DestroyNotify,
// which releases the window's ID and ends Run.
func (w *AppWindow) Destroy() error {
	if w.destroyed {
		return nil
	}
	if err := w.c.DestroyWindow(w.ID); err != nil {
		return err
	}
	w.destroyed = true
	return nil
}

// Run processes events until the window is destroyed, Quit is called or the
// server goes away.
func (w *AppWindow) Run() error { return w.c.Run() }
