/*
Package x11 speaks the core X11 protocol over a single connection, and offers
a small window and drawing layer on top of it.

A Conn is driven by one goroutine. Requests without replies are written
immediately; requests with replies block until the matching reply arrives.
Events read while waiting are not lost: they are decoded into per-type slots
and handed to listeners when the call returns, or by Poll and Run. By default
only the latest undelivered event of each type is kept, which is what a
redraw loop wants. Set Options.EventQueueDepth to keep more.

Protocol errors of requests with replies are returned by the call. Errors of
other requests arrive later and are delivered to listeners of *Error.

Example

This opens a window, draws a rectangle whenever it is exposed and exits when
the window manager closes it.

	package main

	import (
		"image"
		"image/color"
		"log"

		"github.com/BurntSushi/xwin/x11"
	)

	func main() {
		X, err := x11.NewConn()
		if err != nil {
			log.Fatal(err)
		}
		defer X.Close()

		win, err := x11.NewWindow(X, "hello", image.Rect(0, 0, 320, 240))
		if err != nil {
			log.Fatal(err)
		}
		dc, err := x11.NewDrawingContext(win)
		if err != nil {
			log.Fatal(err)
		}
		win.OnDraw(func(image.Rectangle) {
			dc.SetColor(color.RGBA{R: 0xff, A: 0xff})
			dc.FillRect(image.Rect(20, 20, 120, 80))
		})
		win.Show()
		if err := win.Run(); err != nil {
			log.Fatal(err)
		}
	}

Properties

Window properties are typed: a Property pairs a name with a Codec that knows
the property's type atom, unit size and byte layout. Common ICCCM and EWMH
properties are predefined.

	name, err := x11.PropNetWMName.Get(X, win.ID)

Fonts

Core fonts are listed by XLFD pattern and grouped into families; see
FontFamilies and the xlfd subpackage.

What does not work

No extensions, and only the part of the core protocol needed for windows,
drawing, text and properties. Connections are made without authentication.
*/
package x11
