// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x11

import (
	"bufio"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Options tune a connection. The zero value is usable.
type Options struct {
	// DialTimeout bounds connecting to the server. Zero means no limit.
	DialTimeout time.Duration

	// ReadTimeout bounds each wait for a reply. When it expires the call
	// fails with the underlying I/O error and the connection is closed.
	// Zero means no limit.
	ReadTimeout time.Duration

	// EventQueueDepth is how many undelivered events of one type are kept
	// between commits. The default of 1 keeps only the latest.
	EventQueueDepth int

	// PollInterval is how long Run blocks waiting for input before it
	// checks the quit flag again. Defaults to 50ms.
	PollInterval time.Duration
}

const defaultPollInterval = 50 * time.Millisecond

// A Conn represents a connection to an X server.
//
// A Conn is not safe for concurrent use. Requests, replies and event
// delivery all happen on the calling goroutine.
type Conn struct {
	conn          net.Conn
	r             *bufio.Reader
	w             encoder
	frame         [32]byte
	seq           uint16
	opts          Options
	display       Display
	defaultScreen int
	quit          atomic.Bool
	closed        bool

	ids    *idAllocator
	atoms  *atomCache
	events *dispatcher

	Setup *Setup
}

// NewConn connects to the X server named by $DISPLAY.
func NewConn() (*Conn, error) {
	return NewConnDisplay("")
}

// NewConnDisplay is just like NewConn, but allows a specific DISPLAY
// string to be used.
// If 'display' is empty it will be taken from os.Getenv("DISPLAY").
func NewConnDisplay(display string) (*Conn, error) {
	return NewConnOptions(display, Options{})
}

// NewConnOptions is NewConnDisplay with explicit options.
func NewConnOptions(display string, opts Options) (*Conn, error) {
	d, err := ParseDisplay(display)
	if err != nil {
		return nil, err
	}
	dialer := net.Dialer{Timeout: opts.DialTimeout}
	nc, err := dialer.Dial(d.Network(), d.Address())
	if err != nil {
		return nil, errors.Wrapf(err, "x11: cannot connect to %s", d)
	}
	c, err := newConn(nc, d, opts)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

// NewConnNet performs the handshake over an already established stream.
func NewConnNet(nc net.Conn, opts Options) (*Conn, error) {
	return newConn(nc, Display{}, opts)
}

func newConn(nc net.Conn, d Display, opts Options) (*Conn, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	c := &Conn{
		conn:    nc,
		r:       bufio.NewReaderSize(nc, 64*1024),
		opts:    opts,
		display: d,
		atoms:   newAtomCache(),
		events:  newDispatcher(opts.EventQueueDepth),
	}
	if err := writeSetupRequest(nc); err != nil {
		return nil, err
	}
	setup, err := readSetup(c.r)
	if err != nil {
		return nil, err
	}
	if len(setup.Roots) == 0 {
		return nil, errors.New("x11: server reported no screens")
	}
	c.Setup = setup
	c.defaultScreen = d.Screen
	if c.defaultScreen >= len(setup.Roots) {
		c.defaultScreen = 0
	}
	c.ids = newIDAllocator(setup.ResourceIDBase, setup.ResourceIDMask)
	return c, nil
}

// DefaultScreen returns the Screen info for the default screen, which is
// 0 or the one given in the display argument to Dial.
func (c *Conn) DefaultScreen() *Screen { return &c.Setup.Roots[c.defaultScreen] }

// Display returns the display the connection was opened on.
func (c *Conn) Display() Display { return c.display }

// Close closes the connection to the X server.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
