// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x11

import (
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
)

// request is anything that can be written to the server. encode writes the
// fixed fields from offset 0 and then at most one variable payload. The
// transport owns the opcode byte, the padding and the length field.
type request interface {
	opcode() byte
	encode(e *encoder)
}

// replyRequest is a request the server answers. Only these may be passed to
// roundTrip.
type replyRequest interface {
	request
	hasReply()
}

// probeTimeout is how long the availability probe waits on streams that
// cannot report pending bytes.
const probeTimeout = time.Millisecond

// send writes one request and returns its sequence number.
func (c *Conn) send(req request) (uint16, error) {
	if c.closed {
		return 0, ErrClosed
	}
	defer c.w.reset()

	req.encode(&c.w)
	c.w.align()
	b := c.w.buf
	b[0] = req.opcode()
	words := len(b) / 4
	if words > int(c.Setup.MaximumRequestLength) {
		return 0, errors.Wrapf(ErrRequestTooLarge, "opcode %d: %d words, server allows %d",
			b[0], words, c.Setup.MaximumRequestLength)
	}
	put16(b[2:], uint16(words))

	if _, err := c.conn.Write(b); err != nil {
		return 0, errors.Wrapf(err, "x11: write request with opcode %d", b[0])
	}
	c.seq++
	return c.seq, nil
}

// roundTrip sends req and waits for its reply.
func (c *Conn) roundTrip(req replyRequest) ([]byte, error) {
	seq, err := c.send(req)
	if err != nil {
		return nil, err
	}
	return c.readReply(seq)
}

// readReply blocks until the reply or error for request seq arrives. Events
// read in the meantime are dispatched and committed before returning.
func (c *Conn) readReply(seq uint16) ([]byte, error) {
	if c.opts.ReadTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
	}
	buf, err := c.awaitReply(seq)
	if c.opts.ReadTimeout > 0 {
		c.conn.SetReadDeadline(time.Time{})
		if isTimeout(err) {
			// a frame may be half read, so nothing after it can be framed
			c.Close()
		}
	}
	c.events.commit()
	return buf, err
}

func (c *Conn) awaitReply(seq uint16) ([]byte, error) {
	for {
		if err := c.readFrame(); err != nil {
			return nil, err
		}
		switch c.frame[0] {
		case 1:
			buf, err := c.readReplyData()
			if err != nil {
				return nil, err
			}
			if s := get16(buf[2:]); s != seq {
				logger.Printf("Dropping reply for sequence %d while waiting for %d.", s, seq)
				continue
			}
			return buf, nil
		case 0:
			// Errors of earlier requests without replies go to listeners.
			xe := decodeError(c.frame[:]).(*Error)
			if xe.Sequence == seq {
				return nil, xe
			}
			c.events.dispatch(c.frame[:])
		default:
			c.events.dispatch(c.frame[:])
		}
	}
}

func (c *Conn) readFrame() error {
	if _, err := io.ReadFull(c.r, c.frame[:]); err != nil {
		return errors.Wrap(err, "x11: read")
	}
	return nil
}

// readReplyData reads the trailing data announced by the reply in c.frame
// and returns the whole reply.
func (c *Conn) readReplyData() ([]byte, error) {
	n := int(get32(c.frame[4:])) * 4
	buf := make([]byte, 32+n)
	copy(buf, c.frame[:])
	if _, err := io.ReadFull(c.r, buf[32:]); err != nil {
		return nil, errors.Wrap(err, "x11: read reply data")
	}
	return buf, nil
}

// readEvent reads one frame outside of a round trip.
func (c *Conn) readEvent() error {
	if err := c.readFrame(); err != nil {
		return err
	}
	if c.frame[0] == 1 {
		buf, err := c.readReplyData()
		if err != nil {
			return err
		}
		logger.Printf("Dropping unexpected reply for sequence %d.", get16(buf[2:]))
		return nil
	}
	c.events.dispatch(c.frame[:])
	return nil
}

// Poll commits pending events, dispatches every frame that is already
// available and commits again. It does not block.
func (c *Conn) Poll() error {
	c.events.commit()
	for !c.quit.Load() {
		ok, err := c.available()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := c.readEvent(); err != nil {
			return err
		}
	}
	c.events.commit()
	return nil
}

// Run is the message loop. It delivers events to listeners until Quit is
// called or the server goes away. A lost connection ends the loop without an
// error.
func (c *Conn) Run() error {
	defer c.quit.Store(false)
	for !c.quit.Load() {
		if err := c.Poll(); err != nil {
			return c.endLoop(err)
		}
		if c.quit.Load() {
			break
		}
		if err := c.wait(c.opts.PollInterval); err != nil && !isTimeout(err) {
			return c.endLoop(err)
		}
	}
	return nil
}

// Quit makes Run return after the current iteration. It may be called from
// a listener or from another goroutine.
func (c *Conn) Quit() { c.quit.Store(true) }

// Sync waits until the server has processed every request sent so far.
// Errors for those requests are dispatched to Error listeners.
func (c *Conn) Sync() error {
	_, err := c.GetInputFocus()
	return err
}

// available reports whether input is waiting without blocking for it.
func (c *Conn) available() (bool, error) {
	if c.r.Buffered() > 0 {
		return true, nil
	}
	if n, ok := socketPending(c.conn); ok {
		return n > 0, nil
	}
	switch err := c.wait(probeTimeout); {
	case err == nil:
		return true, nil
	case isTimeout(err):
		return false, nil
	default:
		return false, err
	}
}

// wait blocks until input is buffered or d elapses. Partial frames stay in
// the read buffer.
func (c *Conn) wait(d time.Duration) error {
	c.conn.SetReadDeadline(time.Now().Add(d))
	_, err := c.r.Peek(1)
	c.conn.SetReadDeadline(time.Time{})
	return err
}

func (c *Conn) endLoop(err error) error {
	if c.closed || disconnected(err) {
		logger.Printf("Connection to X server lost: %v", err)
		return nil
	}
	return err
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func disconnected(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) || errors.Is(err, ErrClosed)
}
