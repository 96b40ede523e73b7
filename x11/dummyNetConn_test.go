package x11

import (
	"bytes"
	"errors"
	"io"
	"net"
	"time"
)

type dAddr struct {
	s string
}

func (dAddr) Network() string  { return "dummy" }
func (a dAddr) String() string { return a.s }

var (
	dNCErrClosed = errors.New("server closed")
	dNCErrWrite  = errors.New("server write failed")
	dNCErrRead   = errors.New("server read failed")
)

// dNCErrTimeout is returned by Read once the read deadline has passed.
type dNCErrTimeout struct{}

func (dNCErrTimeout) Error() string   { return "i/o timeout" }
func (dNCErrTimeout) Timeout() bool   { return true }
func (dNCErrTimeout) Temporary() bool { return true }

type dNCIoResult struct {
	n   int
	err error
}
type dNCIo struct {
	b      []byte
	result chan dNCIoResult
}

type dNCCWriteError struct{}
type dNCCWriteSuccess struct{}
type dNCCReadError struct{}
type dNCCReadSuccess struct{}
type dNCCPush struct{ b []byte }
type dNCCDeadline struct{ t time.Time }

// dummy net.Conn interface. Needs to be constructed via newDummyNetConn([...]) function.
type dNC struct {
	reply   func([]byte) []byte
	addr    dAddr
	in, out chan dNCIo
	control chan interface{}
	done    chan struct{}

	// deadline is only touched by the goroutine using the connection.
	deadline time.Time
}

// Results running dummy server, satisfying net.Conn interface for test purposes.
// 'name' parameter will be returned via (*dNC).Local/RemoteAddr().String()
// 'reply' parameter function will be runned only on successful (*dNC).Write(b) with 'b' as parameter to 'reply'. The result will be stored in internal buffer and can be retrieved later via (*dNC).Read([...]) method.
// Data can also be queued without a write via (*dNC).Push, like events sent by a server on its own.
// It is users responsibility to stop and clean up resources with (*dNC).Close, if not needed anymore.
func newDummyNetConn(name string, reply func([]byte) []byte) *dNC {

	s := &dNC{
		reply:   reply,
		addr:    dAddr{name},
		in:      make(chan dNCIo),
		out:     make(chan dNCIo),
		control: make(chan interface{}),
		done:    make(chan struct{}),
	}

	in, out := s.in, chan dNCIo(nil)
	buf := &bytes.Buffer{}
	errorRead, errorWrite := false, false

	go func() {
		defer close(s.done)
		for {
			select {
			case dxsio := <-in:
				if errorWrite {
					dxsio.result <- dNCIoResult{0, dNCErrWrite}
					break
				}

				response := s.reply(dxsio.b)

				buf.Write(response)
				dxsio.result <- dNCIoResult{len(dxsio.b), nil}

				if buf.Len() > 0 && out == nil {
					out = s.out
				}
			case dxsio := <-out:
				if errorRead {
					dxsio.result <- dNCIoResult{0, dNCErrRead}
					break
				}

				n, err := buf.Read(dxsio.b)
				dxsio.result <- dNCIoResult{n, err}

				if buf.Len() == 0 {
					out = nil
				}
			case ci := <-s.control:
				if ci == nil {
					return
				}
				switch c := ci.(type) {
				case dNCCWriteError:
					errorWrite = true
				case dNCCWriteSuccess:
					errorWrite = false
				case dNCCReadError:
					errorRead = true
					out = s.out
				case dNCCReadSuccess:
					errorRead = false
					if buf.Len() == 0 {
						out = nil
					}
				case dNCCPush:
					buf.Write(c.b)
					if buf.Len() > 0 && out == nil {
						out = s.out
					}
				default:
				}
			}
		}
	}()
	return s
}

// Shuts down dummy net.Conn server. Every blocking or future method calls will do nothing and result in error.
// Result will be dNCErrClosed if server was allready closed.
func (s *dNC) Close() error {
	select {
	case s.control <- nil:
		<-s.done
		return nil
	case <-s.done:
	}
	return dNCErrClosed
}

// Performs a write action to server.
// If set to result in error via (*dNC).WriteError, the 'reply' function will NOT be called and the result will be (0, dNCErrWrite).
// Otherwise the 'reply' function result is appended to the internal buffer.
// If server was closed previously, result will be (0, dNCErrClosed).
func (s *dNC) Write(b []byte) (int, error) {
	resChan := make(chan dNCIoResult)
	select {
	case s.in <- dNCIo{b, resChan}:
		res := <-resChan
		return res.n, res.err
	case <-s.done:
	}
	return 0, dNCErrClosed
}

// Performs a read action from server.
// Blocks while the internal buffer is empty, until data arrives, the read deadline passes (dNCErrTimeout) or the server closes (io.EOF).
func (s *dNC) Read(b []byte) (int, error) {
	var expired <-chan time.Time
	if !s.deadline.IsZero() {
		d := time.Until(s.deadline)
		if d <= 0 {
			return 0, dNCErrTimeout{}
		}
		t := time.NewTimer(d)
		defer t.Stop()
		expired = t.C
	}
	resChan := make(chan dNCIoResult)
	select {
	case s.out <- dNCIo{b, resChan}:
		res := <-resChan
		return res.n, res.err
	case <-expired:
		return 0, dNCErrTimeout{}
	case <-s.done:
	}
	return 0, io.EOF
}
func (s *dNC) LocalAddr() net.Addr                { return s.addr }
func (s *dNC) RemoteAddr() net.Addr               { return s.addr }
func (s *dNC) SetDeadline(t time.Time) error      { return s.SetReadDeadline(t) }
func (s *dNC) SetReadDeadline(t time.Time) error  { s.deadline = t; return nil }
func (s *dNC) SetWriteDeadline(t time.Time) error { return nil }

func (s *dNC) Control(i interface{}) error {
	select {
	case s.control <- i:
		return nil
	case <-s.done:
	}
	return dNCErrClosed
}

// Makes (*dNC).Write result (0, dNCErrWrite).
func (s *dNC) WriteError() error {
	return s.Control(dNCCWriteError{})
}

func (s *dNC) WriteSuccess() error {
	return s.Control(dNCCWriteSuccess{})
}

// Makes every blocked and following (*dNC).Read([...]) imidiatly result in error.
func (s *dNC) ReadError() error {
	return s.Control(dNCCReadError{})
}

func (s *dNC) ReadSuccess() error {
	return s.Control(dNCCReadSuccess{})
}

// Queues b for reading as if the server had sent it unprompted.
func (s *dNC) Push(b []byte) error {
	return s.Control(dNCCPush{append([]byte(nil), b...)})
}
