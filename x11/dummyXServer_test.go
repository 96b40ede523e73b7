package x11

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixed values announced by the dummy server's setup.
const (
	dxsRoot       Window   = 0x100
	dxsVisual     VisualID = 0x21
	dxsIDBase     uint32   = 0x400000
	dxsIDMask     uint32   = 0x1fffff
	dxsMaxRequest uint16   = 0xffff
	dxsCharWidth           = 7
	dxsFontAscent          = 11
	dxsFontDescent         = 3
)

// dxsRequest is one request as the dummy server received it.
type dxsRequest struct {
	seq    uint16
	opcode byte
	data   byte
	body   []byte // everything after the 4-byte header
}

type dxsProperty struct {
	typ    Atom
	format byte
	data   []byte
}

// dummyXServer is a replier for newDummyNetConn that speaks enough of the
// core protocol to test the client: the handshake, atoms, properties, fonts
// and geometry. Every request is recorded.
type dummyXServer struct {
	mu sync.Mutex

	// setupStatus and setupReason make the handshake fail when set.
	setupStatus byte
	setupReason string
	maxRequest  uint16

	setupDone bool
	seq       uint16
	requests  []dxsRequest

	atoms    map[string]Atom
	names    map[Atom]string
	nextAtom Atom
	props    map[Window]map[Atom]dxsProperty
	fonts    []string
	geometry Rectangle

	// errors makes requests with the given opcode fail.
	errors map[byte]ErrorCode
	// before holds frames sent ahead of the next reply.
	before [][]byte
}

func newDummyXServer() *dummyXServer {
	s := &dummyXServer{
		setupStatus: setupSuccess,
		maxRequest:  dxsMaxRequest,
		atoms:       make(map[string]Atom),
		names:       make(map[Atom]string),
		nextAtom:    AtomWMTransientFor + 1,
		props:       make(map[Window]map[Atom]dxsProperty),
		geometry:    Rectangle{10, 20, 300, 200},
		errors:      make(map[byte]ErrorCode),
	}
	for name, a := range predefinedByName {
		s.atoms[name] = a
		s.names[a] = name
	}
	return s
}

// connect performs the handshake over a dummy connection and returns both
// ends. The connection is closed when the test ends.
func (s *dummyXServer) connect(t *testing.T, opts Options) (*Conn, *dNC) {
	t.Helper()
	nc := newDummyNetConn(t.Name(), s.reply)
	c, err := NewConnNet(nc, opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Close()
		nc.Close()
	})
	return c, nc
}

func (s *dummyXServer) reply(b []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.setupDone {
		s.setupDone = true
		return s.setupReply()
	}
	var out []byte
	for len(b) >= 4 {
		n := int(get16(b[2:])) * 4
		if n < 4 || n > len(b) {
			break
		}
		out = append(out, s.handle(b[:n])...)
		b = b[n:]
	}
	return out
}

func (s *dummyXServer) setupReply() []byte {
	if s.setupStatus != setupSuccess {
		reason := []byte(s.setupReason)
		data := make([]byte, pad(len(reason)))
		copy(data, reason)
		hdr := make([]byte, 8)
		hdr[0] = s.setupStatus
		if s.setupStatus == setupFailed {
			hdr[1] = byte(len(reason))
		}
		put16(hdr[2:], 11)
		put16(hdr[6:], uint16(len(data)/4))
		return append(hdr, data...)
	}

	vendor := "dummy"
	var d []byte
	fixed := make([]byte, 32)
	put32(fixed[0:], 1)
	put32(fixed[4:], dxsIDBase)
	put32(fixed[8:], dxsIDMask)
	put16(fixed[16:], uint16(len(vendor)))
	put16(fixed[18:], s.maxRequest)
	fixed[20] = 1 // screens
	fixed[21] = 2 // formats
	fixed[22] = byte(ByteOrderLSBFirst)
	fixed[24], fixed[25] = 32, 32
	fixed[26], fixed[27] = 8, 255
	d = append(d, fixed...)
	v := make([]byte, pad(len(vendor)))
	copy(v, vendor)
	d = append(d, v...)
	d = append(d, 1, 1, 32, 0, 0, 0, 0, 0)
	d = append(d, 24, 32, 32, 0, 0, 0, 0, 0)

	scr := make([]byte, 40)
	put32(scr[0:], uint32(dxsRoot))
	put32(scr[4:], 0x20)
	put32(scr[8:], 0xffffff)
	put32(scr[12:], 0)
	put16(scr[20:], 1920)
	put16(scr[22:], 1080)
	put32(scr[32:], uint32(dxsVisual))
	scr[38] = 24 // root depth
	scr[39] = 1  // depths
	d = append(d, scr...)

	depth := make([]byte, 8)
	depth[0] = 24
	put16(depth[2:], 1)
	d = append(d, depth...)
	vis := make([]byte, 24)
	put32(vis[0:], uint32(dxsVisual))
	vis[4] = byte(VisualClassTrueColor)
	vis[5] = 8
	put16(vis[6:], 256)
	put32(vis[8:], 0xff0000)
	put32(vis[12:], 0x00ff00)
	put32(vis[16:], 0x0000ff)
	d = append(d, vis...)

	hdr := make([]byte, 8)
	hdr[0] = setupSuccess
	put16(hdr[2:], 11)
	put16(hdr[6:], uint16(len(d)/4))
	return append(hdr, d...)
}

func (s *dummyXServer) handle(req []byte) []byte {
	s.seq++
	op := req[0]
	s.requests = append(s.requests, dxsRequest{
		seq:    s.seq,
		opcode: op,
		data:   req[1],
		body:   append([]byte(nil), req[4:]...),
	})
	if code, ok := s.errors[op]; ok {
		var bad uint32
		if len(req) >= 8 {
			bad = get32(req[4:])
		}
		return s.errorFrame(code, op, bad)
	}

	var body []byte
	var data byte
	switch op {
	case opDestroyWindow:
		w := get32(req[4:])
		delete(s.props, Window(w))
		ev := eventFrame(17, 0, w, w)
		put16(ev[2:], s.seq)
		return ev
	case opGetWindowAttributes:
		body = make([]byte, 36)
		put32(body[0:], uint32(dxsVisual))
		put16(body[4:], uint16(WindowClassInputOutput))
		body[18] = byte(MapStateViewable)
	case opGetGeometry:
		data = 24
		body = make([]byte, 16)
		put32(body[0:], uint32(dxsRoot))
		put16(body[4:], uint16(s.geometry.X))
		put16(body[6:], uint16(s.geometry.Y))
		put16(body[8:], s.geometry.Width)
		put16(body[10:], s.geometry.Height)
	case opQueryTree:
		body = make([]byte, 12)
		put32(body[0:], uint32(dxsRoot))
		put32(body[4:], uint32(dxsRoot))
	case opInternAtom:
		n := int(get16(req[4:]))
		name := string(req[8 : 8+n])
		a, ok := s.atoms[name]
		if !ok && req[1] == 0 {
			a = s.nextAtom
			s.nextAtom++
			s.atoms[name] = a
			s.names[a] = name
		}
		body = make([]byte, 4)
		put32(body, uint32(a))
	case opGetAtomName:
		name, ok := s.names[Atom(get32(req[4:]))]
		if !ok {
			return s.errorFrame(BadAtom, op, get32(req[4:]))
		}
		body = make([]byte, 24)
		put16(body[0:], uint16(len(name)))
		body = append(body, name...)
	case opChangeProperty:
		w, prop := Window(get32(req[4:])), Atom(get32(req[8:]))
		format := req[16]
		n := int(get32(req[20:])) * int(format/8)
		p := dxsProperty{Atom(get32(req[12:])), format, append([]byte(nil), req[24:24+n]...)}
		if s.props[w] == nil {
			s.props[w] = make(map[Atom]dxsProperty)
		}
		if old, ok := s.props[w][prop]; ok && PropMode(req[1]) == PropModeAppend {
			p.data = append(old.data, p.data...)
		}
		s.props[w][prop] = p
	case opDeleteProperty:
		delete(s.props[Window(get32(req[4:]))], Atom(get32(req[8:])))
	case opGetProperty:
		p, ok := s.props[Window(get32(req[4:]))][Atom(get32(req[8:]))]
		body = make([]byte, 24)
		if ok {
			data = p.format
			put32(body[0:], uint32(p.typ))
			typ := Atom(get32(req[12:]))
			if typ != None && typ != p.typ {
				put32(body[4:], uint32(len(p.data)))
				break
			}
			off := int(get32(req[16:])) * 4
			end := off + int(get32(req[20:]))*4
			if end > len(p.data) {
				end = len(p.data)
			}
			value := p.data[off:end]
			put32(body[4:], uint32(len(p.data)-end))
			put32(body[8:], uint32(len(value)/int(p.format/8)))
			body = append(body, value...)
		}
	case opGetInputFocus:
		data = 1
		body = make([]byte, 4)
		put32(body, uint32(dxsRoot))
	case opQueryTextExtents:
		chars := (len(req) - 8) / 2
		if req[1] != 0 {
			chars--
		}
		body = make([]byte, 24)
		put16(body[0:], dxsFontAscent)
		put16(body[2:], dxsFontDescent)
		put16(body[4:], dxsFontAscent)
		put16(body[6:], dxsFontDescent)
		put32(body[8:], uint32(chars*dxsCharWidth))
		put32(body[16:], uint32(chars*dxsCharWidth))
	case opListFonts:
		names := s.fonts
		if limit := int(get16(req[4:])); len(names) > limit {
			names = names[:limit]
		}
		body = make([]byte, 24)
		put16(body[0:], uint16(len(names)))
		for _, n := range names {
			body = append(body, byte(len(n)))
			body = append(body, n...)
		}
	default:
		return nil
	}

	var out []byte
	for _, f := range s.before {
		out = append(out, f...)
	}
	s.before = nil
	return append(out, replyFrame(s.seq, data, body)...)
}

func (s *dummyXServer) errorFrame(code ErrorCode, op byte, bad uint32) []byte {
	frame := make([]byte, 32)
	frame[1] = byte(code)
	put16(frame[2:], s.seq)
	put32(frame[4:], bad)
	frame[10] = op
	return frame
}

// replyFrame builds a reply whose fields after the length word are body.
func replyFrame(seq uint16, data byte, body []byte) []byte {
	n := 8 + len(body)
	if n < 32 {
		n = 32
	}
	buf := make([]byte, pad(n))
	buf[0] = 1
	buf[1] = data
	put16(buf[2:], seq)
	put32(buf[4:], uint32((len(buf)-32)/4))
	copy(buf[8:], body)
	return buf
}

// sendBefore queues frames to be sent ahead of the next reply.
func (s *dummyXServer) sendBefore(frames ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before = append(s.before, frames...)
}

func (s *dummyXServer) failWith(op byte, code ErrorCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[op] = code
}

// recorded returns the requests received so far.
func (s *dummyXServer) recorded() []dxsRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dxsRequest(nil), s.requests...)
}

// recordedOps returns the opcodes received so far.
func (s *dummyXServer) recordedOps() []byte {
	var ops []byte
	for _, r := range s.recorded() {
		ops = append(ops, r.opcode)
	}
	return ops
}

// lastRequest returns the most recent request with opcode op.
func (s *dummyXServer) lastRequest(t *testing.T, op byte) dxsRequest {
	t.Helper()
	reqs := s.recorded()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].opcode == op {
			return reqs[i]
		}
	}
	t.Fatalf("no request with opcode %d among %d requests", op, len(reqs))
	return dxsRequest{}
}

// eventFrame builds an event with the given opcode and fields from offset 4.
func eventFrame(op byte, detail byte, fields ...uint32) []byte {
	buf := make([]byte, 32)
	buf[0] = op
	buf[1] = detail
	for i, f := range fields {
		put32(buf[4+4*i:], f)
	}
	return buf
}
