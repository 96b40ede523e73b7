package x11

// Pad a length to align on 4 bytes.
func pad(n int) int { return (n + 3) & ^3 }

func put16(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}

func put32(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

func get16(buf []byte) uint16 {
	v := uint16(buf[0])
	v |= uint16(buf[1]) << 8
	return v
}

func get32(buf []byte) uint32 {
	v := uint32(buf[0])
	v |= uint32(buf[1]) << 8
	v |= uint32(buf[2]) << 16
	v |= uint32(buf[3]) << 24
	return v
}

// encoder is the write cursor for a single request. Requests write their
// fixed fields starting at offset 0 (the 4-byte request header included) and
// then append at most one variable payload.
type encoder struct {
	buf []byte
}

func (e *encoder) reset() { e.buf = e.buf[:0] }

// reserve grows the buffer by n zero bytes and returns the new region.
func (e *encoder) reserve(n int) []byte {
	off := len(e.buf)
	if cap(e.buf)-off < n {
		nb := make([]byte, off, 2*cap(e.buf)+n)
		copy(nb, e.buf)
		e.buf = nb
	}
	e.buf = e.buf[:off+n]
	b := e.buf[off:]
	for i := range b {
		b[i] = 0
	}
	return b
}

// truncate drops everything written after offset n.
func (e *encoder) truncate(n int) { e.buf = e.buf[:n] }

func (e *encoder) put8(v byte) { e.reserve(1)[0] = v }

func (e *encoder) put16(v uint16) { put16(e.reserve(2), v) }

func (e *encoder) put32(v uint32) { put32(e.reserve(4), v) }

func (e *encoder) putBool(v bool) {
	if v {
		e.put8(1)
	} else {
		e.put8(0)
	}
}

// skip writes n unused bytes.
func (e *encoder) skip(n int) { e.reserve(n) }

// header writes the 4-byte request header. The opcode and the length are
// patched by the transport when the request is sent.
func (e *encoder) header(data byte) {
	b := e.reserve(4)
	b[1] = data
}

func (e *encoder) putBytes(p []byte) { copy(e.reserve(len(p)), p) }

// putString appends s and pads to 4 bytes.
func (e *encoder) putString(s string) {
	copy(e.reserve(len(s)), s)
	e.align()
}

func (e *encoder) align() {
	if n := pad(len(e.buf)) - len(e.buf); n > 0 {
		e.reserve(n)
	}
}

func (e *encoder) putPoints(pts []Point) {
	b := e.reserve(4 * len(pts))
	for i, p := range pts {
		put16(b[i*4:], uint16(p.X))
		put16(b[i*4+2:], uint16(p.Y))
	}
}

func (e *encoder) putRectangles(rs []Rectangle) {
	b := e.reserve(8 * len(rs))
	for i, r := range rs {
		r.write(b[i*8:])
	}
}

func (e *encoder) putArcs(as []Arc) {
	b := e.reserve(12 * len(as))
	for i, a := range as {
		a.write(b[i*12:])
	}
}

// ClientMessageData holds the data from a client message,
// duplicated in three forms because Go doesn't have unions.
type ClientMessageData struct {
	Data8  [20]byte
	Data16 [10]uint16
	Data32 [5]uint32
}

func getClientMessageData(b []byte, v *ClientMessageData) {
	copy(v.Data8[:], b)
	for i := 0; i < 10; i++ {
		v.Data16[i] = get16(b[i*2:])
	}
	for i := 0; i < 5; i++ {
		v.Data32[i] = get32(b[i*4:])
	}
}

// NewClientMessageData32 builds format 32 client message data.
func NewClientMessageData32(words ...uint32) ClientMessageData {
	var d ClientMessageData
	for i := 0; i < len(words) && i < 5; i++ {
		put32(d.Data8[i*4:], words[i])
		d.Data32[i] = words[i]
		d.Data16[i*2] = uint16(words[i])
		d.Data16[i*2+1] = uint16(words[i] >> 16)
	}
	return d
}
