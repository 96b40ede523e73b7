package x11

import "github.com/pkg/errors"

// idAllocator hands out resource IDs from the client's range. The server
// never says which IDs are free, so the client tracks what it has claimed.
type idAllocator struct {
	base    uint32
	mask    uint32
	cursor  uint32
	claimed map[uint32]struct{}
}

func newIDAllocator(base, mask uint32) *idAllocator {
	return &idAllocator{base: base, mask: mask, claimed: make(map[uint32]struct{})}
}

func (a *idAllocator) claim() (uint32, error) {
	start := a.cursor
	for {
		local := a.cursor
		if a.cursor == a.mask {
			a.cursor = 0
		} else {
			a.cursor++
		}
		if _, ok := a.claimed[local]; !ok {
			a.claimed[local] = struct{}{}
			return local + a.base, nil
		}
		if a.cursor == start {
			return 0, ErrIDsExhausted
		}
	}
}

func (a *idAllocator) release(id uint32) {
	delete(a.claimed, id-a.base)
}

// ClaimID reserves a fresh resource ID. The ID is only bookkeeping until a
// Create request is sent with it.
func (c *Conn) ClaimID() (uint32, error) {
	id, err := c.ids.claim()
	if err != nil {
		return 0, errors.Wrapf(err, "x11: %d IDs in use", len(c.ids.claimed))
	}
	return id, nil
}

// ReleaseID returns id to the pool. Only call it after the matching Free or
// Destroy request has been sent; otherwise the server keeps the resource
// while the client hands its ID out again.
func (c *Conn) ReleaseID(id uint32) { c.ids.release(id) }

func (c *Conn) NewWindowID() (Window, error) {
	id, err := c.ClaimID()
	return Window(id), err
}

func (c *Conn) NewPixmapID() (Pixmap, error) {
	id, err := c.ClaimID()
	return Pixmap(id), err
}

func (c *Conn) NewGContextID() (GContext, error) {
	id, err := c.ClaimID()
	return GContext(id), err
}

func (c *Conn) NewFontID() (Font, error) {
	id, err := c.ClaimID()
	return Font(id), err
}
