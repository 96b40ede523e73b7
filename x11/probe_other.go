//go:build !linux

package x11

import "net"

// socketPending has no portable implementation here; callers fall back to a
// deadline-bounded peek.
func socketPending(nc net.Conn) (int, bool) { return 0, false }
