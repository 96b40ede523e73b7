package x11

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// socketPending asks the kernel how many bytes are waiting on the socket
// (TIOCINQ is Linux's name for FIONREAD). ok is false when nc is not backed
// by a file descriptor.
func socketPending(nc net.Conn) (n int, ok bool) {
	sc, isSys := nc.(syscall.Conn)
	if !isSys {
		return 0, false
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0, false
	}
	var ierr error
	err = rc.Control(func(fd uintptr) {
		n, ierr = unix.IoctlGetInt(int(fd), unix.TIOCINQ)
	})
	if err != nil || ierr != nil {
		return 0, false
	}
	return n, true
}
