package x11

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketPending(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		sc, _ := l.Accept()
		accepted <- sc
	}()
	nc, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer nc.Close()
	sc := <-accepted
	require.NotNil(t, sc)
	defer sc.Close()

	n, ok := socketPending(nc)
	require.True(t, ok)
	assert.Zero(t, n)

	_, err = sc.Write(make([]byte, 32))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		n, ok := socketPending(nc)
		return ok && n == 32
	}, time.Second, time.Millisecond)

	dc := newDummyNetConn(t.Name(), func([]byte) []byte { return nil })
	defer dc.Close()
	_, ok = socketPending(dc)
	assert.False(t, ok, "no file descriptor")
}
