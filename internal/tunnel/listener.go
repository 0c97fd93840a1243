package tunnel

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// ListenReusePort opens a TCP listener on addr with SO_REUSEPORT enabled,
// so a receiver can be restarted immediately after a crash without waiting
// out the port's TIME_WAIT state.
func ListenReusePort(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}
