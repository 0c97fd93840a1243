package tunnel

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/dnstun/dnstun/internal/pool"
)

// lenBufPool reduces allocations for the 2-byte TCP length prefix read on
// every message; each pooled buffer is exactly the prefix's width.
var lenBufPool = pool.New(func() *[]byte {
	buf := make([]byte, tcpLenPrefixSize)
	return &buf
})

// IOTimeout is the per-message read/write deadline applied to a tunnel
// connection: 6 seconds on both the receiver's reads and the sender's
// writes, per §4.4.
const IOTimeout = 6 * time.Second

// ReadMessage reads one length-prefixed DNS message from conn, applying
// IOTimeout to both the length-prefix read and the body read. It returns
// ErrEndOfStream if the peer closed the connection before sending a new
// message's length prefix.
func ReadMessage(conn net.Conn) ([]byte, error) {
	_ = conn.SetReadDeadline(time.Now().Add(IOTimeout))

	lenBufPtr := lenBufPool.Get()
	lenBuf := *lenBufPtr
	defer lenBufPool.Put(lenBufPtr)

	n, err := io.ReadFull(conn, lenBuf)
	if err != nil {
		if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("tunnel: read length prefix: %w", err)
	}
	msgLen := binary.BigEndian.Uint16(lenBuf)

	_ = conn.SetReadDeadline(time.Now().Add(IOTimeout))
	msg := make([]byte, msgLen)
	if _, err := io.ReadFull(conn, msg); err != nil {
		return nil, fmt.Errorf("tunnel: read message body: %w", err)
	}
	return msg, nil
}

// WriteMessage writes packet — which must already carry its own 2-byte
// length prefix, as produced by BuildPacket — to conn in a single write,
// applying IOTimeout. A short write is reported as an error; the caller
// aborts the transfer, per §4.4.
func WriteMessage(conn net.Conn, packet []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(IOTimeout))
	n, err := conn.Write(packet)
	if err != nil {
		return fmt.Errorf("tunnel: write message: %w", err)
	}
	if n != len(packet) {
		return fmt.Errorf("tunnel: short write: wrote %d of %d bytes", n, len(packet))
	}
	return nil
}
