package tunnel

import "net"

// transferState is the explicit per-connection transfer state threaded
// through the sender and receiver engines and passed to event hooks. The
// reference implementation keeps one of these as a process-wide global;
// per §9's design note, this is instead a value created fresh for each
// connection and owned by the function handling that connection, which
// also makes the receiver's accept loop trivially parallelisable later.
type transferState struct {
	filePath string
	fileSize int
	chunkID  int
	peerAddr net.IP
	active   bool
}

// remoteIP extracts the IPv4 address of conn's remote endpoint.
func remoteIP(conn net.Conn) net.IP {
	addr, ok := conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return nil
	}
	// Copy the address rather than borrow the *net.TCPAddr's IP field, so
	// the event hook's value outlives the connection (§9's address-
	// capture design note).
	ip := make(net.IP, len(addr.IP))
	copy(ip, addr.IP)
	return ip
}
