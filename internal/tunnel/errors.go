// Package tunnel implements the DNS-over-TCP file tunnel protocol: encoding
// file bytes into the QNAME of DNS queries, framing those queries over TCP,
// and the sender/receiver transfer engines that drive the wire protocol.
package tunnel

import "errors"

// Sentinel errors for the tunnel protocol. Callers distinguish fatal from
// recoverable conditions by where they handle these, not by error type.
var (
	// ErrInvalidDomain is returned by ValidateHost when the base host fails
	// DNS lexical validation.
	ErrInvalidDomain = errors.New("tunnel: invalid base host syntax")

	// ErrEndOfStream is returned by ReadMessage when the peer closed the
	// connection cleanly before a new message began.
	ErrEndOfStream = errors.New("tunnel: end of stream")

	// ErrNoUpstream is returned when no candidate resolver address could be
	// connected to.
	ErrNoUpstream = errors.New("tunnel: no reachable upstream DNS server")

	// ErrShortWrite is returned when a write to the destination file wrote
	// fewer bytes than requested.
	ErrShortWrite = errors.New("tunnel: short write to destination file")

	// ErrChunkTooLarge is returned by BuildPacket when the data chunk exceeds
	// MaxChunkLen for the given base host.
	ErrChunkTooLarge = errors.New("tunnel: data chunk exceeds maximum size for base host")

	// ErrTruncatedPacket is returned by ParsePacket when the packet is too
	// short to contain the header, tail, and base host it claims to.
	ErrTruncatedPacket = errors.New("tunnel: truncated DNS packet")

	// ErrEmptyDestDir is returned when the receiver is configured with an
	// empty destination directory.
	ErrEmptyDestDir = errors.New("tunnel: destination directory must not be empty")
)
