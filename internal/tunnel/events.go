package tunnel

import "net"

// Hooks is the external observability contract the transfer engines
// invoke at defined points. Implementations may log, update counters, or
// do nothing; the engines never depend on a hook's return value. A nil
// Hooks is never passed to the engines — callers that want silence use
// NoopHooks.
//
// Hooks are only invoked once the per-connection transfer state has
// become active (after the handshake packet is accepted), matching the
// "active" gate in §3's transfer-state model and §9's design note that
// replaces the original program's global event singleton with an
// explicit value threaded through the engine.
type Hooks interface {
	// OnTransferInit fires once per connection, right after the handshake
	// is accepted and the transfer state becomes active.
	OnTransferInit(peer net.IP)

	// OnChunkEncoded fires on the sender, once per data chunk, right after
	// its QNAME has been built.
	OnChunkEncoded(path string, chunkID int, qname string)

	// OnChunkSent fires on the sender, once per data chunk, right after it
	// has been written to the socket.
	OnChunkSent(peer net.IP, path string, chunkID int, chunkLen int)

	// OnQueryParsed fires on the receiver, once per received packet, right
	// after its QNAME has been reconstructed into dotted text.
	OnQueryParsed(path string, qname string)

	// OnChunkReceived fires on the receiver, once per data chunk, right
	// after it has been written to the destination file.
	OnChunkReceived(peer net.IP, path string, chunkID int, chunkLen int)

	// OnTransferCompleted fires once per connection on either side, at
	// exit — whether the transfer succeeded or aborted — after byte
	// counters are finalised.
	OnTransferCompleted(path string, totalBytes int)
}

// NoopHooks is a Hooks implementation whose methods do nothing. Use it
// where no observability sink is wanted.
type NoopHooks struct{}

func (NoopHooks) OnTransferInit(net.IP)                    {}
func (NoopHooks) OnChunkEncoded(string, int, string)       {}
func (NoopHooks) OnChunkSent(net.IP, string, int, int)     {}
func (NoopHooks) OnQueryParsed(string, string)             {}
func (NoopHooks) OnChunkReceived(net.IP, string, int, int) {}
func (NoopHooks) OnTransferCompleted(string, int)          {}

var _ Hooks = NoopHooks{}
