package history

import (
	"log/slog"
	"net"
	"sync"

	"github.com/dnstun/dnstun/internal/tunnel"
)

// Hooks adapts a Store into the tunnel.Hooks contract, recording one row
// per completed transfer. Every method other than OnChunkReceived and
// OnTransferCompleted is a no-op.
//
// OnTransferCompleted (which, per tunnel.Hooks, fires once per connection
// after byte counters are finalised) does not carry the peer address, so Hooks
// tracks the most recently seen peer per DestPath from OnChunkReceived and
// looks it up at completion. Concurrent transfers to the same path from
// different peers can race on that lookup; this mirrors the single shared
// event state the original program used throughout, narrowed from one
// global slot to one slot per path.
type Hooks struct {
	tunnel.NoopHooks
	store  *Store
	logger *slog.Logger

	mu    sync.Mutex
	peers map[string]net.IP
}

// NewHooks returns a Hooks adapter writing completed transfers to store.
// logger may be nil; it receives a warning if a record fails to persist.
func NewHooks(store *Store, logger *slog.Logger) *Hooks {
	return &Hooks{store: store, logger: logger, peers: make(map[string]net.IP)}
}

func (h *Hooks) OnChunkReceived(peer net.IP, path string, chunkID int, chunkLen int) {
	h.mu.Lock()
	h.peers[path] = peer
	h.mu.Unlock()
}

func (h *Hooks) OnTransferCompleted(path string, totalBytes int) {
	h.mu.Lock()
	peer := h.peers[path]
	delete(h.peers, path)
	h.mu.Unlock()

	peerStr := ""
	if peer != nil {
		peerStr = peer.String()
	}
	if err := h.store.Record(path, peerStr, totalBytes); err != nil && h.logger != nil {
		h.logger.Warn("history: failed to record transfer", "path", path, "error", err)
	}
}

var _ tunnel.Hooks = (*Hooks)(nil)
