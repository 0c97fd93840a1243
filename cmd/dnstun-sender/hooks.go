package main

import (
	"log/slog"
	"net"

	"github.com/dnstun/dnstun/internal/tunnel"
)

// loggingHooks is the default sender-side tunnel.Hooks implementation: it
// logs every event at debug level, except transfer completion, which it
// logs at info level, and leaves counting to the transfer engine itself.
type loggingHooks struct {
	logger *slog.Logger
}

func (h loggingHooks) OnTransferInit(peer net.IP) {
	h.logger.Debug("transfer init", "peer", peer.String())
}

func (h loggingHooks) OnChunkEncoded(path string, chunkID int, qname string) {
	h.logger.Debug("chunk encoded", "path", path, "chunk_id", chunkID, "qname", qname)
}

func (h loggingHooks) OnChunkSent(peer net.IP, path string, chunkID int, chunkLen int) {
	h.logger.Debug("chunk sent", "peer", peer.String(), "path", path, "chunk_id", chunkID, "chunk_len", chunkLen)
}

func (h loggingHooks) OnQueryParsed(path string, qname string) {
	h.logger.Debug("query parsed", "path", path, "qname", qname)
}

func (h loggingHooks) OnChunkReceived(peer net.IP, path string, chunkID int, chunkLen int) {
	h.logger.Debug("chunk received", "peer", peer.String(), "path", path, "chunk_id", chunkID, "chunk_len", chunkLen)
}

func (h loggingHooks) OnTransferCompleted(path string, totalBytes int) {
	h.logger.Info("transfer completed", "path", path, "total_bytes", totalBytes)
}

var _ tunnel.Hooks = loggingHooks{}
