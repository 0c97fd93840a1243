package tunnel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
)

// ReceiverConfig holds everything the receiver's accept loop needs.
type ReceiverConfig struct {
	// Host is the validated base host (H) shared with senders.
	Host string
	// DestDir is the destination directory new files are written under.
	// Must be non-empty — the empty case is an Open Question the original
	// left undefined; this implementation rejects it (SPEC_FULL.md §12).
	DestDir string
	// Hooks receives the C8 event callbacks. Must not be nil; use
	// NoopHooks{} for silence.
	Hooks Hooks
	// Logger receives per-connection warnings; fatal startup errors are
	// returned directly instead. May be nil.
	Logger *slog.Logger
}

// Serve runs the receiver's accept loop on ln until ctx is cancelled or
// ln.Accept fails because the listener was closed. Connections are
// accepted and handled one at a time, per §5's single-threaded model —
// each accepted connection fully completes (success, protocol error, or
// timeout) before the next Accept call. It implements C6.
func Serve(ctx context.Context, ln net.Listener, cfg ReceiverConfig) error {
	if cfg.DestDir == "" {
		return ErrEmptyDestDir
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if cfg.Logger != nil {
				cfg.Logger.Warn("accept failed", "err", err)
			}
			continue
		}
		handleConnection(conn, cfg)
	}
}

// handleConnection drives one client connection end to end: handshake,
// directory creation, data loop, cleanup. A freshly initialised
// transferState is used for this connection only.
func handleConnection(conn net.Conn, cfg ReceiverConfig) {
	defer conn.Close()

	state := &transferState{peerAddr: remoteIP(conn)}

	msg, err := ReadMessage(conn)
	if err != nil {
		// No handshake completed (e.g. immediate FIN) — closed silently,
		// no event fires and no file is created, per §4.6.
		return
	}
	_, pathData, err := ParsePacket(msg, len(cfg.Host))
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("invalid handshake packet", "peer", state.peerAddr, "err", err)
		}
		return
	}

	fullPath, err := joinDestPath(cfg.DestDir, string(pathData))
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("invalid destination path", "err", err)
		}
		return
	}
	state.filePath = fullPath

	if err := createDirs(fullPath); err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("create directories failed", "path", fullPath, "err", err)
		}
		return
	}

	file, err := os.Create(fullPath)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("open destination file failed", "path", fullPath, "err", err)
		}
		return
	}
	defer file.Close()

	state.active = true
	cfg.Hooks.OnTransferInit(state.peerAddr)

	receiveLoop(conn, file, cfg, state)

	cfg.Hooks.OnTransferCompleted(state.filePath, state.fileSize)
}

func receiveLoop(conn net.Conn, file *os.File, cfg ReceiverConfig, state *transferState) {
	for {
		msg, err := ReadMessage(conn)
		if err != nil {
			if !errors.Is(err, ErrEndOfStream) && cfg.Logger != nil {
				cfg.Logger.Warn("read failed", "path", state.filePath, "err", err)
			}
			return
		}

		qname, data, err := ParsePacket(msg, len(cfg.Host))
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("parse packet failed", "path", state.filePath, "err", err)
			}
			return
		}
		cfg.Hooks.OnQueryParsed(state.filePath, qname)

		n, err := file.Write(data)
		if err != nil || n != len(data) {
			// The partial file is intentionally left on disk; see
			// SPEC_FULL.md §12's decision to preserve this behaviour.
			if cfg.Logger != nil {
				cfg.Logger.Warn("write to destination file failed", "path", state.filePath, "err", errOrShortWrite(err))
			}
			return
		}
		cfg.Hooks.OnChunkReceived(state.peerAddr, state.filePath, state.chunkID, n)
		state.fileSize += n
		state.chunkID++
	}
}

func errOrShortWrite(err error) error {
	if err != nil {
		return err
	}
	return ErrShortWrite
}

// joinDestPath concatenates dir and path, inserting a '/' iff dir does not
// already end with one and path does not already start with one, per
// §4.6 step 2.
func joinDestPath(dir, path string) (string, error) {
	if dir == "" {
		return "", ErrEmptyDestDir
	}
	if strings.HasSuffix(dir, "/") || strings.HasPrefix(path, "/") {
		return dir + path, nil
	}
	return dir + "/" + path, nil
}

// createDirs creates any missing directory components of fullPath's
// parent directory, with mode 0777. A pre-existing directory is not an
// error, matching os.MkdirAll's semantics exactly.
func createDirs(fullPath string) error {
	dir := parentDir(fullPath)
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("tunnel: create directories for %s: %w", fullPath, err)
	}
	return nil
}

func parentDir(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return ""
	}
	return path[:i]
}
