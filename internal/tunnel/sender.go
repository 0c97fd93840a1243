package tunnel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/dnstun/dnstun/internal/helpers"
)

// SenderConfig holds everything one sender transfer run needs. Host,
// DestPath and the source must already be validated by the caller (the
// CLI layer owns argument parsing and usage errors, per §2's "out of
// scope" list).
type SenderConfig struct {
	// Host is the validated base host (H) shared with the receiver.
	Host string
	// DestPath is the path the receiver should write the file to.
	DestPath string
	// SourcePath is the local file to read from; empty means stdin.
	SourcePath string
	// Upstream, if non-empty, overrides resolver discovery.
	Upstream string
	// Port is the TCP port to connect to on each candidate resolver.
	// Zero means the standard DNS port, 53.
	Port int
	// SleepBeforeClose is the best-effort pre-close delay (§4.5 step 6).
	SleepBeforeClose time.Duration
	// Hooks receives the C8 event callbacks. Must not be nil; use
	// NoopHooks{} for silence.
	Hooks Hooks
	// Logger is carried with the configuration; Send does not write to
	// it. May be nil.
	Logger *slog.Logger
}

// Send drives one complete sender transfer: resolver discovery, connect,
// handshake, data loop, and the pre-close sleep. It implements C5.
func Send(cfg SenderConfig) error {
	candidates, err := DiscoverResolvers(cfg.Upstream)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNoUpstream
	}

	port := cfg.Port
	if port == 0 {
		port = 53
	}

	var conn net.Conn
	for _, addr := range candidates {
		conn, err = net.DialTimeout("tcp", net.JoinHostPort(addr, fmt.Sprint(port)), IOTimeout)
		if err == nil {
			break
		}
	}
	if conn == nil {
		return fmt.Errorf("%w: tried %d candidate(s)", ErrNoUpstream, len(candidates))
	}
	defer conn.Close()

	src, closeSrc, err := openSource(cfg.SourcePath)
	if err != nil {
		return err
	}
	defer closeSrc()

	// os.Getpid() on most platforms fits uint16 loosely at best (Linux PIDs
	// can exceed 65535); clamp rather than silently truncate so the
	// handshake ID stays a deterministic function of the PID instead of
	// wrapping around unpredictably.
	id := helpers.ClampIntToUint16(os.Getpid())
	state := &transferState{filePath: cfg.DestPath}

	handshake, _, err := BuildPacket(id, []byte(cfg.DestPath), cfg.Host)
	if err != nil {
		return fmt.Errorf("tunnel: build handshake packet: %w", err)
	}
	if err := WriteMessage(conn, handshake); err != nil {
		return fmt.Errorf("tunnel: send handshake: %w", err)
	}

	state.active = true
	state.peerAddr = remoteIP(conn)
	cfg.Hooks.OnTransferInit(state.peerAddr)

	if err := sendLoop(conn, src, id, cfg, state); err != nil {
		cfg.Hooks.OnTransferCompleted(state.filePath, state.fileSize)
		return err
	}

	if cfg.SleepBeforeClose > 0 {
		time.Sleep(cfg.SleepBeforeClose)
	}

	cfg.Hooks.OnTransferCompleted(state.filePath, state.fileSize)
	return nil
}

func sendLoop(conn net.Conn, src io.Reader, id uint16, cfg SenderConfig, state *transferState) error {
	chunkSize := MaxChunkLen(len(cfg.Host))
	buf := make([]byte, chunkSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			packet, qname, buildErr := BuildPacket(id, buf[:n], cfg.Host)
			if buildErr != nil {
				return fmt.Errorf("tunnel: build data packet: %w", buildErr)
			}
			cfg.Hooks.OnChunkEncoded(state.filePath, state.chunkID, qname)

			if err := WriteMessage(conn, packet); err != nil {
				return fmt.Errorf("tunnel: send data chunk %d: %w", state.chunkID, err)
			}
			cfg.Hooks.OnChunkSent(state.peerAddr, state.filePath, state.chunkID, n)
			state.fileSize += n
			state.chunkID++
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("tunnel: read source: %w", readErr)
		}
	}
}

func openSource(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("tunnel: open source file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
