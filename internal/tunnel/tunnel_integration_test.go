package tunnel

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHooks captures every event hook call for assertions.
type recordingHooks struct {
	completedPath string
	completedSize int
	chunksSent    int
	chunksRecv    int
}

func (h *recordingHooks) OnTransferInit(net.IP)         {}
func (h *recordingHooks) OnChunkEncoded(string, int, string) {}
func (h *recordingHooks) OnChunkSent(net.IP, string, int, int) {
	h.chunksSent++
}
func (h *recordingHooks) OnQueryParsed(string, string) {}
func (h *recordingHooks) OnChunkReceived(net.IP, string, int, int) {
	h.chunksRecv++
}
func (h *recordingHooks) OnTransferCompleted(path string, size int) {
	h.completedPath = path
	h.completedSize = size
}

func TestTinyTransferEndToEnd(t *testing.T) {
	dir := t.TempDir()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	host := "ex.com"
	recvHooks := &recordingHooks{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = Serve(ctx, ln, ReceiverConfig{Host: host, DestDir: dir, Hooks: recvHooks})
	}()

	srcPath := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(srcPath, []byte{0x00, 0x01, 0xff}, 0o644))

	addr := ln.Addr().(*net.TCPAddr)
	sendHooks := &recordingHooks{}
	err = Send(SenderConfig{
		Host:       host,
		DestPath:   "out.bin",
		SourcePath: srcPath,
		Upstream:   addr.IP.String(),
		Port:       addr.Port,
		Hooks:      sendHooks,
	})
	require.NoError(t, err)

	// Give the receiver goroutine a moment to finish writing and firing
	// its completion hook.
	deadline := time.Now().Add(2 * time.Second)
	for recvHooks.completedPath == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	written, err := os.ReadFile(filepath.Join(dir, "out.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0xff}, written)

	assert.Equal(t, 1, sendHooks.chunksSent)
	assert.Equal(t, 1, recvHooks.chunksRecv)
	assert.Equal(t, 3, sendHooks.completedSize)
	assert.Equal(t, 3, recvHooks.completedSize)
}

func TestPathWithLeadingSlashEndToEnd(t *testing.T) {
	dir := t.TempDir()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	host := "ex.com"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = Serve(ctx, ln, ReceiverConfig{Host: host, DestDir: dir, Hooks: NoopHooks{}})
	}()

	emptySrc := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(emptySrc, nil, 0o644))

	addr := ln.Addr().(*net.TCPAddr)
	err = Send(SenderConfig{
		Host:       host,
		DestPath:   "/a/b/f",
		SourcePath: emptySrc,
		Upstream:   addr.IP.String(),
		Port:       addr.Port,
		Hooks:      NoopHooks{},
	})
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	var statErr error
	for time.Now().Before(deadline) {
		_, statErr = os.Stat(filepath.Join(dir, "a", "b", "f"))
		if statErr == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.NoError(t, statErr, "receiver should have created %s with no double slash", filepath.Join(dir, "a", "b", "f"))
}

func TestEmptyFileTransferEndToEnd(t *testing.T) {
	dir := t.TempDir()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	host := "ex.com"
	recvHooks := &recordingHooks{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = Serve(ctx, ln, ReceiverConfig{Host: host, DestDir: dir, Hooks: recvHooks})
	}()

	emptySrc := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(emptySrc, nil, 0o644))

	addr := ln.Addr().(*net.TCPAddr)
	sendHooks := &recordingHooks{}
	err = Send(SenderConfig{
		Host:       host,
		DestPath:   "empty.out",
		SourcePath: emptySrc,
		Upstream:   addr.IP.String(),
		Port:       addr.Port,
		Hooks:      sendHooks,
	})
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for recvHooks.completedPath == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	info, err := os.Stat(filepath.Join(dir, "empty.out"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	assert.Zero(t, sendHooks.completedSize)
	assert.Zero(t, recvHooks.completedSize)
}
