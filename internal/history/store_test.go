package history

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRecordAndList(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record("out.bin", "192.0.2.1", 1024))
	require.NoError(t, s.Record("out2.bin", "192.0.2.2", 2048))

	records, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "out2.bin", records[0].Path)
	assert.Equal(t, "192.0.2.2", records[0].PeerAddr)
	assert.Equal(t, 2048, records[0].SizeBytes)
	assert.Equal(t, "out.bin", records[1].Path)
}

func TestStoreListRespectsLimit(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record("f", "192.0.2.1", i))
	}

	records, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStoreHealth(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Health())
}

func TestHooksRecordsOnTransferCompleted(t *testing.T) {
	s := openTestStore(t)
	h := NewHooks(s, nil)

	peer := net.ParseIP("198.51.100.7")
	h.OnChunkReceived(peer, "incoming.bin", 0, 64)
	h.OnTransferCompleted("incoming.bin", 64)

	records, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "incoming.bin", records[0].Path)
	assert.Equal(t, "198.51.100.7", records[0].PeerAddr)
	assert.Equal(t, 64, records[0].SizeBytes)
}

func TestHooksHandlesUnknownPeer(t *testing.T) {
	s := openTestStore(t)
	h := NewHooks(s, nil)

	h.OnTransferCompleted("no-chunks-seen.bin", 0)

	records, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].PeerAddr)
}
