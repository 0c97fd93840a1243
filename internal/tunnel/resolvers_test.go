package tunnel

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverResolversExplicitOverride(t *testing.T) {
	candidates, err := DiscoverResolvers("192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.0.2.1"}, candidates)
}

func TestDiscoverResolversParsesResolvConf(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")

	var lines []string
	for i := 1; i <= 12; i++ {
		lines = append(lines, "nameserver 10.0.0."+strconv.Itoa(i))
	}
	lines = append(lines, "search example.com", "# a comment")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	old := resolvConfPath
	resolvConfPath = path
	defer func() { resolvConfPath = old }()

	candidates, err := DiscoverResolvers("")
	require.NoError(t, err)
	assert.Len(t, candidates, MaxResolvers)
	assert.Equal(t, "10.0.0.1", candidates[0])
	assert.Equal(t, "10.0.0.10", candidates[len(candidates)-1])
}

func TestDiscoverResolversMissingFileIsFatal(t *testing.T) {
	old := resolvConfPath
	resolvConfPath = filepath.Join(t.TempDir(), "does-not-exist")
	defer func() { resolvConfPath = old }()

	_, err := DiscoverResolvers("")
	assert.Error(t, err)
}

