package tunnel

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// MaxResolvers is the maximum number of candidate upstream addresses
// DiscoverResolvers will return from /etc/resolv.conf.
const MaxResolvers = 10

// resolvConfPath is a var, not a const, so tests can point discovery at a
// fixture file instead of the host's real resolver configuration.
var resolvConfPath = "/etc/resolv.conf"

const nameserverPrefix = "nameserver "

// DiscoverResolvers returns the ordered list of candidate upstream DNS
// server addresses the sender should attempt to connect to. If upstream is
// non-empty, it is returned as the sole candidate, overriding discovery
// entirely. Otherwise /etc/resolv.conf is scanned for lines beginning with
// "nameserver ", in file order, stopping after MaxResolvers matches; lines
// that don't match are skipped silently. Failure to open the file is
// fatal, since the sender has no other way to learn where to connect.
func DiscoverResolvers(upstream string) ([]string, error) {
	if upstream != "" {
		return []string{upstream}, nil
	}

	f, err := os.Open(resolvConfPath)
	if err != nil {
		return nil, fmt.Errorf("tunnel: open %s: %w", resolvConfPath, err)
	}
	defer f.Close()

	var candidates []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(candidates) < MaxResolvers {
		line := scanner.Text()
		if strings.HasPrefix(line, nameserverPrefix) {
			candidates = append(candidates, strings.TrimSpace(line[len(nameserverPrefix):]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tunnel: read %s: %w", resolvConfPath, err)
	}

	return candidates, nil
}
