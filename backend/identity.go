package backend

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
)

// Identity is the canonical (numeric address, port) pair of a backend's
// network endpoint. It is computed once at registration, never mutated,
// and used only for equality so the federation layer can recognize two
// configured backends as the same physical endpoint.
type Identity struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// FastEquals compares canonical (address, port) pairs
func (id Identity) FastEquals(other Identity) bool {
	return id.Address == other.Address && id.Port == other.Port
}

func (id Identity) String() string {
	return net.JoinHostPort(id.Address, strconv.Itoa(id.Port))
}

// ResolveIdentity resolves a backend connection URL to its canonical
// identity: the protocol prefix and credentials are stripped, the host
// and optional port split (falling back to the protocol default), and
// the host resolved to a numeric address. Resolution failures are
// configuration errors; they never default silently.
func ResolveIdentity(ctx context.Context, rawURL string, defaultPort int) (Identity, error) {
	host, port, err := splitEndpoint(rawURL, defaultPort)
	if err != nil {
		return Identity{}, &ConfigError{Op: "resolve", Err: err}
	}
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return Identity{}, &ConfigError{Op: "resolve", Err: fmt.Errorf("failed to resolve host %q: %w", host, err)}
	}
	if len(addrs) == 0 {
		return Identity{}, &ConfigError{Op: "resolve", Err: fmt.Errorf("host %q resolved to no addresses", host)}
	}
	// Resolution order is not stable across calls; sort so the canonical
	// address is deterministic
	sort.Strings(addrs)
	return Identity{Address: addrs[0], Port: port}, nil
}

// splitEndpoint extracts host and port from a connection URL
func splitEndpoint(rawURL string, defaultPort int) (string, int, error) {
	endpoint := rawURL
	if i := strings.Index(endpoint, "://"); i >= 0 {
		endpoint = endpoint[i+3:]
	}
	// Drop credentials
	if i := strings.LastIndex(endpoint, "@"); i >= 0 {
		endpoint = endpoint[i+1:]
	}
	// Drop path and query
	if i := strings.IndexAny(endpoint, "/?"); i >= 0 {
		endpoint = endpoint[:i]
	}
	if endpoint == "" {
		return "", 0, fmt.Errorf("connection URL %q has no host", rawURL)
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// No explicit port; the whole endpoint is the host
		return strings.Trim(endpoint, "[]"), defaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("connection URL %q has invalid port %q", rawURL, portStr)
	}
	return host, port, nil
}
