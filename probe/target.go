package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
)

// Resolver resolves a host name to its IP addresses.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// NewResolver returns a resolver using the given name server, or the system
// resolver if nameserver is empty.
func NewResolver(nameserver string) Resolver {
	if nameserver == "" {
		return net.DefaultResolver
	}

	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		nameserver = net.JoinHostPort(nameserver, "53")
	}
	dialer := func(ctx context.Context, network, address string) (net.Conn, error) {
		d := net.Dialer{}

		return d.DialContext(ctx, "udp", nameserver)
	}

	return &net.Resolver{PreferGo: true, Dial: dialer}
}

// ResolveTarget turns host into the single address to probe. IP literals are
// used as is, names are resolved once and the first address wins.
func ResolveTarget(ctx context.Context, r Resolver, host string) (*net.IPAddr, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("no target given")
	}

	if ip, zone := splitZone(host); net.ParseIP(ip) != nil {
		return &net.IPAddr{IP: net.ParseIP(ip), Zone: zone}, nil
	}

	if strings.ContainsAny(host, " /:") {
		return nil, fmt.Errorf("invalid target address %q", host)
	}

	addrs, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("error resolving target %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses found for target %s", host)
	}

	return &addrs[0], nil
}

func splitZone(host string) (ip, zone string) {
	if i := strings.IndexByte(host, '%'); i >= 0 {
		return host[:i], host[i+1:]
	}
	return host, ""
}
