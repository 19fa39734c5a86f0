package main

import (
	"net"

	"github.com/czerwonk/ping_chart/config"
)

type ipVersion int

const (
	ipv4 ipVersion = 4
	ipv6 ipVersion = 6
)

func (ipv ipVersion) String() string {
	if ipv == ipv6 {
		return "6"
	}
	return "4"
}

func getIPVersion(addr net.IPAddr) ipVersion {
	if addr.IP.To4() == nil {
		return ipv6
	}
	return ipv4
}

// target is the probed host as seen by the metrics endpoint.
type target struct {
	host   string
	addr   net.IPAddr
	labels customLabels
}

func newTarget(cfg config.TargetConfig, addr *net.IPAddr) *target {
	return &target{
		host:   cfg.Addr,
		addr:   *addr,
		labels: newCustomLabels(cfg),
	}
}

func (t *target) ipVersion() ipVersion {
	return getIPVersion(t.addr)
}

func (t *target) labelNames() []string {
	names := append([]string{}, builtinLabels...)
	return append(names, t.labels.names...)
}

func (t *target) labelValues() []string {
	values := []string{t.host, t.addr.String(), t.ipVersion().String()}
	return append(values, t.labels.values...)
}
