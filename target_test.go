package main

import (
	"net"
	"testing"

	"github.com/czerwonk/ping_chart/config"
	"github.com/stretchr/testify/assert"
)

var (
	ipv4Addr       = net.IPAddr{IP: net.ParseIP("127.0.0.1")}
	ipv6Addr       = net.IPAddr{IP: net.ParseIP("::1")}
	ipv4AddrGoogle = net.IPAddr{IP: net.ParseIP("142.250.72.206")}
	ipv6AddrGoogle = net.IPAddr{IP: net.ParseIP("2607:f8b0:4005:810::200e")}
)

func Test_ipVersion_String(t *testing.T) {
	tests := []struct {
		name string
		ipv  ipVersion
		want string
	}{
		{
			"ipv6",
			ipv6,
			"6",
		},
		{
			"ipv4",
			ipv4,
			"4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ipv.String(); got != tt.want {
				t.Errorf("IPVersion.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_getIPVersion(t *testing.T) {
	tests := []struct {
		name string
		addr net.IPAddr
		want ipVersion
	}{
		{
			"ipv4",
			ipv4Addr,
			ipv4,
		},
		{
			"ipv6",
			ipv6Addr,
			ipv6,
		},
		{
			"ipv4-google",
			ipv4AddrGoogle,
			ipv4,
		},
		{
			"ipv6-google",
			ipv6AddrGoogle,
			ipv6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getIPVersion(tt.addr); got != tt.want {
				t.Errorf("getIPVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_target_labels(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.TargetConfig
		addr       net.IPAddr
		wantNames  []string
		wantValues []string
	}{
		{
			"ipv4-localhost",
			config.TargetConfig{Addr: "localhost"},
			ipv4Addr,
			[]string{"target", "ip", "ip_version"},
			[]string{"localhost", "127.0.0.1", "4"},
		},
		{
			"ipv6-google",
			config.TargetConfig{Addr: "google.com", Labels: map[string]string{"site": "home", "isp": "example"}},
			ipv6AddrGoogle,
			[]string{"target", "ip", "ip_version", "isp", "site"},
			[]string{"google.com", "2607:f8b0:4005:810::200e", "6", "example", "home"},
		},
		{
			"reserved-label",
			config.TargetConfig{Addr: "8.8.8.8", Labels: map[string]string{"ip": "spoofed", "site": "dc1"}},
			net.IPAddr{IP: net.ParseIP("8.8.8.8")},
			[]string{"target", "ip", "ip_version", "site"},
			[]string{"8.8.8.8", "8.8.8.8", "4", "dc1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := tt.addr
			tr := newTarget(tt.cfg, &addr)

			assert.Equal(t, tt.wantNames, tr.labelNames())
			assert.Equal(t, tt.wantValues, tr.labelValues())
		})
	}
}
