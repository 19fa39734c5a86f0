package main

import (
	"net"
	"strings"
	"testing"

	"github.com/czerwonk/ping_chart/config"
	"github.com/czerwonk/ping_chart/scheduler"
	"github.com/czerwonk/ping_chart/stats"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	stats scheduler.Stats
	agg   *stats.Rolling
}

func (f *fixedSource) Stats() scheduler.Stats     { return f.stats }
func (f *fixedSource) Aggregator() *stats.Rolling { return f.agg }

func testTarget() *target {
	return newTarget(config.TargetConfig{Addr: "dns.google"}, &net.IPAddr{IP: net.ParseIP("8.8.8.8")})
}

func TestCollectorNoData(t *testing.T) {
	c := newPingCollector(&fixedSource{agg: stats.NewRolling(2)}, testTarget(), rttInMills)

	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

func TestCollector(t *testing.T) {
	agg := stats.NewRolling(2)
	for _, v := range []float64{10, 30, 0} {
		agg.Push(v)
	}
	src := &fixedSource{stats: scheduler.Stats{Sent: 4, Lost: 1, Last: 0}, agg: agg}
	c := newPingCollector(src, testTarget(), rttInMills)

	expected := `
# HELP ping_loss_ratio Packet loss from 0.0 to 1.0
# TYPE ping_loss_ratio gauge
ping_loss_ratio{ip="8.8.8.8",ip_version="4",target="dns.google"} 0.25
# HELP ping_probes_lost_total Number of probes without reply in time
# TYPE ping_probes_lost_total counter
ping_probes_lost_total{ip="8.8.8.8",ip_version="4",target="dns.google"} 1
# HELP ping_probes_sent_total Number of probes sent
# TYPE ping_probes_sent_total counter
ping_probes_sent_total{ip="8.8.8.8",ip_version="4",target="dns.google"} 4
# HELP ping_rtt_ms Round trip time in millis
# TYPE ping_rtt_ms gauge
ping_rtt_ms{ip="8.8.8.8",ip_version="4",target="dns.google",type="best"} 0
ping_rtt_ms{ip="8.8.8.8",ip_version="4",target="dns.google",type="block_mean"} 20
ping_rtt_ms{ip="8.8.8.8",ip_version="4",target="dns.google",type="last"} 0
ping_rtt_ms{ip="8.8.8.8",ip_version="4",target="dns.google",type="mean"} 0
ping_rtt_ms{ip="8.8.8.8",ip_version="4",target="dns.google",type="std_dev"} 0
ping_rtt_ms{ip="8.8.8.8",ip_version="4",target="dns.google",type="worst"} 0
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"ping_loss_ratio", "ping_probes_lost_total", "ping_probes_sent_total", "ping_rtt_ms")
	require.NoError(t, err)
	assert.Equal(t, 10, testutil.CollectAndCount(c))
}

func TestCollectorSeconds(t *testing.T) {
	agg := stats.NewRolling(10)
	agg.Push(250)
	src := &fixedSource{stats: scheduler.Stats{Sent: 1, Last: 250}, agg: agg}

	c := newPingCollector(src, testTarget(), rttInSeconds)
	assert.Equal(t, 0, testutil.CollectAndCount(c, "ping_rtt_ms"))
	assert.Equal(t, 5, testutil.CollectAndCount(c, "ping_rtt_seconds"))

	c = newPingCollector(src, testTarget(), rttBoth)
	assert.Equal(t, 5, testutil.CollectAndCount(c, "ping_rtt_ms"))
	assert.Equal(t, 5, testutil.CollectAndCount(c, "ping_rtt_seconds"))
}

func Test_parseRTTUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    rttUnit
		wantErr bool
	}{
		{"ms", rttInMills, false},
		{"s", rttInSeconds, false},
		{"both", rttBoth, false},
		{"minutes", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRTTUnit(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRTTGaugeScale(t *testing.T) {
	agg := stats.NewRolling(10)
	agg.Push(250)
	src := &fixedSource{stats: scheduler.Stats{Sent: 1, Last: 250}, agg: agg}

	expected := `
# HELP ping_rtt_seconds Round trip time in seconds
# TYPE ping_rtt_seconds gauge
ping_rtt_seconds{ip="8.8.8.8",ip_version="4",target="dns.google",type="best"} 0.25
ping_rtt_seconds{ip="8.8.8.8",ip_version="4",target="dns.google",type="last"} 0.25
ping_rtt_seconds{ip="8.8.8.8",ip_version="4",target="dns.google",type="mean"} 0.25
ping_rtt_seconds{ip="8.8.8.8",ip_version="4",target="dns.google",type="std_dev"} 0
ping_rtt_seconds{ip="8.8.8.8",ip_version="4",target="dns.google",type="worst"} 0.25
`
	c := newPingCollector(src, testTarget(), rttInSeconds)
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "ping_rtt_seconds"))
}
