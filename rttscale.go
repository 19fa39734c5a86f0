// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// rttUnit selects the unit round trip times are exported in.
type rttUnit string

const (
	rttInMills   rttUnit = "ms"
	rttInSeconds rttUnit = "s"
	rttBoth      rttUnit = "both"
)

func parseRTTUnit(s string) (rttUnit, error) {
	switch u := rttUnit(s); u {
	case rttInMills, rttInSeconds, rttBoth:
		return u, nil
	default:
		return "", fmt.Errorf("metrics.rttunit must be `ms` for millis, or `s` for seconds, or `both`, got %q", s)
	}
}

type unitDesc struct {
	desc    *prometheus.Desc
	divisor float64
}

// rttGauge exports a latency measured in millis once per configured unit.
type rttGauge struct {
	units []unitDesc
}

func newRTTGauge(name, help string, unit rttUnit, labelNames []string) *rttGauge {
	g := &rttGauge{}
	if unit != rttInSeconds {
		g.units = append(g.units, unitDesc{
			desc:    prometheus.NewDesc(name+"_ms", help+" in millis", labelNames, nil),
			divisor: 1,
		})
	}
	if unit != rttInMills {
		g.units = append(g.units, unitDesc{
			desc:    prometheus.NewDesc(name+"_seconds", help+" in seconds", labelNames, nil),
			divisor: 1000,
		})
	}

	return g
}

func (g *rttGauge) describe(ch chan<- *prometheus.Desc) {
	for _, u := range g.units {
		ch <- u.desc
	}
}

func (g *rttGauge) collect(ch chan<- prometheus.Metric, millis float64, labelValues ...string) {
	for _, u := range g.units {
		ch <- prometheus.MustNewConstMetric(u.desc, prometheus.GaugeValue, millis/u.divisor, labelValues...)
	}
}
