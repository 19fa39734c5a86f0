package main

import (
	"github.com/czerwonk/ping_chart/scheduler"
	"github.com/czerwonk/ping_chart/stats"
	"github.com/prometheus/client_golang/prometheus"
)

const prefix = "ping_"

type statsSource interface {
	Stats() scheduler.Stats
	Aggregator() *stats.Rolling
}

type pingCollector struct {
	source statsSource
	target *target

	rttDesc   *rttGauge
	sentDesc  *prometheus.Desc
	lostDesc  *prometheus.Desc
	lossDesc  *prometheus.Desc
	blockDesc *prometheus.Desc
}

func newPingCollector(source statsSource, t *target, scale rttUnit) *pingCollector {
	labelNames := t.labelNames()

	return &pingCollector{
		source:    source,
		target:    t,
		rttDesc:   newRTTGauge(prefix+"rtt", "Round trip time", scale, append(append([]string{}, labelNames...), "type")),
		sentDesc:  prometheus.NewDesc(prefix+"probes_sent_total", "Number of probes sent", labelNames, nil),
		lostDesc:  prometheus.NewDesc(prefix+"probes_lost_total", "Number of probes without reply in time", labelNames, nil),
		lossDesc:  prometheus.NewDesc(prefix+"loss_ratio", "Packet loss from 0.0 to 1.0", labelNames, nil),
		blockDesc: prometheus.NewDesc(prefix+"blocks_total", "Number of completed averaging blocks", labelNames, nil),
	}
}

func (p *pingCollector) Describe(ch chan<- *prometheus.Desc) {
	p.rttDesc.describe(ch)
	ch <- p.sentDesc
	ch <- p.lostDesc
	ch <- p.lossDesc
	ch <- p.blockDesc
}

func (p *pingCollector) Collect(ch chan<- prometheus.Metric) {
	l := p.target.labelValues()
	st := p.source.Stats()
	if st.Sent == 0 {
		return
	}

	ch <- prometheus.MustNewConstMetric(p.sentDesc, prometheus.CounterValue, float64(st.Sent), l...)
	ch <- prometheus.MustNewConstMetric(p.lostDesc, prometheus.CounterValue, float64(st.Lost), l...)
	ch <- prometheus.MustNewConstMetric(p.lossDesc, prometheus.GaugeValue, float64(st.Lost)/float64(st.Sent), l...)
	p.rttDesc.collect(ch, st.Last, append(l, "last")...)

	agg := p.source.Aggregator()
	if avg, ok := agg.LastBlockAverage(); ok {
		p.rttDesc.collect(ch, avg, append(l, "block_mean")...)
	}

	metrics := agg.Compute()
	if metrics == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(p.blockDesc, prometheus.CounterValue, float64(metrics.Blocks), l...)
	p.rttDesc.collect(ch, metrics.Best, append(l, "best")...)
	p.rttDesc.collect(ch, metrics.Worst, append(l, "worst")...)
	p.rttDesc.collect(ch, metrics.Mean, append(l, "mean")...)
	p.rttDesc.collect(ch, metrics.StdDev, append(l, "std_dev")...)
}
