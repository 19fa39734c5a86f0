package scheduler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/czerwonk/ping_chart/probe"
)

// RunPlain probes once per interval and prints every result together with
// the rolling averages to w. It returns when ctx is done.
func (s *Scheduler) RunPlain(ctx context.Context, w io.Writer, interval time.Duration) error {
	for {
		if err := s.PrintOnce(ctx, w); err != nil {
			return err
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// PrintOnce sends a single probe, feeds the aggregator and prints the result.
func (s *Scheduler) PrintOnce(ctx context.Context, w io.Writer) error {
	rtt, err := s.prober.Probe(ctx, s.cfg.Target, s.cfg.Timeout, s.cfg.Payload)
	v := s.record(rtt, err)
	s.agg.Push(v)

	if err != nil {
		_, werr := fmt.Fprintf(w, "Request to %s failed: %s\n", s.cfg.Target, probe.KindOf(err))
		if werr != nil {
			return werr
		}
	} else {
		_, werr := fmt.Fprintf(w, "Reply from %s: bytes=%d time=%.2fms\n", s.cfg.Target, len(s.cfg.Payload), rtt)
		if werr != nil {
			return werr
		}
	}

	avg, ok := s.agg.Average()
	_, err = fmt.Fprintf(w, "Average rtt of the current %d/%d pings is %s\n", s.agg.Len(), s.agg.Size(), formatAverage(avg, ok))
	if err != nil {
		return err
	}

	avg, ok = s.agg.LastBlockAverage()
	_, err = fmt.Fprintf(w, "Average rtt according to last %d pings is %s\n\n", s.agg.Size(), formatAverage(avg, ok))
	return err
}

func formatAverage(avg float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2fms", avg)
}
