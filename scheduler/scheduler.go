package scheduler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/czerwonk/ping_chart/probe"
	"github.com/czerwonk/ping_chart/series"
	"github.com/czerwonk/ping_chart/stats"
	log "github.com/sirupsen/logrus"
)

// Sentinel is recorded instead of a latency when a probe fails.
const Sentinel = 0.0

// Renderer draws the current state. It must not keep a reference to samples.
type Renderer interface {
	Render(samples []series.Sample, window series.Window, y series.Bounds) error
}

// Canceller reports whether a stop was requested within d.
type Canceller interface {
	WaitStop(ctx context.Context, d time.Duration) bool
}

// Config is the fixed sampling setup of a Scheduler.
type Config struct {
	Target   *net.IPAddr
	Interval time.Duration // tick length
	Timeout  time.Duration // probe budget of one tick, must be smaller than Interval
	Payload  []byte
	Batch    int     // samples per tick
	Capacity int     // samples on the chart
	Step     float64 // position distance between two samples
	Y        series.Bounds
}

// Validate checks the invariants the tick loop relies on.
func (c *Config) Validate() error {
	if c.Target == nil {
		return errors.New("no target")
	}
	if c.Interval <= 0 {
		return errors.New("interval must be greater than 0")
	}
	if c.Timeout <= 0 || c.Timeout >= c.Interval {
		return fmt.Errorf("timeout (%s) must be greater than 0 and smaller than the interval (%s)", c.Timeout, c.Interval)
	}
	if c.Batch < 1 || c.Batch > c.Capacity {
		return fmt.Errorf("batch size (%d) must be between 1 and the capacity (%d)", c.Batch, c.Capacity)
	}
	if c.Step <= 0 {
		return errors.New("step must be greater than 0")
	}
	if c.Y.High <= c.Y.Low {
		return fmt.Errorf("invalid y bounds [%v, %v]", c.Y.Low, c.Y.High)
	}

	return nil
}

// Stats is a snapshot of the probe counters. Slots skipped because the tick
// budget was spent count as sent and lost.
type Stats struct {
	Sent int
	Lost int
	Last float64
}

// Scheduler owns the chart state and drives probing at a fixed cadence.
// Series, window and cursor are only touched by the goroutine calling Run
// or Tick.
type Scheduler struct {
	cfg    Config
	prober probe.Prober
	agg    *stats.Rolling

	cursor *series.Cursor
	series *series.Sliding
	window series.Window
	y      series.Bounds
	reload chan series.Bounds

	stats   Stats
	statsMu sync.Mutex
}

// New creates a scheduler with a series pre-seeded with Capacity-Batch zero
// samples. The window trails by one batch so that after the first tick it
// spans exactly the full series.
func New(cfg Config, prober probe.Prober, agg *stats.Rolling) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cursor := series.NewCursor(cfg.Step)
	s := &Scheduler{
		cfg:    cfg,
		prober: prober,
		agg:    agg,
		cursor: cursor,
		series: series.NewSeeded(cfg.Capacity, cfg.Capacity-cfg.Batch, cursor),
		window: series.NewWindow(float64(cfg.Capacity) * cfg.Step),
		y:      cfg.Y,
		reload: make(chan series.Bounds, 1),
	}
	s.window.Advance(-s.advance())

	return s, nil
}

// Tick probes the target for one batch and updates series, aggregator and
// window. All slots of the batch share the probe budget; slots left once it
// is spent are recorded as timeouts.
func (s *Scheduler) Tick(ctx context.Context) []series.Sample {
	s.applyReload()

	budget, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	samples := make([]series.Sample, 0, s.cfg.Batch)
	for i := 0; i < s.cfg.Batch; i++ {
		v := s.probe(budget)
		samples = append(samples, series.Sample{X: s.cursor.Next(), Y: v})
	}

	s.series.Extend(samples...)
	for _, sample := range samples {
		s.agg.Push(sample.Y)
	}
	s.window.Advance(s.advance())

	return samples
}

func (s *Scheduler) advance() float64 {
	return float64(s.cfg.Batch) * s.cfg.Step
}

func (s *Scheduler) probe(ctx context.Context) float64 {
	remaining := s.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining = time.Until(deadline)
	}

	var (
		rtt float64
		err error
	)
	if remaining <= 0 || ctx.Err() != nil {
		err = &probe.Error{Kind: probe.KindTimeout, Err: context.DeadlineExceeded}
	} else {
		rtt, err = s.prober.Probe(ctx, s.cfg.Target, remaining, s.cfg.Payload)
	}

	return s.record(rtt, err)
}

func (s *Scheduler) record(rtt float64, err error) float64 {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	s.stats.Sent++
	if err != nil {
		log.Debugf("probe to %s failed (%s): %v", s.cfg.Target, probe.KindOf(err), err)
		s.stats.Lost++
		s.stats.Last = Sentinel
		return Sentinel
	}

	s.stats.Last = rtt
	return rtt
}

// Run ticks until the canceller reports a stop or ctx is done. Render errors
// end the loop and are returned.
func (s *Scheduler) Run(ctx context.Context, r Renderer, c Canceller) error {
	log.Infof("Sampling %s every %s (timeout=%s, batch=%d)", s.cfg.Target, s.cfg.Interval, s.cfg.Timeout, s.cfg.Batch)

	for {
		start := time.Now()

		s.Tick(ctx)
		if err := r.Render(s.series.Samples(), s.window, s.y); err != nil {
			return fmt.Errorf("could not render: %w", err)
		}

		remaining := s.cfg.Interval - time.Since(start)
		if remaining < 0 {
			remaining = 0
		}
		if c.WaitStop(ctx, remaining) || ctx.Err() != nil {
			log.Infoln("Stopped sampling")
			return nil
		}
	}
}

// Reload replaces the y bounds used for rendering. The new bounds are
// picked up at the start of the next tick; only the latest value is kept.
func (s *Scheduler) Reload(y series.Bounds) {
	for {
		select {
		case s.reload <- y:
			return
		default:
		}

		select {
		case <-s.reload:
		default:
		}
	}
}

func (s *Scheduler) applyReload() {
	select {
	case y := <-s.reload:
		if y.High <= y.Low {
			log.Warnf("ignoring invalid y bounds [%v, %v]", y.Low, y.High)
			return
		}
		log.Infof("y bounds changed to [%v, %v]", y.Low, y.High)
		s.y = y
	default:
	}
}

// Stats returns the probe counters.
func (s *Scheduler) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	return s.stats
}

// Aggregator returns the rolling aggregator fed by the scheduler.
func (s *Scheduler) Aggregator() *stats.Rolling {
	return s.agg
}

// Target returns the probed address.
func (s *Scheduler) Target() *net.IPAddr {
	return s.cfg.Target
}
