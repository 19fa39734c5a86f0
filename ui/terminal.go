package ui

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/czerwonk/ping_chart/series"
	"github.com/czerwonk/ping_chart/stats"
	tui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// stopKeys end the interactive mode.
var stopKeys = map[string]bool{
	"q":        true,
	"Q":        true,
	"<C-c>":    true,
	"<Escape>": true,
}

// Terminal draws the latency chart with termui and reads stop keys.
type Terminal struct {
	target string
	agg    *stats.Rolling

	grid   *tui.Grid
	plot   *widgets.Plot
	status *widgets.Paragraph
	events <-chan tui.Event
}

// NewTerminal switches the terminal into full screen mode. Close must be
// called to restore it.
func NewTerminal(target *net.IPAddr, agg *stats.Rolling) (*Terminal, error) {
	if err := tui.Init(); err != nil {
		return nil, fmt.Errorf("failed to init termui: %w", err)
	}

	t := &Terminal{
		target: target.String(),
		agg:    agg,
		plot:   widgets.NewPlot(),
		status: widgets.NewParagraph(),
	}

	t.plot.Marker = widgets.MarkerBraille
	t.plot.PlotType = widgets.LineChart
	t.plot.LineColors = []tui.Color{tui.ColorCyan}
	t.plot.AxesColor = tui.ColorWhite
	t.plot.BorderStyle.Fg = tui.ColorCyan
	t.plot.TitleStyle.Fg = tui.ColorCyan
	t.plot.TitleStyle.Modifier = tui.ModifierBold

	t.status.Title = " rtt "
	t.status.BorderStyle.Fg = tui.ColorYellow
	t.status.TextStyle = tui.NewStyle(tui.ColorWhite)

	t.grid = tui.NewGrid()
	width, height := tui.TerminalDimensions()
	t.grid.SetRect(0, 0, width, height)
	t.grid.Set(
		tui.NewRow(0.8, tui.NewCol(1.0, t.plot)),
		tui.NewRow(0.2, tui.NewCol(1.0, t.status)),
	)

	t.events = tui.PollEvents()
	return t, nil
}

// Render implements scheduler.Renderer. termui numbers the x axis by sample
// index, so the window positions go into the plot title. Its y axis always
// starts at 0 and is hidden when the lower bound is not.
func (t *Terminal) Render(samples []series.Sample, window series.Window, y series.Bounds) error {
	if len(samples) < 2 {
		// termui needs at least two points for a line
		return nil
	}

	t.plot.Title = PlotTitle(t.target, window)
	t.plot.Data = [][]float64{PlotValues(samples, y)}
	t.plot.MaxVal = y.High - y.Low
	t.plot.ShowAxes = y.Low == 0
	t.status.Text = StatusText(window, y, t.agg)

	tui.Render(t.grid)
	return nil
}

// WaitStop implements scheduler.Canceller. Resize events redraw the screen
// and keep waiting for the rest of d.
func (t *Terminal) WaitStop(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case <-timer.C:
			return false
		case e := <-t.events:
			switch e.Type {
			case tui.KeyboardEvent:
				if stopKeys[e.ID] {
					return true
				}
			case tui.ResizeEvent:
				payload := e.Payload.(tui.Resize)
				t.grid.SetRect(0, 0, payload.Width, payload.Height)
				tui.Clear()
				tui.Render(t.grid)
			}
		}
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	tui.Close()
}

// PlotValues returns the values of samples clamped to y and shifted so that
// y.Low is drawn at the bottom of the plot.
func PlotValues(samples []series.Sample, y series.Bounds) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = y.Clamp(s.Y) - y.Low
	}
	return out
}

// PlotTitle names the target and the visible position range.
func PlotTitle(target string, window series.Window) string {
	return fmt.Sprintf(" ping %s  x: %s..%s ", target, formatAxis(window.Low), formatAxis(window.High))
}

// StatusText describes the visible window and the rolling averages.
func StatusText(window series.Window, y series.Bounds, agg *stats.Rolling) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "x: [%s](mod:bold) %s [%s](mod:bold)    y: %s..%s ms\n",
		formatAxis(window.Low), formatAxis(window.Mid()), formatAxis(window.High),
		formatAxis(y.Low), formatAxis(y.High))

	m := agg.Compute()
	if m != nil {
		fmt.Fprintf(b, "current %d/%d: mean %.2fms  best %.2fms  worst %.2fms  stddev %.2fms\n",
			m.Samples, agg.Size(), m.Mean, m.Best, m.Worst, m.StdDev)
	}

	if m != nil && m.Blocks > 0 {
		fmt.Fprintf(b, "last %d pings: %.2fms", agg.Size(), m.LastBlock)
	} else {
		fmt.Fprintf(b, "last %d pings: n/a", agg.Size())
	}

	b.WriteString("    (q to quit)")
	return b.String()
}

func formatAxis(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
