package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/czerwonk/ping_chart/config"
	"github.com/czerwonk/ping_chart/probe"
	"github.com/czerwonk/ping_chart/scheduler"
	"github.com/czerwonk/ping_chart/series"
	"github.com/czerwonk/ping_chart/stats"
	"github.com/czerwonk/ping_chart/ui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const version string = "0.1.0"

const (
	exitOK = iota
	exitConfig
	exitSocket
	exitRender
)

var (
	showVersion   = kingpin.Flag("version", "Print version information").Default().Bool()
	mode          = kingpin.Flag("mode", "Output mode. Valid modes: [chart, plain]").Default("chart").Enum("chart", "plain")
	configFile    = kingpin.Flag("config.path", "Path to config file").Default("").String()
	pingInterval  = kingpin.Flag("ping.interval", "Interval between two chart updates").Default("1s").Duration()
	pingTimeout   = kingpin.Flag("ping.timeout", "Time budget for the ICMP echo requests of one chart update").Default("800ms").Duration()
	pingSize      = kingpin.Flag("ping.size", "Payload size for ICMP echo requests").Default("4").Uint16()
	plainInterval = kingpin.Flag("ping.plain-interval", "Interval for ICMP echo requests in plain mode").Default("2s").Duration()
	capacity      = kingpin.Flag("chart.capacity", "Number of samples shown on the chart").Default("100").Int()
	batch         = kingpin.Flag("chart.batch", "Number of samples added per chart update").Default("5").Int()
	step          = kingpin.Flag("chart.step", "Distance of two samples on the x axis").Default("0.2").Float64()
	yMin          = kingpin.Flag("chart.y-min", "Lower bound of the y axis in millis").Default("0").Float64()
	yMax          = kingpin.Flag("chart.y-max", "Upper bound of the y axis in millis").Default("500").Float64()
	bufferSize    = kingpin.Flag("stats.buffer-size", "Number of results averaged into one block").Default("10").Int()
	dnsNameServer = kingpin.Flag("dns.nameserver", "DNS server used to resolve hostname of the target").Default("").String()
	listenAddress = kingpin.Flag("web.listen-address", "Address on which to expose metrics (disabled if empty)").Default("").String()
	metricsPath   = kingpin.Flag("web.telemetry-path", "Path under which to expose metrics").Default("/metrics").String()
	logLevel      = kingpin.Flag("log.level", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error, fatal]").Default("info").String()
	logFile       = kingpin.Flag("log.file", "File to write logs to in chart mode (discarded if empty)").Default("").String()
	targetHost    = kingpin.Arg("target", "Host to ping").Default("8.8.8.8").String()
)

var rttMetricsScale = rttInMills

var rttMode = kingpin.Flag("metrics.rttunit", "Export ping results as either millis (default), or seconds (best practice), or both (for migrations). Valid choices: [ms, s, both]").Default("ms").String()

func main() {
	kingpin.Parse()

	if *showVersion {
		printVersion()
		os.Exit(exitOK)
	}

	os.Exit(run())
}

func run() int {
	setLogLevel(*logLevel)

	unit, err := parseRTTUnit(*rttMode)
	if err != nil {
		kingpin.FatalUsage("%v", err)
	}
	rttMetricsScale = unit

	cfg, err := loadConfig()
	if err != nil {
		kingpin.FatalUsage("could not load config.path: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		kingpin.FatalUsage("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr, err := probe.ResolveTarget(ctx, probe.NewResolver(cfg.DNS.Nameserver), cfg.Target.Addr)
	if err != nil {
		log.Errorln(err)
		return exitConfig
	}
	t := newTarget(cfg.Target, addr)

	bind4, bind6 := probe.DetectBindAddresses()
	if t.ipVersion() == ipv4 {
		bind6 = ""
	} else {
		bind4 = ""
	}
	prober, err := probe.NewICMP(bind4, bind6)
	if err != nil {
		log.Errorln(err)
		return exitSocket
	}
	defer prober.Close()

	agg := stats.NewRolling(cfg.Stats.BufferSize)
	sched, err := scheduler.New(schedulerConfig(cfg, addr), prober, agg)
	if err != nil {
		log.Errorln(err)
		return exitConfig
	}

	if *listenAddress != "" {
		go startServer(sched, t)
	}

	if *mode == "plain" {
		log.Infof("Starting ping chart in plain mode (Version: %s)", version)
		if err := sched.RunPlain(ctx, os.Stdout, cfg.Ping.PlainInterval.Duration()); err != nil {
			log.Errorln(err)
			return exitRender
		}
		return exitOK
	}

	return runChart(ctx, sched, addr, agg)
}

// chartTerminal draws the chart and reports stop requests.
type chartTerminal interface {
	scheduler.Renderer
	scheduler.Canceller
	Close()
}

var newTerminal = func(target *net.IPAddr, agg *stats.Rolling) (chartTerminal, error) {
	t, err := ui.NewTerminal(target, agg)
	if err != nil {
		return nil, err
	}
	return t, nil
}

var stderr io.Writer = os.Stderr

func runChart(ctx context.Context, sched *scheduler.Scheduler, addr *net.IPAddr, agg *stats.Rolling) int {
	term, err := newTerminal(sched.Target(), agg)
	if err != nil {
		log.Errorln(err)
		fmt.Fprintln(stderr, err)
		return exitRender
	}

	closeLog := redirectLog(*logFile)
	defer closeLog()

	if *configFile != "" {
		w, err := config.Watch(*configFile, onConfigChange(sched))
		if err != nil {
			log.Warnln(err)
		} else {
			defer w.Close()
		}
	}

	log.Infof("Starting ping chart for %s (Version: %s)", addr, version)
	err = sched.Run(ctx, term, term)
	term.Close()

	if err != nil {
		log.Errorln(err)
		fmt.Fprintln(stderr, err)
		return exitRender
	}

	return exitOK
}

// onConfigChange applies the y bounds of a reloaded config file. Values
// missing in the file fall back to the command line flags.
func onConfigChange(sched *scheduler.Scheduler) func(*config.Config) {
	return func(c *config.Config) {
		addFlagToConfig(c)
		sched.Reload(series.Bounds{Low: c.Chart.YMin, High: c.Chart.YMax})
	}
}

// redirectLog keeps log output away from the terminal while the chart is shown.
func redirectLog(path string) func() {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warnf("cannot open log file, discarding logs: %v", err)
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}
}

func printVersion() {
	fmt.Println("ping-chart")
	fmt.Printf("Version: %s\n", version)
	fmt.Println("Live ICMP latency chart for the terminal")
}

func schedulerConfig(cfg *config.Config, addr *net.IPAddr) scheduler.Config {
	return scheduler.Config{
		Target:   addr,
		Interval: cfg.Ping.Interval.Duration(),
		Timeout:  cfg.Ping.Timeout.Duration(),
		Payload:  probe.Payload(cfg.Ping.Size),
		Batch:    cfg.Chart.Batch,
		Capacity: cfg.Chart.Capacity,
		Step:     cfg.Chart.Step,
		Y:        series.Bounds{Low: cfg.Chart.YMin, High: cfg.Chart.YMax},
	}
}

func startServer(sched *scheduler.Scheduler, t *target) {
	path := *metricsPath
	if path == "" {
		log.Warnln("web.telemetry-path is empty, correcting to `/metrics`")
		path = "/metrics"
	} else if path[0] != '/' {
		path = "/" + path
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(newPingCollector(sched, t, rttMetricsScale))

	l := log.New()
	l.Level = log.ErrorLevel

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog:      l,
		ErrorHandling: promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, indexHTML, path)
	})

	srv := &http.Server{
		Addr:              *listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Infof("Listening for %s on %s", path, *listenAddress)
	if err := srv.ListenAndServe(); err != nil {
		log.Errorf("metrics server stopped: %v", err)
	}
}

// loadConfig reads the config file if given and fills every zero value from
// the command line flags.
func loadConfig() (*config.Config, error) {
	if *configFile == "" {
		cfg := config.Config{}
		addFlagToConfig(&cfg)

		return &cfg, nil
	}

	cfg, err := config.FromFile(*configFile)
	if err == nil {
		addFlagToConfig(cfg)
	}

	return cfg, err
}

// addFlagToConfig updates cfg with command line flag values, unless the
// config has non-zero values.
func addFlagToConfig(cfg *config.Config) {
	if cfg.Target.Addr == "" {
		cfg.Target.Addr = *targetHost
	}
	if cfg.Ping.Interval == 0 {
		cfg.Ping.Interval.Set(*pingInterval)
	}
	if cfg.Ping.Timeout == 0 {
		cfg.Ping.Timeout.Set(*pingTimeout)
	}
	if cfg.Ping.Size == 0 {
		cfg.Ping.Size = *pingSize
	}
	if cfg.Ping.PlainInterval == 0 {
		cfg.Ping.PlainInterval.Set(*plainInterval)
	}
	if cfg.Chart.Capacity == 0 {
		cfg.Chart.Capacity = *capacity
	}
	if cfg.Chart.Batch == 0 {
		cfg.Chart.Batch = *batch
	}
	if cfg.Chart.Step == 0 {
		cfg.Chart.Step = *step
	}
	if cfg.Chart.YMin == 0 {
		cfg.Chart.YMin = *yMin
	}
	if cfg.Chart.YMax == 0 {
		cfg.Chart.YMax = *yMax
	}
	if cfg.Stats.BufferSize == 0 {
		cfg.Stats.BufferSize = *bufferSize
	}
	if cfg.DNS.Nameserver == "" {
		cfg.DNS.Nameserver = *dnsNameServer
	}
}

const indexHTML = `<!doctype html>
<html>
<head>
	<meta charset="UTF-8">
	<title>ping chart (Version ` + version + `)</title>
</head>
<body>
	<h1>ping chart</h1>
	<p><a href="%s">Metrics</a></p>
</body>
</html>
`
