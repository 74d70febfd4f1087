package main

import (
	"context"
	"flag"
	"log"
	"sync"
	"time"

	"orderaccumulator/internal/bus"
	"orderaccumulator/internal/obs"
	"orderaccumulator/internal/og"
	"orderaccumulator/internal/ops"
	"orderaccumulator/internal/risk"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON or YAML config (empty=defaults)")
	envPath := flag.String("env", "", "Path to .env file (default: ./.env when present)")
	statsInterval := flag.Duration("stats-interval", 30*time.Second, "Metrics and exposure log interval (0=disable)")
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (overrides config, empty=config)")
	flag.Parse()

	if err := ops.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("env load failed: %v", err)
	}
	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *pyroscopeAddr != "" {
		loaded.PyroscopeAddr = *pyroscopeAddr
	}

	if loaded.PyroscopeAddr != "" {
		profiler, err := startProfiler(loaded.PyroscopeAddr)
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	metrics := obs.NewMetrics()
	engine, err := risk.NewEngine(loaded.Risk, risk.WithMetrics(metrics))
	if err != nil {
		log.Fatalf("risk engine init failed: %v", err)
	}
	logs.Infof("accumulator: symbols: %v, exposure limit: %s", loaded.Risk.Symbols, engine.Limit().StringFixed(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	journal := bus.NewQueue(loaded.JournalCapacity)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Not bound to ctx so the queue is drained after Close.
		journal.Run(context.Background(), og.LogDecision)
	}()

	gateway, err := og.NewGateway(engine, og.GatewayConfig{
		Journal: journal,
		Metrics: metrics,
	})
	if err != nil {
		log.Fatalf("gateway init failed: %v", err)
	}
	acceptor, err := og.NewAcceptor(gateway, loaded.Acceptor)
	if err != nil {
		log.Fatalf("acceptor init failed: %v", err)
	}
	if err := acceptor.Start(); err != nil {
		log.Fatalf("acceptor start failed: %v", err)
	}

	if *statsInterval > 0 {
		go reportStats(ctx, *statsInterval, metrics, engine)
	}

	<-sys.Shutdown()
	logs.Info("accumulator: shutting down")

	acceptor.Stop()
	cancel()
	journal.Close()
	wg.Wait()

	logStats(metrics, engine)
}

func reportStats(ctx context.Context, interval time.Duration, metrics *obs.Metrics, engine *risk.Engine) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logStats(metrics, engine)
		}
	}
}

func logStats(metrics *obs.Metrics, engine *risk.Engine) {
	logs.Infof("accumulator: %s", metrics.Snapshot())
	for _, entry := range engine.Snapshot().Entries {
		logs.Infof("accumulator: exposure %s = %s", entry.Symbol, entry.Exposure.StringFixed(2))
	}
}

func startProfiler(addr string) (*pyroscope.Profiler, error) {
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: "orderaccumulator",
		ServerAddress:   addr,
		Tags: map[string]string{
			"service": "accumulator",
		},
		Logger: emptyLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
