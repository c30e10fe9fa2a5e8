package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/terra2d/internal/config"
	"github.com/annel0/terra2d/internal/eventbus"
	"github.com/annel0/terra2d/internal/loader"
	"github.com/annel0/terra2d/internal/logging"
	"github.com/annel0/terra2d/internal/observability"
	"github.com/annel0/terra2d/internal/physics"
	"github.com/annel0/terra2d/internal/storage"
	"github.com/annel0/terra2d/internal/streaming"
	"github.com/annel0/terra2d/internal/world/terrain"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (default: $TERRA_CONFIG)")
		ticks      = flag.Int("ticks", 3000, "Number of simulation ticks")
		speed      = flag.Float64("speed", 12, "Player speed in pixels per tick")
		interval   = flag.Duration("tick", 16*time.Millisecond, "Tick interval")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.ConsoleLevel, logging.INFO)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel, logging.DEBUG)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logging.Configure(logging.Options{
		Dir:          cfg.Logging.Dir,
		ConsoleLevel: consoleLevel,
		FileLevel:    fileLevel,
	})
	if err := logging.InitDefaultLogger("worldsim"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, *ticks, *speed, *interval)
	stop()

	if err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Симуляция завершена")
	logging.CloseDefaultLogger()
}

func run(ctx context.Context, cfg *config.Config, ticks int, speed float64, interval time.Duration) error {
	if cfg.Observability.Tracing {
		shutdown, err := observability.InitTelemetry(ctx, observability.TracingOptions{
			ServiceName: cfg.Observability.ServiceName,
			Endpoint:    cfg.Observability.OTLPEndpoint,
			Insecure:    cfg.Observability.OTLPInsecure,
			SampleRatio: cfg.Observability.SampleRatio,
			WorldName:   cfg.World.Name,
			Seed:        cfg.World.GetSeed(),
		})
		if err != nil {
			logging.Warn("OpenTelemetry не инициализирован: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	reg := observability.NewRegistry()
	if port := cfg.Observability.GetMetricsPort(); port > 0 {
		srv := observability.ServeMetrics(port, reg)
		defer srv.Close()
	}

	layout, err := terrain.LayoutByName(cfg.Generator.Layout)
	if err != nil {
		return err
	}

	dataDir := cfg.World.GetDataDir()
	store, err := storage.Open(cfg.Storage.Backend, dataDir)
	if err != nil {
		return fmt.Errorf("ошибка открытия хранилища: %w", err)
	}
	defer store.Close()

	w, err := streaming.Setup(ctx, store, streaming.SetupOptions{
		Name:        cfg.World.Name,
		Seed:        cfg.World.GetSeed(),
		DataDir:     dataDir,
		Backend:     cfg.Storage.Backend,
		MinIndex:    cfg.World.MinIndex,
		MaxIndex:    cfg.World.MaxIndex,
		Layout:      layout,
		CloudNoise:  cfg.Generator.CloudNoise,
		Lazy:        cfg.World.Lazy(),
		SaveWorkers: cfg.Storage.SaveWorkers,
	})
	if err != nil {
		return fmt.Errorf("ошибка подготовки мира: %w", err)
	}

	ld := loader.NewChunkLoader(store, loader.Config{
		MinIndex:   w.Meta.MinIndex,
		MaxIndex:   w.Meta.MaxIndex,
		YieldEvery: cfg.Loader.YieldEvery,
		YieldPause: cfg.Loader.YieldPause,
		Generate:   w.Generate,
	}, loader.NewMetrics(reg))
	ld.Start(ctx)
	defer ld.Stop()

	engine := physics.NewEngine()
	wm := streaming.NewWorldManager(ld, engine, streaming.Options{
		MinIndex:       w.Meta.MinIndex,
		MaxIndex:       w.Meta.MaxIndex,
		VisibleRange:   cfg.World.VisibleRange,
		DrainPerTick:   cfg.Loader.DrainPerTick,
		PrefetchAhead:  cfg.Loader.PrefetchAhead,
		RequireSupport: cfg.World.RequireSupport,
		MaxReach:       cfg.World.BreakReach,
	}, streaming.NewMetrics(reg))

	bus := eventbus.NewMemoryBus(1024)
	defer bus.Close()
	eventbus.RegisterMetrics(reg, bus)
	eventbus.StartLoggingListener(bus)
	wm.SetEventBus(bus)

	walker := newWalker(w.Meta, speed)
	sim := newStats()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info("🚶 Игрок идёт от x=%.0f, тиков %d, скорость %.0f px/тик", walker.pos.X, ticks, speed)
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			logging.Info("📡 Получен сигнал завершения на тике %d", i)
			sim.report(wm, engine)
			return nil
		case <-ticker.C:
		}

		pos, facing := walker.step()
		wm.SetPlayer(pos, facing)
		report, err := wm.Tick()
		if err != nil {
			return err
		}
		sim.observe(report, engine.CanMoveToPosition(pos, walker.collider))

		if report.Changed {
			logging.Debug("Тик %d: x=%.0f %s, окно %v", i, pos.X, facing, wm.ActiveIndices())
		}
	}

	sim.report(wm, engine)
	return nil
}
