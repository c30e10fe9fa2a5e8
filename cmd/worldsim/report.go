package main

import (
	"os"
	"runtime"
	"time"

	"github.com/annel0/terra2d/internal/logging"
	"github.com/annel0/terra2d/internal/physics"
	"github.com/annel0/terra2d/internal/streaming"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// simStats итоги прогона
type simStats struct {
	start      time.Time
	ticks      int
	notReady   int
	changes    int
	delivered  int
	prefetched int
	blocked    int
}

func newStats() *simStats {
	return &simStats{start: time.Now()}
}

func (s *simStats) observe(r streaming.TickReport, free bool) {
	s.ticks++
	s.delivered += r.Delivered
	s.prefetched += r.Prefetched
	if !r.Ready {
		s.notReady++
	}
	if r.Changed {
		s.changes++
	}
	if !free {
		s.blocked++
	}
}

func (s *simStats) report(wm *streaming.WorldManager, engine *physics.Engine) {
	logging.Info("🏁 Тиков %d за %v", s.ticks, time.Since(s.start).Round(time.Millisecond))
	logging.Info("   Чанков загружено %d, принято %d, упреждающих запросов %d", wm.LoadedCount(), s.delivered, s.prefetched)
	logging.Info("   Активное окно %v, изменений окна %d, тиков без чанка игрока %d", wm.ActiveIndices(), s.changes, s.notReady)
	logging.Info("   Стен в движке коллизий %d, публикаций %d, тиков в стене %d", engine.WallCount(), engine.Version(), s.blocked)

	rss, cpuPercent, err := processUsage()
	if err != nil {
		logging.Warn("Не удалось получить метрики процесса: %v", err)
		return
	}
	logging.Info("   Память процесса %s, CPU %.1f%%, горутин %d", humanize.Bytes(rss), cpuPercent, runtime.NumGoroutine())
}

// processUsage RSS и загрузка CPU текущего процесса
func processUsage() (uint64, float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, 0, err
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, берём системную
		percents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(percents) == 0 {
			return mem.RSS, 0, err
		}
		cpuPercent = percents[0]
	}
	return mem.RSS, cpuPercent, nil
}
