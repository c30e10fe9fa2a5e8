package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig некорректное значение в конфигурации
var ErrInvalidConfig = errors.New("некорректная конфигурация")

// Режимы генерации мира
const (
	GenerationUpfront = "upfront"
	GenerationLazy    = "lazy"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World         WorldConfig         `yaml:"world"`
	Generator     GeneratorConfig     `yaml:"generator"`
	Loader        LoaderConfig        `yaml:"loader"`
	Storage       StorageConfig       `yaml:"storage"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type WorldConfig struct {
	Name     string `yaml:"name"`
	Seed     int64  `yaml:"seed"`
	DataDir  string `yaml:"data_dir"`
	MinIndex int    `yaml:"min_index"`
	MaxIndex int    `yaml:"max_index"`
	// VisibleRange радиус видимости в пикселях
	VisibleRange   float64 `yaml:"visible_range"`
	Generation     string  `yaml:"generation"`
	RequireSupport bool    `yaml:"require_support"`
	// BreakReach наибольшее расстояние до ломаемого блока в пикселях, 0 без ограничения
	BreakReach float64 `yaml:"break_reach"`
}

type GeneratorConfig struct {
	Layout     string `yaml:"layout"`
	CloudNoise bool   `yaml:"cloud_noise"`
}

type LoaderConfig struct {
	DrainPerTick  int           `yaml:"drain_per_tick"`
	YieldEvery    int           `yaml:"yield_every"`
	YieldPause    time.Duration `yaml:"yield_pause"`
	PrefetchAhead int           `yaml:"prefetch_ahead"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"`
	SaveWorkers int    `yaml:"save_workers"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

type ObservabilityConfig struct {
	MetricsPort  int     `yaml:"metrics_port"`
	Tracing      bool    `yaml:"tracing"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	OTLPInsecure bool    `yaml:"otlp_insecure"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

// Default конфигурация эталонного мира
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Name:           "terra",
			MinIndex:       -31,
			MaxIndex:       30,
			VisibleRange:   1600,
			Generation:     GenerationUpfront,
			RequireSupport: true,
		},
		Generator: GeneratorConfig{
			Layout:     "reference",
			CloudNoise: true,
		},
		Loader: LoaderConfig{
			DrainPerTick:  1,
			YieldEvery:    50,
			YieldPause:    time.Millisecond,
			PrefetchAhead: 1,
		},
		Storage: StorageConfig{
			Backend:     "file",
			SaveWorkers: 4,
		},
		Logging: LoggingConfig{
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
		},
		Observability: ObservabilityConfig{
			ServiceName:  "terra2d-worldsim",
			OTLPInsecure: true,
			SampleRatio:  1,
		},
	}
}

// GetDataDir возвращает каталог мира с поддержкой fallback значений
func (w *WorldConfig) GetDataDir() string {
	if w.DataDir != "" {
		return w.DataDir
	}
	if env := os.Getenv("TERRA_DATA_DIR"); env != "" {
		return env
	}
	return "data"
}

// GetSeed возвращает seed мира: config -> env -> 0 (случайный)
func (w *WorldConfig) GetSeed() int64 {
	if w.Seed != 0 {
		return w.Seed
	}
	if envVal := os.Getenv("TERRA_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 0
}

// Lazy сообщает, генерируются ли чанки при первой загрузке
func (w *WorldConfig) Lazy() bool {
	return w.Generation == GenerationLazy
}

// GetMetricsPort возвращает порт Prometheus метрик, 0 отключает сервер
func (o *ObservabilityConfig) GetMetricsPort() int {
	return getIntWithEnvFallback(o.MetricsPort, "TERRA_METRICS_PORT", 0)
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	if configValue > 0 {
		return configValue
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultValue
}

// Validate проверяет диапазоны и перечисления
func (c *Config) Validate() error {
	w := c.World
	if w.MaxIndex < w.MinIndex {
		return fmt.Errorf("%w: min_index %d больше max_index %d", ErrInvalidConfig, w.MinIndex, w.MaxIndex)
	}
	if w.VisibleRange <= 0 {
		return fmt.Errorf("%w: visible_range должен быть положительным", ErrInvalidConfig)
	}
	if w.BreakReach < 0 {
		return fmt.Errorf("%w: break_reach не может быть отрицательным", ErrInvalidConfig)
	}
	switch w.Generation {
	case GenerationUpfront, GenerationLazy:
	default:
		return fmt.Errorf("%w: неизвестный режим генерации %q", ErrInvalidConfig, w.Generation)
	}
	switch c.Generator.Layout {
	case "reference", "shallow":
	default:
		return fmt.Errorf("%w: неизвестная раскладка %q", ErrInvalidConfig, c.Generator.Layout)
	}
	switch c.Storage.Backend {
	case "file", "badger", "leveldb":
	default:
		return fmt.Errorf("%w: неизвестное хранилище %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Loader.DrainPerTick <= 0 || c.Loader.YieldEvery <= 0 {
		return fmt.Errorf("%w: drain_per_tick и yield_every должны быть положительными", ErrInvalidConfig)
	}
	if c.Loader.PrefetchAhead < 0 || c.Storage.SaveWorkers < 0 {
		return fmt.Errorf("%w: отрицательное число воркеров или упреждения", ErrInvalidConfig)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV TERRA_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("TERRA_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан, используются значения по умолчанию
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
