package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dm/eams-go/internal/model"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultWorkers         = 4
	DefaultKeyPrefix       = "eams:analytics:"
	DefaultCacheTTL        = 7 * 24 * time.Hour
	DefaultHistoryLimit    = 60
	DefaultDutyCycle       = 0.7
	DefaultInspectionDays  = 30
	DefaultRefreshInterval = 30 * time.Second
	MinRefreshInterval     = 5 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRetryCount      = 2
)

// Config is the top-level eams configuration. Fields map 1:1 to eams.example.yaml.
type Config struct {
	Equipment  EquipmentConfig  `yaml:"equipment"`
	Operating  OperatingConfig  `yaml:"operating"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Cache      CacheConfig      `yaml:"cache"`
	History    HistoryConfig    `yaml:"history"`
	Export     ExportConfig     `yaml:"export"`
	Source     SourceConfig     `yaml:"source"`
}

// EquipmentConfig describes the organisational importance of the asset.
type EquipmentConfig struct {
	// Criticality is the asset class: A | B | C.
	Criticality model.CriticalityClass `yaml:"criticality"`

	// EnvironmentalImpact is the consequence class of a failure: low | medium | high.
	EnvironmentalImpact model.ImpactLevel `yaml:"environmental_impact"`

	// Category is the OREDA equipment class that selects the reference
	// failure rates: pump_centrifugal | pump_positive_displacement |
	// motor_induction | compressor_centrifugal | valve_ball | valve_butterfly.
	Category model.EquipmentCategory `yaml:"category"`

	// Environment scales the reference failure rate: onshore | offshore | harsh.
	Environment model.Environment `yaml:"environment"`
}

// OperatingConfig holds the design operating point.
type OperatingConfig struct {
	Speed       float64 `yaml:"speed"`       // RPM
	Temperature float64 `yaml:"temperature"` // °C
	DutyCycle   float64 `yaml:"duty_cycle"`  // 0–1
}

// MonitoringConfig lists installed condition monitoring and the route cadence.
type MonitoringConfig struct {
	ContinuousVibration    bool    `yaml:"continuous_vibration"`
	Thermal                bool    `yaml:"thermal"`
	MCSA                   bool    `yaml:"mcsa"`
	InspectionIntervalDays float64 `yaml:"inspection_interval_days"`
}

// AnalysisConfig tunes the assessment run.
type AnalysisConfig struct {
	// ApplyDependencies enables cross-mode amplification of failure probability.
	ApplyDependencies bool `yaml:"apply_dependencies"`

	// Workers bounds how many readings are assessed concurrently.
	Workers int `yaml:"workers"`

	// RefreshInterval is how often the dashboard re-reads its readings file.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// CacheConfig configures the Redis analytics cache. An empty Addr keeps the
// cache in memory.
type CacheConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// HistoryConfig configures the Postgres assessment history. An empty DSN
// disables persistence.
type HistoryConfig struct {
	DSN   string `yaml:"dsn"`
	Limit int    `yaml:"limit"`
}

// ExportConfig configures file exports produced after every run.
type ExportConfig struct {
	// Textfile is the path of a Prometheus textfile-collector file.
	Textfile string `yaml:"textfile"`

	// XLSX is the path of the PFMEA workbook.
	XLSX string `yaml:"xlsx"`
}

// SourceConfig holds credentials and timeouts used when readings are fetched
// from an HTTP endpoint. It is ignored for file sources.
type SourceConfig struct {
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	RetryCount         int           `yaml:"retry_count"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values. It is also
// the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Equipment: EquipmentConfig{
			Criticality:         model.CriticalityB,
			EnvironmentalImpact: model.ImpactMedium,
			Category:            model.CategoryCentrifugalPump,
			Environment:         model.EnvironmentOnshore,
		},
		Operating: OperatingConfig{
			DutyCycle: DefaultDutyCycle,
		},
		Monitoring: MonitoringConfig{
			InspectionIntervalDays: DefaultInspectionDays,
		},
		Analysis: AnalysisConfig{
			Workers:         DefaultWorkers,
			RefreshInterval: DefaultRefreshInterval,
		},
		Cache: CacheConfig{
			KeyPrefix: DefaultKeyPrefix,
			TTL:       DefaultCacheTTL,
		},
		History: HistoryConfig{
			Limit: DefaultHistoryLimit,
		},
		Source: SourceConfig{
			RequestTimeout: DefaultRequestTimeout,
			RetryCount:     DefaultRetryCount,
		},
	}
}

// validate checks enumerations and numeric ranges.
func validate(cfg *Config) error {
	switch cfg.Equipment.Criticality {
	case model.CriticalityA, model.CriticalityB, model.CriticalityC:
	default:
		return fmt.Errorf("equipment.criticality: unknown class %q", cfg.Equipment.Criticality)
	}
	switch cfg.Equipment.EnvironmentalImpact {
	case model.ImpactLow, model.ImpactMedium, model.ImpactHigh:
	default:
		return fmt.Errorf("equipment.environmental_impact: unknown level %q", cfg.Equipment.EnvironmentalImpact)
	}
	switch cfg.Equipment.Category {
	case model.CategoryCentrifugalPump, model.CategoryPositiveDisplacement, model.CategoryInductionMotor,
		model.CategoryCentrifugalCompressor, model.CategoryBallValve, model.CategoryButterflyValve:
	default:
		return fmt.Errorf("equipment.category: unknown category %q", cfg.Equipment.Category)
	}
	switch cfg.Equipment.Environment {
	case model.EnvironmentOnshore, model.EnvironmentOffshore, model.EnvironmentHarsh:
	default:
		return fmt.Errorf("equipment.environment: unknown environment %q", cfg.Equipment.Environment)
	}
	if cfg.Operating.DutyCycle < 0 || cfg.Operating.DutyCycle > 1 {
		return fmt.Errorf("operating.duty_cycle must be within [0, 1], got %g", cfg.Operating.DutyCycle)
	}
	if cfg.Operating.Speed < 0 {
		return fmt.Errorf("operating.speed must not be negative")
	}
	if cfg.Monitoring.InspectionIntervalDays <= 0 {
		return fmt.Errorf("monitoring.inspection_interval_days must be positive")
	}
	if cfg.Analysis.Workers <= 0 {
		return fmt.Errorf("analysis.workers must be positive")
	}
	if cfg.Analysis.RefreshInterval < MinRefreshInterval {
		return fmt.Errorf("analysis.refresh_interval must be at least %s", MinRefreshInterval)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if cfg.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}
	if cfg.Source.RequestTimeout <= 0 {
		return fmt.Errorf("source.request_timeout must be positive")
	}
	if cfg.Source.RetryCount < 0 {
		return fmt.Errorf("source.retry_count must not be negative")
	}
	return nil
}

// EquipmentContext converts the configuration into the engine's context.
func (c *Config) EquipmentContext() model.EquipmentContext {
	return model.EquipmentContext{
		OperatingSpeed:       c.Operating.Speed,
		OperatingTemperature: c.Operating.Temperature,
		DutyCycle:            c.Operating.DutyCycle,
		Monitoring: model.MonitoringCapabilities{
			ContinuousVibration: c.Monitoring.ContinuousVibration,
			Thermal:             c.Monitoring.Thermal,
			MCSA:                c.Monitoring.MCSA,
		},
		InspectionIntervalDays: c.Monitoring.InspectionIntervalDays,
		Criticality:            c.Equipment.Criticality,
		EnvironmentalImpact:    c.Equipment.EnvironmentalImpact,
		Category:               c.Equipment.Category,
		Environment:            c.Equipment.Environment,
	}
}
