package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dm/eams-go/internal/model"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
equipment:
  criticality: A
  environmental_impact: high
  category: compressor_centrifugal
  environment: offshore
operating:
  speed: 2950
  temperature: 65
  duty_cycle: 0.9
monitoring:
  continuous_vibration: true
  mcsa: true
  inspection_interval_days: 7
analysis:
  apply_dependencies: true
  workers: 8
  refresh_interval: 1m
cache:
  addr: "localhost:6379"
  ttl: 24h
history:
  dsn: "postgres://eams@localhost/eams?sslmode=disable"
  limit: 120
export:
  textfile: /var/lib/node_exporter/eams.prom
`
	cfg := loadFromString(t, yaml)

	assert.Equal(t, model.CriticalityA, cfg.Equipment.Criticality)
	assert.Equal(t, model.ImpactHigh, cfg.Equipment.EnvironmentalImpact)
	assert.Equal(t, model.CategoryCentrifugalCompressor, cfg.Equipment.Category)
	assert.Equal(t, model.EnvironmentOffshore, cfg.Equipment.Environment)
	assert.Equal(t, 2950.0, cfg.Operating.Speed)
	assert.True(t, cfg.Monitoring.ContinuousVibration)
	assert.False(t, cfg.Monitoring.Thermal)
	assert.True(t, cfg.Analysis.ApplyDependencies)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, time.Minute, cfg.Analysis.RefreshInterval)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)
	assert.Equal(t, DefaultKeyPrefix, cfg.Cache.KeyPrefix, "unset fields keep defaults")
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 120, cfg.History.Limit)
	assert.Equal(t, "/var/lib/node_exporter/eams.prom", cfg.Export.Textfile)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "equipment:\n  criticality: C\n")

	assert.Equal(t, model.CriticalityC, cfg.Equipment.Criticality)
	assert.Equal(t, model.ImpactMedium, cfg.Equipment.EnvironmentalImpact)
	assert.Equal(t, model.CategoryCentrifugalPump, cfg.Equipment.Category)
	assert.Equal(t, model.EnvironmentOnshore, cfg.Equipment.Environment)
	assert.Equal(t, DefaultDutyCycle, cfg.Operating.DutyCycle)
	assert.Equal(t, float64(DefaultInspectionDays), cfg.Monitoring.InspectionIntervalDays)
	assert.Equal(t, DefaultWorkers, cfg.Analysis.Workers)
	assert.Equal(t, DefaultRefreshInterval, cfg.Analysis.RefreshInterval)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultHistoryLimit, cfg.History.Limit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"unknown class", "equipment:\n  criticality: Z\n", "equipment.criticality"},
		{"unknown impact", "equipment:\n  environmental_impact: extreme\n", "equipment.environmental_impact"},
		{"unknown category", "equipment:\n  category: turbine\n", "equipment.category"},
		{"unknown environment", "equipment:\n  environment: arctic\n", "equipment.environment"},
		{"duty above one", "operating:\n  duty_cycle: 1.5\n", "operating.duty_cycle"},
		{"negative speed", "operating:\n  speed: -10\n", "operating.speed"},
		{"zero inspection", "monitoring:\n  inspection_interval_days: 0\n", "inspection_interval_days"},
		{"zero workers", "analysis:\n  workers: 0\n", "analysis.workers"},
		{"refresh too fast", "analysis:\n  refresh_interval: 1s\n", "analysis.refresh_interval"},
		{"negative ttl", "cache:\n  ttl: -1h\n", "cache.ttl"},
		{"negative limit", "history:\n  limit: -1\n", "history.limit"},
		{"zero request timeout", "source:\n  request_timeout: 0s\n", "source.request_timeout"},
		{"negative retries", "source:\n  retry_count: -1\n", "source.retry_count"},
		{"bad yaml", "equipment: [\n", "parse yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadStringErr(t, tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEquipmentContext(t *testing.T) {
	cfg := Default()
	assert.Equal(t, model.DefaultContext(), cfg.EquipmentContext())

	cfg.Monitoring.Thermal = true
	cfg.Operating.Temperature = 70
	ctx := cfg.EquipmentContext()
	assert.True(t, ctx.Monitoring.Thermal)
	assert.Equal(t, 70.0, ctx.OperatingTemperature)

	cfg.Equipment.Category = model.CategoryBallValve
	cfg.Equipment.Environment = model.EnvironmentHarsh
	ctx = cfg.EquipmentContext()
	assert.Equal(t, model.CategoryBallValve, ctx.Category)
	assert.Equal(t, model.EnvironmentHarsh, ctx.Environment)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eams.yaml")
	require.NoError(t, os.WriteFile(path, []byte("equipment:\n  criticality: B\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zap.NewNop(), func(c *Config) { changes <- c })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("equipment:\n  criticality: A\n"), 0o600))

	// A write may surface as several events (truncate, then data), so wait
	// for the reload that carries the new content.
	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case c := <-changes:
			reloaded = c.Equipment.Criticality == model.CriticalityA
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop(), func(*Config) {})
	assert.Error(t, err)
}

func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	require.NoError(t, err)
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return Load(path)
}

func TestLoad_ExampleFileMatchesDefaults(t *testing.T) {
	cfg, err := Load("../../eams.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
