package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dm/eams-go/internal/model"
)

// Source supplies equipment readings to assess.
type Source interface {
	Readings(ctx context.Context) ([]model.EquipmentReading, error)
	// Name identifies the source in logs and the dashboard header.
	Name() string
}

// document is the on-disk and on-wire readings format. A bare list of
// readings is accepted as well.
type document struct {
	Readings []model.EquipmentReading `json:"readings" yaml:"readings"`
}

// New returns an HTTPSource for http(s) targets and a FileSource otherwise.
func New(target string, cfg HTTPConfig, log *zap.Logger) (Source, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return NewHTTPSource(target, cfg, log)
	}
	return NewFileSource(target)
}

func decodeJSON(data []byte) ([]model.EquipmentReading, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []model.EquipmentReading
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return checkReadings(list)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return checkReadings(doc.Readings)
}

func decodeYAML(data []byte) ([]model.EquipmentReading, error) {
	var list []model.EquipmentReading
	if err := yaml.Unmarshal(data, &list); err == nil {
		return checkReadings(list)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return checkReadings(doc.Readings)
}

// checkReadings rejects documents the runner cannot key: every reading needs
// an equipment ID. Measurement ranges are validated later by the engine.
func checkReadings(list []model.EquipmentReading) ([]model.EquipmentReading, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("no readings found")
	}
	for i, r := range list {
		if strings.TrimSpace(r.EquipmentID) == "" {
			return nil, fmt.Errorf("readings[%d]: equipment_id is required", i)
		}
	}
	return list, nil
}
