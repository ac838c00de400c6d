package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dm/eams-go/internal/model"
)

// FileSource reads readings from a local YAML or JSON file. The file is
// re-read on every call so the dashboard picks up edits.
type FileSource struct {
	path string
	json bool
}

// NewFileSource returns a FileSource for path. The format is chosen by the
// file extension: .json is JSON, .yaml/.yml is YAML.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("readings path is required")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return &FileSource{path: path, json: true}, nil
	case ".yaml", ".yml":
		return &FileSource{path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported readings file %q: want .json, .yaml or .yml", path)
	}
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.path
}

// Readings loads and decodes the file.
func (s *FileSource) Readings(ctx context.Context) ([]model.EquipmentReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var list []model.EquipmentReading
	if s.json {
		list, err = decodeJSON(data)
	} else {
		list, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return list, nil
}
