package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const readingsYAML = `
readings:
  - equipment_id: P-101
    name: Cooling water pump
    taken_at: 2026-10-01T08:00:00Z
    snapshot:
      vh: 1.2
      vv: 1.1
      va: 0.8
      ah: 0.9
      av: 0.9
      aa: 0.7
      frequency: 50
      speed: 1450
      temperature: 48.5
  - equipment_id: P-102
    snapshot:
      vh: 6
      vv: 5.5
      va: 2
      ah: 3
      av: 3
      aa: 2
      frequency: 50
      speed: 2950
`

const readingsJSON = `{"readings":[{"equipment_id":"F-7","taken_at":"2026-10-01T08:00:00Z",
"snapshot":{"vh":2,"vv":2,"va":1,"ah":1,"av":1,"aa":1,"frequency":60,"speed":1780}}]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSourceYAML(t *testing.T) {
	src, err := NewFileSource(writeFile(t, "plant.yaml", readingsYAML))
	require.NoError(t, err)

	list, err := src.Readings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, "P-101", first.EquipmentID)
	assert.Equal(t, "Cooling water pump", first.Name)
	assert.Equal(t, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC), first.TakenAt.UTC())
	assert.InDelta(t, 1450, first.Snapshot.Speed, 1e-9)
	require.NotNil(t, first.Snapshot.Temperature)
	assert.InDelta(t, 48.5, *first.Snapshot.Temperature, 1e-9)

	assert.Nil(t, list[1].Snapshot.Temperature)
	assert.True(t, list[1].TakenAt.IsZero())
}

func TestFileSourceYAMLBareList(t *testing.T) {
	src, err := NewFileSource(writeFile(t, "plant.yml", `
- equipment_id: M-1
  snapshot: {vh: 1, vv: 1, va: 1, ah: 1, av: 1, aa: 1, frequency: 50, speed: 1450}
`))
	require.NoError(t, err)

	list, err := src.Readings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "M-1", list[0].EquipmentID)
}

func TestFileSourceJSON(t *testing.T) {
	src, err := NewFileSource(writeFile(t, "plant.json", readingsJSON))
	require.NoError(t, err)

	list, err := src.Readings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "F-7", list[0].EquipmentID)
	assert.InDelta(t, 60, list[0].Snapshot.Frequency, 1e-9)
}

func TestFileSourceJSONBareList(t *testing.T) {
	src, err := NewFileSource(writeFile(t, "plant.json", `[{"equipment_id":"A"},{"equipment_id":"B"}]`))
	require.NoError(t, err)

	list, err := src.Readings(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource("")
	assert.Error(t, err)

	_, err = NewFileSource("readings.csv")
	assert.ErrorContains(t, err, "unsupported")

	src, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	_, err = src.Readings(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"empty document", "a.yaml", "readings: []\n", "no readings"},
		{"missing id", "b.yaml", "readings:\n  - name: nameless\n", "equipment_id is required"},
		{"bad json", "c.json", "{not json", "decode json"},
		{"bad yaml", "d.yaml", "readings: [\n", "decode yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewFileSource(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			_, err = src.Readings(context.Background())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFileSourceCancelledContext(t *testing.T) {
	src, err := NewFileSource(writeFile(t, "plant.yaml", readingsYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Readings(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/readings", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "reader", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(readingsJSON))
	}))
	defer srv.Close()

	src, err := New(srv.URL+"/api/readings", HTTPConfig{
		Username:       "reader",
		Password:       "secret",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/api/readings", src.Name())

	list, err := src.Readings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "F-7", list[0].EquipmentID)
}

func TestHTTPSourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`historian offline`))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, HTTPConfig{RequestTimeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	_, err = src.Readings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "historian offline")
}

func TestHTTPSourceNoCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Header["Authorization"]
		assert.False(t, ok)
		_, _ = w.Write([]byte(`[{"equipment_id":"X"}]`))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, HTTPConfig{}, zap.NewNop())
	require.NoError(t, err)
	list, err := src.Readings(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNewSelectsFileSource(t *testing.T) {
	src, err := New(writeFile(t, "plant.yaml", readingsYAML), HTTPConfig{}, zap.NewNop())
	require.NoError(t, err)
	_, ok := src.(*FileSource)
	assert.True(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate([]byte("abc"), 5))
	assert.Equal(t, "ab...", truncate([]byte("abcdef"), 2))
}
