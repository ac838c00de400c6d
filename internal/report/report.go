// Package report renders batches of assessment results as text, Markdown,
// JSON and Excel workbooks.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dm/eams-go/internal/engine"
	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

// Output formats accepted by Write.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Write renders results to w in the named format.
func Write(w io.Writer, format string, results []runner.Result) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return Table(w, results)
	case FormatJSON:
		return JSON(w, results)
	case FormatMarkdown, "md":
		return Markdown(w, results)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or markdown)", format)
	}
}

type jsonResult struct {
	EquipmentID string   `json:"equipment_id"`
	Name        string   `json:"name,omitempty"`
	AssessedAt  string   `json:"assessed_at"`
	Valid       bool     `json:"valid"`
	Reasons     []string `json:"reasons,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	HistoryID   string   `json:"history_id,omitempty"`

	Assessment  *model.MasterHealthAssessment `json:"assessment,omitempty"`
	Report      *model.Report                 `json:"report,omitempty"`
	Anomaly     *engine.AnomalyProjection     `json:"anomaly,omitempty"`
	DigitalTwin *engine.DigitalTwinProjection `json:"digital_twin,omitempty"`
}

// JSON writes results as an indented JSON array.
func JSON(w io.Writer, results []runner.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		j := jsonResult{
			EquipmentID: r.Reading.EquipmentID,
			Name:        r.Reading.Name,
			AssessedAt:  r.AssessedAt.UTC().Format(time.RFC3339),
			Valid:       r.Valid(),
			Reasons:     r.Validation.Reasons,
			Warnings:    r.Validation.Warnings,
			HistoryID:   r.HistoryID,
		}
		if r.Valid() {
			rep := engine.BuildReport(r.Assessment)
			j.Assessment = r.Assessment
			j.Report = &rep
			j.Anomaly = &r.Anomaly
			j.DigitalTwin = &r.Twin
		}
		out = append(out, j)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func title(r runner.Result) string {
	if r.Reading.Name != "" {
		return r.Reading.EquipmentID + " " + r.Reading.Name
	}
	return r.Reading.EquipmentID
}
