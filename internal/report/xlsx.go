package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dm/eams-go/internal/engine"
	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

// Sheet names of the exported workbook.
const (
	SheetSummary         = "Summary"
	SheetPFMEA           = "PFMEA"
	SheetRecommendations = "Recommendations"
)

var (
	summaryHeader = []string{
		"Equipment", "Name", "Assessed At", "Valid", "Health Score", "Grade", "MFI",
		"MTBF (h)", "MTTR (h)", "Availability (%)", "RUL (h)", "Failure Probability",
		"Weibull Beta", "Weibull Eta (h)", "Strategy", "Anomaly Score", "Notes",
	}
	pfmeaHeader = []string{
		"Equipment", "Failure Mode", "Severity", "Index", "Contribution",
		"S", "O", "D", "RPN", "Risk Band", "Timeframe",
	}
	recommendationHeader = []string{
		"Equipment", "Bucket", "Priority", "Category", "Action", "Reason",
		"Timeframe", "Urgency", "Source",
	}
)

// severityFill colours PFMEA rows by severity, matching the dashboard palette.
var severityFill = map[model.Severity]string{
	model.SeverityGood:     "#D4EDDA",
	model.SeverityModerate: "#FFF3CD",
	model.SeveritySevere:   "#FFE5D0",
	model.SeverityCritical: "#F8D7DA",
}

// WriteXLSX builds the workbook and saves it to path.
func WriteXLSX(path string, results []runner.Result) error {
	f, err := Workbook(results)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// Workbook builds a three-sheet workbook: a summary row per equipment, the
// PFMEA worksheet and the recommendation list. The caller must Close it.
func Workbook(results []runner.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := build(f, results); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func build(f *excelize.File, results []runner.Result) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetPFMEA, SheetRecommendations} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	var summary, pfmea, recs [][]any
	var severities []model.Severity
	for _, r := range results {
		summary = append(summary, summaryRow(r))
		if !r.Valid() {
			continue
		}
		for _, row := range engine.BuildReport(r.Assessment).Rows {
			pfmea = append(pfmea, []any{
				r.Reading.EquipmentID, string(row.Type), row.Severity.String(), row.Index, row.Contribution,
				row.S, row.O, row.D, row.RPN, string(row.Band), row.Timeframe,
			})
			severities = append(severities, row.Severity)
		}
		set := r.Assessment.Recommendations
		for _, bk := range []struct {
			name string
			list []model.Recommendation
		}{{"Immediate", set.Immediate}, {"Short term", set.ShortTerm}, {"Long term", set.LongTerm}} {
			for _, rec := range bk.list {
				recs = append(recs, []any{
					r.Reading.EquipmentID, bk.name, rec.Priority.String(), string(rec.Category),
					rec.Action, rec.Reason, rec.Timeframe, rec.UrgencyScore, rec.Source,
				})
			}
		}
	}

	if err := writeSheet(f, SheetSummary, summaryHeader, summary, headerStyle); err != nil {
		return err
	}
	if err := writeSheet(f, SheetPFMEA, pfmeaHeader, pfmea, headerStyle); err != nil {
		return err
	}
	if err := colourPFMEA(f, severities); err != nil {
		return err
	}
	return writeSheet(f, SheetRecommendations, recommendationHeader, recs, headerStyle)
}

func summaryRow(r runner.Result) []any {
	base := []any{r.Reading.EquipmentID, r.Reading.Name, r.AssessedAt.UTC().Format("2006-01-02 15:04"), r.Valid()}
	if !r.Valid() {
		notes := strings.Join(r.Validation.Reasons, "; ")
		return append(base, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, notes)
	}
	a := r.Assessment
	return append(base,
		a.OverallHealthScore, a.HealthGrade, a.MasterFaultIndex,
		a.Reliability.MTBF, a.Reliability.MTTR, a.Reliability.Availability,
		a.Reliability.RUL.Hours, a.FailureProbability.Probability,
		a.Reliability.Weibull.Beta, a.Reliability.Weibull.Eta,
		a.Reliability.Optimization.Strategy, r.Anomaly.Score, "",
	)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("%s header cell: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("%s header cell: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("%s column: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("set %s column width: %w", sheet, err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze %s header: %w", sheet, err)
	}
	return nil
}

// colourPFMEA fills each worksheet row with its severity colour.
func colourPFMEA(f *excelize.File, severities []model.Severity) error {
	lastCol, err := excelize.ColumnNumberToName(len(pfmeaHeader))
	if err != nil {
		return err
	}
	styles := make(map[model.Severity]int, len(severityFill))
	for sev, colour := range severityFill {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{colour}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("create severity style: %w", err)
		}
		styles[sev] = style
	}
	for i, sev := range severities {
		style, ok := styles[sev]
		if !ok {
			continue
		}
		n := i + 2
		if err := f.SetCellStyle(SheetPFMEA, fmt.Sprintf("A%d", n), fmt.Sprintf("%s%d", lastCol, n), style); err != nil {
			return fmt.Errorf("style PFMEA row %d: %w", n, err)
		}
	}
	return nil
}
