package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/eams-go/internal/format"
	"github.com/dm/eams-go/internal/runner"
)

// fleetRow is the table view of one assessed reading.
type fleetRow struct {
	ID          string
	Name        string
	Valid       bool
	Grade       string
	Health      float64
	MFI         float64
	RUL         float64
	Probability float64
	Critical    int
	Actions     int
}

// fleetRowsFrom flattens run results into table rows.
func fleetRowsFrom(results []runner.Result) []fleetRow {
	rows := make([]fleetRow, 0, len(results))
	for _, r := range results {
		row := fleetRow{ID: r.Reading.EquipmentID, Name: r.Reading.Name, Valid: r.Valid()}
		if a := r.Assessment; a != nil {
			row.Grade = a.HealthGrade
			row.Health = a.OverallHealthScore
			row.MFI = a.MasterFaultIndex
			row.RUL = a.Reliability.RUL.Hours
			row.Probability = a.FailureProbability.Probability
			row.Critical = len(a.CriticalFailures)
			row.Actions = a.Recommendations.Summary.Total
		}
		rows = append(rows, row)
	}
	return rows
}

// FleetTableModel is a sortable, paginated, searchable table of assessed
// equipment. The cursor row selects the equipment shown in the detail panels.
type FleetTableModel struct {
	tableModel
	allRows     []fleetRow
	displayRows []fleetRow
}

// NewFleetTable returns a FleetTableModel sorted by health ascending so the
// worst machines come first.
func NewFleetTable() FleetTableModel {
	cols := []columnDef{
		{Title: "Equipment", Width: 24},
		{Title: "Grade", Width: 6},
		{Title: "Health", Width: 7},
		{Title: "MFI", Width: 6, SortDesc: true},
		{Title: "RUL", Width: 9},
		{Title: "P(fail)", Width: 8, SortDesc: true},
		{Title: "Critical", Width: 8, SortDesc: true},
		{Title: "Actions", Width: 8, SortDesc: true},
	}
	m := FleetTableModel{tableModel: newTableModel(cols)}
	m.sortCol = 2
	m.sortDesc = false
	return m
}

// SetData applies the current search filter and sort to rows.
func (m *FleetTableModel) SetData(rows []fleetRow) {
	m.allRows = rows
	m.apply()
}

func (m *FleetTableModel) apply() {
	m.displayRows = sortFleetRows(filterFleetRows(m.allRows, m.search), m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
}

// Update delegates to the embedded tableModel and re-applies filter and sort
// when they change.
func (m FleetTableModel) Update(msg tea.Msg) (FleetTableModel, tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.apply()
	}
	m.clampPage(len(m.displayRows))
	return m, cmd
}

// Selected returns the equipment ID under the cursor, or "" when empty.
func (m *FleetTableModel) Selected() string {
	i := m.selectedIndex(len(m.displayRows))
	if i < 0 {
		return ""
	}
	return m.displayRows[i].ID
}

// renderTable renders the "Fleet" section header and the current page.
func (m *FleetTableModel) renderTable(width int) string {
	pc := pageCount(len(m.displayRows), m.pageSize)
	hdr := m.renderHeader("Fleet", m.page+1, pc)

	start, end := pageBounds(len(m.displayRows), m.page, m.pageSize)
	if start == end {
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render("  (no equipment)"))
	}

	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		title := c.Title
		if i == m.sortCol {
			if m.sortDesc {
				title += "↓"
			} else {
				title += "↑"
			}
		}
		headers[i] = title + strings.Repeat(" ", max(0, c.Width-lipgloss.Width(title)))
	}

	page := m.displayRows[start:end]
	sortCol, cursor, focused := m.sortCol, m.cursor, m.focused
	t := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if focused && row == cursor {
				base = base.Background(colorSelectedBg)
			} else if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			if row < 0 || row >= len(page) {
				return base
			}
			r := page[row]
			if !r.Valid {
				return base.Foreground(colorGray)
			}
			switch col {
			case 1:
				return base.Bold(true).Foreground(gradeColor(r.Grade))
			case 2:
				return base.Foreground(severityFg(healthSeverity(r.Health)))
			case 4:
				return base.Foreground(severityFg(rulSeverity(r.RUL)))
			case 5:
				return base.Foreground(severityFg(probabilitySeverity(r.Probability)))
			case 6:
				if r.Critical > 0 {
					return base.Foreground(colorRed)
				}
			}
			return base.Foreground(colorWhite)
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if width > 0 {
		t = t.Width(width)
	}
	for _, r := range page {
		t = t.Row(fleetCells(r, m.columns[0].Width)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// renderHeader renders the title bar with search/sort/page hints.
func (m *FleetTableModel) renderHeader(title string, page, pageCount int) string {
	pageInfo := fmt.Sprintf("Page %d/%d", page, pageCount)

	var right string
	switch {
	case m.searching:
		right = "Search: " + m.input.View()
	case m.search != "":
		right = fmt.Sprintf("filter=%q  %s", m.search, pageInfo)
	default:
		right = fmt.Sprintf("[/: search]  [1-8: sort]  [←→: page]  %s", pageInfo)
	}
	return StyleDim.Render(title + "  " + right)
}

// fleetCells formats a row; the equipment label is truncated to nameWidth.
func fleetCells(r fleetRow, nameWidth int) []string {
	label := sanitize(r.ID)
	if r.Name != "" {
		label += " " + sanitize(r.Name)
	}
	label = truncateName(label, nameWidth)
	if !r.Valid {
		return []string{label, "-", "rejected", "", "", "", "", ""}
	}
	return []string{
		label,
		r.Grade,
		fmt.Sprintf("%.1f", r.Health),
		fmt.Sprintf("%.2f", r.MFI),
		format.FormatHours(r.RUL),
		format.FormatProbability(r.Probability),
		strconv.Itoa(r.Critical),
		strconv.Itoa(r.Actions),
	}
}

// truncateName shortens s to width runes, marking the cut with "…".
func truncateName(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
