package tui

import (
	"cmp"
	"slices"
	"strings"
)

// sortFleetRows returns a sorted copy of rows.
// Column mapping:
//
//	0=ID, 1=Grade, 2=Health, 3=MFI, 4=RUL, 5=Probability, 6=Critical, 7=Actions
//
// col -1 means no sort (preserve order). Rejected readings always sort last
// and ties are broken by ID ascending.
func sortFleetRows(rows []fleetRow, col int, desc bool) []fleetRow {
	out := slices.Clone(rows)
	if col < 0 {
		return out
	}

	slices.SortStableFunc(out, func(a, b fleetRow) int {
		if a.Valid != b.Valid {
			if a.Valid {
				return -1
			}
			return 1
		}
		c := compareFleetCol(a, b, col)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID))
	})
	return out
}

func compareFleetCol(a, b fleetRow, col int) int {
	switch col {
	case 0:
		return strings.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID))
	case 1:
		return strings.Compare(a.Grade, b.Grade)
	case 2:
		return cmp.Compare(a.Health, b.Health)
	case 3:
		return cmp.Compare(a.MFI, b.MFI)
	case 4:
		return cmp.Compare(a.RUL, b.RUL)
	case 5:
		return cmp.Compare(a.Probability, b.Probability)
	case 6:
		return cmp.Compare(a.Critical, b.Critical)
	case 7:
		return cmp.Compare(a.Actions, b.Actions)
	default:
		return 0
	}
}

// filterFleetRows returns rows whose ID or name contains search
// (case-insensitive). An empty search returns all rows.
func filterFleetRows(rows []fleetRow, search string) []fleetRow {
	if search == "" {
		return rows
	}
	needle := strings.ToLower(search)
	var out []fleetRow
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ID), needle) || strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}
