package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// columnDef describes a single column in a table.
type columnDef struct {
	Title string
	Width int
	// SortDesc is the initial direction when the column is first selected.
	SortDesc bool
}

// tableModel is the generic base for sortable, paginated, searchable tables
// with a row cursor.
type tableModel struct {
	columns   []columnDef
	sortCol   int // -1 = unsorted
	sortDesc  bool
	page      int // 0-indexed
	pageSize  int
	cursor    int // row within the current page
	search    string
	searching bool
	input     textinput.Model
	focused   bool
}

// newTableModel initialises a tableModel with sensible defaults.
func newTableModel(cols []columnDef) tableModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 80
	return tableModel{
		columns:  cols,
		sortCol:  -1,
		pageSize: 10,
		input:    ti,
		focused:  true,
	}
}

// Update handles keyboard input for sorting, pagination, cursor movement and search.
func (t tableModel) Update(msg tea.Msg) (tableModel, tea.Cmd) {
	if !t.focused {
		return t, nil
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	if t.searching {
		switch {
		case key.Matches(km, keys.Escape):
			t.searching = false
			t.input.Blur()
			if t.input.Value() == "" {
				t.search = ""
			}
			return t, nil
		case km.String() == "enter":
			t.search = t.input.Value()
			t.searching = false
			t.input.Blur()
			t.page = 0
			t.cursor = 0
			return t, nil
		default:
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(km)
			return t, cmd
		}
	}

	switch {
	case key.Matches(km, keys.Search):
		t.searching = true
		t.input.SetValue(t.search)
		t.input.Focus()
		return t, textinput.Blink
	case key.Matches(km, keys.Escape):
		t.search = ""
		t.input.SetValue("")
		t.page = 0
		t.cursor = 0
	case key.Matches(km, keys.PrevPage):
		if t.page > 0 {
			t.page--
			t.cursor = 0
		}
	case key.Matches(km, keys.NextPage):
		t.page++
		t.cursor = 0
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		t.cursor++
	default:
		col := digitToCol(km.String())
		if col >= 0 && col < len(t.columns) {
			if col == t.sortCol {
				t.sortDesc = !t.sortDesc
			} else {
				t.sortCol = col
				t.sortDesc = t.columns[col].SortDesc
			}
			t.page = 0
			t.cursor = 0
		}
	}
	return t, nil
}

// digitToCol converts a "1"–"9" key string to a 0-indexed column number.
// Returns -1 for any other string.
func digitToCol(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

// pageCount returns the total number of pages for totalRows rows at pageSize rows per page.
// Always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	c := totalRows / pageSize
	if totalRows%pageSize != 0 {
		c++
	}
	return c
}

// pageBounds returns the [start, end) row range visible on page.
func pageBounds(totalRows, page, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 0, totalRows
	}
	start := page * pageSize
	if start >= totalRows {
		start = 0
	}
	return start, min(start+pageSize, totalRows)
}

// clampPage keeps the page and cursor within bounds for totalRows rows.
func (t *tableModel) clampPage(totalRows int) {
	pc := pageCount(totalRows, t.pageSize)
	if t.page >= pc {
		t.page = pc - 1
	}
	if t.page < 0 {
		t.page = 0
	}
	start, end := pageBounds(totalRows, t.page, t.pageSize)
	rows := end - start
	if t.cursor >= rows {
		t.cursor = rows - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// selectedIndex returns the absolute index of the cursor row, or -1 when the
// table is empty.
func (t *tableModel) selectedIndex(totalRows int) int {
	if totalRows == 0 {
		return -1
	}
	start, _ := pageBounds(totalRows, t.page, t.pageSize)
	return start + t.cursor
}
