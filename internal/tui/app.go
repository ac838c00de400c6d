package tui

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
	"github.com/dm/eams-go/internal/source"
)

type connState int

const (
	stateConnected connState = iota
	stateDisconnected
)

// App is the root Bubble Tea model for the eams dashboard.
type App struct {
	source   source.Source
	runner   *runner.Runner
	interval time.Duration

	// Refresh state
	fetching  bool // true while a fetchCmd goroutine is in-flight
	results   []runner.Result
	byID      map[string]runner.Result
	histories map[string]*model.HealthHistory
	fleet     FleetTableModel

	// Connection state
	connState        connState
	consecutiveFails int
	lastError        error
	lastUpdated      time.Time

	// Layout
	width, height int

	// UI state
	showHelp  bool
	showRecs  bool
	recScroll int
}

// NewApp creates an App that re-reads src every interval and assesses the
// readings with r.
func NewApp(src source.Source, r *runner.Runner, interval time.Duration) *App {
	return &App{
		source:    src,
		runner:    r,
		interval:  interval,
		byID:      make(map[string]runner.Result),
		histories: make(map[string]*model.HealthHistory),
		fleet:     NewFleetTable(),
		connState: stateDisconnected,
		fetching:  true, // Init() always issues an immediate fetchCmd
	}
}

// SeedHistory preloads the trend history of one equipment, typically from
// the assessment history store.
func (app *App) SeedHistory(equipmentID string, h *model.HealthHistory) {
	if h != nil {
		app.histories[equipmentID] = h
	}
}

// Init implements tea.Model. Starts the first refresh immediately on launch.
func (app *App) Init() tea.Cmd {
	return fetchCmd(app.source, app.runner, app.interval)
}

// Update implements tea.Model and is the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case ResultsMsg:
		app.fetching = false
		app.applyResults(msg)
		app.consecutiveFails = 0
		app.lastError = nil
		app.connState = stateConnected
		app.lastUpdated = msg.FetchedAt
		return app, tickCmd(app.interval)

	case FetchErrorMsg:
		app.fetching = false
		app.consecutiveFails++
		app.lastError = msg.Err
		app.connState = stateDisconnected
		return app, tickCmd(backoffDuration(app.consecutiveFails))

	case TickMsg:
		return app, app.refresh()

	case ContextMsg:
		if app.runner != nil {
			app.runner.SetContext(msg.Context)
		}
		return app, app.refresh()

	case tea.KeyMsg:
		return app, app.handleKey(msg)
	}

	return app, nil
}

func (app *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	// While typing a search term every key belongs to the input.
	if app.fleet.searching {
		var cmd tea.Cmd
		app.fleet, cmd = app.fleet.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Refresh):
		return app.refresh()
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
		return nil
	case key.Matches(msg, keys.Recommendations):
		app.showRecs = !app.showRecs
		app.recScroll = 0
		return nil
	}

	if app.showRecs {
		switch {
		case key.Matches(msg, keys.Escape):
			app.showRecs = false
		case key.Matches(msg, keys.Up):
			if app.recScroll > 0 {
				app.recScroll--
			}
		case key.Matches(msg, keys.Down):
			app.recScroll = min(app.recScroll+1, analyticsMaxOffset(app))
		}
		return nil
	}

	var cmd tea.Cmd
	app.fleet, cmd = app.fleet.Update(msg)
	return cmd
}

// refresh starts a fetch unless one is already in flight.
func (app *App) refresh() tea.Cmd {
	if app.fetching {
		return nil
	}
	app.fetching = true
	return fetchCmd(app.source, app.runner, app.interval)
}

// applyResults stores a run and extends each equipment's trend history.
// Readings whose timestamp has not advanced since the last point are not
// pushed again, so re-reading an unchanged file keeps the sparklines flat.
func (app *App) applyResults(msg ResultsMsg) {
	app.results = msg.Results
	app.byID = make(map[string]runner.Result, len(msg.Results))
	for _, r := range msg.Results {
		app.byID[r.Reading.EquipmentID] = r
		if !r.Valid() {
			continue
		}
		h, ok := app.histories[r.Reading.EquipmentID]
		if !ok {
			h = model.NewHealthHistory(0)
			app.histories[r.Reading.EquipmentID] = h
		}
		if last, ok := h.Latest(); ok && !r.AssessedAt.After(last.Timestamp) {
			continue
		}
		h.Push(model.HealthPoint{
			Timestamp:          r.AssessedAt,
			HealthScore:        r.Assessment.OverallHealthScore,
			MasterFaultIndex:   r.Assessment.MasterFaultIndex,
			RULHours:           r.Assessment.Reliability.RUL.Hours,
			FailureProbability: r.Assessment.FailureProbability.Probability,
		})
	}
	app.fleet.SetData(fleetRowsFrom(msg.Results))
}

// selected returns the result under the fleet table cursor.
func (app *App) selected() (runner.Result, bool) {
	r, ok := app.byID[app.fleet.Selected()]
	return r, ok
}

// selectedHistory returns the trend history of the selected equipment.
func (app *App) selectedHistory() *model.HealthHistory {
	if h, ok := app.histories[app.fleet.Selected()]; ok {
		return h
	}
	return model.NewHealthHistory(0)
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	parts := []string{renderHeader(app)}

	if app.showRecs {
		parts = append(parts, renderAnalytics(app))
	} else {
		for _, section := range []string{
			renderOverview(app),
			renderTrendsRow(app),
			renderModes(app),
			app.fleet.renderTable(app.width),
		} {
			if section != "" {
				parts = append(parts, section)
			}
		}
	}
	parts = append(parts, renderFooter(app))

	return strings.Join(parts, "\n")
}

// tickCmd schedules the next refresh after duration d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// fetchCmd loads readings from src and assesses them with r, returning a
// ResultsMsg or FetchErrorMsg.
func fetchCmd(src source.Source, r *runner.Runner, interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		timeout := interval - 500*time.Millisecond
		if timeout < 500*time.Millisecond {
			timeout = 500 * time.Millisecond
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		readings, err := src.Readings(ctx)
		if err != nil {
			return FetchErrorMsg{Err: err}
		}
		results, err := r.Run(ctx, readings)
		if err != nil {
			return FetchErrorMsg{Err: err}
		}
		return ResultsMsg{Results: results, FetchedAt: time.Now()}
	}
}

// backoffDuration returns min(2^fails * time.Second, 60*time.Second).
// At fails=1: 2s, fails=2: 4s, fails=3: 8s, ..., fails>=6: 60s.
func backoffDuration(fails int) time.Duration {
	const maxBackoff = 60 * time.Second
	if fails <= 0 {
		return time.Second
	}
	if fails >= 6 {
		return maxBackoff
	}
	return time.Duration(1<<fails) * time.Second
}

// sanitize strips control characters so equipment names from readings files
// cannot inject terminal escape sequences.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// renderedHeight returns the number of terminal lines s occupies; an empty
// string occupies none.
func renderedHeight(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}
