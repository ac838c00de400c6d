package tui

import (
	"time"

	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

// ResultsMsg delivers a completed assessment run to the TUI.
type ResultsMsg struct {
	Results   []runner.Result
	FetchedAt time.Time
}

// FetchErrorMsg signals that readings could not be loaded or assessed.
type FetchErrorMsg struct{ Err error }

// TickMsg triggers the next scheduled refresh.
type TickMsg time.Time

// ContextMsg carries an equipment context reloaded from the config file.
type ContextMsg struct{ Context model.EquipmentContext }
