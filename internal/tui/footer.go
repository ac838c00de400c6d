package tui

// recsHelpText is the footer shown on the recommendations screen.
const recsHelpText = "↑↓: scroll  a/esc: back  r: refresh  q: quit"

// renderFooter renders the key hints at full terminal width. The
// recommendations screen always shows its own bindings; elsewhere the full
// list appears only while help is toggled on.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	var text string
	switch {
	case app.showRecs:
		text = recsHelpText
	case app.showHelp:
		text = helpText
	default:
		text = "? for help"
	}
	return StyleDim.Width(width).MaxWidth(width).Render(text)
}
