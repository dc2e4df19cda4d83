package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is hidden.
	LayoutCompactWidth = 80

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

const (
	// nearEndRows is how close to the last loaded row the selection must get
	// before the next page is requested.
	nearEndRows = 3

	// logTailLines is how much of the log file the Logs view keeps.
	logTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// toastDuration is how long a status message stays up.
	toastDuration = 3 * time.Second

	// actionTimeout bounds one-shot API calls started from the UI.
	actionTimeout = 90 * time.Second
)
