package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Card grid sizing.
const (
	// CardMinWidth is the narrowest a grid card is drawn.
	CardMinWidth = 32

	// CardHeight is the rendered height of a grid card including borders.
	CardHeight = 6
)

// chromeHeight is the header plus command bar.
const chromeHeight = 2
