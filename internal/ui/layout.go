package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the map is hidden and
	// only the list is shown.
	LayoutCompactWidth = 80

	// LayoutWideWidth is the minimum width to show the locality column.
	LayoutWideWidth = 140
)

// LogTailLines is how many log lines the log view reads.
const LogTailLines = 500
