package config

// Application constants
const (
	AppName = "COQ Board"

	// DefaultWorkbookSheet names the single sheet of a csv source
	DefaultWorkbookSheet = "Sheet1"

	// Quantile cut points for classifying yearly efficiency averages
	TimelineQ33 = 1.889647
	TimelineQ66 = 2.485925
)
