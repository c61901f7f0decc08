package parameter

// Layout & Margins
const (
	// TopMargin for the status bar
	TopMargin = 1

	// BottomMargin for the key help line
	BottomMargin = 1
)

// Status Bar
const (
	StateTextIntro  = " INTRO  "
	StateTextAlive  = " ALIVE  "
	StateTextDead   = "  DEAD  "
	StateTextSummit = " SUMMIT "

	AudioStr  = "♫ "
	RecordStr = "● REC "

	HelpText = "a/d move  w/s reel  space jump  f fire  i/j/k/l aim  ^S mute  v view  q quit"
)
