package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background tcell.Color // behind the image
	Foreground tcell.Color
	InfoBg     tcell.Color
	InfoFg     tcell.Color
	InfoDimFg  tcell.Color
	CommandFg  tcell.Color
	MessageFg  tcell.Color
	ErrorFg    tcell.Color
	HelpKeyFg  tcell.Color
	HelpTitle  tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background: tcell.ColorBlack,
		Foreground: tcell.ColorDefault,
		InfoBg:     tcell.Color236,
		InfoFg:     tcell.Color252,
		InfoDimFg:  tcell.ColorLightSlateGray,
		CommandFg:  tcell.ColorWhite,
		MessageFg:  tcell.Color44,
		ErrorFg:    tcell.ColorRed,
		HelpKeyFg:  tcell.Color33,
		HelpTitle:  tcell.ColorWhite,
	}
}
