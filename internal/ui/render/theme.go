package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeaderBg      tcell.Color
	HeaderFg      tcell.Color
	HiddenFg      tcell.Color
	SelectionBg   tcell.Color
	SelectionFg   tcell.Color
	DirectoryFg   tcell.Color
	SymlinkFg     tcell.Color
	FileFg        tcell.Color
	CommandFg     tcell.Color
	MatchFg       tcell.Color
	DescriptionFg tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	WarnFg        tcell.Color
	ErrorFg       tcell.Color
	PaletteBg     tcell.Color
	PaletteFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		HeaderBg:      tcell.ColorDefault,
		HeaderFg:      tcell.ColorDefault,
		HiddenFg:      tcell.ColorLightSlateGray,
		SelectionBg:   tcell.Color33,
		SelectionFg:   tcell.ColorWhite,
		DirectoryFg:   tcell.Color33,
		SymlinkFg:     tcell.Color51,
		FileFg:        tcell.ColorDefault,
		CommandFg:     tcell.ColorDefault,
		MatchFg:       tcell.Color214, // amber, readable on both selection and default backgrounds
		DescriptionFg: tcell.ColorGray,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
		WarnFg:        tcell.ColorYellow,
		ErrorFg:       tcell.ColorRed,
		PaletteBg:     tcell.Color236,
		PaletteFg:     tcell.Color252,
	}
}
