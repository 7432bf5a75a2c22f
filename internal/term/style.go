package term

import "github.com/gdamore/tcell/v2"

// Styles are the styles used to draw the editor and popovers.
type Styles struct {
	Text      tcell.Style
	Selection tcell.Style

	// Suggest marks text covered by an active suggestion decoration.
	Suggest tcell.Style
	Atom    tcell.Style

	Popover   tcell.Style
	Highlight tcell.Style
	Group     tcell.Style
	Detail    tcell.Style
	Disabled  tcell.Style
	Empty     tcell.Style
	Error     tcell.Style

	Status tcell.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	pop := base.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	return Styles{
		Text:      base,
		Selection: base.Reverse(true),
		Suggest:   base.Underline(true).Foreground(tcell.ColorAqua),
		Atom:      base.Foreground(tcell.ColorBlue).Bold(true),
		Popover:   pop,
		Highlight: pop.Background(tcell.ColorSteelBlue).Bold(true),
		Group:     pop.Foreground(tcell.ColorSilver).Italic(true),
		Detail:    pop.Foreground(tcell.ColorSilver),
		Disabled:  pop.Foreground(tcell.ColorGray),
		Empty:     pop.Foreground(tcell.ColorSilver),
		Error:     pop.Foreground(tcell.ColorRed),
		Status:    base.Reverse(true),
	}
}
