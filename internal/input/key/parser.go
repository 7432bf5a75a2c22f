package key

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

var namedKeys = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"up":        KeyUp,
	"arrowup":   KeyUp,
	"down":      KeyDown,
	"arrowdown": KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

var namedModifiers = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
}

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "@", "#"
//   - Named keys: "Enter", "Escape", "Tab", "Up", "ArrowDown", "Space"
//   - With modifiers: "Ctrl+N", "Alt+Enter", "Ctrl+Shift+P"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")
	// "+" on its own or as the final key ("Ctrl++")
	if strings.HasSuffix(spec, "++") || spec == "+" {
		parts = append(parts[:len(parts)-2], "+")
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := namedModifiers[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Event{}, ErrInvalidSpec
		}
		mods = mods.With(mod)
	}

	ev, err := parseSingle(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return Event{}, err
	}
	ev.Modifiers = mods
	return ev, nil
}

func parseSingle(name string) (Event, error) {
	if name == "" {
		return Event{}, ErrInvalidSpec
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return NewRuneEvent(r, ModNone), nil
	}

	lower := strings.ToLower(name)
	if lower == "space" {
		return NewRuneEvent(' ', ModNone), nil
	}
	if k, ok := namedKeys[lower]; ok {
		return NewSpecialEvent(k, ModNone), nil
	}
	return Event{}, ErrInvalidSpec
}
