package suggest

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/quill/internal/editor"
)

// Range is a document range.
type Range struct {
	From int
	To   int
}

// Match describes trigger text found before the cursor.
type Match struct {
	From int
	To   int

	// Text is the matched text including the trigger.
	Text string

	// Query is the text after the trigger.
	Query string

	// IsStart is true when Text is exactly the trigger, i.e. the trigger
	// was just typed.
	IsStart bool
}

// Matcher inspects a cursor position and reports a match. Matchers must be
// pure: the same position always yields the same result.
type Matcher func(pos editor.ResolvedPos) (Match, bool)

// CharMatcher returns a matcher for a trigger string such as "@".
//
// Only the text node directly before the cursor is inspected. The last
// occurrence of the trigger in it starts the match, and the match fails if
// the text from there to the cursor contains a space.
func CharMatcher(trigger string) Matcher {
	return func(pos editor.ResolvedPos) (Match, bool) {
		node, ok := pos.NodeBefore()
		if !ok || !node.IsText() {
			return Match{}, false
		}

		current := node.Text
		idx := strings.LastIndex(current, trigger)
		if idx < 0 {
			return Match{}, false
		}

		text := current[idx:]
		if strings.Contains(text, " ") {
			return Match{}, false
		}

		from := pos.Pos - utf8.RuneCountInString(current) + utf8.RuneCountInString(current[:idx])
		return Match{
			From:    from,
			To:      pos.Pos,
			Text:    text,
			Query:   text[len(trigger):],
			IsStart: text == trigger,
		}, true
	}
}

func validTrigger(trigger string) bool {
	return trigger != "" && !strings.ContainsAny(trigger, " ")
}
